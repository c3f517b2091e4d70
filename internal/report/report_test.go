package report

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/roman-kulish/satlink-analyzer/internal/analysis"
	"github.com/roman-kulish/satlink-analyzer/internal/spectrum"
)

func testResult(t *testing.T, interference bool) *analysis.Result {
	t.Helper()

	trace, err := spectrum.NewTrace([]spectrum.Sample{
		{Frequency: 434.9e6, Power: -90},
		{Frequency: 435e6, Power: -30},
		{Frequency: 435.1e6, Power: -90},
	})
	require.NoError(t, err)

	r := &analysis.Result{
		ID:         "0b6f3c1e-7c55-4b0a-a1a8-6a0f5f0f8a10",
		CreatedAt:  time.Date(2024, 9, 27, 23, 29, 31, 0, time.UTC),
		Source:     "capture.csv",
		Config:     analysis.DefaultConfig(),
		Trace:      trace,
		NoiseFloor: -90,
		Status:     analysis.StatusSignalsDetected,
		Features: []spectrum.SignalFeature{{
			Index:           1,
			PeakIndex:       1,
			FrequencyLower:  435e6,
			FrequencyCenter: 435e6,
			FrequencyUpper:  435e6,
			PeakPower:       -30,
			NoiseFloor:      -90,
			SNR:             60,
			ChannelPower:    -30,
			Satellite:       "EM MISC & EM FACSAT",
		}},
		Interference: []spectrum.InterferenceRecord{},
		Attenuation:  []spectrum.AttenuationEstimate{{Index: 1, FrequencyCenter: 435e6, Attenuation: 30}},
		Delay:        0.002,
	}
	if interference {
		r.Interference = []spectrum.InterferenceRecord{{
			Index:           1,
			Kind:            spectrum.InterferenceKind,
			FrequencyCenter: 435e6,
			SNR:             60,
		}}
	}
	return r
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, testResult(t, false)))

	out := buf.String()
	assert.Contains(t, out, "0b6f3c1e-7c55-4b0a-a1a8-6a0f5f0f8a10")
	assert.Contains(t, out, "capture.csv")
	assert.Contains(t, out, "-90.00 dBm")
	assert.Contains(t, out, "435 MHz")
	assert.Contains(t, out, "EM MISC & EM FACSAT")
	assert.Contains(t, out, NoInterference)
	assert.Contains(t, out, "30.00")
	assert.Contains(t, out, "Propagation delay: 2.00 ms")
}

func TestWriteTable_Interference(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, testResult(t, true)))

	out := buf.String()
	assert.NotContains(t, out, NoInterference)
	assert.Contains(t, out, spectrum.InterferenceKind)
}

func TestWriteTable_NoSignals(t *testing.T) {
	r := testResult(t, false)
	r.Status = analysis.StatusNoSignals
	r.Features = []spectrum.SignalFeature{}
	r.Attenuation = []spectrum.AttenuationEstimate{}

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, r))

	out := buf.String()
	assert.Contains(t, out, "No signals detected.")
	assert.Contains(t, out, NoInterference)
	assert.Contains(t, out, "Propagation delay: 2.00 ms")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, testResult(t, false)))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "signals-detected", doc["status"])
	assert.Equal(t, 0.002, doc["delay"])
	assert.Equal(t, []any{}, doc["interference"])
	assert.NotContains(t, doc, "trace")

	features := doc["features"].([]any)
	require.Len(t, features, 1)
	assert.Equal(t, "EM MISC & EM FACSAT", features[0].(map[string]any)["satellite"])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, testResult(t, true)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSignals, SheetInterference, SheetChannel}, f.GetSheetList())

	rows, err := f.GetRows(SheetSignals)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Signal", rows[0][0])
	assert.Equal(t, "EM MISC & EM FACSAT", rows[1][9])

	rows, err = f.GetRows(SheetInterference)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, spectrum.InterferenceKind, rows[1][1])

	delay, err := f.GetCellValue(SheetChannel, "A4")
	require.NoError(t, err)
	assert.Equal(t, "Propagation delay [ms]", delay)

	value, err := f.GetCellValue(SheetChannel, "B4")
	require.NoError(t, err)
	ms, err := strconv.ParseFloat(value, 64)
	require.NoError(t, err)
	assert.InDelta(t, 2, ms, 1e-9)
}

func TestSaveXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signals.xlsx")
	require.NoError(t, SaveXLSX(path, testResult(t, false)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetInterference)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.True(t, strings.HasPrefix(rows[0][2], "Center"))
}
