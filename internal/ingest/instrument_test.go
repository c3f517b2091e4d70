package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const instrumentFile = "Instrument;FSH8\r\n" +
	"Center Frequency;435000000\r\n" +
	"Span;  100000\r\n" +
	"\r\n" +
	"Measurement;Trace Mode;Detector\r\n" +
	"Spectrum;Clear/Write;RMS\r\n" +
	"\r\n" +
	"Trace;11:29:31 p. m. 27/09/2024;11:29:31 p. m. 27/09/2024;11:29:32 p.  m. 27/09/2024\r\n" +
	"Unit;dBm;dBm;dBm\r\n" +
	"Frequency [Hz];Magnitude [dBm];Magnitude [dBm];Magnitude [dBm]\r\n" +
	"434950000,0;-101,5;-100,0;-99,0\r\n" +
	"434975000,0;-98,25;-97,0;-96,0\r\n" +
	"435000000,0;-35,5;-36,0;-80,0\r\n" +
	"435025000,0;-99,0;;-98,0\r\n" +
	"435050000,0;-102,0;-101,0;-100,0\r\n"

func TestNormalizeColumn(t *testing.T) {
	assert.Equal(t, "11:29:31 p. m. 27/09/2024.2", NormalizeColumn("  11:29:31  P. M.\t27/09/2024.2 "))
	assert.Equal(t, "frequency [hz]", NormalizeColumn("Frequency [Hz]"))
}

func TestParseNumber(t *testing.T) {
	v, err := ParseNumber(" -101,5 ")
	require.NoError(t, err)
	assert.Equal(t, -101.5, v)

	v, err = ParseNumber("435000000.0")
	require.NoError(t, err)
	assert.Equal(t, 435e6, v)

	_, err = ParseNumber("n/a")
	assert.Error(t, err)
}

func TestReadInstrument(t *testing.T) {
	doc, err := ReadInstrument(strings.NewReader(instrumentFile))
	require.NoError(t, err)

	require.Len(t, doc.Settings, 3)
	assert.Equal(t, Setting{Key: "Instrument", Value: "FSH8"}, doc.Settings[0])
	v, ok := doc.Setting("center  frequency")
	assert.True(t, ok)
	assert.Equal(t, "435000000", v)

	require.Len(t, doc.Header, 2)
	assert.Equal(t, []string{"Measurement", "Trace Mode", "Detector"}, doc.Header[0])

	assert.Equal(t, []string{
		"11:29:31 p. m. 27/09/2024",
		"11:29:31 p. m. 27/09/2024.1",
		"11:29:32 p.  m. 27/09/2024",
	}, doc.Columns())
}

func TestDocument_Trace(t *testing.T) {
	doc, err := ReadInstrument(strings.NewReader(instrumentFile))
	require.NoError(t, err)

	t.Run("first capture by default", func(t *testing.T) {
		trace, err := doc.Trace("")
		require.NoError(t, err)
		require.Equal(t, 5, trace.Len())
		assert.Equal(t, 434950000.0, trace.At(0).Frequency)
		assert.Equal(t, -101.5, trace.At(0).Power)
		assert.Equal(t, -98.25, trace.At(1).Power)
		assert.Equal(t, -35.5, trace.At(2).Power)
	})

	t.Run("duplicate column by suffix", func(t *testing.T) {
		trace, err := doc.Trace("11:29:31 P. M. 27/09/2024.1")
		require.NoError(t, err)

		// the empty cell is skipped
		require.Equal(t, 4, trace.Len())
		assert.Equal(t, -36.0, trace.At(2).Power)
		assert.Equal(t, 435050000.0, trace.At(3).Frequency)
	})

	t.Run("whitespace is normalized", func(t *testing.T) {
		trace, err := doc.Trace("11:29:32 p. m. 27/09/2024")
		require.NoError(t, err)
		assert.Equal(t, -80.0, trace.At(2).Power)
	})

	t.Run("unknown column", func(t *testing.T) {
		_, err := doc.Trace("12:00:00")
		assert.ErrorIs(t, err, ErrColumnNotFound)
	})
}

func TestReadInstrument_Malformed(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"single section", "Trace;a\nUnit;dBm\nFrequency [Hz];Magnitude [dBm]\n1;2\n"},
		{"short trace section", "a;b\n\nc;d\n\nTrace;x\n"},
		{"no magnitude column", "a;b\n\nc;d\n\nTrace\nUnit\nFrequency [Hz]\n1\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadInstrument(strings.NewReader(tc.content))
			assert.ErrorIs(t, err, ErrMalformedFile)
		})
	}
}

func TestDocument_Trace_Captions(t *testing.T) {
	content := "a;b\n\nc;d\n\nTrace;x\nUnit;dBm\nFrequency [Hz];Power [W]\n1;2\n"
	doc, err := ReadInstrument(strings.NewReader(content))
	require.NoError(t, err)

	_, err = doc.Trace("")
	assert.ErrorIs(t, err, ErrMalformedFile)
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.csv")
	require.NoError(t, os.WriteFile(path, []byte(instrumentFile), 0o600))

	doc, err := Open(path)
	require.NoError(t, err)
	assert.Len(t, doc.Columns(), 3)

	_, err = Open(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
