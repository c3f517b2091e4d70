package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roman-kulish/satlink-analyzer/internal/analysis"
	"github.com/roman-kulish/satlink-analyzer/internal/spectrum"
)

func newTestStore(t *testing.T) *SqliteStore {
	t.Helper()

	s := NewSqliteStore(filepath.Join(t.TempDir(), "runs.db"))
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

// analyzedResult runs the analyzer on a flat -90 dBm trace with two tones.
func analyzedResult(t *testing.T, source string) *analysis.Result {
	t.Helper()

	samples := make([]spectrum.Sample, 801)
	for i := range samples {
		samples[i] = spectrum.Sample{Frequency: 380e6 + float64(i)*100e3, Power: -90}
	}
	for _, tone := range []struct {
		bin   int
		power float64
	}{{100, -30}, {550, -25}} {
		samples[tone.bin-1].Power = tone.power - 2
		samples[tone.bin].Power = tone.power
		samples[tone.bin+1].Power = tone.power - 2
	}

	trace, err := spectrum.NewTrace(samples)
	require.NoError(t, err)

	config := analysis.DefaultConfig()
	config.InterferenceSNR = 62

	a, err := analysis.New(config)
	require.NoError(t, err)

	r, err := a.RunSource(source, trace)
	require.NoError(t, err)
	require.Len(t, r.Features, 2)
	require.Len(t, r.Interference, 1)
	return r
}

func TestSqliteStore_SaveRun(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	want := analyzedResult(t, "capture.csv:11:29:31")
	require.NoError(t, s.SaveRun(ctx, want))

	got, err := s.Run(ctx, want.ID)
	require.NoError(t, err)

	assert.Equal(t, want.ID, got.ID)
	assert.WithinDuration(t, want.CreatedAt, got.CreatedAt, time.Microsecond)
	assert.Equal(t, want.Source, got.Source)
	assert.Equal(t, want.Config, got.Config)
	assert.Equal(t, want.Status, got.Status)
	assert.Equal(t, want.NoiseFloor, got.NoiseFloor)
	assert.Equal(t, want.Delay, got.Delay)
	assert.Equal(t, want.Features, got.Features)
	assert.Equal(t, want.Interference, got.Interference)
	assert.Equal(t, want.Attenuation, got.Attenuation)
	assert.Equal(t, want.Trace.Samples(), got.Trace.Samples())
}

func TestSqliteStore_SaveRun_Duplicate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	r := analyzedResult(t, "")
	require.NoError(t, s.SaveRun(ctx, r))
	assert.Error(t, s.SaveRun(ctx, r))

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestSqliteStore_SaveRun_NoSignals(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	trace, err := spectrum.NewTrace([]spectrum.Sample{
		{Frequency: 1, Power: -90},
		{Frequency: 2, Power: -91},
		{Frequency: 3, Power: -90},
	})
	require.NoError(t, err)

	a, err := analysis.New(analysis.DefaultConfig())
	require.NoError(t, err)
	want, err := a.Run(trace)
	require.NoError(t, err)
	require.NoError(t, s.SaveRun(ctx, want))

	got, err := s.Run(ctx, want.ID)
	require.NoError(t, err)
	assert.Equal(t, analysis.StatusNoSignals, got.Status)
	assert.Empty(t, got.Features)
	assert.NotNil(t, got.Interference)
	assert.Equal(t, 3, got.Trace.Len())
}

func TestSqliteStore_Run_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Run(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestSqliteStore_Runs(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)

	first := analyzedResult(t, "first.csv")
	second := analyzedResult(t, "second.csv")
	second.CreatedAt = first.CreatedAt.Add(time.Second)

	// saved out of order
	require.NoError(t, s.SaveRun(ctx, second))
	require.NoError(t, s.SaveRun(ctx, first))

	runs, err = s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, first.ID, runs[0].ID)
	assert.Equal(t, "first.csv", runs[0].Source)
	assert.Equal(t, string(analysis.StatusSignalsDetected), runs[0].Status)
	assert.Equal(t, 801, runs[0].Samples)
	assert.Equal(t, 2, runs[0].Signals)
	assert.Equal(t, 1, runs[0].Interference)
	assert.Equal(t, second.ID, runs[1].ID)
}

func TestSqliteStore_LargeTrace(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	samples := make([]spectrum.Sample, 3*maxRowsPerInsert+7)
	for i := range samples {
		samples[i] = spectrum.Sample{Frequency: float64(i + 1), Power: -80}
	}
	samples[700].Power = -10

	trace, err := spectrum.NewTrace(samples)
	require.NoError(t, err)

	a, err := analysis.New(analysis.DefaultConfig())
	require.NoError(t, err)
	r, err := a.Run(trace)
	require.NoError(t, err)

	require.NoError(t, s.SaveRun(ctx, r))

	got, err := s.Run(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, len(samples), got.Trace.Len())
	assert.Equal(t, -10.0, got.Trace.At(700).Power)
}

func TestSqliteStore_Close(t *testing.T) {
	s := NewSqliteStore(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, s.SaveRun(context.Background(), analyzedResult(t, "")))

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}
