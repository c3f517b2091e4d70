package app

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roman-kulish/satlink-analyzer/internal/analysis"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
	assert.Equal(t, analysis.DefaultConfig(), config.Analysis)
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "satlink.yaml", `
settings:
  logLevel: debug
analysis:
  noisePercentile: 10
  peakHeightOffsetDb: 40
  interferenceSnrDb: 15
  distanceM: 1200000
  satellites:
    - name: UHF
      minHz: 400e6
      maxHz: 470e6
storage:
  dataDirectory: /var/lib/satlink
render:
  width: 1600
  view: local
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	level, err := config.Settings.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	assert.Equal(t, 10.0, config.Analysis.NoisePercentile)
	assert.Equal(t, 40.0, config.Analysis.PeakHeightOffset)
	assert.Equal(t, 15.0, config.Analysis.InterferenceSNR)
	assert.Equal(t, 1.2e6, config.Analysis.Distance)
	assert.Equal(t, analysis.DefaultBandThreshold, config.Analysis.BandThreshold)
	assert.Equal(t, []analysis.FrequencyRange{{Name: "UHF", Min: 400e6, Max: 470e6}}, config.Analysis.Satellites)

	assert.Equal(t, filepath.Join("/var/lib/satlink", defaultDatabase), config.Storage.DatabasePath())
	assert.Equal(t, 1600, config.Render.Width)
	assert.Equal(t, "local", config.Render.View)
	assert.Equal(t, "png", config.Render.Format)
}

func TestLoadConfig_Empty(t *testing.T) {
	config, err := LoadConfig(writeFile(t, "empty.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestLoadConfig_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"unknown key", "analysis:\n  noiseFloor: 3\n"},
		{"invalid analysis", "analysis:\n  bandThresholdDb: 0\n"},
		{"invalid log level", "settings:\n  logLevel: loud\n"},
		{"invalid view", "render:\n  view: waterfall\n"},
		{"invalid format", "render:\n  format: gif\n"},
		{"empty database", "storage:\n  database: \"\"\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, "satlink.yaml", tc.content))
			assert.Error(t, err)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_AnalysisError(t *testing.T) {
	_, err := LoadConfig(writeFile(t, "satlink.yaml", "analysis:\n  distanceM: -1\n"))

	var configErr *analysis.ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, "distanceM", configErr.Field)
}

func TestStorageConfig_DatabasePath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "runs.db"), StorageConfig{DataDirectory: "data", Database: "runs.db"}.DatabasePath())
	assert.Equal(t, "/tmp/runs.db", StorageConfig{DataDirectory: "data", Database: "/tmp/runs.db"}.DatabasePath())
	assert.Equal(t, "runs.db", StorageConfig{Database: "runs.db"}.DatabasePath())
}
