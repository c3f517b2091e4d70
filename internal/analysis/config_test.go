package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Validate())

	assert.Equal(t, 20.0, c.NoisePercentile)
	assert.Equal(t, 60.0, c.PeakHeightOffset)
	assert.Equal(t, 3.0, c.BandThreshold)
	assert.Equal(t, 10.0, c.InterferenceSNR)
	assert.Equal(t, 0.0, c.TxPower)
	assert.Equal(t, 600_000.0, c.Distance)
	assert.Equal(t, 3e8, c.SpeedOfLight)
	assert.Len(t, c.Satellites, 2)
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero percentile", func(c *Config) { c.NoisePercentile = 0 }, "noisePercentile"},
		{"percentile above 100", func(c *Config) { c.NoisePercentile = 101 }, "noisePercentile"},
		{"NaN percentile", func(c *Config) { c.NoisePercentile = math.NaN() }, "noisePercentile"},
		{"negative peak offset", func(c *Config) { c.PeakHeightOffset = -1 }, "peakHeightOffsetDb"},
		{"zero band threshold", func(c *Config) { c.BandThreshold = 0 }, "bandThresholdDb"},
		{"negative interference threshold", func(c *Config) { c.InterferenceSNR = -10 }, "interferenceSnrDb"},
		{"infinite tx power", func(c *Config) { c.TxPower = math.Inf(1) }, "txPowerDbm"},
		{"zero distance", func(c *Config) { c.Distance = 0 }, "distanceM"},
		{"zero speed of light", func(c *Config) { c.SpeedOfLight = 0 }, "speedOfLight"},
		{"no satellites", func(c *Config) { c.Satellites = nil }, "satellites"},
		{"unnamed range", func(c *Config) { c.Satellites[0].Name = " " }, "satellites"},
		{"reserved name", func(c *Config) { c.Satellites[0].Name = UnknownLabel }, "satellites"},
		{"duplicate names", func(c *Config) { c.Satellites[1].Name = c.Satellites[0].Name }, "satellites"},
		{"inverted range", func(c *Config) { c.Satellites[0].Min, c.Satellites[0].Max = 450e6, 400e6 }, "satellites"},
		{"NaN bound", func(c *Config) { c.Satellites[1].Max = math.NaN() }, "satellites"},
		{"negative bound", func(c *Config) { c.Satellites[1].Min = -1 }, "satellites"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := DefaultConfig()
			tc.mutate(&c)

			err := c.Validate()
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tc.field, cfgErr.Field)
		})
	}
}

func TestConfig_ZeroPeakOffsetIsValid(t *testing.T) {
	c := DefaultConfig()
	c.PeakHeightOffset = 0
	assert.NoError(t, c.Validate())
}

func TestFrequencyRange_Contains(t *testing.T) {
	r := FrequencyRange{Name: "A", Min: 10, Max: 20}
	assert.True(t, r.Contains(10))
	assert.True(t, r.Contains(20))
	assert.False(t, r.Contains(9.999))
	assert.False(t, r.Contains(20.001))
}
