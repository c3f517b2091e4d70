package analysis

import (
	"math"
	"strings"
)

const (
	DefaultNoisePercentile  = 20.0    // percent
	DefaultPeakHeightOffset = 60.0    // dB above the noise floor
	DefaultBandThreshold    = 3.0     // dB below the peak (half power)
	DefaultInterferenceSNR  = 10.0    // dB
	DefaultTxPower          = 0.0     // dBm
	DefaultDistance         = 600_000 // m, typical low earth orbit
	SpeedOfLight            = 3e8     // m/s

	// UnknownLabel is assigned to signals outside every configured range.
	UnknownLabel = "Unknown"

	labelSeparator = " & "
)

// FrequencyRange is a named, inclusive frequency interval used to attribute
// signals to an emitting satellite.
type FrequencyRange struct {
	Name string  `yaml:"name" json:"name"`
	Min  float64 `yaml:"minHz" json:"minHz"`
	Max  float64 `yaml:"maxHz" json:"maxHz"`
}

// Contains reports whether freq lies within the range, bounds included.
func (r FrequencyRange) Contains(freq float64) bool {
	return freq >= r.Min && freq <= r.Max
}

// Config holds every tunable parameter of the pipeline.
type Config struct {
	NoisePercentile  float64          `yaml:"noisePercentile" json:"noisePercentile"`
	PeakHeightOffset float64          `yaml:"peakHeightOffsetDb" json:"peakHeightOffsetDb"`
	BandThreshold    float64          `yaml:"bandThresholdDb" json:"bandThresholdDb"`
	InterferenceSNR  float64          `yaml:"interferenceSnrDb" json:"interferenceSnrDb"`
	TxPower          float64          `yaml:"txPowerDbm" json:"txPowerDbm"`
	Distance         float64          `yaml:"distanceM" json:"distanceM"`
	SpeedOfLight     float64          `yaml:"speedOfLight" json:"speedOfLight"`
	Satellites       []FrequencyRange `yaml:"satellites" json:"satellites"`
}

// DefaultSatellites returns the two reference ranges: a primary 400-450 MHz
// range and a secondary 430-440 MHz range nested inside it.
func DefaultSatellites() []FrequencyRange {
	return []FrequencyRange{
		{Name: "EM MISC", Min: 400e6, Max: 450e6},
		{Name: "EM FACSAT", Min: 430e6, Max: 440e6},
	}
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return Config{
		NoisePercentile:  DefaultNoisePercentile,
		PeakHeightOffset: DefaultPeakHeightOffset,
		BandThreshold:    DefaultBandThreshold,
		InterferenceSNR:  DefaultInterferenceSNR,
		TxPower:          DefaultTxPower,
		Distance:         DefaultDistance,
		SpeedOfLight:     SpeedOfLight,
		Satellites:       DefaultSatellites(),
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate checks the configuration and returns a *ConfigError describing the
// first problem found.
func (c *Config) Validate() error {
	if !finite(c.NoisePercentile) || c.NoisePercentile <= 0 || c.NoisePercentile > 100 {
		return newConfigError("noisePercentile", "must be in (0, 100]: %v given", c.NoisePercentile)
	}
	if !finite(c.PeakHeightOffset) || c.PeakHeightOffset < 0 {
		return newConfigError("peakHeightOffsetDb", "must not be negative: %v given", c.PeakHeightOffset)
	}
	if !finite(c.BandThreshold) || c.BandThreshold <= 0 {
		return newConfigError("bandThresholdDb", "must be positive: %v given", c.BandThreshold)
	}
	if !finite(c.InterferenceSNR) || c.InterferenceSNR <= 0 {
		return newConfigError("interferenceSnrDb", "must be positive: %v given", c.InterferenceSNR)
	}
	if !finite(c.TxPower) {
		return newConfigError("txPowerDbm", "must be finite: %v given", c.TxPower)
	}
	if !finite(c.Distance) || c.Distance <= 0 {
		return newConfigError("distanceM", "must be positive: %v given", c.Distance)
	}
	if !finite(c.SpeedOfLight) || c.SpeedOfLight <= 0 {
		return newConfigError("speedOfLight", "must be positive: %v given", c.SpeedOfLight)
	}
	if len(c.Satellites) == 0 {
		return newConfigError("satellites", "at least one frequency range is required")
	}

	names := make(map[string]struct{}, len(c.Satellites))
	for i, r := range c.Satellites {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			return newConfigError("satellites", "range %d: name is required", i)
		}
		if name == UnknownLabel {
			return newConfigError("satellites", "range %d: name %q is reserved", i, name)
		}
		if _, ok := names[name]; ok {
			return newConfigError("satellites", "range %d: duplicate name %q", i, name)
		}
		names[name] = struct{}{}

		if !finite(r.Min) || !finite(r.Max) {
			return newConfigError("satellites", "range %q: bounds must be finite", name)
		}
		if r.Min < 0 {
			return newConfigError("satellites", "range %q: min frequency must not be negative: %v", name, r.Min)
		}
		if r.Min > r.Max {
			return newConfigError("satellites", "range %q: min frequency %v is greater than max frequency %v", name, r.Min, r.Max)
		}
	}

	return nil
}
