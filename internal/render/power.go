package render

import (
	"math"

	"github.com/roman-kulish/satlink-analyzer/internal/spectrum"
)

const (
	defaultMinPower = -120.0 // dBm
	defaultMaxPower = -20.0  // dBm

	// flat traces still get a readable power axis
	minimumPowerSpan = 10.0 // dB

	powerMargin = 0.1 // fraction of the span added above and below
)

// PowerBounds is the power axis range in dBm.
type PowerBounds struct {
	Min float64
	Max float64
}

func defaultPowerBounds() PowerBounds {
	return PowerBounds{Min: defaultMinPower, Max: defaultMaxPower}
}

// Span returns Max - Min.
func (b PowerBounds) Span() float64 {
	return b.Max - b.Min
}

// PowerBoundsOf returns the min/max power of samples widened to at least
// minimumPowerSpan and padded by a 10% margin on both sides.
func PowerBoundsOf(samples []spectrum.Sample) PowerBounds {
	if len(samples) == 0 {
		return defaultPowerBounds()
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range samples {
		lo = math.Min(lo, s.Power)
		hi = math.Max(hi, s.Power)
	}

	if hi-lo < minimumPowerSpan {
		center := (hi + lo) / 2
		lo = center - minimumPowerSpan/2
		hi = center + minimumPowerSpan/2
	}

	margin := (hi - lo) * powerMargin
	return PowerBounds{Min: lo - margin, Max: hi + margin}
}
