package analysis

import "github.com/roman-kulish/satlink-analyzer/internal/spectrum"

// Band is the occupied band around a peak.
type Band struct {
	LowerIndex int
	UpperIndex int
	Lower      float64 // Hz
	Upper      float64 // Hz
}

// Bandwidth returns Upper - Lower.
func (b Band) Bandwidth() float64 {
	return b.Upper - b.Lower
}

// Center returns the midpoint of the band edges.
func (b Band) Center() float64 {
	return (b.Lower + b.Upper) / 2
}

// DelineateBand expands a peak into the band where the magnitude stays above
// peak.Power - thresholdDb. Each edge is the first sample, walking outwards from
// the peak, that is at or below the threshold; the walk stops at the trace
// boundaries, leaving an open edge there.
//
// Bands of adjacent peaks are computed independently and may overlap.
func DelineateBand(trace *spectrum.Trace, peak Peak, thresholdDb float64) Band {
	threshold := peak.Power - thresholdDb

	lo := peak.Index
	for lo > 0 && trace.At(lo).Power > threshold {
		lo--
	}

	hi := peak.Index
	for hi < trace.Len()-1 && trace.At(hi).Power > threshold {
		hi++
	}

	return Band{
		LowerIndex: lo,
		UpperIndex: hi,
		Lower:      trace.At(lo).Frequency,
		Upper:      trace.At(hi).Frequency,
	}
}
