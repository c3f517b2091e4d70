package analysis

import "github.com/roman-kulish/satlink-analyzer/internal/spectrum"

// Peak is a candidate signal: a strict local maximum above the acceptance height.
type Peak struct {
	Index     int     // Sample index in the trace
	Frequency float64 // Hz
	Power     float64 // dBm
}

// MinPeakHeight returns the acceptance height for peaks: noiseFloor + offset.
func MinPeakHeight(noiseFloor, offset float64) float64 {
	return noiseFloor + offset
}

// DetectPeaks returns every sample strictly greater than both of its immediate
// neighbours whose magnitude is at least noiseFloor + offset, in ascending
// frequency order. Boundary samples are never peaks.
//
// No minimum separation or prominence is enforced, so a broad signal with a
// noisy top can yield several peaks.
func DetectPeaks(trace *spectrum.Trace, noiseFloor, offset float64) []Peak {
	minHeight := MinPeakHeight(noiseFloor, offset)

	var peaks []Peak
	for i := 1; i < trace.Len()-1; i++ {
		s := trace.At(i)
		if s.Power < minHeight {
			continue
		}
		if s.Power > trace.At(i-1).Power && s.Power > trace.At(i+1).Power {
			peaks = append(peaks, Peak{Index: i, Frequency: s.Frequency, Power: s.Power})
		}
	}
	return peaks
}
