package analysis

import (
	"fmt"
	"math"
	"slices"

	"github.com/roman-kulish/satlink-analyzer/internal/spectrum"
)

// Percentile returns the p-th percentile (0 <= p <= 100) of values, linearly
// interpolating between the two closest ranks:
//
//	rank = p/100 * (n-1)
//	q    = x[floor(rank)] + (x[ceil(rank)] - x[floor(rank)]) * frac(rank)
//
// where x is values sorted in ascending order. values is not modified.
func Percentile(values []float64, p float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptyTrace
	}
	if p < 0 || p > 100 || math.IsNaN(p) {
		return 0, fmt.Errorf("percentile out of range: %v", p)
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo], nil
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(rank-float64(lo)), nil
}

// Median returns the middle value of values, or the mean of the two middle
// values for an even count.
func Median(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptyTrace
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2], nil
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2, nil
}

// NoiseFloor estimates the noise baseline of the trace: the median of every
// magnitude at or below the given percentile. Strong peaks sit above the
// percentile cutoff and do not pull the estimate up.
func NoiseFloor(trace *spectrum.Trace, percentile float64) (float64, error) {
	if trace.Len() == 0 {
		return 0, ErrEmptyTrace
	}

	powers := trace.Powers()
	cutoff, err := Percentile(powers, percentile)
	if err != nil {
		return 0, fmt.Errorf("computing percentile: %w", err)
	}

	// the minimum is always at or below any percentile, the subset is never empty
	quiet := make([]float64, 0, len(powers))
	for _, p := range powers {
		if p <= cutoff {
			quiet = append(quiet, p)
		}
	}

	return Median(quiet)
}
