package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/roman-kulish/satlink-analyzer/internal/spectrum"
)

// DBmToMilliwatts converts a power level in dBm to linear milliwatts.
func DBmToMilliwatts(dBm float64) float64 {
	return math.Pow(10, dBm/10)
}

// MilliwattsToDBm converts linear milliwatts to dBm.
func MilliwattsToDBm(mW float64) float64 {
	return 10 * math.Log10(mW)
}

// ChannelPower integrates the power of every sample whose frequency lies within
// [lower, upper], bounds included:
//
//	P = 10*log10( sum 10^(dBm_i/10) )
//
// It fails with ErrNonPositivePower when the range holds no sample or the linear
// sum underflows to zero.
func ChannelPower(trace *spectrum.Trace, lower, upper float64) (float64, error) {
	n := trace.Len()
	start := sort.Search(n, func(i int) bool { return trace.At(i).Frequency >= lower })

	linear := make([]float64, 0, 16)
	for i := start; i < n && trace.At(i).Frequency <= upper; i++ {
		linear = append(linear, DBmToMilliwatts(trace.At(i).Power))
	}

	sum := floats.Sum(linear)
	if !(sum > 0) || math.IsInf(sum, 0) {
		return 0, fmt.Errorf("%w: %d samples in [%f, %f] sum to %g mW",
			ErrNonPositivePower, len(linear), lower, upper, sum)
	}
	return MilliwattsToDBm(sum), nil
}

// ExtractFeature derives the signal metrics of one peak and its band. index is
// the 1-based detection order.
func ExtractFeature(trace *spectrum.Trace, index int, peak Peak, band Band, noiseFloor float64) (spectrum.SignalFeature, error) {
	power, err := ChannelPower(trace, band.Lower, band.Upper)
	if err != nil {
		return spectrum.SignalFeature{}, fmt.Errorf("signal %d: %w", index, err)
	}

	// the band always holds the peak sample; the dBm/mW round trip may land
	// an ulp below it
	power = math.Max(power, peak.Power)

	return spectrum.SignalFeature{
		Index:           index,
		PeakIndex:       peak.Index,
		FrequencyLower:  band.Lower,
		FrequencyCenter: band.Center(),
		FrequencyUpper:  band.Upper,
		Bandwidth:       band.Bandwidth(),
		PeakPower:       peak.Power,
		NoiseFloor:      noiseFloor,
		SNR:             peak.Power - noiseFloor,
		ChannelPower:    power,
	}, nil
}
