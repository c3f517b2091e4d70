package analysis

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roman-kulish/satlink-analyzer/internal/spectrum"
)

func mustTrace(t *testing.T, freqs, powers []float64) *spectrum.Trace {
	t.Helper()
	require.Len(t, powers, len(freqs))

	samples := make([]spectrum.Sample, len(freqs))
	for i := range freqs {
		samples[i] = spectrum.Sample{Frequency: freqs[i], Power: powers[i]}
	}
	trace, err := spectrum.NewTrace(samples)
	require.NoError(t, err)
	return trace
}

type tone struct {
	bin   int     // center bin
	power float64 // peak power, dBm
	width float64 // shape width in bins
}

// syntheticTrace builds a noisy trace of n samples with a parabolic (in dB)
// bump per tone. Noise is uniform in [noise-1, noise+1].
func syntheticTrace(t *testing.T, seed int64, n int, start, step, noise float64, tones ...tone) *spectrum.Trace {
	t.Helper()

	rng := rand.New(rand.NewSource(seed))
	freqs := make([]float64, n)
	powers := make([]float64, n)
	for i := 0; i < n; i++ {
		freqs[i] = start + float64(i)*step
		powers[i] = noise + (rng.Float64()*2 - 1)
		for _, tn := range tones {
			d := float64(i-tn.bin) / tn.width
			powers[i] = math.Max(powers[i], tn.power-6*d*d)
		}
	}
	return mustTrace(t, freqs, powers)
}
