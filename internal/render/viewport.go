package render

import (
	"image"
	"math"
	"sort"

	"github.com/roman-kulish/satlink-analyzer/internal/spectrum"
)

// localWidening is the fraction of a band's bandwidth shown on each side of it
// in the local view.
const localWidening = 0.5

// FrequencyRange is the frequency axis range in Hz.
type FrequencyRange struct {
	Min float64
	Max float64
}

// Span returns Max - Min.
func (r FrequencyRange) Span() float64 {
	return r.Max - r.Min
}

// FullRange returns the frequency range covered by the trace.
func FullRange(trace *spectrum.Trace) FrequencyRange {
	return FrequencyRange{Min: trace.FrequencyStart(), Max: trace.FrequencyEnd()}
}

// WidenedBand returns [lower - 0.5*bw, upper + 0.5*bw] of the feature, clamped
// to the trace range.
func WidenedBand(trace *spectrum.Trace, f spectrum.SignalFeature) FrequencyRange {
	delta := localWidening * f.Bandwidth
	return FrequencyRange{
		Min: math.Max(f.FrequencyLower-delta, trace.FrequencyStart()),
		Max: math.Min(f.FrequencyUpper+delta, trace.FrequencyEnd()),
	}
}

// LocalRange returns the union of the widened bands of all features. Without
// features it is the full trace range. A degenerate range is opened up by one
// sample spacing on each side.
func LocalRange(trace *spectrum.Trace, features []spectrum.SignalFeature) FrequencyRange {
	if len(features) == 0 {
		return FullRange(trace)
	}

	r := WidenedBand(trace, features[0])
	for _, f := range features[1:] {
		w := WidenedBand(trace, f)
		r.Min = math.Min(r.Min, w.Min)
		r.Max = math.Max(r.Max, w.Max)
	}

	if r.Span() <= 0 {
		step := 1.0
		if n := trace.Len(); n > 1 {
			step = (trace.FrequencyEnd() - trace.FrequencyStart()) / float64(n-1)
		}
		r.Min, r.Max = r.Min-step, r.Max+step
	}

	return r
}

// samplesIn returns the samples with frequency within [r.Min, r.Max].
func samplesIn(trace *spectrum.Trace, r FrequencyRange) []spectrum.Sample {
	samples := trace.Samples()
	lo := sort.Search(len(samples), func(i int) bool { return samples[i].Frequency >= r.Min })
	hi := sort.Search(len(samples), func(i int) bool { return samples[i].Frequency > r.Max })
	return samples[lo:hi]
}

// viewport maps frequency/power pairs onto the plot area.
type viewport struct {
	area      image.Rectangle
	frequency FrequencyRange
	power     PowerBounds
}

func (v viewport) x(freq float64) int {
	span := v.frequency.Span()
	if span <= 0 {
		return v.area.Min.X + v.area.Dx()/2
	}
	ratio := (freq - v.frequency.Min) / span
	return v.area.Min.X + int(math.Round(ratio*float64(v.area.Dx()-1)))
}

func (v viewport) y(power float64) int {
	ratio := (power - v.power.Min) / v.power.Span()
	return v.area.Max.Y - 1 - int(math.Round(ratio*float64(v.area.Dy()-1)))
}

func (v viewport) point(s spectrum.Sample) image.Point {
	return image.Point{X: v.x(s.Frequency), Y: v.y(s.Power)}
}

func (v viewport) points(samples []spectrum.Sample) []image.Point {
	pts := make([]image.Point, len(samples))
	for i, s := range samples {
		pts[i] = v.point(s)
	}
	return pts
}
