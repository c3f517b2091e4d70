package spectrum

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidTrace is returned by NewTrace when samples are not ordered by strictly
// increasing frequency or carry non-finite values.
var ErrInvalidTrace = errors.New("invalid trace")

// Sample represents a single measurement at a specific frequency.
type Sample struct {
	Frequency float64 `json:"frequency"` // Frequency in Hz
	Power     float64 `json:"power"`     // Measured magnitude in dBm
}

// Trace is a discretized power spectrum: samples ordered by strictly increasing
// frequency, without duplicates. A Trace is immutable once constructed.
type Trace struct {
	samples []Sample
}

// NewTrace copies samples into a new Trace. An empty trace is valid here; the
// analysis pipeline is the one that refuses to work on it.
func NewTrace(samples []Sample) (*Trace, error) {
	s := make([]Sample, len(samples))
	copy(s, samples)

	for i, sample := range s {
		if math.IsNaN(sample.Frequency) || math.IsInf(sample.Frequency, 0) {
			return nil, fmt.Errorf("%w: sample %d: frequency is not finite", ErrInvalidTrace, i)
		}
		if math.IsNaN(sample.Power) || math.IsInf(sample.Power, 0) {
			return nil, fmt.Errorf("%w: sample %d: power is not finite", ErrInvalidTrace, i)
		}
		if i > 0 && sample.Frequency <= s[i-1].Frequency {
			return nil, fmt.Errorf("%w: sample %d: frequency %f does not follow %f",
				ErrInvalidTrace, i, sample.Frequency, s[i-1].Frequency)
		}
	}

	return &Trace{samples: s}, nil
}

// Len returns the number of samples. A nil trace has zero samples.
func (t *Trace) Len() int {
	if t == nil {
		return 0
	}
	return len(t.samples)
}

// At returns the i-th sample.
func (t *Trace) At(i int) Sample {
	return t.samples[i]
}

// Samples returns a copy of the trace samples.
func (t *Trace) Samples() []Sample {
	if t == nil {
		return nil
	}
	s := make([]Sample, len(t.samples))
	copy(s, t.samples)
	return s
}

// Powers returns a copy of the trace magnitudes in dBm.
func (t *Trace) Powers() []float64 {
	if t == nil {
		return nil
	}
	p := make([]float64, len(t.samples))
	for i, s := range t.samples {
		p[i] = s.Power
	}
	return p
}

// FrequencyStart returns the frequency of the first sample, 0 for an empty trace.
func (t *Trace) FrequencyStart() float64 {
	if t.Len() == 0 {
		return 0
	}
	return t.samples[0].Frequency
}

// FrequencyEnd returns the frequency of the last sample, 0 for an empty trace.
func (t *Trace) FrequencyEnd() float64 {
	if t.Len() == 0 {
		return 0
	}
	return t.samples[len(t.samples)-1].Frequency
}

// SignalFeature describes one detected signal. Frequencies are in Hz, powers in dBm.
type SignalFeature struct {
	Index           int     `json:"index"`           // 1-based, in detection order
	PeakIndex       int     `json:"peakIndex"`       // Index of the peak sample in the trace
	FrequencyLower  float64 `json:"frequencyLower"`  // Lower edge of the half-power band
	FrequencyCenter float64 `json:"frequencyCenter"` // Midpoint of the band edges
	FrequencyUpper  float64 `json:"frequencyUpper"`  // Upper edge of the half-power band
	Bandwidth       float64 `json:"bandwidth"`       // FrequencyUpper - FrequencyLower
	PeakPower       float64 `json:"peakPower"`       // Magnitude of the peak sample
	NoiseFloor      float64 `json:"noiseFloor"`      // Noise floor of the trace
	SNR             float64 `json:"snr"`             // PeakPower - NoiseFloor, dB
	ChannelPower    float64 `json:"channelPower"`    // Power integrated over the band
	Satellite       string  `json:"satellite"`       // Presumed emitter label
}

// InterferenceKind is the label carried by every InterferenceRecord.
const InterferenceKind = "Interference"

// InterferenceRecord flags a signal whose SNR is below the acceptability threshold.
type InterferenceRecord struct {
	Index           int     `json:"index"`
	Kind            string  `json:"kind"`
	FrequencyCenter float64 `json:"frequencyCenter"`
	SNR             float64 `json:"snr"`
}

// AttenuationEstimate is the coarse path loss of a signal relative to the assumed
// transmit power.
type AttenuationEstimate struct {
	Index           int     `json:"index"`
	FrequencyCenter float64 `json:"frequencyCenter"`
	Attenuation     float64 `json:"attenuation"` // dB
}
