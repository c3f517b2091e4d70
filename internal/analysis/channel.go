package analysis

import "github.com/roman-kulish/satlink-analyzer/internal/spectrum"

// EstimateAttenuation returns txPower - PeakPower for every feature. The value is
// not adjusted for distance.
func EstimateAttenuation(features []spectrum.SignalFeature, txPower float64) []spectrum.AttenuationEstimate {
	estimates := make([]spectrum.AttenuationEstimate, 0, len(features))
	for _, f := range features {
		estimates = append(estimates, spectrum.AttenuationEstimate{
			Index:           f.Index,
			FrequencyCenter: f.FrequencyCenter,
			Attenuation:     txPower - f.PeakPower,
		})
	}
	return estimates
}

// PropagationDelay returns the one-way delay in seconds over an assumed distance.
// It does not depend on any measured data.
func PropagationDelay(distance, speedOfLight float64) float64 {
	return distance / speedOfLight
}
