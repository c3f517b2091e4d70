package analysis

import "github.com/roman-kulish/satlink-analyzer/internal/spectrum"

// DetectInterference returns a record for every feature with SNR strictly below
// threshold, preserving the feature order. An empty result means there is no
// significant interference.
func DetectInterference(features []spectrum.SignalFeature, threshold float64) []spectrum.InterferenceRecord {
	records := make([]spectrum.InterferenceRecord, 0)
	for _, f := range features {
		if f.SNR < threshold {
			records = append(records, spectrum.InterferenceRecord{
				Index:           f.Index,
				Kind:            spectrum.InterferenceKind,
				FrequencyCenter: f.FrequencyCenter,
				SNR:             f.SNR,
			})
		}
	}
	return records
}
