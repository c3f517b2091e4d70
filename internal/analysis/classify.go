package analysis

import (
	"slices"
	"strings"
)

// Classifier attributes signals to satellites by frequency range membership.
type Classifier struct {
	ranges []FrequencyRange
}

// NewClassifier creates a Classifier over the given ranges. Labels are joined in
// the order the ranges are given.
func NewClassifier(ranges []FrequencyRange) *Classifier {
	return &Classifier{ranges: slices.Clone(ranges)}
}

// Classify returns the name of the single range containing freq, the names of all
// containing ranges joined with " & " when there are several, or UnknownLabel.
func (c *Classifier) Classify(freq float64) string {
	var names []string
	for _, r := range c.ranges {
		if r.Contains(freq) {
			names = append(names, r.Name)
		}
	}
	if len(names) == 0 {
		return UnknownLabel
	}
	return strings.Join(names, labelSeparator)
}
