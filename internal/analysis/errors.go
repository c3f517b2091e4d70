package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTrace is returned when the trace has no samples, so neither the
	// percentile nor the median behind the noise floor is defined.
	ErrEmptyTrace = errors.New("empty trace")

	// ErrNonPositivePower is returned when the linear power integrated over a band
	// is not strictly positive and cannot be converted back to dBm.
	ErrNonPositivePower = errors.New("integrated channel power is not positive")
)

// ConfigError is returned for malformed analysis configuration, before any
// computation starts.
type ConfigError struct {
	Field string
	Msg   string
}

func newConfigError(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("analysis.Config: %s: %s", e.Field, e.Msg)
}
