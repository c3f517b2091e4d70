package analysis

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/roman-kulish/satlink-analyzer/internal/spectrum"
)

// Status summarizes the outcome of a successful run.
type Status string

const (
	StatusSignalsDetected Status = "signals-detected"
	StatusNoSignals       Status = "no-signals"
)

// Result is the complete, immutable outcome of one pipeline run. Callers must not
// modify it; a new run produces a new Result.
type Result struct {
	ID           string                         `json:"id"`
	CreatedAt    time.Time                      `json:"createdAt"`
	Source       string                         `json:"source,omitempty"`
	Config       Config                         `json:"config"`
	Trace        *spectrum.Trace                `json:"-"`
	NoiseFloor   float64                        `json:"noiseFloor"` // dBm
	Status       Status                         `json:"status"`
	Features     []spectrum.SignalFeature       `json:"features"`
	Interference []spectrum.InterferenceRecord  `json:"interference"`
	Attenuation  []spectrum.AttenuationEstimate `json:"attenuation"`
	Delay        float64                        `json:"delay"` // seconds
}

// HasInterference reports whether any signal was flagged as interference.
func (r *Result) HasInterference() bool {
	return len(r.Interference) > 0
}

// WithLogger sets the logger used for run summaries.
func WithLogger(logger *slog.Logger) func(*Analyzer) {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// Analyzer runs the feature extraction and channel estimation pipeline:
//
//	trace -> noise floor -> peaks -> bands -> features -> (classification, interference, channel)
//
// It holds only configuration and is safe for concurrent use.
type Analyzer struct {
	config     Config
	classifier *Classifier
	logger     *slog.Logger
}

// New validates config and creates an Analyzer with a discard logger.
func New(config Config, options ...func(*Analyzer)) (*Analyzer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config.Satellites = slices.Clone(config.Satellites)

	a := Analyzer{
		config:     config,
		classifier: NewClassifier(config.Satellites),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, option := range options {
		option(&a)
	}

	return &a, nil
}

// Config returns a copy of the analyzer configuration.
func (a *Analyzer) Config() Config {
	c := a.config
	c.Satellites = slices.Clone(a.config.Satellites)
	return c
}

// Run analyses the trace. It either returns a fully built Result or an error,
// never a partial Result. A trace without peaks is not an error: the Result has
// StatusNoSignals and empty collections.
func (a *Analyzer) Run(trace *spectrum.Trace) (*Result, error) {
	return a.RunSource("", trace)
}

// RunSource is Run with a description of where the trace came from (file and
// column, for instance), recorded in the Result.
func (a *Analyzer) RunSource(source string, trace *spectrum.Trace) (*Result, error) {
	noiseFloor, err := NoiseFloor(trace, a.config.NoisePercentile)
	if err != nil {
		return nil, fmt.Errorf("estimating noise floor: %w", err)
	}

	peaks := DetectPeaks(trace, noiseFloor, a.config.PeakHeightOffset)
	a.logger.Debug("peak detection",
		slog.Float64("noiseFloor", noiseFloor),
		slog.Float64("minHeight", MinPeakHeight(noiseFloor, a.config.PeakHeightOffset)),
		slog.Int("peaks", len(peaks)))

	features := make([]spectrum.SignalFeature, 0, len(peaks))
	for i, peak := range peaks {
		band := DelineateBand(trace, peak, a.config.BandThreshold)

		feature, err := ExtractFeature(trace, i+1, peak, band, noiseFloor)
		if err != nil {
			return nil, fmt.Errorf("extracting features: %w", err)
		}
		feature.Satellite = a.classifier.Classify(feature.FrequencyCenter)

		features = append(features, feature)
	}

	status := StatusSignalsDetected
	if len(features) == 0 {
		status = StatusNoSignals
	}

	r := &Result{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
		Source:       source,
		Config:       a.Config(),
		Trace:        trace,
		NoiseFloor:   noiseFloor,
		Status:       status,
		Features:     features,
		Interference: DetectInterference(features, a.config.InterferenceSNR),
		Attenuation:  EstimateAttenuation(features, a.config.TxPower),
		Delay:        PropagationDelay(a.config.Distance, a.config.SpeedOfLight),
	}

	a.logger.Info("analysis finished",
		slog.String("run", r.ID),
		slog.String("status", string(r.Status)),
		slog.Int("samples", trace.Len()),
		slog.Float64("noiseFloor", r.NoiseFloor),
		slog.Int("signals", len(r.Features)),
		slog.Int("interference", len(r.Interference)))

	return r, nil
}
