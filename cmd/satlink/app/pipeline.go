package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/roman-kulish/satlink-analyzer/internal/analysis"
	"github.com/roman-kulish/satlink-analyzer/internal/ingest"
	"github.com/roman-kulish/satlink-analyzer/internal/render"
	"github.com/roman-kulish/satlink-analyzer/internal/report"
	"github.com/roman-kulish/satlink-analyzer/internal/spectrum"
	"github.com/roman-kulish/satlink-analyzer/internal/storage"
)

// Input describes where a trace comes from.
type Input struct {
	Path   string
	Column string // capture column of an instrument file; empty selects the first
	Plain  bool   // two-column frequency/magnitude CSV instead of an instrument file
}

// Source returns the description recorded with the run.
func (in Input) Source() string {
	if in.Plain || in.Column == "" {
		return in.Path
	}
	return fmt.Sprintf("%s#%s", in.Path, in.Column)
}

// WithStore makes the pipeline persist every run.
func WithStore(store storage.Store) func(*Pipeline) {
	return func(p *Pipeline) {
		p.store = store
	}
}

// Pipeline loads traces, runs the analysis and persists results.
type Pipeline struct {
	analyzer *analysis.Analyzer
	store    storage.Store
	logger   *slog.Logger
}

// NewPipeline creates a pipeline with the given analysis configuration.
func NewPipeline(config analysis.Config, logger *slog.Logger, options ...func(*Pipeline)) (*Pipeline, error) {
	analyzer, err := analysis.New(config, analysis.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	p := Pipeline{
		analyzer: analyzer,
		logger:   logger,
	}
	for _, option := range options {
		option(&p)
	}

	return &p, nil
}

// Analyze reads the input trace, analyses it and stores the result when the
// pipeline has a store.
func (p *Pipeline) Analyze(ctx context.Context, in Input) (*analysis.Result, error) {
	trace, err := loadTrace(in)
	if err != nil {
		return nil, fmt.Errorf("loading trace: %w", err)
	}

	p.logger.Debug("trace loaded",
		slog.String("path", in.Path),
		slog.Int("samples", trace.Len()),
		slog.Float64("minFreq", trace.FrequencyStart()),
		slog.Float64("maxFreq", trace.FrequencyEnd()))

	result, err := p.analyzer.RunSource(in.Source(), trace)
	if err != nil {
		return nil, fmt.Errorf("analyzing trace: %w", err)
	}

	if p.store != nil {
		if err = p.store.SaveRun(ctx, result); err != nil {
			return nil, fmt.Errorf("storing run: %w", err)
		}
		p.logger.Info("run stored", slog.String("run", result.ID))
	}

	return result, nil
}

func loadTrace(in Input) (*spectrum.Trace, error) {
	if in.Plain {
		f, err := os.Open(in.Path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		return ingest.ReadPlain(f)
	}

	doc, err := ingest.Open(in.Path)
	if err != nil {
		return nil, err
	}
	return doc.Trace(in.Column)
}

// openStore opens the run database, creating its directory if needed.
func openStore(config StorageConfig) (*storage.SqliteStore, error) {
	path := config.DatabasePath()
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating storage directory '%s': %w", dir, err)
		}
	}
	return storage.NewSqliteStore(path), nil
}

// plotResult renders the result into the image file at path. The image format
// follows the file extension, falling back to the configured format.
func plotResult(result *analysis.Result, config RenderConfig, view, path string, logger *slog.Logger) error {
	if view == "" {
		view = config.View
	}
	v, err := render.ParseView(view)
	if err != nil {
		return err
	}

	fallback, err := render.ParseFormat(config.Format)
	if err != nil {
		return err
	}
	format, err := render.FormatFromPath(path, fallback)
	if err != nil {
		return err
	}

	renderer, err := render.NewRenderer(render.Config{
		Width:  config.Width,
		Height: config.Height,
		View:   v,
	})
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	logger.Info("rendering spectrum",
		slog.Group("image",
			slog.String("destination", path),
			slog.String("format", string(format)),
			slog.String("view", string(v)),
			slog.Int("width", renderer.Config().Width),
			slog.Int("height", renderer.Config().Height),
		))

	img, err := renderer.Render(result)
	if err != nil {
		return fmt.Errorf("rendering spectrum: %w", err)
	}
	return render.WriteFile(path, img, format)
}

func exportXLSX(result *analysis.Result, path string, logger *slog.Logger) error {
	if err := report.SaveXLSX(path, result); err != nil {
		return err
	}
	logger.Info("workbook exported", slog.String("destination", path))
	return nil
}
