package render

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"strings"

	"github.com/roman-kulish/satlink-analyzer/internal/analysis"
	"github.com/roman-kulish/satlink-analyzer/internal/spectrum"
)

const (
	defaultWidth    = 1200
	defaultHeight   = 600
	defaultFontSize = 12.0

	// Default border sizes in pixels
	defaultTopBorder    = 40
	defaultLeftBorder   = 80
	defaultBottomBorder = 60
	defaultRightBorder  = 40

	traceThickness = 1
	bandThickness  = 2
)

// ErrEmptyResult is returned when the result has no trace to draw.
var ErrEmptyResult = errors.New("result has no trace")

// View selects what the plot shows.
type View string

const (
	// ViewGlobal shows the whole trace with each detected band highlighted.
	ViewGlobal View = "global"
	// ViewLocal zooms in on the detected bands.
	ViewLocal View = "local"
	// ViewInterference shows the whole trace with interference markers.
	ViewInterference View = "interference"
)

// ParseView parses a view name, case-insensitively. An empty name is ViewGlobal.
func ParseView(s string) (View, error) {
	switch v := View(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return ViewGlobal, nil
	case ViewGlobal, ViewLocal, ViewInterference:
		return v, nil
	default:
		return "", fmt.Errorf("unknown view %q", s)
	}
}

// BorderConfig defines the sizes of white space around the plot area
type BorderConfig struct {
	Top    int // Space for the title
	Left   int // Space for the power scale
	Bottom int // Space for the frequency scale and information bar
	Right  int // Right padding
}

// Config holds all configuration options for spectrum plots. Zero values take
// defaults.
type Config struct {
	Width    int     // Image width in pixels, borders included
	Height   int     // Image height in pixels, borders included
	View     View    // What to plot
	FontSize float64 // Font size in points

	BorderConfig BorderConfig
}

// Renderer draws analysis results as spectrum plots.
type Renderer struct {
	config Config
}

// NewRenderer creates a new renderer with the given configuration
func NewRenderer(config Config) (*Renderer, error) {
	// Set defaults for zero values
	if config.Width == 0 {
		config.Width = defaultWidth
	}
	if config.Height == 0 {
		config.Height = defaultHeight
	}
	if config.View == "" {
		config.View = ViewGlobal
	}
	if config.FontSize == 0 {
		config.FontSize = defaultFontSize
	}
	if config.BorderConfig.Top == 0 {
		config.BorderConfig.Top = defaultTopBorder
	}
	if config.BorderConfig.Left == 0 {
		config.BorderConfig.Left = defaultLeftBorder
	}
	if config.BorderConfig.Bottom == 0 {
		config.BorderConfig.Bottom = defaultBottomBorder
	}
	if config.BorderConfig.Right == 0 {
		config.BorderConfig.Right = defaultRightBorder
	}

	if _, err := ParseView(string(config.View)); err != nil {
		return nil, err
	}
	if config.FontSize < 0 {
		return nil, fmt.Errorf("font size must be positive, got %f", config.FontSize)
	}

	b := config.BorderConfig
	if config.Width-b.Left-b.Right < 2 || config.Height-b.Top-b.Bottom < 2 {
		return nil, fmt.Errorf("image %dx%d leaves no room for the plot area", config.Width, config.Height)
	}

	return &Renderer{config: config}, nil
}

// Config returns the effective configuration.
func (r *Renderer) Config() Config {
	return r.config
}

func (r *Renderer) plotArea() image.Rectangle {
	b := r.config.BorderConfig
	return image.Rect(b.Left, b.Top, r.config.Width-b.Right, r.config.Height-b.Bottom)
}

// Render draws the result in the configured view.
func (r *Renderer) Render(result *analysis.Result) (*image.RGBA, error) {
	if result == nil || result.Trace.Len() == 0 {
		return nil, ErrEmptyResult
	}
	trace := result.Trace

	freqRange := FullRange(trace)
	if r.config.View == ViewLocal {
		freqRange = LocalRange(trace, result.Features)
	}

	v := viewport{
		area:      r.plotArea(),
		frequency: freqRange,
		power:     PowerBoundsOf(samplesIn(trace, freqRange)),
	}

	img := image.NewRGBA(image.Rect(0, 0, r.config.Width, r.config.Height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	ann, err := newAnnotator(annotatorConfig{
		FontSize: r.config.FontSize,
		Borders:  r.config.BorderConfig,
	})
	if err != nil {
		return nil, fmt.Errorf("creating annotator: %w", err)
	}
	defer ann.Close()

	// grid and scales go under the data
	if err = ann.annotate(img, v, r.title(), info(result, v)); err != nil {
		return nil, fmt.Errorf("drawing annotations: %w", err)
	}

	var legend []legendEntry
	switch r.config.View {
	case ViewLocal:
		legend = r.renderLocal(img, v, result)
	case ViewInterference:
		legend = r.renderInterference(img, v, result)
	default:
		legend = r.renderGlobal(img, v, result)
	}

	drawRect(img, v.area.Inset(-1), axisColor)

	if err = ann.drawLegend(img, v.area, legend); err != nil {
		return nil, fmt.Errorf("drawing legend: %w", err)
	}

	return img, nil
}

func (r *Renderer) title() string {
	switch r.config.View {
	case ViewLocal:
		return "Detected signals (local view)"
	case ViewInterference:
		return "Interference in the spectrum"
	default:
		return "Detected signals"
	}
}

func signalLabel(f spectrum.SignalFeature) string {
	return fmt.Sprintf("Signal %d (%s)", f.Index, f.Satellite)
}

func (r *Renderer) renderGlobal(img *image.RGBA, v viewport, result *analysis.Result) []legendEntry {
	legend := []legendEntry{{Label: "Full spectrum", Color: referenceColor}}
	drawPolyline(img, v.area, v.points(result.Trace.Samples()), traceThickness, referenceColor)

	for i, f := range result.Features {
		c := bandColor(i)
		band := samplesIn(result.Trace, FrequencyRange{Min: f.FrequencyLower, Max: f.FrequencyUpper})
		drawPolyline(img, v.area, v.points(band), bandThickness, c)
		drawMarker(img, v.area, v.point(spectrum.Sample{Frequency: f.FrequencyCenter, Power: f.PeakPower}), c)

		legend = append(legend, legendEntry{Label: signalLabel(f), Color: c})
	}
	return legend
}

func (r *Renderer) renderLocal(img *image.RGBA, v viewport, result *analysis.Result) []legendEntry {
	if len(result.Features) == 0 {
		drawPolyline(img, v.area, v.points(result.Trace.Samples()), traceThickness, referenceColor)
		return nil
	}

	legend := make([]legendEntry, 0, len(result.Features))
	for i, f := range result.Features {
		c := bandColor(i)
		band := samplesIn(result.Trace, WidenedBand(result.Trace, f))
		drawPolyline(img, v.area, v.points(band), bandThickness, c)
		drawMarker(img, v.area, v.point(spectrum.Sample{Frequency: f.FrequencyCenter, Power: f.PeakPower}), c)

		legend = append(legend, legendEntry{Label: signalLabel(f), Color: c})
	}
	return legend
}

func (r *Renderer) renderInterference(img *image.RGBA, v viewport, result *analysis.Result) []legendEntry {
	legend := []legendEntry{{Label: "Frequency spectrum", Color: spectrumColor}}
	drawPolyline(img, v.area, v.points(result.Trace.Samples()), traceThickness, spectrumColor)

	for _, rec := range result.Interference {
		drawDashedVLine(img, v.area, v.x(rec.FrequencyCenter), interferenceColor)
		legend = append(legend, legendEntry{
			Label: fmt.Sprintf("Interference at %.2f MHz", rec.FrequencyCenter/1e6),
			Color: interferenceColor,
		})
	}
	return legend
}

func info(result *analysis.Result, v viewport) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Band: %s to %s", humanHz(v.frequency.Min), humanHz(v.frequency.Max))
	fmt.Fprintf(&sb, "; Noise floor: %.1f dBm", result.NoiseFloor)
	fmt.Fprintf(&sb, "; Signals: %d", len(result.Features))
	fmt.Fprintf(&sb, "; Interference: %d", len(result.Interference))
	fmt.Fprintf(&sb, "; 1px = %s", humanHz(v.frequency.Span()/float64(v.area.Dx())))

	return sb.String()
}
