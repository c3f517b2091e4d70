package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	dpi            = 72.0
	tickMarkLength = 5
	pixelsPerLabel = 120.0
	pixelsPerPower = 50.0

	legendSwatch  = 12
	legendPadding = 6
)

type legendEntry struct {
	Label string
	Color color.Color
}

type annotatorConfig struct {
	FontSize float64
	Borders  BorderConfig
}

type annotator struct {
	context  *freetype.Context
	config   annotatorConfig
	fontFace font.Face
}

func newAnnotator(config annotatorConfig) (*annotator, error) {
	parsedFont, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(dpi)
	ctx.SetFont(parsedFont)
	ctx.SetFontSize(config.FontSize)
	ctx.SetHinting(font.HintingFull)
	ctx.SetSrc(image.Black)

	return &annotator{
		context: ctx,
		config:  config,
		fontFace: truetype.NewFace(parsedFont, &truetype.Options{
			Size:    config.FontSize,
			DPI:     dpi,
			Hinting: font.HintingFull,
		}),
	}, nil
}

func (a *annotator) Close() error {
	if a.fontFace != nil {
		return a.fontFace.Close()
	}
	return nil
}

func (a *annotator) fontHeight() int {
	metrics := a.fontFace.Metrics()
	return (metrics.Ascent + metrics.Descent).Round()
}

func (a *annotator) textWidth(s string) int {
	return font.MeasureString(a.fontFace, s).Round()
}

func (a *annotator) drawString(s string, x, y int) error {
	_, err := a.context.DrawString(s, freetype.Pt(x, y))
	return err
}

func (a *annotator) annotate(img *image.RGBA, v viewport, title, info string) error {
	a.context.SetClip(img.Bounds())
	a.context.SetDst(img)

	ops := []struct {
		msg string
		fn  func(*image.RGBA, viewport) error
	}{
		{"drawing frequency scale", a.drawFrequencyScale},
		{"drawing power scale", a.drawPowerScale},
		{"drawing title", func(img *image.RGBA, v viewport) error { return a.drawTitle(img, title) }},
		{"drawing info bar", func(img *image.RGBA, v viewport) error { return a.drawInfoBar(img, info) }},
	}
	for _, op := range ops {
		if err := op.fn(img, v); err != nil {
			return fmt.Errorf("%s: %w", op.msg, err)
		}
	}

	return nil
}

func (a *annotator) drawFrequencyScale(img *image.RGBA, v viewport) error {
	step := calculateNiceStep(v.frequency.Span(), float64(v.area.Dx())/pixelsPerLabel)
	textY := v.area.Max.Y + tickMarkLength + a.fontHeight()

	for freq := math.Ceil(v.frequency.Min/step) * step; freq <= v.frequency.Max; freq += step {
		x := v.x(freq)

		drawVLine(img, v.area, x, gridColor)
		for y := v.area.Max.Y; y < v.area.Max.Y+tickMarkLength; y++ {
			img.Set(x, y, axisColor)
		}

		label := humanHz(freq)
		if err := a.drawString(label, x-a.textWidth(label)/2, textY); err != nil {
			return fmt.Errorf("drawing frequency label: %w", err)
		}
	}
	return nil
}

func (a *annotator) drawPowerScale(img *image.RGBA, v viewport) error {
	step := calculateNiceStep(v.power.Span(), float64(v.area.Dy())/pixelsPerPower)
	metrics := a.fontFace.Metrics()

	for power := math.Ceil(v.power.Min/step) * step; power <= v.power.Max; power += step {
		y := v.y(power)

		drawHLine(img, v.area, y, gridColor)
		for x := v.area.Min.X - tickMarkLength; x < v.area.Min.X; x++ {
			img.Set(x, y, axisColor)
		}

		label := fmt.Sprintf("%.0f dBm", power)
		textX := v.area.Min.X - tickMarkLength - 3 - a.textWidth(label)
		textY := y + a.fontHeight()/2 - metrics.Descent.Round()
		if err := a.drawString(label, textX, textY); err != nil {
			return fmt.Errorf("drawing power label: %w", err)
		}
	}
	return nil
}

func (a *annotator) drawTitle(img *image.RGBA, title string) error {
	x := (img.Bounds().Dx() - a.textWidth(title)) / 2
	y := (a.config.Borders.Top + a.fontHeight()) / 2
	return a.drawString(title, x, y)
}

func (a *annotator) drawInfoBar(img *image.RGBA, info string) error {
	metrics := a.fontFace.Metrics()
	y := img.Bounds().Max.Y - metrics.Descent.Round() - 4
	return a.drawString(info, a.config.Borders.Left, y)
}

// drawLegend draws the entries in a box at the top right corner of area.
func (a *annotator) drawLegend(img *image.RGBA, area image.Rectangle, entries []legendEntry) error {
	if len(entries) == 0 {
		return nil
	}

	lineHeight := max(a.fontHeight(), legendSwatch) + 2
	width := 0
	for _, e := range entries {
		width = max(width, a.textWidth(e.Label))
	}
	width += legendSwatch + 3*legendPadding

	box := image.Rect(
		area.Max.X-width-legendPadding,
		area.Min.Y+legendPadding,
		area.Max.X-legendPadding,
		area.Min.Y+legendPadding+len(entries)*lineHeight+legendPadding,
	)
	fillRect(img, box, backgroundColor)
	drawRect(img, box, referenceColor)

	metrics := a.fontFace.Metrics()
	for i, e := range entries {
		top := box.Min.Y + legendPadding + i*lineHeight
		swatch := image.Rect(box.Min.X+legendPadding, top, box.Min.X+legendPadding+legendSwatch, top+legendSwatch)
		fillRect(img, swatch, e.Color)

		textY := top + legendSwatch - metrics.Descent.Round()/2
		if err := a.drawString(e.Label, swatch.Max.X+legendPadding, textY); err != nil {
			return fmt.Errorf("drawing legend entry: %w", err)
		}
	}
	return nil
}

// calculateNiceStep returns a 1, 2 or 5 times power of ten step that splits span
// into about the desired number of intervals.
func calculateNiceStep(span, desired float64) float64 {
	if span <= 0 {
		return 1
	}

	rough := span / math.Max(desired, 1)
	magnitude := math.Pow(10, math.Floor(math.Log10(rough)))
	for _, m := range []float64{1, 2, 5, 10} {
		if step := m * magnitude; step >= rough {
			return step
		}
	}
	return 10 * magnitude
}

func humanHz(hz float64) string {
	value, prefix := humanize.ComputeSI(hz)
	return strings.TrimSpace(fmt.Sprintf("%0.2f %sHz", value, prefix))
}
