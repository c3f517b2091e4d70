package render

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	hueStart = 220.0
	// golden angle, keeps neighbouring bands apart on the hue wheel
	hueStep = 137.508
)

var (
	backgroundColor   = color.White
	axisColor         = color.Black
	gridColor         = colorful.Color{R: 0.92, G: 0.92, B: 0.92}
	referenceColor    = colorful.Color{R: 0.827, G: 0.827, B: 0.827} // light gray
	spectrumColor     = colorful.Color{R: 0.122, G: 0.467, B: 0.706}
	interferenceColor = colorful.Hsv(0, 1, 0.9)
)

// bandColor returns the colour of the i-th detected signal.
func bandColor(i int) color.Color {
	hue := math.Mod(hueStart+float64(i)*hueStep, 360)
	return colorful.Hsv(hue, 0.85, 0.8)
}
