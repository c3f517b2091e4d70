package render

import (
	"image"
	"image/color"
	"image/png"
	"os"
)

func toGray(c color.Color) color.Color {
	return color.Gray16Model.Convert(c)
}

func readPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return png.Decode(f)
}
