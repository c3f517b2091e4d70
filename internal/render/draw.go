package render

import (
	"image"
	"image/color"
)

const (
	dashLength = 6
	gapLength  = 4
	markerSize = 3
)

func setClipped(img *image.RGBA, clip image.Rectangle, x, y int, c color.Color) {
	if (image.Point{X: x, Y: y}).In(clip) {
		img.Set(x, y, c)
	}
}

// drawLine draws a line from p0 to p1 (Bresenham), thickness pixels wide.
func drawLine(img *image.RGBA, clip image.Rectangle, p0, p1 image.Point, thickness int, c color.Color) {
	dx := abs(p1.X - p0.X)
	dy := -abs(p1.Y - p0.Y)
	sx, sy := 1, 1
	if p0.X > p1.X {
		sx = -1
	}
	if p0.Y > p1.Y {
		sy = -1
	}

	x, y := p0.X, p0.Y
	e := dx + dy
	for {
		for tx := 0; tx < thickness; tx++ {
			for ty := 0; ty < thickness; ty++ {
				setClipped(img, clip, x+tx-thickness/2, y+ty-thickness/2, c)
			}
		}

		if x == p1.X && y == p1.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

func drawPolyline(img *image.RGBA, clip image.Rectangle, points []image.Point, thickness int, c color.Color) {
	if len(points) == 1 {
		drawLine(img, clip, points[0], points[0], thickness, c)
		return
	}
	for i := 1; i < len(points); i++ {
		drawLine(img, clip, points[i-1], points[i], thickness, c)
	}
}

func drawDashedVLine(img *image.RGBA, clip image.Rectangle, x int, c color.Color) {
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		if (y-clip.Min.Y)%(dashLength+gapLength) < dashLength {
			setClipped(img, clip, x, y, c)
			setClipped(img, clip, x+1, y, c)
		}
	}
}

func drawHLine(img *image.RGBA, clip image.Rectangle, y int, c color.Color) {
	for x := clip.Min.X; x < clip.Max.X; x++ {
		setClipped(img, clip, x, y, c)
	}
}

func drawVLine(img *image.RGBA, clip image.Rectangle, x int, c color.Color) {
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		setClipped(img, clip, x, y, c)
	}
}

// drawMarker draws a filled disc centred on p.
func drawMarker(img *image.RGBA, clip image.Rectangle, p image.Point, c color.Color) {
	for dy := -markerSize; dy <= markerSize; dy++ {
		for dx := -markerSize; dx <= markerSize; dx++ {
			if dx*dx+dy*dy <= markerSize*markerSize {
				setClipped(img, clip, p.X+dx, p.Y+dy, c)
			}
		}
	}
}

func drawRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	bounds := img.Bounds()
	for x := r.Min.X; x < r.Max.X; x++ {
		setClipped(img, bounds, x, r.Min.Y, c)
		setClipped(img, bounds, x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		setClipped(img, bounds, r.Min.X, y, c)
		setClipped(img, bounds, r.Max.X-1, y, c)
	}
}

func fillRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
