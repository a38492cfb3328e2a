package overlay

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
)

// drawLine draws a one pixel Bresenham line from (x1,y1) to (x2,y2)
// inclusive. Points outside the image are skipped.
func drawLine(img *image.NRGBA, x1, y1, x2, y2 int, c color.RGBA) {
	bounds := img.Bounds()
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx + dy

	for {
		if image.Pt(x1, y1).In(bounds) {
			img.Set(x1, y1, c)
		}
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			err += dx
			y1 += sy
		}
	}
}

// drawRect outlines [x1,x2) × [y1,y2).
func drawRect(img *image.NRGBA, x1, y1, x2, y2 int, c color.RGBA) {
	if x2 <= x1 || y2 <= y1 {
		return
	}
	drawLine(img, x1, y1, x2-1, y1, c)
	drawLine(img, x1, y2-1, x2-1, y2-1, c)
	drawLine(img, x1, y1, x1, y2-1, c)
	drawLine(img, x2-1, y1, x2-1, y2-1, c)
}

// ParseHexColor parses a hex color string like "#FF0000" or "#FF000080".
func ParseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
