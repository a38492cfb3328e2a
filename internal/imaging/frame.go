package imaging

import (
	"fmt"
	"image"
	"image/color"
)

// BytesPerPixel is the stride of one packed RGB pixel.
const BytesPerPixel = 3

// Frame is one packed RGB capture.
//
// Pixels are stored row-major with no padding: the pixel at (x, y) starts at
// Pix[(y*Width+x)*3] and is followed by its green and blue components.
// A Frame is filled once per iteration by the frame source and is read-only
// to the pipeline.
type Frame struct {
	Width  int
	Height int
	Pix    []byte
}

// NewFrame allocates a black frame of the given size.
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*BytesPerPixel),
	}
}

// At returns the RGB components at (x, y). No bounds checking is performed.
func (f *Frame) At(x, y int) (r, g, b uint8) {
	i := (y*f.Width + x) * BytesPerPixel
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}

// Set writes the RGB components at (x, y). No bounds checking is performed.
func (f *Frame) Set(x, y int, r, g, b uint8) {
	i := (y*f.Width + x) * BytesPerPixel
	f.Pix[i], f.Pix[i+1], f.Pix[i+2] = r, g, b
}

// Fill paints the rectangle [x1,x2) × [y1,y2), clipped to the frame.
func (f *Frame) Fill(x1, y1, x2, y2 int, r, g, b uint8) {
	x1, y1 = max(x1, 0), max(y1, 0)
	x2, y2 = min(x2, f.Width), min(y2, f.Height)
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			f.Set(x, y, r, g, b)
		}
	}
}

// Validate checks that the pixel buffer matches the declared dimensions.
func (f *Frame) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("invalid frame dimensions %dx%d", f.Width, f.Height)
	}
	if want := f.Width * f.Height * BytesPerPixel; len(f.Pix) != want {
		return fmt.Errorf("frame buffer holds %d bytes, want %d for %dx%d", len(f.Pix), want, f.Width, f.Height)
	}
	return nil
}

// Image returns an *image.RGBA copy of the frame for rendering.
func (f *Frame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for i, j := 0, 0; i < len(f.Pix); i, j = i+BytesPerPixel, j+4 {
		img.Pix[j] = f.Pix[i]
		img.Pix[j+1] = f.Pix[i+1]
		img.Pix[j+2] = f.Pix[i+2]
		img.Pix[j+3] = 0xFF
	}
	return img
}

// FrameFromImage copies an in-memory image into a packed RGB frame.
// Alpha is discarded.
func FrameFromImage(img image.Image) *Frame {
	bounds := img.Bounds()
	f := NewFrame(bounds.Dx(), bounds.Dy())
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			c := color.RGBAModel.Convert(img.At(x+bounds.Min.X, y+bounds.Min.Y)).(color.RGBA)
			f.Set(x, y, c.R, c.G, c.B)
		}
	}
	return f
}

// FrameStats summarises the channel values of a frame.
//
// Brightest and Darkest look at the red channel only, which is the channel the
// classifier cares about. Average is the per-channel mean over all pixels.
type FrameStats struct {
	Brightest uint8    `json:"brightest"`
	Darkest   uint8    `json:"darkest"`
	Average   RGBColor `json:"average"`
}

// Stats computes FrameStats in a single pass.
func (f *Frame) Stats() FrameStats {
	n := f.Width * f.Height
	if n == 0 {
		return FrameStats{}
	}

	stats := FrameStats{Darkest: 0xFF}
	var sumR, sumG, sumB int
	for i := 0; i < len(f.Pix); i += BytesPerPixel {
		r := f.Pix[i]
		if r > stats.Brightest {
			stats.Brightest = r
		}
		if r < stats.Darkest {
			stats.Darkest = r
		}
		sumR += int(r)
		sumG += int(f.Pix[i+1])
		sumB += int(f.Pix[i+2])
	}
	stats.Average = RGBColor{
		R: uint8(sumR / n),
		G: uint8(sumG / n),
		B: uint8(sumB / n),
	}
	return stats
}
