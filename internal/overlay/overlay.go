package overlay

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sync"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/redeye-tracker/internal/tracker"
)

// ErrNoFrame is returned by Snapshot before the first frame was presented.
var ErrNoFrame = errors.New("no frame presented yet")

// Overlay is a display sink that composes each frame with a marker scaled
// to the target's apparent distance.
//
// In normal mode the output is the camera frame with the marker centred on
// the Indicator, or the bare frame when there is no target. In debug mode
// the frame is desaturated, the classification mask is laid over it, every
// candidate square is outlined and a crosshair marks the aim point.
//
// The most recent composition is kept for Snapshot. Overlay is safe for
// concurrent use.
type Overlay struct {
	// Marker is drawn over the target. Its size is multiplied by
	// Indicator.Distance/100.
	Marker image.Image

	// Color is used for candidate outlines and the crosshair.
	Color color.RGBA

	// MaskOpacity is the opacity of the classification mask in debug mode.
	MaskOpacity float64

	mu   sync.Mutex
	last *image.NRGBA
}

// New returns an overlay with the given marker, or DefaultMarker if nil.
func New(marker image.Image) *Overlay {
	if marker == nil {
		marker = DefaultMarker(100)
	}
	return &Overlay{
		Marker:      marker,
		Color:       color.RGBA{255, 0, 0, 255},
		MaskOpacity: 0.5,
	}
}

// Present implements tracker.Sink.
func (o *Overlay) Present(ctx context.Context, v tracker.View) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	out := o.Compose(v)

	o.mu.Lock()
	o.last = out
	o.mu.Unlock()
	return nil
}

// Compose renders a view without storing it.
func (o *Overlay) Compose(v tracker.View) *image.NRGBA {
	frame := v.Frame.Image()

	var out *image.NRGBA
	if v.Debug {
		out = o.composeDebug(frame, v)
	} else {
		out = imaging.Clone(frame)
	}

	if v.Result.Found {
		out = o.placeMarker(out, v.Result.Indicator.X, v.Result.Indicator.Y, v.Result.Indicator.Distance)
	}
	return out
}

// composeDebug draws the diagnostic view: grey frame, mask, candidate
// squares and crosshair.
func (o *Overlay) composeDebug(frame *image.RGBA, v tracker.View) *image.NRGBA {
	bounds := frame.Bounds()
	out := imaging.Clone(effect.Grayscale(frame))

	if v.Mask != nil {
		mask := imaging.Resize(v.Mask, bounds.Dx(), bounds.Dy(), imaging.NearestNeighbor)
		out = imaging.Overlay(out, mask, image.Pt(0, 0), o.MaskOpacity)
	}

	k := max(v.Scale, 1)
	for _, c := range v.Result.Candidates {
		drawRect(out, c.X*k, c.Y*k, (c.X+c.Size)*k, (c.Y+c.Size)*k, o.Color)
	}

	if v.Result.Found {
		ind := v.Result.Indicator
		drawLine(out, 0, ind.Y, bounds.Dx()-1, ind.Y, o.Color)
		drawLine(out, ind.X, 0, ind.X, bounds.Dy()-1, o.Color)
	}
	return out
}

// placeMarker scales the marker by distance/100 and centres it on (x, y).
// A marker that scales to nothing is skipped.
func (o *Overlay) placeMarker(dst *image.NRGBA, x, y, distance int) *image.NRGBA {
	if o.Marker == nil {
		return dst
	}
	mb := o.Marker.Bounds()
	scale := float64(distance) / 100
	w := int(float64(mb.Dx()) * scale)
	h := int(float64(mb.Dy()) * scale)
	if w <= 0 || h <= 0 {
		return dst
	}

	marker := imaging.Resize(o.Marker, w, h, imaging.NearestNeighbor)
	return imaging.Overlay(dst, marker, image.Pt(x-w/2, y-h/2), 1.0)
}

// SnapshotResult contains the last composed frame encoded as base64 PNG.
type SnapshotResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Snapshot encodes the most recent composition.
func (o *Overlay) Snapshot() (*SnapshotResult, error) {
	o.mu.Lock()
	img := o.last
	o.mu.Unlock()
	if img == nil {
		return nil, ErrNoFrame
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	return &SnapshotResult{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// DefaultMarker draws a red ring with a centre dot on a transparent square
// of the given size.
func DefaultMarker(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.Transparent, image.Point{}, draw.Src)

	red := color.NRGBA{255, 0, 0, 255}
	c := float64(size-1) / 2
	outer := c * c
	inner := (c - float64(size)/10) * (c - float64(size)/10)
	dot := float64(size) / 20 * float64(size) / 20
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)-c, float64(y)-c
			d := dx*dx + dy*dy
			if (d <= outer && d >= inner) || d <= dot {
				img.SetNRGBA(x, y, red)
			}
		}
	}
	return img
}
