package tracker

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/ironsheep/redeye-tracker/internal/imaging"
)

// FrameSource delivers frames to the runner. Next may block until a new
// capture is ready. It returns io.EOF when no more frames will come.
//
// The returned frame is only read by the pipeline until the following Next
// call, so implementations may reuse one buffer.
type FrameSource interface {
	Next(ctx context.Context) (*imaging.Frame, error)
}

// FuncSource adapts a function to FrameSource.
type FuncSource func(ctx context.Context) (*imaging.Frame, error)

// Next calls f.
func (f FuncSource) Next(ctx context.Context) (*imaging.Frame, error) {
	return f(ctx)
}

// RawSource reads packed rgb24 frames back to back from a stream, such as
// the output of `ffmpeg -f rawvideo -pix_fmt rgb24`.
type RawSource struct {
	r     io.Reader
	frame *imaging.Frame
}

// NewRawSource returns a source reading width × height frames from r.
func NewRawSource(r io.Reader, width, height int) *RawSource {
	return &RawSource{r: r, frame: imaging.NewFrame(width, height)}
}

// Next reads one whole frame into the source's buffer. A stream that ends
// exactly on a frame boundary yields io.EOF; one that ends mid-frame yields
// io.ErrUnexpectedEOF.
func (s *RawSource) Next(ctx context.Context) (*imaging.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(s.r, s.frame.Pix); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to read frame: %w", err)
	}
	return s.frame, nil
}

// PatternSource synthesizes frames with red squares circling the middle of
// a dark background. It stands in for a camera in demos and tests.
type PatternSource struct {
	// Squares is the number of squares drawn; Size is their edge in pixels.
	Squares int
	Size    int
	// Frames limits how many frames are produced. Zero means no limit.
	Frames int

	frame *imaging.Frame
	n     int
}

// NewPatternSource returns a pattern source with four squares sized to a
// tenth of the frame height.
func NewPatternSource(width, height int) *PatternSource {
	return &PatternSource{
		Squares: 4,
		Size:    max(height/10, 1),
		frame:   imaging.NewFrame(width, height),
	}
}

// Next draws the next frame of the pattern.
func (s *PatternSource) Next(ctx context.Context) (*imaging.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Frames > 0 && s.n >= s.Frames {
		return nil, io.EOF
	}

	f := s.frame
	f.Fill(0, 0, f.Width, f.Height, 0x20, 0x20, 0x20)

	radius := float64(min(f.Width, f.Height)) / 4
	cx, cy := float64(f.Width)/2, float64(f.Height)/2
	phase := float64(s.n) * math.Pi / 90
	for i := 0; i < s.Squares; i++ {
		a := phase + 2*math.Pi*float64(i)/float64(s.Squares)
		x := int(cx+radius*math.Cos(a)) - s.Size/2
		y := int(cy+radius*math.Sin(a)) - s.Size/2
		f.Fill(x, y, x+s.Size, y+s.Size, 0xE0, 0x10, 0x10)
	}

	s.n++
	return f, nil
}
