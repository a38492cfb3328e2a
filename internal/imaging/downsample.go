package imaging

// WorkingGrid is the reduced RGB grid the segmentation runs on.
//
// It shares the packed layout of Frame and is owned by the pipeline, which
// reuses the same buffer from one frame to the next.
type WorkingGrid struct {
	Frame
}

// NewWorkingGrid allocates a grid for frames of frameWidth × frameHeight
// reduced by scale.
func NewWorkingGrid(frameWidth, frameHeight, scale int) *WorkingGrid {
	return &WorkingGrid{Frame: *NewFrame(frameWidth/scale, frameHeight/scale)}
}

// Downsample reduces src by the integer factor scale into dst using nearest
// neighbour sampling: dst(x, y) takes src(x*scale, y*scale).
//
// There is no interpolation and no bounds adjustment. The caller guarantees
// that src's dimensions are exact multiples of scale and that dst was sized
// with NewWorkingGrid for the same dimensions and scale.
func Downsample(dst *WorkingGrid, src *Frame, scale int) {
	srcStride := src.Width * BytesPerPixel
	for y := 0; y < dst.Height; y++ {
		row := y * scale * srcStride
		out := y * dst.Width * BytesPerPixel
		for x := 0; x < dst.Width; x++ {
			i := row + x*scale*BytesPerPixel
			copy(dst.Pix[out:out+BytesPerPixel], src.Pix[i:i+BytesPerPixel])
			out += BytesPerPixel
		}
	}
}
