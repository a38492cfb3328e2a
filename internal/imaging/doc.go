// Package imaging holds the pixel-level stages of the tracking pipeline.
//
// This package owns the raw capture (Frame), the reduced grid the
// segmentation runs on (WorkingGrid) and the color test that decides which
// pixels belong to the target (Classifier). It does no labeling or shape
// analysis; see package detection for that.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Pixel Layout
//
// Frames are packed RGB, 3 bytes per pixel, row-major, no padding. This is
// the layout camera pipelines such as `ffmpeg -pix_fmt rgb24` emit, so a
// frame can be read straight off a pipe into Frame.Pix.
//
// # Downscaling
//
// Downsample uses nearest neighbour sampling by an integer factor k. The
// frame dimensions must be exact multiples of k; that is checked once when
// the tracker is configured, not on every frame.
//
// # Thread Safety
//
// Nothing here is synchronized. A Frame handed to the pipeline must not be
// written to until the pipeline is done with it.
package imaging
