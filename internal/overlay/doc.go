// Package overlay renders tracking results for display.
//
// Overlay implements tracker.Sink. It never feeds anything back into the
// tracker; it only looks at the frame, the classification mask and the
// Result it is handed.
//
// Scaling uses github.com/disintegration/imaging with nearest neighbour
// filtering so the mask stays blocky and a marker keeps hard edges. The
// debug backdrop is desaturated with github.com/anthonynsimon/bild.
package overlay
