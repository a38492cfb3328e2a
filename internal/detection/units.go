package detection

import (
	"github.com/ironsheep/redeye-tracker/internal/imaging"
)

// Unit is the per-cell state of the working grid.
//
// Group is 0 until the Labeler claims the cell for a group.
type Unit struct {
	Foreground bool
	Group      int
}

// PixelClassifier is the color test applied to each working-grid cell.
type PixelClassifier interface {
	Classify(r, g, b uint8) bool
}

// ClassifyUnits builds the unit grid for one frame.
//
// units must hold exactly grid.Width*grid.Height entries. Every unit's
// group is reset to 0, so a buffer from a previous frame can be reused.
// It returns the number of foreground units.
func ClassifyUnits(units []Unit, grid *imaging.WorkingGrid, c PixelClassifier) int {
	count := 0
	for i := range units {
		p := i * imaging.BytesPerPixel
		fg := c.Classify(grid.Pix[p], grid.Pix[p+1], grid.Pix[p+2])
		units[i] = Unit{Foreground: fg}
		if fg {
			count++
		}
	}
	return count
}
