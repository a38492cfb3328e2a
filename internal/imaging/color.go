package imaging

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// ClassifierMode selects the color test used to mark a pixel as foreground.
type ClassifierMode string

const (
	// ModeRatio marks a pixel when red makes up at least T percent of r+g+b.
	// This is the default test.
	ModeRatio ClassifierMode = "ratio"

	// ModeDifference marks a pixel when r - (g+b)/2 >= T.
	ModeDifference ClassifierMode = "difference"

	// ModeHue marks a pixel whose HSV hue lies within HueTolerance degrees of
	// TargetHue and whose saturation, in percent, is at least T.
	ModeHue ClassifierMode = "hue"
)

// ParseClassifierMode converts a configuration string into a ClassifierMode.
// The empty string selects ModeRatio.
func ParseClassifierMode(s string) (ClassifierMode, error) {
	switch ClassifierMode(s) {
	case "", ModeRatio:
		return ModeRatio, nil
	case ModeDifference:
		return ModeDifference, nil
	case ModeHue:
		return ModeHue, nil
	default:
		return "", fmt.Errorf("unknown classifier mode %q (want ratio, difference or hue)", s)
	}
}

// Classifier decides whether a working-grid pixel has the target color.
//
// Threshold is the runtime-tunable parameter T. Its meaning, and the range
// of values that make sense, depend on Mode; see Range.
//
// # Ratio Test
//
// The default test is ratio based and integer only:
//
//	total = r + g + b
//	ratio = total == 0 ? 0 : r*100/total
//	foreground = ratio >= T
//
// A black pixel therefore has ratio 0 and is foreground only when T <= 0.
type Classifier struct {
	Mode      ClassifierMode
	Threshold int

	// TargetHue and HueTolerance are in degrees and only used by ModeHue.
	TargetHue    float64
	HueTolerance float64
}

// NewClassifier returns a ratio classifier with threshold t.
func NewClassifier(t int) *Classifier {
	return &Classifier{Mode: ModeRatio, Threshold: t, HueTolerance: 20}
}

// Classify reports whether the pixel (r, g, b) is foreground.
func (c *Classifier) Classify(r, g, b uint8) bool {
	switch c.Mode {
	case ModeDifference:
		return int(r)-(int(g)+int(b))/2 >= c.Threshold
	case ModeHue:
		return c.classifyHue(r, g, b)
	default:
		total := int(r) + int(g) + int(b)
		ratio := 0
		if total != 0 {
			ratio = int(r) * 100 / total
		}
		return ratio >= c.Threshold
	}
}

func (c *Classifier) classifyHue(r, g, b uint8) bool {
	col := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	h, s, _ := col.Hsv()
	if int(s*100) < c.Threshold {
		return false
	}
	d := math.Abs(h - c.TargetHue)
	if d > 180 {
		d = 360 - d
	}
	return d <= c.HueTolerance
}

// Range returns the inclusive threshold range that is meaningful for Mode.
func (c *Classifier) Range() (lo, hi int) {
	if c.Mode == ModeDifference {
		return -255, 255
	}
	return 0, 100
}

// CheckThreshold returns an error if t is outside Range.
func (c *Classifier) CheckThreshold(t int) error {
	lo, hi := c.Range()
	if t < lo || t > hi {
		return fmt.Errorf("threshold %d outside %s range [%d, %d]", t, c.Mode, lo, hi)
	}
	return nil
}
