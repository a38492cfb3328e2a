package detection

import "math"

// Indicator is the aim point reported for a frame, in frame coordinates.
//
// Distance is the mean spread of the top candidates around the aim point.
// It grows as the target gets closer, so overlays use it as a scale.
type Indicator struct {
	X        int `json:"x"`
	Y        int `json:"y"`
	Distance int `json:"distance"`
}

// NoTarget is the Indicator reported when too few candidates survive.
var NoTarget = Indicator{X: -1, Y: -1, Distance: -1}

// Valid reports whether i is a real aim point rather than NoTarget.
func (i Indicator) Valid() bool {
	return i != NoTarget
}

// MaxEstimateCandidates is the default number of top-ranked candidates that
// contribute to an Indicator.
const MaxEstimateCandidates = 4

// MinTargetCandidates is the fewest candidates that make a target. With
// fewer, the pipeline reports NoTarget instead of calling Estimate.
const MinTargetCandidates = 3

// Estimate computes the Indicator from the top min(limit, len(ranked))
// candidates and scales it by scale back into frame coordinates.
//
// All arithmetic truncates:
//
//	centerX  = Σ (x + size/2) / t
//	centerY  = Σ (y + size/2) / t
//	distance = Σ trunc(hypot(ownCenter - center)) / t
//
// Estimate returns NoTarget for an empty slice. limit values below 1 use
// MaxEstimateCandidates.
func Estimate(ranked []Candidate, limit, scale int) Indicator {
	if limit < 1 {
		limit = MaxEstimateCandidates
	}
	t := min(limit, len(ranked))
	if t == 0 {
		return NoTarget
	}
	top := ranked[:t]

	ax, ay := 0, 0
	for _, c := range top {
		ax += c.CenterX()
		ay += c.CenterY()
	}
	ax /= t
	ay /= t

	ad := 0
	for _, c := range top {
		dx := float64(c.CenterX() - ax)
		dy := float64(c.CenterY() - ay)
		ad += int(math.Sqrt(dx*dx + dy*dy))
	}
	ad /= t

	return Indicator{X: ax * scale, Y: ay * scale, Distance: ad * scale}
}
