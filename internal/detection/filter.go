package detection

// Candidate is a group that survived shape filtering, reduced to a square:
// its bounding-box origin and the average of its width and height.
type Candidate struct {
	X    int `json:"x"`
	Y    int `json:"y"`
	Size int `json:"size"`
}

// CenterX returns X + Size/2 using integer division.
func (c Candidate) CenterX() int { return c.X + c.Size/2 }

// CenterY returns Y + Size/2 using integer division.
func (c Candidate) CenterY() int { return c.Y + c.Size/2 }

// RejectReason names the shape rule that discarded a group.
type RejectReason string

const (
	RejectTooFew   RejectReason = "too few members"
	RejectTooSlim  RejectReason = "too slim"
	RejectTooSmall RejectReason = "too small"
	RejectTooTall  RejectReason = "too tall"
	RejectTooWide  RejectReason = "too wide"
)

// Rejection records why a group was discarded. Value is the quantity the
// failing rule measured (member count, width, height or aspect percentage).
type Rejection struct {
	Group  int          `json:"group"`
	Reason RejectReason `json:"reason"`
	Value  int          `json:"value"`
}

// ShapeRules are the thresholds a group must beat to become a Candidate.
// Every comparison is strict: a group whose count equals MinCount is
// rejected.
type ShapeRules struct {
	MinCount  int `json:"min_count"`
	MinWidth  int `json:"min_width"`
	MinHeight int `json:"min_height"`
	MaxTall   int `json:"max_tall"` // height*100/width must not exceed this
	MaxWide   int `json:"max_wide"` // width*100/height must not exceed this
}

// DefaultShapeRules returns the tuned thresholds 5, 2, 2, 145, 145.
func DefaultShapeRules() ShapeRules {
	return ShapeRules{
		MinCount:  5,
		MinWidth:  2,
		MinHeight: 2,
		MaxTall:   145,
		MaxWide:   145,
	}
}

// Check applies the rules to a single group in order and returns the first
// failing rule, or ok if the group passes.
//
// Rules, first failure wins:
//  1. count <= MinCount
//  2. width <= MinWidth
//  3. height <= MinHeight
//  4. height*100/width > MaxTall
//  5. width*100/height > MaxWide
//
// Rules 4 and 5 never divide by zero while MinWidth and MinHeight are
// non-negative, because rules 2 and 3 have already rejected zero extents.
func (r ShapeRules) Check(g Group) (Rejection, bool) {
	if g.Count <= r.MinCount {
		return Rejection{Group: g.ID, Reason: RejectTooFew, Value: g.Count}, false
	}
	width := g.Width()
	if width <= r.MinWidth {
		return Rejection{Group: g.ID, Reason: RejectTooSlim, Value: width}, false
	}
	height := g.Height()
	if height <= r.MinHeight {
		return Rejection{Group: g.ID, Reason: RejectTooSmall, Value: height}, false
	}
	if tall := height * 100 / width; tall > r.MaxTall {
		return Rejection{Group: g.ID, Reason: RejectTooTall, Value: tall}, false
	}
	if wide := width * 100 / height; wide > r.MaxWide {
		return Rejection{Group: g.ID, Reason: RejectTooWide, Value: wide}, false
	}
	return Rejection{}, true
}

// Filter converts the groups that pass every rule into Candidates, in group
// order, and reports a Rejection for each group that does not.
func (r ShapeRules) Filter(groups []Group) ([]Candidate, []Rejection) {
	candidates := make([]Candidate, 0, len(groups))
	var rejections []Rejection

	for _, g := range groups {
		if rej, ok := r.Check(g); !ok {
			rejections = append(rejections, rej)
			continue
		}
		width, height := g.Width(), g.Height()
		candidates = append(candidates, Candidate{
			X:    g.MinX,
			Y:    g.MinY,
			Size: (width + height) / 2,
		})
	}

	return candidates, rejections
}
