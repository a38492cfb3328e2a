package detection

// Group accumulates the members of one labeled group.
//
// The bounds are -1 until the first member is seen. A group with Count 0
// was never touched and is dropped by the shape filter.
type Group struct {
	ID    int `json:"id"`
	Count int `json:"count"`
	MinX  int `json:"min_x"`
	MaxX  int `json:"max_x"`
	MinY  int `json:"min_y"`
	MaxY  int `json:"max_y"`
}

// Width returns MaxX - MinX, the extent used by the shape rules.
func (g *Group) Width() int { return g.MaxX - g.MinX }

// Height returns MaxY - MinY.
func (g *Group) Height() int { return g.MaxY - g.MinY }

// CollectGroups computes the member count and bounding box of each group
// in a single row-major pass over the labeled units.
//
// groups is the count returned by Labeler.Label; group id i is reported at
// index i-1.
func CollectGroups(units []Unit, width, height, groups int) []Group {
	out := make([]Group, groups)
	for i := range out {
		out[i] = Group{ID: i + 1, MinX: -1, MaxX: -1, MinY: -1, MaxY: -1}
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			u := units[y*width+x]
			if !u.Foreground || u.Group == 0 || u.Group > groups {
				continue
			}
			g := &out[u.Group-1]
			g.Count++
			if g.MinX == -1 || x < g.MinX {
				g.MinX = x
			}
			if g.MaxX == -1 || x > g.MaxX {
				g.MaxX = x
			}
			if g.MinY == -1 || y < g.MinY {
				g.MinY = y
			}
			if g.MaxY == -1 || y > g.MaxY {
				g.MaxY = y
			}
		}
	}

	return out
}
