package detection

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func labeled(t *testing.T, rows ...string) ([]Unit, int, int, int) {
	t.Helper()
	units, w, h := parseUnits(rows...)
	n, err := NewLabeler(len(units)).Label(units, w, h)
	if err != nil {
		t.Fatalf("Label failed: %v", err)
	}
	return units, w, h, n
}

func TestCollectGroups(t *testing.T) {
	units, w, h, n := labeled(t,
		"........",
		".##.....",
		".###..#.",
		"..#...#.",
		"......##",
	)

	got := CollectGroups(units, w, h, n)
	want := []Group{
		{ID: 1, Count: 6, MinX: 1, MaxX: 3, MinY: 1, MaxY: 3},
		{ID: 2, Count: 4, MinX: 6, MaxX: 7, MinY: 2, MaxY: 4},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CollectGroups mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectGroups_BoundsAreTight(t *testing.T) {
	units, w, h, n := labeled(t,
		"#..#....#",
		"##.#..###",
		"...#....#",
		"####.....",
		".........",
		"..#####..",
	)

	groups := CollectGroups(units, w, h, n)
	for _, g := range groups {
		count := 0
		minX, maxX, minY, maxY := w, -1, h, -1
		for i, u := range units {
			if u.Group != g.ID {
				continue
			}
			x, y := i%w, i/w
			count++
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
		want := Group{ID: g.ID, Count: count, MinX: minX, MaxX: maxX, MinY: minY, MaxY: maxY}
		if diff := cmp.Diff(want, g); diff != "" {
			t.Errorf("group %d mismatch (-want +got):\n%s", g.ID, diff)
		}
	}
}

func TestCollectGroups_UntouchedGroup(t *testing.T) {
	units, w, h := parseUnits(
		"#..",
		"...",
		"..#",
	)
	units[0].Group = 1
	units[8].Group = 3

	got := CollectGroups(units, w, h, 3)
	untouched := Group{ID: 2, MinX: -1, MaxX: -1, MinY: -1, MaxY: -1}
	if diff := cmp.Diff(untouched, got[1]); diff != "" {
		t.Errorf("untouched group mismatch (-want +got):\n%s", diff)
	}
	if got[0].Count != 1 || got[2].Count != 1 {
		t.Errorf("counts = %d, %d; want 1, 1", got[0].Count, got[2].Count)
	}
}

func TestGroup_Extents(t *testing.T) {
	g := Group{MinX: 2, MaxX: 9, MinY: 4, MaxY: 5}
	if g.Width() != 7 || g.Height() != 1 {
		t.Errorf("Width, Height = %d, %d; want 7, 1", g.Width(), g.Height())
	}
}
