package detection

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseRankMode(t *testing.T) {
	tests := []struct {
		in      string
		want    RankMode
		wantErr bool
	}{
		{"", RankBySize, false},
		{"size", RankBySize, false},
		{"mean", RankByMean, false},
		{"average", "", true},
	}

	for _, tt := range tests {
		got, err := ParseRankMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRankMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseRankMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRank(t *testing.T) {
	tests := []struct {
		name string
		mode RankMode
		in   []Candidate
		want []Candidate
	}{
		{
			name: "size descending",
			mode: RankBySize,
			in:   []Candidate{{X: 1, Size: 3}, {X: 2, Size: 9}, {X: 3, Size: 5}},
			want: []Candidate{{X: 2, Size: 9}, {X: 3, Size: 5}, {X: 1, Size: 3}},
		},
		{
			name: "size ties keep filter order",
			mode: RankBySize,
			in:   []Candidate{{X: 1, Size: 4}, {X: 2, Size: 7}, {X: 3, Size: 4}, {X: 4, Size: 7}},
			want: []Candidate{{X: 2, Size: 7}, {X: 4, Size: 7}, {X: 1, Size: 4}, {X: 3, Size: 4}},
		},
		{
			// mean = 25/4 = 6; distances 4, 4, 0, 1
			name: "closest to mean first",
			mode: RankByMean,
			in:   []Candidate{{X: 1, Size: 10}, {X: 2, Size: 2}, {X: 3, Size: 6}, {X: 4, Size: 7}},
			want: []Candidate{{X: 3, Size: 6}, {X: 4, Size: 7}, {X: 1, Size: 10}, {X: 2, Size: 2}},
		},
		{
			name: "single candidate",
			mode: RankByMean,
			in:   []Candidate{{X: 5, Size: 5}},
			want: []Candidate{{X: 5, Size: 5}},
		},
		{
			name: "empty",
			mode: RankBySize,
			in:   []Candidate{},
			want: []Candidate{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Rank(tt.in, tt.mode)
			if diff := cmp.Diff(tt.want, tt.in); diff != "" {
				t.Errorf("Rank mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMeanSize(t *testing.T) {
	if got := MeanSize(nil); got != 0 {
		t.Errorf("MeanSize(nil) = %d, want 0", got)
	}
	if got := MeanSize([]Candidate{{Size: 3}, {Size: 4}}); got != 3 {
		t.Errorf("MeanSize = %d, want 3 (truncated)", got)
	}
}
