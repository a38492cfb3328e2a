package detection

import (
	"fmt"
	"sort"
)

// RankMode selects how candidates are ordered before estimation.
type RankMode string

const (
	// RankBySize orders candidates by descending size.
	RankBySize RankMode = "size"

	// RankByMean orders candidates by ascending distance of their size from
	// the mean size, so the most typical squares come first.
	RankByMean RankMode = "mean"
)

// ParseRankMode converts a configuration string into a RankMode.
// The empty string selects RankBySize.
func ParseRankMode(s string) (RankMode, error) {
	switch RankMode(s) {
	case "", RankBySize:
		return RankBySize, nil
	case RankByMean:
		return RankByMean, nil
	default:
		return "", fmt.Errorf("unknown rank mode %q (want size or mean)", s)
	}
}

// Rank reorders candidates in place. Both orderings are stable, so ties keep
// their filter order and the result is deterministic. An empty slice is left
// untouched.
func Rank(candidates []Candidate, mode RankMode) {
	if len(candidates) == 0 {
		return
	}

	switch mode {
	case RankByMean:
		mean := MeanSize(candidates)
		sort.SliceStable(candidates, func(i, j int) bool {
			return absInt(candidates[i].Size-mean) < absInt(candidates[j].Size-mean)
		})
	default:
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Size > candidates[j].Size
		})
	}
}

// MeanSize returns the integer mean of the candidate sizes, or 0 for an
// empty slice.
func MeanSize(candidates []Candidate) int {
	if len(candidates) == 0 {
		return 0
	}
	sum := 0
	for _, c := range candidates {
		sum += c.Size
	}
	return sum / len(candidates)
}

func absInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
