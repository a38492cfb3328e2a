package tracker

import (
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

// StatsWindow is the number of most recent frames the timing and candidate
// figures of a Summary are computed over.
const StatsWindow = 1024

// Stats accumulates per-frame figures over a run. Counters cover the whole
// run; per-frame samples are kept in a fixed ring of StatsWindow entries so
// memory stays constant however long the run lasts.
//
// Stats is safe for concurrent use so the control surface can read a
// summary while the runner records frames.
type Stats struct {
	mu         sync.Mutex
	durations  []float64 // milliseconds, ring
	candidates []float64 // ring, same slot as durations
	next       int
	frames     int
	found      int
	rejected   int
}

// Summary is a point-in-time digest of Stats.
type Summary struct {
	Frames         int     `json:"frames"`
	Found          int     `json:"found"`
	Rejected       int     `json:"rejected"`
	Window         int     `json:"window"`
	MeanMillis     float64 `json:"mean_ms"`
	StdDevMillis   float64 `json:"stddev_ms"`
	MeanCandidates float64 `json:"mean_candidates"`
}

// Record adds a processed frame.
func (s *Stats) Record(r Result) {
	ms := float64(r.Diagnostics.Duration) / float64(time.Millisecond)
	cands := float64(r.Diagnostics.Candidates)

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.durations) < StatsWindow {
		s.durations = append(s.durations, ms)
		s.candidates = append(s.candidates, cands)
	} else {
		s.durations[s.next] = ms
		s.candidates[s.next] = cands
	}
	s.next = (s.next + 1) % StatsWindow
	s.frames++
	if r.Found {
		s.found++
	}
}

// Reject counts a frame the pipeline refused to process.
func (s *Stats) Reject() {
	s.mu.Lock()
	s.rejected++
	s.mu.Unlock()
}

// Summary computes the digest. Means cover the last Window frames and are
// zero before the first frame.
func (s *Stats) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := Summary{
		Frames:   s.frames,
		Found:    s.found,
		Rejected: s.rejected,
		Window:   len(s.durations),
	}
	if len(s.durations) == 0 {
		return sum
	}
	sum.MeanMillis, sum.StdDevMillis = stat.MeanStdDev(s.durations, nil)
	if len(s.durations) == 1 {
		sum.StdDevMillis = 0
	}
	sum.MeanCandidates = stat.Mean(s.candidates, nil)
	return sum
}
