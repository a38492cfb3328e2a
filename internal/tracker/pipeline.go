package tracker

import (
	"fmt"
	"image"
	"time"

	"github.com/ironsheep/redeye-tracker/internal/detection"
	"github.com/ironsheep/redeye-tracker/internal/imaging"
)

// Diagnostics describes how a frame was processed. It is informational
// only; nothing in it feeds back into the Indicator.
type Diagnostics struct {
	Foreground int                   `json:"foreground"`
	Groups     int                   `json:"groups"`
	Candidates int                   `json:"candidates"`
	Rejections []detection.Rejection `json:"rejections,omitempty"`
	QueuePeak  int                   `json:"queue_peak"`
	Threshold  int                   `json:"threshold"`
	RankMode   detection.RankMode    `json:"rank_mode"`
	Frame      imaging.FrameStats    `json:"frame"`
	Duration   time.Duration         `json:"duration_ns"`
}

// Result is the outcome of one frame.
//
// Found is false when fewer than three candidates survived filtering; the
// Indicator is then detection.NoTarget. That is a normal outcome, not an
// error.
type Result struct {
	Indicator   detection.Indicator   `json:"indicator"`
	Found       bool                  `json:"found"`
	Candidates  []detection.Candidate `json:"candidates"`
	Diagnostics Diagnostics           `json:"diagnostics"`
}

// Pipeline runs the segmentation and localization stages on one frame at a
// time. It owns the working grid, the unit grid and the labeler and reuses
// them across frames; everything that carries per-frame state is reset at
// the start of Process.
//
// A Pipeline is not safe for concurrent use.
type Pipeline struct {
	cfg        Config
	classifier *imaging.Classifier
	rankMode   detection.RankMode

	grid    *imaging.WorkingGrid
	units   []detection.Unit
	labeler *detection.Labeler
}

// NewPipeline validates cfg and allocates the reusable buffers.
func NewPipeline(cfg Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	classifier, err := cfg.NewClassifier()
	if err != nil {
		return nil, err
	}
	mode, err := detection.ParseRankMode(cfg.RankMode)
	if err != nil {
		return nil, err
	}

	w, h := cfg.GridSize()
	labeler := detection.NewLabeler(w * h)
	labeler.QueueLimit = cfg.QueueLimit

	return &Pipeline{
		cfg:        cfg,
		classifier: classifier,
		rankMode:   mode,
		grid:       imaging.NewWorkingGrid(cfg.FrameWidth, cfg.FrameHeight, cfg.Scale),
		units:      make([]detection.Unit, w*h),
		labeler:    labeler,
	}, nil
}

// Config returns the configuration the pipeline was built with.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// SetThreshold changes the classification threshold for subsequent frames.
func (p *Pipeline) SetThreshold(t int) error {
	if err := p.classifier.CheckThreshold(t); err != nil {
		return err
	}
	p.classifier.Threshold = t
	return nil
}

// Threshold returns the current classification threshold.
func (p *Pipeline) Threshold() int {
	return p.classifier.Threshold
}

// SetRankMode changes the candidate ordering for subsequent frames.
func (p *Pipeline) SetRankMode(mode detection.RankMode) {
	p.rankMode = mode
}

// Process runs every stage on frame and returns the result.
//
// A *detection.CapacityError means the frame was rejected; the pipeline is
// still usable for the next frame.
func (p *Pipeline) Process(frame *imaging.Frame) (Result, error) {
	start := time.Now()

	if frame.Width != p.cfg.FrameWidth || frame.Height != p.cfg.FrameHeight {
		return Result{}, fmt.Errorf("%w: got %dx%d, want %dx%d",
			ErrFrameSize, frame.Width, frame.Height, p.cfg.FrameWidth, p.cfg.FrameHeight)
	}
	if err := frame.Validate(); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrFrameSize, err)
	}

	imaging.Downsample(p.grid, frame, p.cfg.Scale)
	foreground := detection.ClassifyUnits(p.units, p.grid, p.classifier)

	w, h := p.grid.Width, p.grid.Height
	count, err := p.labeler.Label(p.units, w, h)
	if err != nil {
		return Result{}, fmt.Errorf("failed to label frame: %w", err)
	}

	groups := detection.CollectGroups(p.units, w, h, count)
	candidates, rejections := p.cfg.Shape.Filter(groups)
	detection.Rank(candidates, p.rankMode)

	result := Result{
		Indicator:  detection.NoTarget,
		Candidates: candidates,
		Diagnostics: Diagnostics{
			Foreground: foreground,
			Groups:     count,
			Candidates: len(candidates),
			Rejections: rejections,
			QueuePeak:  p.labeler.HighWater(),
			Threshold:  p.classifier.Threshold,
			RankMode:   p.rankMode,
			Frame:      frame.Stats(),
		},
	}
	if len(candidates) >= detection.MinTargetCandidates {
		result.Indicator = detection.Estimate(candidates, p.cfg.MaxCandidates, p.cfg.Scale)
		result.Found = true
	}
	result.Diagnostics.Duration = time.Since(start)

	return result, nil
}

// Mask renders the classification of the last processed frame as a
// working-grid sized image, white for foreground. The image is a copy and
// stays valid after the next Process call.
func (p *Pipeline) Mask() *image.Gray {
	w, h := p.grid.Width, p.grid.Height
	mask := image.NewGray(image.Rect(0, 0, w, h))
	for i, u := range p.units {
		if u.Foreground {
			mask.Pix[i] = 0xFF
		}
	}
	return mask
}
