package tracker

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"

	"go.uber.org/zap"

	"github.com/ironsheep/redeye-tracker/internal/detection"
	"github.com/ironsheep/redeye-tracker/internal/imaging"
)

// View is everything a display sink gets to see for one frame.
type View struct {
	Frame  *imaging.Frame
	Mask   *image.Gray // working-grid classification, white = foreground
	Scale  int
	Result Result
	Debug  bool
}

// Sink consumes the outcome of each frame for presentation. It must not
// retain Frame after Present returns; the source may reuse it.
type Sink interface {
	Present(ctx context.Context, v View) error
}

// Runner drives the frame loop: request a frame, process it, hand it to
// the sink, repeat. Exactly one goroutine runs the loop.
type Runner struct {
	Pipeline *Pipeline
	Source   FrameSource
	Sink     Sink // optional
	Controls *Controls
	Stats    *Stats
	Logger   *zap.SugaredLogger
}

// NewRunner wires a runner with fresh Controls and Stats seeded from the
// pipeline's configuration.
func NewRunner(p *Pipeline, src FrameSource, sink Sink, logger *zap.SugaredLogger) *Runner {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Runner{
		Pipeline: p,
		Source:   src,
		Sink:     sink,
		Controls: NewControls(p.Config()),
		Stats:    &Stats{},
		Logger:   logger,
	}
}

// Run processes frames until the source is exhausted, Controls.Stop is
// called or ctx is cancelled. A clean end of input or a stop request
// returns nil. Source errors are returned wrapped with ErrUpstream and are
// not retried. Frames rejected with a *detection.CapacityError are logged,
// counted and skipped.
func (r *Runner) Run(ctx context.Context) error {
	defer func() {
		sum := r.Stats.Summary()
		r.Logger.Infow("tracking stopped",
			"frames", sum.Frames,
			"found", sum.Found,
			"rejected", sum.Rejected,
			"mean_ms", sum.MeanMillis,
			"stddev_ms", sum.StdDevMillis,
			"mean_candidates", sum.MeanCandidates,
		)
	}()

	for iteration := 0; ; iteration++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.Controls.Stopped():
			return nil
		default:
		}

		settings := r.Controls.Settings()
		if settings.Threshold != r.Pipeline.Threshold() {
			if err := r.Pipeline.SetThreshold(settings.Threshold); err != nil {
				r.Logger.Warnw("ignoring threshold", "threshold", settings.Threshold, "error", err)
			}
		}
		r.Pipeline.SetRankMode(settings.RankMode)

		frame, err := r.Source.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				r.Logger.Infow("frame source exhausted", "iteration", iteration)
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &upstreamError{err: err}
		}

		result, err := r.Pipeline.Process(frame)
		if err != nil {
			var capErr *detection.CapacityError
			if errors.As(err, &capErr) {
				r.Stats.Reject()
				r.Logger.Warnw("frame rejected", "iteration", iteration, "error", err)
				continue
			}
			return fmt.Errorf("failed to process frame %d: %w", iteration, err)
		}

		r.Stats.Record(result)
		r.Controls.Publish(result)
		r.logResult(iteration, result)

		if r.Sink != nil {
			view := View{
				Frame:  frame,
				Mask:   r.Pipeline.Mask(),
				Scale:  r.Pipeline.Config().Scale,
				Result: result,
				Debug:  settings.Debug,
			}
			if err := r.Sink.Present(ctx, view); err != nil {
				return fmt.Errorf("failed to present frame %d: %w", iteration, err)
			}
		}

		if err := r.Controls.waitStep(ctx); err != nil {
			return err
		}
	}
}

func (r *Runner) logResult(iteration int, result Result) {
	d := result.Diagnostics
	if !result.Found {
		r.Logger.Debugw("no target",
			"iteration", iteration,
			"groups", d.Groups,
			"candidates", d.Candidates,
		)
		return
	}
	r.Logger.Debugw("target",
		"iteration", iteration,
		"x", result.Indicator.X,
		"y", result.Indicator.Y,
		"distance", result.Indicator.Distance,
		"groups", d.Groups,
		"candidates", d.Candidates,
		"queue_peak", d.QueuePeak,
		"duration", d.Duration,
	)
	for _, rej := range d.Rejections {
		r.Logger.Debugw("group rejected", "group", rej.Group, "reason", rej.Reason, "value", rej.Value)
	}
}
