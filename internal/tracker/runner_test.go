package tracker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ironsheep/redeye-tracker/internal/detection"
	"github.com/ironsheep/redeye-tracker/internal/imaging"
)

// recordingSink keeps every view it is shown and signals each one.
type recordingSink struct {
	mu      sync.Mutex
	views   []View
	shown   chan struct{}
	onFrame func(n int)
	err     error
}

func newRecordingSink() *recordingSink {
	return &recordingSink{shown: make(chan struct{}, 64)}
}

func (s *recordingSink) Present(ctx context.Context, v View) error {
	s.mu.Lock()
	s.views = append(s.views, v)
	n := len(s.views)
	s.mu.Unlock()

	if s.onFrame != nil {
		s.onFrame(n)
	}
	s.shown <- struct{}{}
	return s.err
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}

func newTestRunner(t *testing.T, cfg Config, src FrameSource, sink Sink) *Runner {
	t.Helper()
	p, err := NewPipeline(cfg)
	require.NoError(t, err)
	return NewRunner(p, src, sink, zaptest.NewLogger(t).Sugar())
}

func patternSource(cfg Config, frames int) *PatternSource {
	src := NewPatternSource(cfg.FrameWidth, cfg.FrameHeight)
	src.Frames = frames
	return src
}

func TestRunner_RunsUntilEOF(t *testing.T) {
	cfg := DefaultConfig()
	sink := newRecordingSink()
	r := newTestRunner(t, cfg, patternSource(cfg, 3), sink)

	require.NoError(t, r.Run(context.Background()))
	require.Equal(t, 3, sink.count())

	sum := r.Stats.Summary()
	require.Equal(t, 3, sum.Frames)
	require.Equal(t, 3, sum.Found)

	last, frames, ok := r.Controls.Last()
	require.True(t, ok)
	require.Equal(t, 3, frames)
	require.True(t, last.Indicator.Valid())

	v := sink.views[0]
	require.Equal(t, cfg.Scale, v.Scale)
	require.NotNil(t, v.Mask)
	require.False(t, v.Debug)
}

func TestRunner_NoSink(t *testing.T) {
	cfg := DefaultConfig()
	r := newTestRunner(t, cfg, patternSource(cfg, 2), nil)
	require.NoError(t, r.Run(context.Background()))
	require.Equal(t, 2, r.Stats.Summary().Frames)
}

func TestRunner_UpstreamError(t *testing.T) {
	camErr := errors.New("camera unplugged")
	src := FuncSource(func(ctx context.Context) (*imaging.Frame, error) {
		return nil, camErr
	})

	r := newTestRunner(t, DefaultConfig(), src, nil)
	err := r.Run(context.Background())
	require.ErrorIs(t, err, ErrUpstream)
	require.ErrorIs(t, err, camErr)
}

func TestRunner_FrameSizeMismatch(t *testing.T) {
	src := FuncSource(func(ctx context.Context) (*imaging.Frame, error) {
		return imaging.NewFrame(320, 240), nil
	})

	r := newTestRunner(t, DefaultConfig(), src, nil)
	require.ErrorIs(t, r.Run(context.Background()), ErrFrameSize)
}

func TestRunner_Cancelled(t *testing.T) {
	cfg := DefaultConfig()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newTestRunner(t, cfg, patternSource(cfg, 0), nil)
	require.ErrorIs(t, r.Run(ctx), context.Canceled)
}

func TestRunner_Stop(t *testing.T) {
	cfg := DefaultConfig()
	sink := newRecordingSink()
	r := newTestRunner(t, cfg, patternSource(cfg, 0), sink)
	sink.onFrame = func(n int) {
		if n == 2 {
			r.Controls.Stop()
		}
	}

	require.NoError(t, r.Run(context.Background()))
	require.Equal(t, 2, sink.count())
}

func TestRunner_SinkError(t *testing.T) {
	cfg := DefaultConfig()
	sink := newRecordingSink()
	sink.err = errors.New("display gone")

	r := newTestRunner(t, cfg, patternSource(cfg, 5), sink)
	err := r.Run(context.Background())
	require.ErrorIs(t, err, sink.err)
	require.Equal(t, 1, sink.count())
}

func TestRunner_CapacityRejectsFrames(t *testing.T) {
	cfg := DefaultConfig()
	cfg.QueueLimit = 1

	r := newTestRunner(t, cfg, patternSource(cfg, 2), nil)
	require.NoError(t, r.Run(context.Background()))

	sum := r.Stats.Summary()
	require.Equal(t, 0, sum.Frames)
	require.Equal(t, 2, sum.Rejected)
}

func TestRunner_AppliesSettings(t *testing.T) {
	cfg := DefaultConfig()
	r := newTestRunner(t, cfg, patternSource(cfg, 1), nil)

	require.NoError(t, r.Controls.SetThreshold(90))
	r.Controls.SetRankMode(detection.RankByMean)
	require.NoError(t, r.Run(context.Background()))

	last, _, ok := r.Controls.Last()
	require.True(t, ok)
	require.False(t, last.Found)
	require.Equal(t, 90, last.Diagnostics.Threshold)
	require.Equal(t, detection.RankByMean, last.Diagnostics.RankMode)
}

func TestRunner_StepMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Debug = true
	sink := newRecordingSink()
	r := newTestRunner(t, cfg, patternSource(cfg, 0), sink)

	done := make(chan error, 1)
	go func() { done <- r.Run(context.Background()) }()

	waitShown := func() {
		t.Helper()
		select {
		case <-sink.shown:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for a frame")
		}
	}

	waitShown()
	select {
	case <-sink.shown:
		t.Fatal("runner advanced without a step")
	case <-time.After(50 * time.Millisecond):
	}

	r.Controls.Step()
	waitShown()
	require.Equal(t, 2, sink.count())

	r.Controls.Stop()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not stop")
	}

	sink.mu.Lock()
	require.True(t, sink.views[0].Debug)
	sink.mu.Unlock()
}
