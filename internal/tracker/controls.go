package tracker

import (
	"context"
	"fmt"
	"sync"

	"github.com/ironsheep/redeye-tracker/internal/detection"
)

// Settings is the snapshot of the runtime-tunable parameters that the
// runner applies at the start of a frame.
type Settings struct {
	Threshold int                `json:"threshold"`
	RankMode  detection.RankMode `json:"rank_mode"`
	Debug     bool               `json:"debug"`
}

// Controls is the hand-off point between the control surface and the frame
// loop. The control surface writes settings and reads the last result; the
// runner reads settings once per frame and publishes each result. All
// methods are safe for concurrent use.
type Controls struct {
	mu       sync.Mutex
	settings Settings
	minT     int
	maxT     int
	last     *Result
	frames   int

	step     chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
}

// NewControls seeds the settings from cfg. cfg must be valid.
func NewControls(cfg Config) *Controls {
	mode, _ := detection.ParseRankMode(cfg.RankMode)
	c := &Controls{
		settings: Settings{Threshold: cfg.Threshold, RankMode: mode, Debug: cfg.Debug},
		step:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
	}
	if cls, err := cfg.NewClassifier(); err == nil {
		c.minT, c.maxT = cls.Range()
	} else {
		c.minT, c.maxT = 0, 100
	}
	return c
}

// Settings returns the current settings.
func (c *Controls) Settings() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// SetThreshold sets the classification threshold used from the next frame.
func (c *Controls) SetThreshold(t int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t < c.minT || t > c.maxT {
		return fmt.Errorf("threshold %d outside range [%d, %d]", t, c.minT, c.maxT)
	}
	c.settings.Threshold = t
	return nil
}

// AdjustThreshold moves the threshold by delta, clamped to the classifier's
// range, and returns the new value.
func (c *Controls) AdjustThreshold(delta int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := min(max(c.settings.Threshold+delta, c.minT), c.maxT)
	c.settings.Threshold = t
	return t
}

// SetRankMode sets the candidate ordering used from the next frame.
func (c *Controls) SetRankMode(mode detection.RankMode) {
	c.mu.Lock()
	c.settings.RankMode = mode
	c.mu.Unlock()
}

// SetDebug turns step mode on or off. Turning it off releases a runner that
// is waiting for a step.
func (c *Controls) SetDebug(on bool) {
	c.mu.Lock()
	c.settings.Debug = on
	c.mu.Unlock()
	if !on {
		c.Step()
		return
	}
	select {
	case <-c.step:
	default:
	}
}

// Step lets a runner in step mode process the next frame. Steps do not
// accumulate beyond one.
func (c *Controls) Step() {
	select {
	case c.step <- struct{}{}:
	default:
	}
}

// Stop asks the runner to stop requesting frames. It is safe to call more
// than once.
func (c *Controls) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// Stopped is closed once Stop has been called.
func (c *Controls) Stopped() <-chan struct{} {
	return c.stop
}

// Publish records the result of a frame.
func (c *Controls) Publish(r Result) {
	c.mu.Lock()
	c.last = &r
	c.frames++
	c.mu.Unlock()
}

// Last returns the most recently published result and the number of
// frames published so far. ok is false before the first frame.
func (c *Controls) Last() (r Result, frames int, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil {
		return Result{}, c.frames, false
	}
	return *c.last, c.frames, true
}

// waitStep blocks until Step, Stop or context cancellation. It returns
// immediately when step mode is off.
func (c *Controls) waitStep(ctx context.Context) error {
	if !c.Settings().Debug {
		return nil
	}
	select {
	case <-c.step:
		return nil
	case <-c.stop:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
