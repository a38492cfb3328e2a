package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/redeye-tracker/internal/overlay"
	"github.com/ironsheep/redeye-tracker/internal/server"
	"github.com/ironsheep/redeye-tracker/internal/tracker"
)

// runOptions holds the flags shared by the run and config commands.
type runOptions struct {
	ConfigPath   string
	InputPath    string
	Pattern      bool
	Frames       int
	Control      bool
	OverlayColor string

	Width         int
	Height        int
	Scale         int
	Threshold     int
	Classifier    string
	RankMode      string
	MaxCandidates int
	QueueLimit    int
	Debug         bool
}

var runOpts runOptions

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Track targets in a raw rgb24 frame stream",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTracker(cmd, runOpts)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(cmd, runOpts)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	},
}

func init() {
	def := tracker.DefaultConfig()
	for _, c := range []*cobra.Command{runCmd, configCmd} {
		f := c.Flags()
		f.StringVarP(&runOpts.ConfigPath, "config", "c", "", "JSON configuration file (flags override it)")
		f.IntVar(&runOpts.Width, "width", def.FrameWidth, "Frame width in pixels")
		f.IntVar(&runOpts.Height, "height", def.FrameHeight, "Frame height in pixels")
		f.IntVarP(&runOpts.Scale, "scale", "k", def.Scale, "Downscale factor; width and height must be multiples of it")
		f.IntVarP(&runOpts.Threshold, "threshold", "t", def.Threshold, "Classification threshold")
		f.StringVar(&runOpts.Classifier, "classifier", def.Classifier, "Color test: ratio, difference or hue")
		f.StringVarP(&runOpts.RankMode, "rank", "r", def.RankMode, "Candidate ordering: size or mean")
		f.IntVar(&runOpts.MaxCandidates, "max-candidates", def.MaxCandidates, "Top candidates averaged into the indicator")
		f.IntVar(&runOpts.QueueLimit, "queue-limit", def.QueueLimit, "Maximum queued flood-fill jobs per frame (0 = grow as needed)")
		f.BoolVarP(&runOpts.Debug, "debug", "d", false, "Start in step mode with debug logging (requires --control on run)")
	}

	runCmd.Flags().StringVarP(&runOpts.InputPath, "input", "i", "", "Raw rgb24 stream to read frames from ('-' for stdin)")
	runCmd.Flags().BoolVar(&runOpts.Pattern, "pattern", false, "Use a synthetic moving pattern instead of --input")
	runCmd.Flags().IntVarP(&runOpts.Frames, "frames", "n", 0, "Stop after this many pattern frames (0 = no limit)")
	runCmd.Flags().BoolVar(&runOpts.Control, "control", false, "Serve the JSON-RPC control surface on stdin/stdout")
	runCmd.Flags().StringVar(&runOpts.OverlayColor, "overlay-color", "#FF0000", "Color of candidate outlines and crosshair")

	rootCmd.AddCommand(runCmd, configCmd)
}

// buildConfig starts from the defaults or the config file and applies
// every flag the user set explicitly.
func buildConfig(cmd *cobra.Command, opts runOptions) (tracker.Config, error) {
	cfg := tracker.DefaultConfig()
	if opts.ConfigPath != "" {
		loaded, err := tracker.LoadConfig(opts.ConfigPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.FrameWidth = opts.Width
	}
	if flags.Changed("height") {
		cfg.FrameHeight = opts.Height
	}
	if flags.Changed("scale") {
		cfg.Scale = opts.Scale
	}
	if flags.Changed("threshold") {
		cfg.Threshold = opts.Threshold
	}
	if flags.Changed("classifier") {
		cfg.Classifier = opts.Classifier
	}
	if flags.Changed("rank") {
		cfg.RankMode = opts.RankMode
	}
	if flags.Changed("max-candidates") {
		cfg.MaxCandidates = opts.MaxCandidates
	}
	if flags.Changed("queue-limit") {
		cfg.QueueLimit = opts.QueueLimit
	}
	if flags.Changed("debug") {
		cfg.Debug = opts.Debug
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runTracker(cmd *cobra.Command, opts runOptions) error {
	cfg, err := buildConfig(cmd, opts)
	if err != nil {
		return err
	}
	if err := checkStepMode(cfg, opts); err != nil {
		return err
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	src, closeSrc, err := openSource(opts, cfg)
	if err != nil {
		return err
	}
	defer closeSrc()

	pipeline, err := tracker.NewPipeline(cfg)
	if err != nil {
		return err
	}

	sink := overlay.New(nil)
	if opts.OverlayColor != "" {
		c, err := overlay.ParseHexColor(opts.OverlayColor)
		if err != nil {
			return fmt.Errorf("invalid --overlay-color: %w", err)
		}
		sink.Color = c
	}

	runner := tracker.NewRunner(pipeline, src, sink, logger)

	if opts.Control {
		srv := server.New(runner.Controls, runner.Stats, sink, logger)
		go func() {
			if err := srv.Run(os.Stdin, os.Stdout); err != nil {
				logger.Errorw("control surface failed", "error", err)
				return
			}
			logger.Infow("control client disconnected")
		}()
	}

	gw, gh := cfg.GridSize()
	logger.Infow("tracking started",
		"version", Version,
		"frame", fmt.Sprintf("%dx%d", cfg.FrameWidth, cfg.FrameHeight),
		"grid", fmt.Sprintf("%dx%d", gw, gh),
		"classifier", cfg.Classifier,
		"threshold", cfg.Threshold,
		"rank", cfg.RankMode,
	)

	err = runner.Run(cmd.Context())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// checkStepMode rejects step mode without a control surface. Only
// tracker_step can advance a runner in step mode.
func checkStepMode(cfg tracker.Config, opts runOptions) error {
	if cfg.Debug && !opts.Control {
		return &tracker.ConfigError{Field: "debug", Reason: "step mode needs --control to receive steps"}
	}
	return nil
}

// openSource picks the frame source from the options. The returned close
// function is always safe to call.
func openSource(opts runOptions, cfg tracker.Config) (tracker.FrameSource, func(), error) {
	noop := func() {}
	switch {
	case opts.Pattern:
		src := tracker.NewPatternSource(cfg.FrameWidth, cfg.FrameHeight)
		src.Frames = opts.Frames
		return src, noop, nil
	case opts.InputPath == "":
		return nil, noop, errors.New("either --input or --pattern is required")
	case opts.InputPath == "-":
		if opts.Control {
			return nil, noop, errors.New("--control uses stdin; read frames from a file or fifo instead of '-'")
		}
		return tracker.NewRawSource(os.Stdin, cfg.FrameWidth, cfg.FrameHeight), noop, nil
	default:
		f, err := os.Open(opts.InputPath)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open input: %w", err)
		}
		return tracker.NewRawSource(f, cfg.FrameWidth, cfg.FrameHeight), func() { f.Close() }, nil
	}
}
