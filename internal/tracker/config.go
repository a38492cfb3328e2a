package tracker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ironsheep/redeye-tracker/internal/detection"
	"github.com/ironsheep/redeye-tracker/internal/imaging"
)

// Config describes the fixed geometry and the tunable parameters of the
// tracker. Frame geometry is fixed for the lifetime of a Pipeline; the
// threshold and rank mode may be changed between frames through Controls.
type Config struct {
	FrameWidth  int `json:"frame_width"`
	FrameHeight int `json:"frame_height"`
	Scale       int `json:"scale"`

	Classifier   string  `json:"classifier"`
	Threshold    int     `json:"threshold"`
	TargetHue    float64 `json:"target_hue"`
	HueTolerance float64 `json:"hue_tolerance"`

	RankMode      string               `json:"rank_mode"`
	Shape         detection.ShapeRules `json:"shape"`
	MaxCandidates int                  `json:"max_candidates"`

	// QueueLimit caps the labeler's job queue. Zero lets it grow.
	QueueLimit int `json:"queue_limit"`

	// Debug starts the runner in step mode.
	Debug bool `json:"debug"`
}

// DefaultConfig returns the configuration of the reference device:
// 640x480 frames reduced by 5 to a 128x96 grid, ratio test at 50%.
func DefaultConfig() Config {
	return Config{
		FrameWidth:    640,
		FrameHeight:   480,
		Scale:         5,
		Classifier:    string(imaging.ModeRatio),
		Threshold:     50,
		TargetHue:     0,
		HueTolerance:  20,
		RankMode:      string(detection.RankBySize),
		Shape:         detection.DefaultShapeRules(),
		MaxCandidates: detection.MaxEstimateCandidates,
	}
}

// GridSize returns the working-grid dimensions.
func (c Config) GridSize() (width, height int) {
	return c.FrameWidth / c.Scale, c.FrameHeight / c.Scale
}

// NewClassifier builds the classifier described by the configuration.
func (c Config) NewClassifier() (*imaging.Classifier, error) {
	mode, err := imaging.ParseClassifierMode(c.Classifier)
	if err != nil {
		return nil, err
	}
	return &imaging.Classifier{
		Mode:         mode,
		Threshold:    c.Threshold,
		TargetHue:    c.TargetHue,
		HueTolerance: c.HueTolerance,
	}, nil
}

// Validate checks the configuration and returns a *ConfigError describing
// the first problem found.
func (c Config) Validate() error {
	switch {
	case c.Scale <= 0:
		return &ConfigError{Field: "scale", Reason: fmt.Sprintf("must be positive, got %d", c.Scale)}
	case c.FrameWidth <= 0 || c.FrameHeight <= 0:
		return &ConfigError{Field: "frame size", Reason: fmt.Sprintf("must be positive, got %dx%d", c.FrameWidth, c.FrameHeight)}
	case c.FrameWidth%c.Scale != 0:
		return &ConfigError{Field: "frame_width", Reason: fmt.Sprintf("%d is not a multiple of scale %d", c.FrameWidth, c.Scale)}
	case c.FrameHeight%c.Scale != 0:
		return &ConfigError{Field: "frame_height", Reason: fmt.Sprintf("%d is not a multiple of scale %d", c.FrameHeight, c.Scale)}
	case c.Shape.MinWidth < 0 || c.Shape.MinHeight < 0:
		return &ConfigError{Field: "shape", Reason: "min_width and min_height must not be negative"}
	case c.MaxCandidates < 1:
		return &ConfigError{Field: "max_candidates", Reason: fmt.Sprintf("must be at least 1, got %d", c.MaxCandidates)}
	case c.QueueLimit < 0:
		return &ConfigError{Field: "queue_limit", Reason: fmt.Sprintf("must not be negative, got %d", c.QueueLimit)}
	}

	if _, err := detection.ParseRankMode(c.RankMode); err != nil {
		return &ConfigError{Field: "rank_mode", Reason: err.Error()}
	}
	cls, err := c.NewClassifier()
	if err != nil {
		return &ConfigError{Field: "classifier", Reason: err.Error()}
	}
	if err := cls.CheckThreshold(c.Threshold); err != nil {
		return &ConfigError{Field: "threshold", Reason: err.Error()}
	}
	return nil
}

// LoadConfig reads a JSON configuration file over DefaultConfig, so fields
// omitted from the file keep their defaults. The result is validated.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return cfg, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return cfg, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
