package golfswing

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/swdee/go-golfswing/benchmark"
	"github.com/swdee/go-golfswing/metrics"
	"github.com/swdee/go-golfswing/phase"
	"github.com/swdee/go-golfswing/pose"
	"github.com/swdee/go-golfswing/smoothing"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of a swing analysis session
type Config struct {
	// FrameRate is the capture rate in frames per second, used for all
	// timing calculations
	FrameRate float64 `yaml:"frame_rate"`
	// HistorySize is the number of frames kept in the history buffer
	HistorySize int `yaml:"history_size"`
	// MetricsHistory is the number of metric snapshots kept
	MetricsHistory int `yaml:"metrics_history"`
	// Smoothing selects the filter applied to the separation series
	Smoothing smoothing.Kind `yaml:"smoothing"`
	// SmoothingFactor is the filter strength in (0,1], lower is smoother
	SmoothingFactor float64 `yaml:"smoothing_factor"`
	// MinFrameInterval drops frames arriving sooner than this after the
	// last processed frame, 0 processes every frame
	MinFrameInterval time.Duration `yaml:"min_frame_interval"`
	// SkillLevel and Club select the benchmark reference bands
	SkillLevel benchmark.SkillLevel `yaml:"skill_level"`
	Club       benchmark.Club       `yaml:"club"`
	// Handedness of the golfer
	Handedness pose.Handedness `yaml:"handedness"`
	// CPUCores pins the processing goroutine to these cores when set
	CPUCores []int `yaml:"cpu_cores"`
	// InvalidStreakWarn is the number of consecutive invalid frames after
	// which a warning is logged
	InvalidStreakWarn int `yaml:"invalid_streak_warn"`

	Validation pose.Validation  `yaml:"validation"`
	Phase      phase.Thresholds `yaml:"phase"`
	Metrics    metrics.Config   `yaml:"metrics"`
}

// DefaultConfig returns the configuration for a right handed intermediate
// golfer hitting driver, captured at 30 FPS
func DefaultConfig() Config {
	return Config{
		FrameRate:         30,
		HistorySize:       90,
		MetricsHistory:    90,
		Smoothing:         smoothing.KindEMA,
		SmoothingFactor:   0.5,
		SkillLevel:        benchmark.Intermediate,
		Club:              benchmark.Driver,
		Handedness:        pose.RightHanded,
		InvalidStreakWarn: 5,
		Validation:        pose.DefaultValidation(),
		Phase:             phase.DefaultThresholds(),
		Metrics:           metrics.DefaultConfig(),
	}
}

// Validate checks the configuration, all errors wrap ErrInvalidConfig
func (c Config) Validate() error {

	if c.FrameRate <= 0 || math.IsNaN(c.FrameRate) || math.IsInf(c.FrameRate, 0) {
		return fmt.Errorf("%w: frame_rate must be positive, got %v", ErrInvalidConfig, c.FrameRate)
	}

	if c.HistorySize < 1 || c.MetricsHistory < 1 {
		return fmt.Errorf("%w: history sizes must be at least 1", ErrInvalidConfig)
	}

	if _, err := smoothing.ParseKind(string(c.Smoothing)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if c.SmoothingFactor <= 0 || c.SmoothingFactor > 1 {
		return fmt.Errorf("%w: smoothing_factor must be within (0,1], got %v",
			ErrInvalidConfig, c.SmoothingFactor)
	}

	if c.MinFrameInterval < 0 {
		return fmt.Errorf("%w: min_frame_interval must not be negative", ErrInvalidConfig)
	}

	for _, core := range c.CPUCores {
		if core < 0 || core >= maxCPUCores {
			return fmt.Errorf("%w: cpu core %d out of range", ErrInvalidConfig, core)
		}
	}

	if err := c.Validation.Verify(); err != nil {
		return fmt.Errorf("%w: validation: %v", ErrInvalidConfig, err)
	}

	if err := c.Phase.Validate(); err != nil {
		return fmt.Errorf("%w: phase: %v", ErrInvalidConfig, err)
	}

	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("%w: metrics: %v", ErrInvalidConfig, err)
	}

	return nil
}

// LoadConfig reads a YAML configuration file.  Keys not present in the file
// keep their default values.
func LoadConfig(path string) (Config, error) {

	data, err := os.ReadFile(path)

	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig parses YAML configuration data over the defaults
func ParseConfig(data []byte) (Config, error) {

	cfg := DefaultConfig()

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
