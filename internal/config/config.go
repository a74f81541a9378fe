package config

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Sookyeong0505/skin-detection-optimizer/internal/fusion"
	"github.com/Sookyeong0505/skin-detection-optimizer/internal/skin"
)

// Config is the flat option set consumed by the analysis core.
type Config struct {
	InputPath  string `yaml:"input"`
	OutputPath string `yaml:"output"`
	ModelPath  string `yaml:"model"`

	Engine    string `yaml:"engine"`     // opencv | onnx
	Workers   int    `yaml:"workers"`
	ScaleMode string `yaml:"scale_mode"` // letterbox | stretch

	ConfidenceMin float64 `yaml:"confidence_min"`
	IoUThreshold  float64 `yaml:"iou_threshold"`
	CanvasSize    int     `yaml:"canvas_size"`

	NarrowRange   skin.ChromaRange `yaml:"narrow_range"`
	ExtendedRange skin.ChromaRange `yaml:"extended_range"`
	PassLow       float64          `yaml:"pass_low"`
	PassHigh      float64          `yaml:"pass_high"`

	Fusion fusion.Weights `yaml:"fusion"`

	TaskTimeout  time.Duration `yaml:"task_timeout"`
	ShowStats    bool          `yaml:"stats"`
	BuildVersion string        `yaml:"-"`
}

// Default returns the tuned defaults.
func Default() *Config {
	return &Config{
		Engine:        "opencv",
		Workers:       runtime.NumCPU(),
		ScaleMode:     "letterbox",
		ConfidenceMin: 0.5,
		IoUThreshold:  0.4,
		CanvasSize:    640,
		NarrowRange:   skin.DefaultNarrow(),
		ExtendedRange: skin.DefaultExtended(),
		PassLow:       0.25,
		PassHigh:      0.40,
		Fusion:        fusion.DefaultWeights(),
		TaskTimeout:   30 * time.Second,
	}
}

// Load overlays a yaml file onto the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects option combinations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.ConfidenceMin < 0 || c.ConfidenceMin > 1 {
		return fmt.Errorf("confidence_min %.2f outside [0,1]", c.ConfidenceMin)
	}
	if c.IoUThreshold < 0 || c.IoUThreshold > 1 {
		return fmt.Errorf("iou_threshold %.2f outside [0,1]", c.IoUThreshold)
	}
	if c.CanvasSize < 32 || c.CanvasSize%32 != 0 {
		return fmt.Errorf("canvas_size %d must be a positive multiple of 32", c.CanvasSize)
	}
	if c.ScaleMode != "letterbox" && c.ScaleMode != "stretch" {
		return fmt.Errorf("unknown scale_mode: %s", c.ScaleMode)
	}
	if c.PassLow <= 0 || c.PassHigh <= c.PassLow {
		return fmt.Errorf("pass lines must satisfy 0 < low < high, got %.2f/%.2f",
			c.PassLow, c.PassHigh)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.TaskTimeout <= 0 {
		return fmt.Errorf("task_timeout must be positive, got %s", c.TaskTimeout)
	}
	return nil
}
