// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/user/h264enc/pkg/adapters/engines"
	"github.com/user/h264enc/pkg/pipeline"
	"github.com/user/h264enc/pkg/ports"
)

// ErrInvalid is returned by Validate for unusable settings.
var ErrInvalid = errors.New("config: invalid configuration")

// Config represents the full configuration for h264enc.
type Config struct {
	// Input/Output
	OutputPath  string `yaml:"output"`
	SummaryPath string `yaml:"summary"`

	// Frame geometry; zero means "take it from the first input image"
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// Encoding
	Engine         string  `yaml:"engine"`
	FPS            float64 `yaml:"fps"`
	SkipDuplicates bool    `yaml:"skip_duplicates"`

	// Synthetic pattern
	PatternFrames int `yaml:"pattern_frames"`
	PatternHold   int `yaml:"pattern_hold"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Debug
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		OutputPath: "output.h264",

		Engine:         string(engines.NameAuto),
		FPS:            30.0,
		SkipDuplicates: true,

		PatternFrames: 90,
		PatternHold:   1,

		LogLevel: ports.LevelInfo.String(),

		DebugDir: "./debug",
	}
}

// LoadFromFile loads configuration from a YAML file.
// Keys missing from the file keep their default values.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks settings that do not depend on the input.
func (c Config) Validate() error {
	if !(c.FPS > 0) || math.IsInf(c.FPS, 0) {
		return fmt.Errorf("%w: fps must be positive, got %v", ErrInvalid, c.FPS)
	}
	if c.Width < 0 || c.Height < 0 || c.Width%2 != 0 || c.Height%2 != 0 {
		return fmt.Errorf("%w: size must be even and non-negative, got %dx%d", ErrInvalid, c.Width, c.Height)
	}
	if (c.Width == 0) != (c.Height == 0) {
		return fmt.Errorf("%w: width and height must be set together", ErrInvalid)
	}
	if _, err := engines.Parse(c.Engine); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.PatternFrames < 0 || c.PatternHold < 0 {
		return fmt.Errorf("%w: pattern frames and hold must be non-negative", ErrInvalid)
	}
	if c.OutputPath == "" {
		return fmt.Errorf("%w: output path is required", ErrInvalid)
	}
	if _, err := ports.ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Level returns the parsed log level, or LevelInfo when it does not parse.
func (c Config) Level() ports.LogLevel {
	level, _ := ports.ParseLogLevel(c.LogLevel)
	return level
}

// EngineOptions converts Config to engines.Options.
func (c Config) EngineOptions(logger ports.Logger) engines.Options {
	return engines.Options{
		SkipDuplicates: c.SkipDuplicates,
		Logger:         logger,
	}
}

// ToEncodeInput converts Config to pipeline.EncodeInput for the given
// source and sink.
func (c Config) ToEncodeInput(source ports.FrameSource, sink ports.LayerSink) pipeline.EncodeInput {
	return pipeline.EncodeInput{
		Source: source,
		Sink:   sink,
		Width:  c.Width,
		Height: c.Height,
		FPS:    c.FPS,
	}
}
