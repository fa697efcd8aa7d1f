package config

import (
	"errors"
	"fmt"

	"github.com/ivlev/fractal2video/internal/palette"
)

const (
	DefaultWidth          = 3200
	DefaultHeight         = 1800
	DefaultFPS            = 60
	DefaultGradient       = "sinebow"
	DefaultFractal        = "mandelbrot"
	DefaultOutput         = "mandelbrot.mp4"
	DefaultSnapshotOutput = "mandelbrot_snapshot.png"
	DefaultLookahead      = 2
	DefaultEncoder        = "auto"
)

// Properties is the render properties file. Zero-valued fields are filled
// from the defaults before decoding, so a file only lists what it overrides.
type Properties struct {
	Width          int                       `yaml:"width" toml:"width"`
	Height         int                       `yaml:"height" toml:"height"`
	FPS            int                       `yaml:"frames_per_second" toml:"frames_per_second"`
	Gradient       string                    `yaml:"colorgrad" toml:"colorgrad"`
	Fractal        string                    `yaml:"fractal" toml:"fractal"`
	Output         string                    `yaml:"output" toml:"output"`
	SnapshotOutput string                    `yaml:"snapshot_output" toml:"snapshot_output"`
	Encoder        string                    `yaml:"encoder" toml:"encoder"`
	Quality        int                       `yaml:"quality" toml:"quality"`
	Workers        int                       `yaml:"workers" toml:"workers"`
	Lookahead      int                       `yaml:"lookahead" toml:"lookahead"`
	Supersample    int                       `yaml:"supersample" toml:"supersample"`
	Gradients      map[string]palette.Custom `yaml:"gradients,omitempty" toml:"gradients,omitempty"`
}

// Default returns the properties used when no file is given.
func Default() Properties {
	return Properties{
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		FPS:            DefaultFPS,
		Gradient:       DefaultGradient,
		Fractal:        DefaultFractal,
		Output:         DefaultOutput,
		SnapshotOutput: DefaultSnapshotOutput,
		Encoder:        DefaultEncoder,
		Lookahead:      DefaultLookahead,
		Supersample:    1,
	}
}

// Load decodes the properties file at path over the defaults.
func Load(path string) (Properties, error) {
	p := Default()
	if path == "" {
		return p, nil
	}
	if err := DecodeFile(path, &p); err != nil {
		return p, fmt.Errorf("failed to load properties: %w", err)
	}
	return p, p.Validate()
}

// Validate rejects values the renderer cannot work with. Workers and quality
// of 0 mean "pick automatically".
func (p Properties) Validate() error {
	var errs []error
	if p.Width < 1 || p.Height < 1 {
		errs = append(errs, fmt.Errorf("frame size must be at least 1x1, got %dx%d", p.Width, p.Height))
	}
	if p.FPS < 1 {
		errs = append(errs, fmt.Errorf("frames_per_second must be at least 1, got %d", p.FPS))
	}
	if p.Supersample < 1 {
		errs = append(errs, fmt.Errorf("supersample must be at least 1, got %d", p.Supersample))
	}
	if p.Lookahead < 0 {
		errs = append(errs, fmt.Errorf("lookahead must not be negative, got %d", p.Lookahead))
	}
	if p.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", p.Workers))
	}
	if p.Quality < 0 {
		errs = append(errs, fmt.Errorf("quality must not be negative, got %d", p.Quality))
	}
	return errors.Join(errs...)
}

// Config is the resolved runtime configuration: properties plus command line
// overrides and probed host capabilities.
type Config struct {
	Properties

	FramesPath   string
	VideoEncoder string
	ShowStats    bool
	BuildVersion string
}

// DefaultQuality returns the quality setting for an encoder when none is
// configured: CRF for libx264, CQ for NVENC, bitrate in 100 kbit/s for
// VideoToolbox.
func DefaultQuality(encoder string) int {
	switch encoder {
	case "h264_videotoolbox":
		return 75
	case "h264_nvenc":
		return 28
	default:
		return 23
	}
}
