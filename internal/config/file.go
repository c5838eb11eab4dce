package config

// YAML config-file support. A file supplies the same settings as the CLI;
// flags passed on the command line still win because they are parsed after
// the file is applied.

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

// fileConfig is the YAML wire form. Pointer fields distinguish "absent"
// from zero values so the file only overrides what it actually sets.
type fileConfig struct {
	InputDir       *string    `yaml:"input_dir"`
	Output         *string    `yaml:"output"`
	Suffix         *string    `yaml:"suffix"`
	SplitToken     *string    `yaml:"split_token"`
	Scalars        *string    `yaml:"scalars"`
	Clim           *[]float64 `yaml:"clim"`
	Camera         *string    `yaml:"camera"`
	Color          *string    `yaml:"color"`
	Colormap       *string    `yaml:"colormap"`
	Size           *string    `yaml:"size"`
	PointRadius    *float64   `yaml:"point_radius"`
	VirtualDisplay *bool      `yaml:"virtual_display"`
	FPS            *int       `yaml:"fps"`
	SourceFPS      *int       `yaml:"source_fps"`
	Codec          *string    `yaml:"codec"`
}

// LoadFile overlays settings from a YAML file onto cfg.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.UnmarshalStrict(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.InputDir != nil {
		cfg.InputDir = NormalizeDirArg(*fc.InputDir)
	}
	if fc.Output != nil {
		cfg.OutputPath = *fc.Output
	}
	if fc.Suffix != nil {
		cfg.SnapshotSuffix = *fc.Suffix
	}
	if fc.SplitToken != nil {
		cfg.SplitToken = *fc.SplitToken
	}
	if fc.Scalars != nil {
		cfg.Scalars = *fc.Scalars
	}
	if fc.Clim != nil {
		if len(*fc.Clim) != 2 {
			return fmt.Errorf("config file %s: clim needs exactly 2 numbers (got %d)", path, len(*fc.Clim))
		}
		cfg.ScalarMin, cfg.ScalarMax = (*fc.Clim)[0], (*fc.Clim)[1]
		cfg.HasScalarLimits = true
	}
	if fc.Camera != nil {
		spec, err := ParseCameraSpec(*fc.Camera)
		if err != nil {
			return fmt.Errorf("config file %s: %w", path, err)
		}
		cfg.Camera = spec
	}
	if fc.Color != nil {
		cfg.PointColor = *fc.Color
	}
	if fc.Colormap != nil {
		cfg.Colormap = *fc.Colormap
	}
	if fc.Size != nil {
		w, h, err := ParseFrameSize(*fc.Size)
		if err != nil {
			return fmt.Errorf("config file %s: %w", path, err)
		}
		cfg.FrameWidth, cfg.FrameHeight = w, h
	}
	if fc.PointRadius != nil {
		cfg.PointRadius = *fc.PointRadius
	}
	if fc.VirtualDisplay != nil {
		cfg.VirtualDisplay = *fc.VirtualDisplay
	}
	if fc.FPS != nil {
		cfg.FPS = *fc.FPS
	}
	if fc.SourceFPS != nil {
		cfg.SourceFPS = *fc.SourceFPS
	}
	if fc.Codec != nil {
		cfg.VideoCodec = *fc.Codec
	}
	return nil
}

// ParseFrameSize parses a "WIDTHxHEIGHT" string (e.g. "1280x720").
func ParseFrameSize(s string) (int, int, error) {
	parts := strings.SplitN(strings.ToLower(strings.TrimSpace(s)), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid frame size %q (use WIDTHxHEIGHT, e.g. 1280x720)", s)
	}
	var w, h int
	if _, err := fmt.Sscanf(parts[0], "%d", &w); err != nil {
		return 0, 0, fmt.Errorf("invalid frame width %q", parts[0])
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &h); err != nil {
		return 0, 0, fmt.Errorf("invalid frame height %q", parts[1])
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("frame size must be positive (got %dx%d)", w, h)
	}
	return w, h, nil
}
