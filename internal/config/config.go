// Package config holds runtime configuration: defaults, YAML config files,
// CLI flag parsing, and validation.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// --- Enum types for validated string fields ---

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Video containers accepted for the output path (lowercase, with dot).
var videoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".mov":  true,
	".webm": true,
	".avi":  true,
}

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally overlaid from a YAML file, and then mutated by [ParseFlags]
// before being passed (by pointer) to packages that need it.
type Config struct {
	// Paths (set from positional args).
	InputDir   string
	OutputPath string

	// Snapshot listing.
	SnapshotSuffix string // Default: ".vtk". Exact, case-sensitive match.
	SplitToken     string // Default: "_". Delimits the frame index in stems.

	// Rendering.
	Scalars         string     // Point-data array used to color the mesh. Empty: uniform color.
	ScalarMin       float64    // Lower color-scale bound (when HasScalarLimits).
	ScalarMax       float64    // Upper color-scale bound (when HasScalarLimits).
	HasScalarLimits bool       // Set by --clim; otherwise bounds come from the data.
	Camera          CameraSpec // Default: auto-fit isometric view.
	PointColor      string     // Default: "blue". Used when Scalars is empty.
	Colormap        string     // Default: "viridis" (applies only with Scalars).
	FrameWidth      int        // Default: 1024.
	FrameHeight     int        // Default: 768.
	PointRadius     float64    // Point sprite radius in pixels. Default: 2.
	VirtualDisplay  bool       // Start Xvfb before rendering.

	// Frame sampling.
	FPS       int // Output video frame rate. Default: 10.
	SourceFPS int // Snapshot capture rate. Default: 60.

	// Encoding.
	VideoCodec  string // Default: "libx264". Fallbacks applied on retry.
	PixelFormat string // Fixed: "yuv420p" for broad player support.

	// Behavior flags.
	DryRun     bool
	StrictMode bool // Disable the encoder codec fallback.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run --check diagnostics and exit.

	// Config file (applied before flags).
	ConfigFile string
}

// DefaultConfig returns a Config with all defaults. Used as the base before
// a YAML file and [ParseFlags] apply overrides.
func DefaultConfig() Config {
	return Config{
		SnapshotSuffix: ".vtk",
		SplitToken:     "_",
		Camera:         CameraSpec{Kind: CameraAuto},
		PointColor:     "blue",
		Colormap:       "viridis",
		FrameWidth:     1024,
		FrameHeight:    768,
		PointRadius:    2,
		FPS:            10,
		SourceFPS:      60,
		VideoCodec:     "libx264",
		PixelFormat:    "yuv420p",
		ColorMode:      ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks field ranges and enum values. When not in CheckOnly mode,
// it also requires the input directory and output video path.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.FPS <= 0 {
		return fmt.Errorf("fps must be a positive integer (got %d)", c.FPS)
	}
	if c.SourceFPS <= 0 {
		return fmt.Errorf("source fps must be a positive integer (got %d)", c.SourceFPS)
	}
	if c.FrameWidth <= 0 || c.FrameHeight <= 0 {
		return fmt.Errorf("frame size must be positive (got %dx%d)", c.FrameWidth, c.FrameHeight)
	}
	if c.PointRadius <= 0 {
		return fmt.Errorf("point radius must be positive (got %g)", c.PointRadius)
	}
	if c.HasScalarLimits && c.ScalarMin > c.ScalarMax {
		return fmt.Errorf("scalar limits out of order (%g > %g)", c.ScalarMin, c.ScalarMax)
	}
	if c.SnapshotSuffix == "" || !strings.HasPrefix(c.SnapshotSuffix, ".") {
		return fmt.Errorf("snapshot suffix must start with '.' (got %q)", c.SnapshotSuffix)
	}
	if c.SplitToken == "" {
		return errors.New("split token must not be empty")
	}

	if c.CheckOnly {
		return nil
	}
	if c.InputDir == "" || c.OutputPath == "" {
		return errors.New("need exactly input_dir and output_video")
	}
	ext := strings.ToLower(filepath.Ext(c.OutputPath))
	if !videoExtensions[ext] {
		return fmt.Errorf("output %q must use a video extension (mp4, mkv, mov, webm, avi)", c.OutputPath)
	}
	return nil
}

// Stride returns the frame sampling interval: every Stride-th snapshot is
// rendered. Derived from the ratio of capture rate to output rate, never
// below 1 (an output rate above the capture rate renders every snapshot).
func (c *Config) Stride() int {
	stride := int(float64(c.SourceFPS)/float64(c.FPS) + 0.5)
	if stride < 1 {
		return 1
	}
	return stride
}
