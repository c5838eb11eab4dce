package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into rendering, sampling, encoding, behavior, display,
// and utility. A --config YAML file is applied before the remaining flags so
// that anything passed on the command line still wins.

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ParseFlags parses os.Args into cfg. On --help or --version it prints and
// exits. On error it returns non-nil (e.g. unknown flag, missing positional
// args, unreadable config file).
func ParseFlags(cfg *Config, version string) error {
	// A config file changes the defaults the other flags see, so it has to
	// be found and applied before the flag set is defined.
	if path := scanConfigFlag(os.Args[1:]); path != "" {
		cfg.ConfigFile = path
		if err := LoadFile(path, cfg); err != nil {
			return err
		}
	}

	fs := flag.NewFlagSet("vtkmovie", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs, version) }

	var exits exitFlags

	defineRenderFlags(fs, cfg)
	defineSamplingFlags(fs, cfg)
	defineEncodingFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &exits)
	defineUtilityFlags(fs, cfg, &exits)

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	applyColorFlags(cfg, &exits)

	if exits.showHelp {
		printUsage(fs, version)
		os.Exit(0)
	}
	if exits.showVersion {
		fmt.Fprintln(os.Stdout, "vtkmovie v"+version)
		os.Exit(0)
	}

	return parsePositionalArgs(fs, cfg)
}

// scanConfigFlag finds --config/-C in raw args before flag parsing.
// Supports "--config path" and "--config=path" forms.
func scanConfigFlag(args []string) string {
	for i, a := range args {
		switch {
		case a == "--config" || a == "-config" || a == "-C":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(a, "--config="):
			return strings.TrimPrefix(a, "--config=")
		case strings.HasPrefix(a, "-config="):
			return strings.TrimPrefix(a, "-config=")
		}
	}
	return ""
}

// exitFlags holds flags that are applied after Parse: color overrides and
// the help/version exits.
type exitFlags struct {
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineRenderFlags registers scalars, clim, camera, color, colormap, size,
// point radius, and the virtual display switch.
func defineRenderFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Scalars, "scalars", cfg.Scalars, "Point-data array used to color the mesh")
	fs.StringVar(&cfg.Scalars, "s", cfg.Scalars, "Same as --scalars")
	fs.Var(&climValue{cfg}, "clim", "Color-scale bounds as 'min,max' (default: data range)")
	fs.Var(&cameraValue{&cfg.Camera}, "camera", "Camera: plane (xy), view vector (x,y,z) or pose (pos;focal;up)")
	fs.StringVar(&cfg.PointColor, "color", cfg.PointColor, "Point color when no scalars are selected")
	fs.StringVar(&cfg.Colormap, "colormap", cfg.Colormap, "Colormap for scalar coloring (viridis, plasma, jet, coolwarm, gray)")
	fs.Var(&sizeValue{cfg}, "size", "Frame size as WIDTHxHEIGHT (default: 1024x768)")
	fs.Float64Var(&cfg.PointRadius, "point-radius", cfg.PointRadius, "Point sprite radius in pixels")
	fs.BoolVar(&cfg.VirtualDisplay, "virtual-display", cfg.VirtualDisplay, "Start a virtual display (Xvfb) before rendering")
	fs.BoolVar(&cfg.VirtualDisplay, "x", cfg.VirtualDisplay, "Same as --virtual-display")
}

// defineSamplingFlags registers fps, source-fps, suffix, and split token.
func defineSamplingFlags(fs *flag.FlagSet, cfg *Config) {
	fs.IntVar(&cfg.FPS, "fps", cfg.FPS, "Output video frame rate")
	fs.IntVar(&cfg.SourceFPS, "source-fps", cfg.SourceFPS, "Snapshot capture rate used for frame sampling")
	fs.StringVar(&cfg.SnapshotSuffix, "suffix", cfg.SnapshotSuffix, "Snapshot file suffix (exact match)")
	fs.StringVar(&cfg.SplitToken, "split-token", cfg.SplitToken, "Token delimiting the frame index in file stems")
}

// defineEncodingFlags registers codec, strict, and dry-run.
func defineEncodingFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.VideoCodec, "codec", cfg.VideoCodec, "ffmpeg video codec")
	fs.BoolVar(&cfg.StrictMode, "strict", false, "Disable the automatic codec fallback")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Preview the frame plan; do not render or encode")
	fs.BoolVar(&cfg.DryRun, "d", false, "Same as --dry-run")
}

// defineDisplayFlags registers --color-mode overrides, verbose, --check, --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, e *exitFlags) {
	fs.BoolVar(&e.forceColor, "force-color", false, "Force colored logs")
	fs.BoolVar(&e.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
}

// defineUtilityFlags registers --config (already applied; re-registered so
// flag parsing accepts it), --version and --help.
func defineUtilityFlags(fs *flag.FlagSet, cfg *Config, e *exitFlags) {
	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "YAML config file (flags override file values)")
	fs.StringVar(&cfg.ConfigFile, "C", cfg.ConfigFile, "Same as --config")
	fs.BoolVar(&e.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&e.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&e.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&e.showHelp, "h", false, "Same as --help")
}

// applyColorFlags copies the color override flags into cfg.
func applyColorFlags(cfg *Config, e *exitFlags) {
	if e.noColor {
		cfg.ColorMode = ColorNever
	} else if e.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets InputDir and OutputPath from the positional args
// when not in CheckOnly mode. Positionals are optional when a config file
// already supplied the paths.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if cfg.CheckOnly {
		return nil
	}
	switch len(args) {
	case 0:
		if cfg.InputDir == "" || cfg.OutputPath == "" {
			return fmt.Errorf("need exactly input_dir and output_video")
		}
		return nil
	case 2:
		cfg.InputDir = NormalizeDirArg(args[0])
		cfg.OutputPath = args[1]
		return nil
	default:
		return fmt.Errorf("need exactly input_dir and output_video")
	}
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(fs *flag.FlagSet, version string) {
	const col1 = 30 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "vtkmovie v" + version + " — render VTK snapshot sequences into a video"},
		{"", ""},
		{"  vtkmovie [OPTIONS] <input_dir> <output_video>", ""},
		{"", ""},
		{"Rendering", ""},
		{"  -s, --scalars <name>", "Point-data array used to color the mesh"},
		{"  --clim <min,max>", "Color-scale bounds (default: data range)"},
		{"  --camera <spec>", "Plane (xy), view vector (x,y,z) or pose (pos;focal;up)"},
		{"  --color <name>", "Point color when no scalars are selected (default: blue)"},
		{"  --colormap <name>", "viridis | plasma | jet | coolwarm | gray"},
		{"  --size <WxH>", "Frame size (default: 1024x768)"},
		{"  --point-radius <px>", "Point sprite radius (default: 2)"},
		{"  -x, --virtual-display", "Start a virtual display (Xvfb) before rendering"},
		{"", ""},
		{"Sampling", ""},
		{"  --fps <n>", "Output video frame rate (default: 10)"},
		{"  --source-fps <n>", "Snapshot capture rate (default: 60)"},
		{"  --suffix <.ext>", "Snapshot file suffix (default: .vtk)"},
		{"  --split-token <tok>", "Frame-index delimiter in file stems (default: _)"},
		{"", ""},
		{"Encoding", ""},
		{"  --codec <name>", "ffmpeg video codec (default: libx264)"},
		{"  --strict", "Disable the automatic codec fallback"},
		{"  -d, --dry-run", "Preview the frame plan; do not render or encode"},
		{"", ""},
		{"Display", ""},
		{"  --force-color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  -C, --config <path>", "YAML config file (flags override file values)"},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -c, --check", "System diagnostics (ffmpeg, encoders, Xvfb)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapters for structured fields.

type cameraValue struct{ p *CameraSpec }

func (c *cameraValue) String() string {
	if c.p == nil {
		return ""
	}
	return c.p.String()
}

func (c *cameraValue) Set(s string) error {
	spec, err := ParseCameraSpec(s)
	if err != nil {
		return err
	}
	*c.p = spec
	return nil
}

type climValue struct{ cfg *Config }

func (c *climValue) String() string {
	if c.cfg == nil || !c.cfg.HasScalarLimits {
		return ""
	}
	return fmt.Sprintf("%g,%g", c.cfg.ScalarMin, c.cfg.ScalarMax)
}

func (c *climValue) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return fmt.Errorf("clim needs 'min,max' (got %q)", s)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return fmt.Errorf("invalid clim minimum %q", parts[0])
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return fmt.Errorf("invalid clim maximum %q", parts[1])
	}
	c.cfg.ScalarMin, c.cfg.ScalarMax = lo, hi
	c.cfg.HasScalarLimits = true
	return nil
}

type sizeValue struct{ cfg *Config }

func (v *sizeValue) String() string {
	if v.cfg == nil {
		return ""
	}
	return fmt.Sprintf("%dx%d", v.cfg.FrameWidth, v.cfg.FrameHeight)
}

func (v *sizeValue) Set(s string) error {
	w, h, err := ParseFrameSize(s)
	if err != nil {
		return err
	}
	v.cfg.FrameWidth, v.cfg.FrameHeight = w, h
	return nil
}
