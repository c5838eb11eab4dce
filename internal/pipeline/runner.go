// Package pipeline orchestrates snapshot discovery, stride sampling, frame
// rendering, and video encoding for one run.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sphviz/vtkmovie/internal/config"
	"github.com/sphviz/vtkmovie/internal/display"
	"github.com/sphviz/vtkmovie/internal/encode"
	"github.com/sphviz/vtkmovie/internal/logging"
	"github.com/sphviz/vtkmovie/internal/render"
	"github.com/sphviz/vtkmovie/internal/snapshot"
	"github.com/sphviz/vtkmovie/internal/vdisplay"
)

// RunStats tracks what one run produced.
type RunStats struct {
	Snapshots   int
	Frames      int
	Stride      int
	OutputBytes int64
}

// hooks are the pipeline's side-effecting collaborators, split out so tests
// can substitute fakes for the renderer, the encoder, and the X display.
type hooks struct {
	startDisplay func(ctx context.Context) (func(), error)
	renderFrame  func(p *render.Plotter, file snapshot.File, style frameStyle, path string) error
	encode       func(ctx context.Context, cfg *config.Config, log *logging.Logger, frames []string, listPath string) error
}

func defaultHooks() hooks {
	return hooks{
		startDisplay: func(ctx context.Context) (func(), error) {
			d, err := vdisplay.Start(ctx)
			if err != nil {
				return nil, err
			}
			return d.Stop, nil
		},
		renderFrame: renderFrame,
		encode:      encodeVideo,
	}
}

// Run turns the snapshot directory into a video: list and sort snapshots,
// sample every stride-th one, render each sampled snapshot to a PNG in a
// scoped temp directory, and encode the ordered frames at the output frame
// rate. The temp directory is removed whether or not the run succeeds.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) (RunStats, error) {
	return run(ctx, cfg, log, defaultHooks())
}

func run(ctx context.Context, cfg *config.Config, log *logging.Logger, h hooks) (RunStats, error) {
	var stats RunStats
	start := time.Now()

	files, err := snapshot.List(cfg.InputDir, cfg.SnapshotSuffix, cfg.SplitToken)
	if err != nil {
		return stats, err
	}
	if len(files) == 0 {
		return stats, fmt.Errorf("no *%s snapshots in %s", cfg.SnapshotSuffix, cfg.InputDir)
	}
	stats.Snapshots = len(files)
	stats.Stride = cfg.Stride()

	positions := sampledPositions(len(files), stats.Stride)
	if err := checkFrameCount(len(positions)); err != nil {
		return stats, err
	}

	style, err := resolveStyle(cfg)
	if err != nil {
		return stats, err
	}

	logPlanHeader(cfg, log, &stats, len(positions))

	if cfg.DryRun {
		logDryRun(cfg, log, files, positions)
		stats.Frames = len(positions)
		return stats, nil
	}

	if cfg.VirtualDisplay {
		stop, err := h.startDisplay(ctx)
		if err != nil {
			return stats, err
		}
		defer stop()
	}

	tmpDir, err := os.MkdirTemp("", "vtkmovie-frames-")
	if err != nil {
		return stats, fmt.Errorf("create frame directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	p := render.NewPlotter(cfg.FrameWidth, cfg.FrameHeight)
	defer p.Close()
	p.SetCamera(cfg.Camera)

	framePaths := make([]string, 0, len(positions))
	for i, pos := range positions {
		if ctx.Err() != nil {
			log.Warn("Interrupted")
			return stats, ctx.Err()
		}

		file := files[pos]
		path := filepath.Join(tmpDir, display.FormatFrameLabel(i)+".png")
		log.Render("[%d/%d] %s", i+1, len(positions), filepath.Base(file.Path))
		if err := h.renderFrame(p, file, style, path); err != nil {
			return stats, err
		}
		framePaths = append(framePaths, path)
		stats.Frames++
	}

	if err := os.MkdirAll(filepath.Dir(cfg.OutputPath), 0o755); err != nil {
		return stats, fmt.Errorf("create output directory: %w", err)
	}

	listPath := filepath.Join(tmpDir, "frames.txt")
	if err := h.encode(ctx, cfg, log, framePaths, listPath); err != nil {
		return stats, err
	}

	if fi, err := os.Stat(cfg.OutputPath); err == nil {
		stats.OutputBytes = fi.Size()
	}
	logSummary(log, &stats, time.Since(start))
	return stats, nil
}

// encodeVideo writes the ordered frame list and drives ffmpeg, falling back
// through the codec chain on missing-encoder failures unless strict mode is
// set. A partial output file is removed on final failure.
func encodeVideo(ctx context.Context, cfg *config.Config, log *logging.Logger, frames []string, listPath string) error {
	if err := encode.WriteList(listPath, frames, cfg.FPS); err != nil {
		return err
	}

	rs := encode.NewRetryState(cfg.VideoCodec)
	for {
		log.Info("Encoding %d frames at %d fps (%s)", len(frames), cfg.FPS, rs.Codec)
		result := encode.Execute(ctx, cfg, listPath, rs)
		if result.Err == nil {
			if rs.Codec != cfg.VideoCodec {
				log.Warn("Encoded with fallback codec %s (%s unavailable)", rs.Codec, cfg.VideoCodec)
			}
			return nil
		}

		if ctx.Err() != nil {
			os.Remove(cfg.OutputPath)
			log.Warn("Interrupted, aborting encode")
			return ctx.Err()
		}

		if cfg.StrictMode {
			os.Remove(cfg.OutputPath)
			logStderr(log, result.Stderr)
			return fmt.Errorf("ffmpeg failed (strict mode, no retry): %w", result.Err)
		}

		if !rs.Advance(result.Stderr) {
			os.Remove(cfg.OutputPath)
			logStderr(log, result.Stderr)
			return fmt.Errorf("ffmpeg failed: %w", result.Err)
		}
		log.Warn("Encoder unavailable, retrying with %s", rs.Codec)
	}
}

func logStderr(log *logging.Logger, stderr string) {
	if stderr == "" {
		return
	}
	log.Error("Last ffmpeg output:")
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	start := 0
	if len(lines) > 20 {
		start = len(lines) - 20
	}
	for _, l := range lines[start:] {
		log.Error("  %s", l)
	}
}

// --- Logging helpers ---

func logPlanHeader(cfg *config.Config, log *logging.Logger, stats *RunStats, planned int) {
	log.Info("Found %d snapshots (*%s) in %s", stats.Snapshots, cfg.SnapshotSuffix, cfg.InputDir)
	log.Info("Sampling: every %d of %d source fps -> %d frames at %d fps",
		stats.Stride, cfg.SourceFPS, planned, cfg.FPS)
	if cfg.Scalars != "" {
		if cfg.HasScalarLimits {
			log.Info("Coloring: %q via %s colormap, range [%g, %g]",
				cfg.Scalars, cfg.Colormap, cfg.ScalarMin, cfg.ScalarMax)
		} else {
			log.Info("Coloring: %q via %s colormap, per-frame range", cfg.Scalars, cfg.Colormap)
		}
	} else {
		log.Info("Coloring: uniform %s", cfg.PointColor)
	}
	log.Info("Camera: %s", cameraLabel(cfg.Camera))
	log.Info("Frames: %dx%d", cfg.FrameWidth, cfg.FrameHeight)
	log.Info("Output: %s (%s)", cfg.OutputPath, cfg.VideoCodec)
	if cfg.StrictMode {
		log.Info("Retry policy: strict mode (no codec fallback)")
	}
}

func cameraLabel(spec config.CameraSpec) string {
	if s := spec.String(); s != "" {
		return s
	}
	return "auto"
}

func logDryRun(cfg *config.Config, log *logging.Logger, files []snapshot.File, positions []int) {
	for i, pos := range positions {
		log.Info("[DRY] %s.png <- %s", display.FormatFrameLabel(i), filepath.Base(files[pos].Path))
	}
	log.Success("[DRY] Would encode %d frames to %s", len(positions), cfg.OutputPath)
}

func logSummary(log *logging.Logger, stats *RunStats, elapsed time.Duration) {
	log.Info("==============================")
	log.Success("Done: %d frames from %d snapshots in %s (%s)",
		stats.Frames, stats.Snapshots,
		display.FormatDuration(elapsed),
		display.FormatBytes(stats.OutputBytes))
}
