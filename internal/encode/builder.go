package encode

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sphviz/vtkmovie/internal/config"
)

// Build constructs the complete ffmpeg argument slice for one encode
// attempt. The frame list is consumed through the concat demuxer so the
// image order is exactly the order written by [WriteList], never a glob.
//
// The retry parameter supplies the codec for the current attempt, which
// may differ from the configured codec after fallback.
func Build(cfg *config.Config, listPath string, rs *RetryState) []string {
	args := make([]string, 0, 24)

	args = append(args, "ffmpeg", "-hide_banner", "-nostdin", "-y")

	// Loglevel: info when verbose, otherwise error.
	if cfg.Verbose {
		args = append(args, "-loglevel", "info")
	} else {
		args = append(args, "-loglevel", "error")
	}

	// --- Input: the ordered frame list ---
	args = append(args, "-f", "concat", "-safe", "0", "-i", listPath)

	// --- Output timing and codec ---
	args = append(args,
		"-r", strconv.Itoa(cfg.FPS),
		"-c:v", rs.Codec,
		"-pix_fmt", cfg.PixelFormat,
	)

	// --- Container opts ---
	ext := strings.ToLower(filepath.Ext(cfg.OutputPath))
	if ext == ".mp4" || ext == ".mov" {
		args = append(args, "-movflags", "+faststart")
	}

	// --- Output ---
	args = append(args, cfg.OutputPath)

	return args
}
