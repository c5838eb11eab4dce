// Package check provides system diagnostics (--check mode) and pre-pipeline
// dependency validation (CheckDeps) for ffmpeg, its H.264 encoders, and the
// optional Xvfb virtual display.
package check

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/sphviz/vtkmovie/internal/config"
)

// Sentinel errors returned by CheckDeps when a required tool is missing.
var (
	ErrFfmpegNotFound = errors.New("ffmpeg not found on PATH")
	ErrXvfbNotFound   = errors.New("Xvfb not found on PATH (required by --virtual-display)")
	ErrEncodeFailed   = errors.New("no usable H.264 encoder (libx264, libopenh264, and mpeg4 all failed)")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// RunCheck runs the interactive --check flow: prints availability of
// ffmpeg, the video encoders the fallback chain can use, and Xvfb.
// This is informational only and does not stop on failure.
func RunCheck(cfg *config.Config, log Logger) {
	log.Info("=== System Check ===")

	checkFfmpeg(log)
	checkEncoders(cfg, log)
	checkXvfb(cfg, log)
}

// checkFfmpeg verifies ffmpeg is on PATH and logs its version string.
func checkFfmpeg(log Logger) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		log.Error("ffmpeg not found")
		return
	}
	cmd := exec.Command("ffmpeg", "-version")
	out, err := cmd.Output()
	if err != nil {
		log.Warn("ffmpeg found but -version failed: %v", err)
		return
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("ffmpeg: %s", firstLine)
}

// checkEncoders test-encodes one black frame with the configured codec and
// each fallback, reporting which ones this ffmpeg build supports.
func checkEncoders(cfg *config.Config, log Logger) {
	log.Info("Video encoders:")
	for _, codec := range encoderCandidates(cfg.VideoCodec) {
		if runSilent("ffmpeg", encodeTestArgs(codec)...) {
			log.Success("  %s works", codec)
		} else {
			log.Warn("  %s unavailable", codec)
		}
	}
}

// checkXvfb reports whether the virtual display server is installed.
func checkXvfb(cfg *config.Config, log Logger) {
	if _, err := exec.LookPath("Xvfb"); err != nil {
		if cfg.VirtualDisplay {
			log.Error("Xvfb not found (--virtual-display is set)")
		} else {
			log.Info("Xvfb not found (only needed with --virtual-display)")
		}
		return
	}
	log.Success("Xvfb found")
}

// CheckDeps is the pre-pipeline validation: ffmpeg must be on PATH with at
// least one usable encoder from the fallback chain, and Xvfb must exist
// when the virtual display is requested. Returns a sentinel error on
// failure.
func CheckDeps(cfg *config.Config) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return ErrFfmpegNotFound
	}
	if cfg.VirtualDisplay {
		if _, err := exec.LookPath("Xvfb"); err != nil {
			return ErrXvfbNotFound
		}
	}

	for _, codec := range encoderCandidates(cfg.VideoCodec) {
		if runSilent("ffmpeg", encodeTestArgs(codec)...) {
			return nil
		}
	}
	return ErrEncodeFailed
}

// --- internal helpers ---

// encoderCandidates returns the configured codec followed by the fallback
// chain, without duplicates.
func encoderCandidates(codec string) []string {
	candidates := []string{codec}
	for _, c := range []string{"libopenh264", "mpeg4"} {
		if c != codec {
			candidates = append(candidates, c)
		}
	}
	return candidates
}

// encodeTestArgs returns the ffmpeg arguments for a minimal one-frame test
// encode with the given codec.
func encodeTestArgs(codec string) []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=256x256:d=0.1",
		"-c:v", codec,
		"-f", "null", "-",
	}
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
