package encode

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/sphviz/vtkmovie/internal/config"
)

// ExecResult holds the outcome of a single ffmpeg invocation.
type ExecResult struct {
	Stderr string
	Err    error
}

// Execute builds and runs the ffmpeg command for one encode attempt. When
// verbose is enabled, stderr is tee'd to os.Stderr in real time; otherwise
// it is captured silently for retry classification.
func Execute(ctx context.Context, cfg *config.Config, listPath string, rs *RetryState) ExecResult {
	args := Build(cfg, listPath, rs)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderrBuf bytes.Buffer
	if cfg.Verbose {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	return ExecResult{
		Stderr: stderrBuf.String(),
		Err:    err,
	}
}
