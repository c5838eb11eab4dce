// Package vdisplay manages a virtual X display (Xvfb) for headless hosts.
// Rendering itself is software-only, but batch boxes without a display
// still need DISPLAY set for any X-backed tooling in the render path, so
// the pipeline can start a throwaway server scoped to one run.
package vdisplay

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// lockDir is where X servers leave ".X<n>-lock" files. Variable for tests.
var lockDir = "/tmp"

// Display is a running Xvfb instance. Stop it when the render finishes.
type Display struct {
	cmd     *exec.Cmd
	num     int
	prevSet bool
	prev    string
}

// Addr returns the display address, e.g. ":99".
func (d *Display) Addr() string { return fmt.Sprintf(":%d", d.num) }

// Start launches Xvfb on a free display number and points the DISPLAY
// environment variable at it. The previous DISPLAY value is restored by
// [Display.Stop].
func Start(ctx context.Context) (*Display, error) {
	bin, err := exec.LookPath("Xvfb")
	if err != nil {
		return nil, fmt.Errorf("Xvfb not found on PATH (required by --virtual-display)")
	}

	num, err := freeDisplay()
	if err != nil {
		return nil, err
	}

	d := &Display{num: num}
	d.cmd = exec.CommandContext(ctx, bin, d.Addr(), "-screen", "0", "1280x1024x24", "-nolisten", "tcp")
	if err := d.cmd.Start(); err != nil {
		return nil, fmt.Errorf("start Xvfb: %w", err)
	}

	if err := d.waitReady(2 * time.Second); err != nil {
		_ = d.cmd.Process.Kill()
		_, _ = d.cmd.Process.Wait()
		return nil, err
	}

	d.prev, d.prevSet = os.LookupEnv("DISPLAY")
	if err := os.Setenv("DISPLAY", d.Addr()); err != nil {
		_ = d.cmd.Process.Kill()
		_, _ = d.cmd.Process.Wait()
		return nil, fmt.Errorf("set DISPLAY: %w", err)
	}
	return d, nil
}

// Stop terminates the Xvfb server and restores the previous DISPLAY value.
func (d *Display) Stop() {
	if d.prevSet {
		_ = os.Setenv("DISPLAY", d.prev)
	} else {
		_ = os.Unsetenv("DISPLAY")
	}
	if d.cmd != nil && d.cmd.Process != nil {
		_ = d.cmd.Process.Kill()
		_, _ = d.cmd.Process.Wait()
	}
}

// freeDisplay finds a display number without an X lock file, starting at
// :99 (the conventional Xvfb display).
func freeDisplay() (int, error) {
	for num := 99; num < 199; num++ {
		lock := fmt.Sprintf("%s/.X%d-lock", lockDir, num)
		if _, err := os.Stat(lock); os.IsNotExist(err) {
			return num, nil
		}
	}
	return 0, fmt.Errorf("no free X display number between :99 and :198")
}

// waitReady polls for the server's lock file so rendering doesn't race the
// X startup.
func (d *Display) waitReady(timeout time.Duration) error {
	lock := fmt.Sprintf("%s/.X%d-lock", lockDir, d.num)
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(lock); err == nil {
			return nil
		}
		time.Sleep(20 * time.Millisecond)
	}
	return fmt.Errorf("Xvfb on %s did not come up within %s", d.Addr(), timeout)
}
