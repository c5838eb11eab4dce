package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sphviz/vtkmovie/internal/config"
	"github.com/sphviz/vtkmovie/internal/logging"
	"github.com/sphviz/vtkmovie/internal/render"
	"github.com/sphviz/vtkmovie/internal/snapshot"
)

// makeSnapshots writes n valid single-point snapshots named fluid_<i>.vtk.
func makeSnapshots(t *testing.T, n int) string {
	t.Helper()
	dir := t.TempDir()
	for i := 0; i < n; i++ {
		body := "# vtk DataFile Version 3.0\nfluid\nASCII\nDATASET POLYDATA\nPOINTS 1 float\n0 0 0\n"
		name := filepath.Join(dir, fmt.Sprintf("fluid_%d.vtk", i))
		if err := os.WriteFile(name, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func testConfig(t *testing.T, inputDir string) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.InputDir = inputDir
	cfg.OutputPath = filepath.Join(t.TempDir(), "out.mp4")
	return &cfg
}

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	log, err := logging.NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	return log
}

// recorder captures what the fake hooks were asked to do.
type recorder struct {
	rendered  []string // source snapshot basenames in render order
	frames    []string // frame paths in render order
	encoded   []string // frame paths handed to the encoder
	tmpDir    string
	encodeErr error
	renderErr error
}

func (r *recorder) hooks() hooks {
	return hooks{
		startDisplay: func(context.Context) (func(), error) {
			return func() {}, nil
		},
		renderFrame: func(_ *render.Plotter, file snapshot.File, _ frameStyle, path string) error {
			if r.renderErr != nil {
				return r.renderErr
			}
			r.rendered = append(r.rendered, filepath.Base(file.Path))
			r.frames = append(r.frames, path)
			r.tmpDir = filepath.Dir(path)
			return os.WriteFile(path, []byte("png"), 0o644)
		},
		encode: func(_ context.Context, _ *config.Config, _ *logging.Logger, frames []string, _ string) error {
			if r.encodeErr != nil {
				return r.encodeErr
			}
			r.encoded = append(r.encoded, frames...)
			return nil
		},
	}
}

func TestRun_StrideSampling(t *testing.T) {
	dir := makeSnapshots(t, 100)
	cfg := testConfig(t, dir) // fps 10 over 60 source fps: stride 6

	rec := &recorder{}
	stats, err := run(context.Background(), cfg, testLogger(t), rec.hooks())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if stats.Stride != 6 {
		t.Errorf("stride = %d, want 6", stats.Stride)
	}
	if stats.Frames != 17 {
		t.Errorf("frames = %d, want 17 (positions 0,6,...,96)", stats.Frames)
	}
	if got := rec.rendered[0]; got != "fluid_0.vtk" {
		t.Errorf("first sampled snapshot = %s, want fluid_0.vtk", got)
	}
	if got := rec.rendered[1]; got != "fluid_6.vtk" {
		t.Errorf("second sampled snapshot = %s, want fluid_6.vtk", got)
	}
	if got := rec.rendered[len(rec.rendered)-1]; got != "fluid_96.vtk" {
		t.Errorf("last sampled snapshot = %s, want fluid_96.vtk", got)
	}
}

func TestRun_SourceRateKeepsEverySnapshot(t *testing.T) {
	dir := makeSnapshots(t, 5)
	cfg := testConfig(t, dir)
	cfg.FPS = 60

	rec := &recorder{}
	stats, err := run(context.Background(), cfg, testLogger(t), rec.hooks())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Frames != 5 {
		t.Errorf("frames = %d, want every snapshot", stats.Frames)
	}
}

func TestRun_FrameNamesAreOrderedAndPadded(t *testing.T) {
	dir := makeSnapshots(t, 20)
	cfg := testConfig(t, dir)

	rec := &recorder{}
	if _, err := run(context.Background(), cfg, testLogger(t), rec.hooks()); err != nil {
		t.Fatalf("run: %v", err)
	}

	for i, path := range rec.frames {
		want := fmt.Sprintf("frame_%05d.png", i)
		if filepath.Base(path) != want {
			t.Errorf("frame %d = %s, want %s", i, filepath.Base(path), want)
		}
	}
	// The encoder sees exactly the rendered frames, in render order.
	if strings.Join(rec.encoded, ",") != strings.Join(rec.frames, ",") {
		t.Errorf("encoder got %v, want %v", rec.encoded, rec.frames)
	}
}

func TestRun_TempDirRemoved(t *testing.T) {
	dir := makeSnapshots(t, 3)
	cfg := testConfig(t, dir)

	rec := &recorder{}
	if _, err := run(context.Background(), cfg, testLogger(t), rec.hooks()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(rec.tmpDir); !os.IsNotExist(err) {
		t.Errorf("frame directory %s still exists after success", rec.tmpDir)
	}
}

func TestRun_TempDirRemovedOnEncodeFailure(t *testing.T) {
	dir := makeSnapshots(t, 3)
	cfg := testConfig(t, dir)

	rec := &recorder{encodeErr: fmt.Errorf("encode boom")}
	_, err := run(context.Background(), cfg, testLogger(t), rec.hooks())
	if err == nil {
		t.Fatal("run should propagate the encode failure")
	}
	if _, statErr := os.Stat(rec.tmpDir); !os.IsNotExist(statErr) {
		t.Errorf("frame directory %s still exists after failure", rec.tmpDir)
	}
}

func TestRun_RenderFailureIsFatal(t *testing.T) {
	dir := makeSnapshots(t, 3)
	cfg := testConfig(t, dir)

	rec := &recorder{renderErr: fmt.Errorf("bad snapshot")}
	if _, err := run(context.Background(), cfg, testLogger(t), rec.hooks()); err == nil {
		t.Fatal("run should propagate a render failure")
	}
	if len(rec.encoded) != 0 {
		t.Error("encoder must not run after a render failure")
	}
}

func TestRun_DryRunSkipsRendering(t *testing.T) {
	dir := makeSnapshots(t, 10)
	cfg := testConfig(t, dir)
	cfg.DryRun = true

	rec := &recorder{}
	stats, err := run(context.Background(), cfg, testLogger(t), rec.hooks())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(rec.rendered) != 0 || len(rec.encoded) != 0 {
		t.Error("dry run must not render or encode")
	}
	if stats.Frames != 2 {
		t.Errorf("planned frames = %d, want 2 (10 snapshots, stride 6)", stats.Frames)
	}
}

func TestRun_EmptyDirectoryFails(t *testing.T) {
	cfg := testConfig(t, t.TempDir())
	rec := &recorder{}
	if _, err := run(context.Background(), cfg, testLogger(t), rec.hooks()); err == nil {
		t.Fatal("run should fail when no snapshots match")
	}
}

func TestRun_CancelledContext(t *testing.T) {
	dir := makeSnapshots(t, 10)
	cfg := testConfig(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := &recorder{}
	if _, err := run(ctx, cfg, testLogger(t), rec.hooks()); err == nil {
		t.Fatal("run should stop on a cancelled context")
	}
	if len(rec.encoded) != 0 {
		t.Error("encoder must not run after cancellation")
	}
}

func TestSampledPositions(t *testing.T) {
	tests := []struct {
		n, stride int
		want      []int
	}{
		{100, 6, []int{0, 6, 12, 18, 24, 30, 36, 42, 48, 54, 60, 66, 72, 78, 84, 90, 96}},
		{5, 1, []int{0, 1, 2, 3, 4}},
		{7, 3, []int{0, 3, 6}},
		{1, 6, []int{0}},
		{0, 6, nil},
	}
	for _, tt := range tests {
		got := sampledPositions(tt.n, tt.stride)
		if len(got) != len(tt.want) {
			t.Errorf("sampledPositions(%d, %d) = %v, want %v", tt.n, tt.stride, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("sampledPositions(%d, %d) = %v, want %v", tt.n, tt.stride, got, tt.want)
				break
			}
		}
	}
}

func TestCheckFrameCount(t *testing.T) {
	if err := checkFrameCount(maxFrames); err != nil {
		t.Errorf("checkFrameCount(%d) = %v, want nil", maxFrames, err)
	}
	if err := checkFrameCount(maxFrames + 1); err == nil {
		t.Error("checkFrameCount should reject an overflowing frame plan")
	}
}

func TestResolveStyle(t *testing.T) {
	cfg := config.DefaultConfig()
	style, err := resolveStyle(&cfg)
	if err != nil {
		t.Fatalf("resolveStyle: %v", err)
	}
	if style.cmap != nil {
		t.Error("uniform coloring should not resolve a colormap")
	}
	if style.color.B <= style.color.R {
		t.Errorf("default color %+v should be blue", style.color)
	}

	cfg.Scalars = "pressure"
	style, err = resolveStyle(&cfg)
	if err != nil {
		t.Fatalf("resolveStyle with scalars: %v", err)
	}
	if style.cmap == nil {
		t.Error("scalar coloring requires a colormap")
	}

	cfg.Colormap = "nope"
	if _, err := resolveStyle(&cfg); err == nil {
		t.Error("unknown colormap should fail")
	}

	cfg = config.DefaultConfig()
	cfg.PointColor = "nope"
	if _, err := resolveStyle(&cfg); err == nil {
		t.Error("unknown point color should fail")
	}
}

func TestRenderFrame(t *testing.T) {
	dir := t.TempDir()
	body := "# vtk DataFile Version 3.0\nfluid\nASCII\nDATASET POLYDATA\nPOINTS 2 float\n" +
		"0 0 0\n1 1 1\n" +
		"POINT_DATA 2\nSCALARS pressure float 1\nLOOKUP_TABLE default\n1.5 2.5\n"
	src := filepath.Join(dir, "fluid_0.vtk")
	if err := os.WriteFile(src, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.Scalars = "pressure"
	style, err := resolveStyle(&cfg)
	if err != nil {
		t.Fatal(err)
	}

	p := render.NewPlotter(64, 48)
	defer p.Close()

	out := filepath.Join(dir, "frame_00000.png")
	file := snapshot.File{Path: src, Stem: "fluid_0", Index: 0}
	if err := renderFrame(p, file, style, out); err != nil {
		t.Fatalf("renderFrame: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("screenshot not written: %v", err)
	}

	// A scalar array missing from the snapshot is fatal.
	style.scalars = "density"
	if err := renderFrame(p, file, style, out); err == nil {
		t.Error("renderFrame should fail for a missing scalar array")
	}
}
