package config

import (
	"testing"
)

func TestNormalizeDirArg(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no trailing slash", "/data/vtk", "/data/vtk"},
		{"single trailing slash", "/data/vtk/", "/data/vtk"},
		{"multiple trailing slashes", "/data/vtk///", "/data/vtk"},
		{"root path", "/", "/"},
		{"relative path", "output", "output"},
		{"empty string", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDirArg(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeDirArg(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidate_FPS(t *testing.T) {
	tests := []struct {
		name    string
		fps     int
		wantErr bool
	}{
		{"default is valid", 10, false},
		{"one is valid", 1, false},
		{"zero is invalid", 0, true},
		{"negative is invalid", -5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.CheckOnly = true // skip path requirement
			cfg.FPS = tt.fps
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_ScalarLimits(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CheckOnly = true
	cfg.HasScalarLimits = true
	cfg.ScalarMin, cfg.ScalarMax = 2, -1

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail when scalar limits are out of order")
	}

	cfg.ScalarMin, cfg.ScalarMax = -1, 2
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
}

func TestValidate_Suffix(t *testing.T) {
	tests := []struct {
		name    string
		suffix  string
		wantErr bool
	}{
		{"dot vtk is valid", ".vtk", false},
		{"dot vtp is valid", ".vtp", false},
		{"missing dot is invalid", "vtk", true},
		{"empty is invalid", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.CheckOnly = true
			cfg.SnapshotSuffix = tt.suffix
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_OutputExtension(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		wantErr bool
	}{
		{"mp4 is valid", "/out/movie.mp4", false},
		{"mkv is valid", "/out/movie.mkv", false},
		{"webm is valid", "/out/movie.webm", false},
		{"png is invalid", "/out/movie.png", true},
		{"no extension is invalid", "/out/movie", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.InputDir = "/in"
			cfg.OutputPath = tt.output
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_RequiresPaths(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail when paths are empty and CheckOnly is false")
	}

	cfg.InputDir = "/in"
	cfg.OutputPath = "/out/movie.mp4"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
}

func TestStride(t *testing.T) {
	tests := []struct {
		name      string
		sourceFPS int
		fps       int
		want      int
	}{
		{"default decimation", 60, 10, 6},
		{"output matches source", 60, 60, 1},
		{"output above source clamps to 1", 60, 120, 1},
		{"rounds to nearest", 60, 25, 2},
		{"custom source rate", 30, 10, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.SourceFPS = tt.sourceFPS
			cfg.FPS = tt.fps
			if got := cfg.Stride(); got != tt.want {
				t.Errorf("Stride() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseCameraSpec(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantKind CameraKind
		wantErr  bool
	}{
		{"empty is auto", "", CameraAuto, false},
		{"plane xy", "xy", CameraPlane, false},
		{"plane uppercase", "XZ", CameraPlane, false},
		{"view vector", "-1,2,-5", CameraView, false},
		{"full pose", "2,5,13;0,0,0;-0.7,-0.5,0.3", CameraPose, false},
		{"zero view vector", "0,0,0", CameraView, true},
		{"pose with two parts", "1,2,3;4,5,6", CameraPose, true},
		{"pose with zero view-up", "1,2,3;0,0,0;0,0,0", CameraPose, true},
		{"garbage", "sideways", CameraView, true},
		{"two components", "1,2", CameraView, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := ParseCameraSpec(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCameraSpec(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && spec.Kind != tt.wantKind {
				t.Errorf("ParseCameraSpec(%q) kind = %v, want %v", tt.in, spec.Kind, tt.wantKind)
			}
		})
	}
}

func TestParseCameraSpec_PoseFields(t *testing.T) {
	spec, err := ParseCameraSpec("2,5,13;0,0,0;-0.7,-0.5,0.3")
	if err != nil {
		t.Fatalf("ParseCameraSpec: %v", err)
	}
	if spec.Position != [3]float64{2, 5, 13} {
		t.Errorf("Position = %v", spec.Position)
	}
	if spec.FocalPoint != [3]float64{0, 0, 0} {
		t.Errorf("FocalPoint = %v", spec.FocalPoint)
	}
	if spec.ViewUp != [3]float64{-0.7, -0.5, 0.3} {
		t.Errorf("ViewUp = %v", spec.ViewUp)
	}
}

func TestCameraSpec_StringRoundTrip(t *testing.T) {
	for _, in := range []string{"", "xy", "-1,2,-5", "2,5,13;0,0,0;-0.7,-0.5,0.3"} {
		spec, err := ParseCameraSpec(in)
		if err != nil {
			t.Fatalf("ParseCameraSpec(%q): %v", in, err)
		}
		again, err := ParseCameraSpec(spec.String())
		if err != nil {
			t.Fatalf("re-parse of %q: %v", spec.String(), err)
		}
		if again != spec {
			t.Errorf("round trip of %q changed spec: %+v vs %+v", in, spec, again)
		}
	}
}

func TestParseFrameSize(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantW   int
		wantH   int
		wantErr bool
	}{
		{"standard", "1280x720", 1280, 720, false},
		{"uppercase x", "1920X1080", 1920, 1080, false},
		{"missing height", "1280", 0, 0, true},
		{"zero width", "0x720", 0, 0, true},
		{"garbage", "axb", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, err := ParseFrameSize(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFrameSize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && (w != tt.wantW || h != tt.wantH) {
				t.Errorf("ParseFrameSize(%q) = %dx%d, want %dx%d", tt.in, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestDefaultConfig_SaneDefaults(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.SnapshotSuffix != ".vtk" {
		t.Errorf("default SnapshotSuffix = %q, want .vtk", cfg.SnapshotSuffix)
	}
	if cfg.SplitToken != "_" {
		t.Errorf("default SplitToken = %q, want _", cfg.SplitToken)
	}
	if cfg.FPS != 10 {
		t.Errorf("default FPS = %d, want 10", cfg.FPS)
	}
	if cfg.SourceFPS != 60 {
		t.Errorf("default SourceFPS = %d, want 60", cfg.SourceFPS)
	}
	if cfg.PointColor != "blue" {
		t.Errorf("default PointColor = %q, want blue", cfg.PointColor)
	}
	if cfg.Camera.Kind != CameraAuto {
		t.Errorf("default camera kind = %v, want CameraAuto", cfg.Camera.Kind)
	}
	if cfg.VirtualDisplay {
		t.Error("default VirtualDisplay should be false")
	}
	if cfg.DryRun {
		t.Error("default DryRun should be false")
	}
}
