package config

// Camera descriptors come in three shapes, mirroring the conventions of
// common plotting tools: a full pose (position, focal point, view-up), a
// bare view direction, or a named plane orthogonal to the view direction.
// CameraSpec is the tagged variant covering all three plus the auto-fit
// default.

import (
	"fmt"
	"strconv"
	"strings"
)

// CameraKind tags the active variant of a CameraSpec.
type CameraKind int

const (
	CameraAuto  CameraKind = iota // Auto-fit isometric view (default).
	CameraPose                    // Explicit position, focal point and view-up.
	CameraView                    // View direction only; distance auto-fitted.
	CameraPlane                   // Named plane orthogonal to the view direction.
)

// Planes accepted for CameraPlane.
var cameraPlanes = map[string]bool{
	"xy": true, "yx": true,
	"xz": true, "zx": true,
	"yz": true, "zy": true,
}

// CameraSpec describes the camera for the whole render. Only the fields of
// the active Kind are meaningful.
type CameraSpec struct {
	Kind CameraKind

	// CameraPose fields.
	Position   [3]float64
	FocalPoint [3]float64
	ViewUp     [3]float64

	// CameraView field.
	Direction [3]float64

	// CameraPlane field (lowercase, e.g. "xy").
	Plane string
}

// ParseCameraSpec parses a camera descriptor string:
//
//	""                          auto-fit view
//	"xy"                        named plane
//	"-1,2,-5"                   view direction
//	"2,5,13;0,0,0;-0.7,-0.5,0.3" position;focal;view-up pose
func ParseCameraSpec(s string) (CameraSpec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CameraSpec{Kind: CameraAuto}, nil
	}

	if cameraPlanes[strings.ToLower(s)] {
		return CameraSpec{Kind: CameraPlane, Plane: strings.ToLower(s)}, nil
	}

	if strings.Contains(s, ";") {
		parts := strings.Split(s, ";")
		if len(parts) != 3 {
			return CameraSpec{}, fmt.Errorf("camera pose needs 3 ';'-separated vectors (got %d)", len(parts))
		}
		spec := CameraSpec{Kind: CameraPose}
		dst := []*[3]float64{&spec.Position, &spec.FocalPoint, &spec.ViewUp}
		for i, p := range parts {
			v, err := parseVec3(p)
			if err != nil {
				return CameraSpec{}, fmt.Errorf("camera pose part %d: %w", i+1, err)
			}
			*dst[i] = v
		}
		if spec.ViewUp == ([3]float64{}) {
			return CameraSpec{}, fmt.Errorf("camera view-up must not be the zero vector")
		}
		return spec, nil
	}

	v, err := parseVec3(s)
	if err != nil {
		return CameraSpec{}, fmt.Errorf("camera %q is not a plane, view vector or pose: %w", s, err)
	}
	if v == ([3]float64{}) {
		return CameraSpec{}, fmt.Errorf("camera view direction must not be the zero vector")
	}
	return CameraSpec{Kind: CameraView, Direction: v}, nil
}

// String renders the spec back into the descriptor syntax accepted by
// [ParseCameraSpec]. Implements the flag.Value contract together with
// cameraValue in flags.go.
func (c CameraSpec) String() string {
	switch c.Kind {
	case CameraPlane:
		return c.Plane
	case CameraView:
		return formatVec3(c.Direction)
	case CameraPose:
		return formatVec3(c.Position) + ";" + formatVec3(c.FocalPoint) + ";" + formatVec3(c.ViewUp)
	default:
		return ""
	}
}

func parseVec3(s string) ([3]float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 3 {
		return [3]float64{}, fmt.Errorf("need 3 comma-separated numbers (got %d)", len(parts))
	}
	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return [3]float64{}, fmt.Errorf("bad number %q", strings.TrimSpace(p))
		}
		v[i] = f
	}
	return v, nil
}

func formatVec3(v [3]float64) string {
	return fmt.Sprintf("%g,%g,%g", v[0], v[1], v[2])
}
