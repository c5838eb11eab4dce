package render

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sphviz/vtkmovie/internal/config"
)

// Vertical field of view used for all projections, matching the 30 degree
// default of common plotting tools.
const fovY = 30 * math.Pi / 180

// viewCamera is a fully resolved camera: where it sits, what it looks at,
// and which way is up.
type viewCamera struct {
	position r3.Vec
	focal    r3.Vec
	up       r3.Vec
}

// planeViews maps named planes to a (view direction, view-up) pair. The
// camera sits along the view direction from the scene center, so "xy"
// observes the XY plane from positive Z.
var planeViews = map[string][2]r3.Vec{
	"xy": {{X: 0, Y: 0, Z: 1}, {X: 0, Y: 1, Z: 0}},
	"yx": {{X: 0, Y: 0, Z: -1}, {X: 0, Y: 1, Z: 0}},
	"xz": {{X: 0, Y: -1, Z: 0}, {X: 0, Y: 0, Z: 1}},
	"zx": {{X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1}},
	"yz": {{X: 1, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 1}},
	"zy": {{X: -1, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 1}},
}

// resolveCamera turns a CameraSpec into a concrete camera for a scene with
// the given bounds. Auto, view-vector and plane cameras are positioned at a
// distance that fits the whole bounding sphere in the vertical field of view.
func resolveCamera(spec config.CameraSpec, min, max r3.Vec) viewCamera {
	center := r3.Scale(0.5, r3.Add(min, max))
	radius := 0.5 * r3.Norm(r3.Sub(max, min))
	if radius == 0 {
		radius = 1
	}
	// Back off far enough that the bounding sphere fits, with some margin.
	distance := radius / math.Sin(fovY/2) * 1.25

	switch spec.Kind {
	case config.CameraPose:
		return viewCamera{
			position: vec(spec.Position),
			focal:    vec(spec.FocalPoint),
			up:       r3.Unit(vec(spec.ViewUp)),
		}
	case config.CameraView:
		dir := r3.Unit(vec(spec.Direction))
		return viewCamera{
			position: r3.Add(center, r3.Scale(distance, dir)),
			focal:    center,
			up:       upFor(dir),
		}
	case config.CameraPlane:
		pv := planeViews[spec.Plane]
		return viewCamera{
			position: r3.Add(center, r3.Scale(distance, pv[0])),
			focal:    center,
			up:       pv[1],
		}
	default: // CameraAuto: isometric view.
		dir := r3.Unit(r3.Vec{X: 1, Y: 1, Z: 1})
		return viewCamera{
			position: r3.Add(center, r3.Scale(distance, dir)),
			focal:    center,
			up:       r3.Vec{X: 0, Y: 0, Z: 1},
		}
	}
}

// upFor picks a view-up axis that is not parallel to the view direction.
func upFor(dir r3.Vec) r3.Vec {
	up := r3.Vec{X: 0, Y: 0, Z: 1}
	if math.Abs(r3.Dot(dir, up)) > 0.99 {
		up = r3.Vec{X: 0, Y: 1, Z: 0}
	}
	return up
}

func vec(v [3]float64) r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

// basis returns the orthonormal camera frame: forward (towards the focal
// point), right, and true up.
func (c viewCamera) basis() (forward, right, up r3.Vec) {
	forward = r3.Unit(r3.Sub(c.focal, c.position))
	right = r3.Unit(r3.Cross(forward, c.up))
	up = r3.Cross(right, forward)
	return forward, right, up
}
