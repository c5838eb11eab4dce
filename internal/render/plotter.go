// Package render draws point-cloud meshes to still images through an
// off-screen plotter: set a camera once, replace the mesh under a named
// actor slot per frame, and capture screenshots.
package render

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/sphviz/vtkmovie/internal/colormap"
	"github.com/sphviz/vtkmovie/internal/config"
	"github.com/sphviz/vtkmovie/internal/vtk"
)

// MeshOptions controls how one mesh is styled.
type MeshOptions struct {
	// Scalars holds one value per point; nil selects uniform coloring.
	Scalars []float64
	// ScalarMin/ScalarMax are the color-scale bounds when HasLimits is
	// set; otherwise the bounds come from the data each frame.
	ScalarMin float64
	ScalarMax float64
	HasLimits bool
	// Colormap maps normalized scalars to colors. Required with Scalars.
	Colormap *colormap.Map
	// Color is the uniform point color used when Scalars is nil.
	Color colorful.Color
	// PointRadius is the point sprite radius in output pixels.
	PointRadius float64
}

type actor struct {
	mesh *vtk.Mesh
	opts MeshOptions
}

// Plotter is an off-screen rendering surface. It is a scoped resource:
// acquire with NewPlotter, release with Close. Not safe for concurrent use.
type Plotter struct {
	width      int
	height     int
	background colorful.Color
	camera     config.CameraSpec
	actors     map[string]*actor
	order      []string
	closed     bool
}

// NewPlotter creates an off-screen plotter with a white background.
func NewPlotter(width, height int) *Plotter {
	return &Plotter{
		width:      width,
		height:     height,
		background: colorful.Color{R: 1, G: 1, B: 1},
		camera:     config.CameraSpec{Kind: config.CameraAuto},
		actors:     make(map[string]*actor),
	}
}

// SetBackground overrides the background color.
func (p *Plotter) SetBackground(c colorful.Color) { p.background = c }

// SetCamera sets the camera for all subsequent screenshots.
func (p *Plotter) SetCamera(spec config.CameraSpec) { p.camera = spec }

// AddMesh adds a mesh under a named actor slot. Adding to an existing name
// replaces the previous mesh, so a render loop that reuses one slot keeps a
// single mesh in memory instead of accumulating one per frame.
func (p *Plotter) AddMesh(name string, mesh *vtk.Mesh, opts MeshOptions) error {
	if p.closed {
		return fmt.Errorf("plotter is closed")
	}
	if mesh == nil || mesh.NumPoints() == 0 {
		return fmt.Errorf("actor %q: mesh has no points", name)
	}
	if opts.Scalars != nil {
		if len(opts.Scalars) != mesh.NumPoints() {
			return fmt.Errorf("actor %q: %d scalars for %d points", name, len(opts.Scalars), mesh.NumPoints())
		}
		if opts.Colormap == nil {
			return fmt.Errorf("actor %q: scalars set without a colormap", name)
		}
	}
	if opts.PointRadius <= 0 {
		opts.PointRadius = 2
	}
	if _, exists := p.actors[name]; !exists {
		p.order = append(p.order, name)
	}
	p.actors[name] = &actor{mesh: mesh, opts: opts}
	return nil
}

// NumActors returns the number of live actor slots.
func (p *Plotter) NumActors() int { return len(p.actors) }

// Close releases the plotter. Further AddMesh/Screenshot calls fail.
// Close is idempotent.
func (p *Plotter) Close() {
	p.actors = nil
	p.order = nil
	p.closed = true
}
