package pipeline

import (
	"fmt"
	"path/filepath"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/sphviz/vtkmovie/internal/colormap"
	"github.com/sphviz/vtkmovie/internal/config"
	"github.com/sphviz/vtkmovie/internal/render"
	"github.com/sphviz/vtkmovie/internal/snapshot"
	"github.com/sphviz/vtkmovie/internal/vtk"
)

// actorName is the single actor slot reused for every frame. Replacing the
// mesh under one name keeps exactly one snapshot in the plotter at a time.
const actorName = "fluid_block_snapshot"

// frameStyle is the per-run styling resolved once before the render loop:
// either a colormap over a scalar array or a uniform color.
type frameStyle struct {
	scalars string
	cmap    *colormap.Map
	color   colorful.Color
	min     float64
	max     float64
	limits  bool
	radius  float64
}

// resolveStyle validates the color configuration against the colormap and
// named-color tables before any file is read.
func resolveStyle(cfg *config.Config) (frameStyle, error) {
	style := frameStyle{
		scalars: cfg.Scalars,
		min:     cfg.ScalarMin,
		max:     cfg.ScalarMax,
		limits:  cfg.HasScalarLimits,
		radius:  cfg.PointRadius,
	}
	if cfg.Scalars != "" {
		cmap, err := colormap.Get(cfg.Colormap)
		if err != nil {
			return style, err
		}
		style.cmap = cmap
		return style, nil
	}
	c, err := colormap.ParseColor(cfg.PointColor)
	if err != nil {
		return style, err
	}
	style.color = c
	return style, nil
}

// renderFrame reads one snapshot, swaps it into the shared actor slot, and
// captures a screenshot to path. Any failure aborts the whole run.
func renderFrame(p *render.Plotter, file snapshot.File, style frameStyle, path string) error {
	mesh, err := vtk.ReadFile(file.Path)
	if err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(file.Path), err)
	}

	opts := render.MeshOptions{
		Color:       style.color,
		PointRadius: style.radius,
	}
	if style.scalars != "" {
		vals, err := mesh.Scalars(style.scalars)
		if err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(file.Path), err)
		}
		opts.Scalars = vals
		opts.Colormap = style.cmap
		opts.ScalarMin = style.min
		opts.ScalarMax = style.max
		opts.HasLimits = style.limits
	}

	if err := p.AddMesh(actorName, mesh, opts); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(file.Path), err)
	}
	if err := p.Screenshot(path); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(file.Path), err)
	}
	return nil
}
