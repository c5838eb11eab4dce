package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
	xdraw "golang.org/x/image/draw"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sphviz/vtkmovie/internal/colormap"
)

// supersample is the oversampling factor: the scene is rasterized at
// supersample times the output resolution and downscaled, which smooths
// point sprite edges without a full anti-aliasing pass.
const supersample = 2

// nearClip discards points at or behind the camera plane.
const nearClip = 1e-9

// projected is one point ready for drawing: screen position, camera-space
// depth, and final color.
type projected struct {
	x, y   float64
	depth  float64
	color  colorful.Color
	radius float64
}

// Screenshot rasterizes the current actors with the current camera and
// writes a PNG to path.
func (p *Plotter) Screenshot(path string) error {
	if p.closed {
		return fmt.Errorf("plotter is closed")
	}
	if len(p.actors) == 0 {
		return fmt.Errorf("screenshot of empty scene")
	}

	w, h := p.width*supersample, p.height*supersample
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fill(img, p.background)

	min, max := p.sceneBounds()
	cam := resolveCamera(p.camera, min, max)
	forward, right, up := cam.basis()
	// Perspective scale: a point at depth d spans (size/d)*focalPx pixels.
	focalPx := float64(h) / 2 / math.Tan(fovY/2)

	var pts []projected
	for _, name := range p.order {
		a := p.actors[name]
		colors := a.pointColors()
		for i, pt := range a.mesh.Points {
			rel := r3.Sub(pt, cam.position)
			depth := r3.Dot(rel, forward)
			if depth <= nearClip {
				continue
			}
			sx := float64(w)/2 + r3.Dot(rel, right)/depth*focalPx
			sy := float64(h)/2 - r3.Dot(rel, up)/depth*focalPx
			pts = append(pts, projected{
				x:      sx,
				y:      sy,
				depth:  depth,
				color:  colors(i),
				radius: a.opts.PointRadius * supersample,
			})
		}
	}

	// Painter's algorithm: far points first so near ones overwrite them.
	sort.Slice(pts, func(i, j int) bool { return pts[i].depth > pts[j].depth })
	for _, pt := range pts {
		drawSphere(img, pt)
	}

	out := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	xdraw.CatmullRom.Scale(out, out.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create screenshot %s: %w", path, err)
	}
	if err := png.Encode(f, out); err != nil {
		f.Close()
		return fmt.Errorf("encode screenshot %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write screenshot %s: %w", path, err)
	}
	return nil
}

// sceneBounds returns the combined bounding box of all actor meshes.
func (p *Plotter) sceneBounds() (r3.Vec, r3.Vec) {
	first := true
	var min, max r3.Vec
	for _, name := range p.order {
		amin, amax := p.actors[name].mesh.Bounds()
		if first {
			min, max = amin, amax
			first = false
			continue
		}
		min.X = math.Min(min.X, amin.X)
		min.Y = math.Min(min.Y, amin.Y)
		min.Z = math.Min(min.Z, amin.Z)
		max.X = math.Max(max.X, amax.X)
		max.Y = math.Max(max.Y, amax.Y)
		max.Z = math.Max(max.Z, amax.Z)
	}
	return min, max
}

// pointColors returns a per-point color lookup for the actor, resolving
// scalar bounds once per call.
func (a *actor) pointColors() func(i int) colorful.Color {
	if a.opts.Scalars == nil {
		c := a.opts.Color
		return func(int) colorful.Color { return c }
	}

	lo, hi := a.opts.ScalarMin, a.opts.ScalarMax
	if !a.opts.HasLimits {
		lo, hi = dataRange(a.opts.Scalars)
	}
	cmap := a.opts.Colormap
	scalars := a.opts.Scalars
	return func(i int) colorful.Color {
		return cmap.At(colormap.Normalize(scalars[i], lo, hi))
	}
}

func dataRange(vals []float64) (float64, float64) {
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// drawSphere draws a point as a shaded disc: full color in the middle,
// darkening towards the rim, which reads as a lit sphere at small sizes.
func drawSphere(img *image.RGBA, pt projected) {
	r := pt.radius
	if r < 1 {
		r = 1
	}
	cx, cy := pt.x, pt.y
	bounds := img.Bounds()

	x0 := clampInt(int(math.Floor(cx-r)), bounds.Min.X, bounds.Max.X-1)
	x1 := clampInt(int(math.Ceil(cx+r)), bounds.Min.X, bounds.Max.X-1)
	y0 := clampInt(int(math.Floor(cy-r)), bounds.Min.Y, bounds.Max.Y-1)
	y1 := clampInt(int(math.Ceil(cy+r)), bounds.Min.Y, bounds.Max.Y-1)

	r2 := r * r
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			d2 := dx*dx + dy*dy
			if d2 > r2 {
				continue
			}
			shade := 1 - 0.35*(d2/r2)
			img.SetRGBA(x, y, color.RGBA{
				R: channel(pt.color.R * shade),
				G: channel(pt.color.G * shade),
				B: channel(pt.color.B * shade),
				A: 255,
			})
		}
	}
}

func fill(img *image.RGBA, c colorful.Color) {
	bg := color.RGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: 255}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, bg)
		}
	}
}

func channel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
