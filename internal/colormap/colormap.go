// Package colormap maps scalar values and color names to colors.
//
// Colormaps are gradient look-up tables: a handful of anchor colors blended
// in Lab space, which keeps perceived lightness smooth across the ramp.
package colormap

import (
	"fmt"
	"sort"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Map is a named colormap: anchor colors at evenly spaced positions in [0,1].
type Map struct {
	name  string
	stops []colorful.Color
}

// Anchor colors for the built-in maps, given as hex ramps.
var builtins = map[string][]string{
	"viridis":  {"#440154", "#46327e", "#365c8d", "#277f8e", "#1fa187", "#4ac16d", "#a0da39", "#fde725"},
	"plasma":   {"#0d0887", "#6a00a8", "#b12a90", "#e16462", "#fca636", "#f0f921"},
	"jet":      {"#00007f", "#0000ff", "#00ffff", "#7fff7f", "#ffff00", "#ff0000", "#7f0000"},
	"coolwarm": {"#3b4cc0", "#9abbff", "#dddddd", "#f49a7b", "#b40426"},
	"gray":     {"#000000", "#ffffff"},
}

// Get returns the named colormap (case-insensitive).
func Get(name string) (*Map, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	ramp, ok := builtins[key]
	if !ok {
		return nil, fmt.Errorf("unknown colormap %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	stops := make([]colorful.Color, len(ramp))
	for i, hex := range ramp {
		c, err := colorful.Hex(hex)
		if err != nil {
			return nil, fmt.Errorf("colormap %s anchor %s: %w", key, hex, err)
		}
		stops[i] = c
	}
	return &Map{name: key, stops: stops}, nil
}

// Names returns the available colormap names, sorted.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Name returns the canonical (lowercase) colormap name.
func (m *Map) Name() string { return m.name }

// At returns the color at position t. Values outside [0,1] clamp to the ends.
func (m *Map) At(t float64) colorful.Color {
	if t <= 0 {
		return m.stops[0]
	}
	if t >= 1 {
		return m.stops[len(m.stops)-1]
	}
	scaled := t * float64(len(m.stops)-1)
	i := int(scaled)
	frac := scaled - float64(i)
	return m.stops[i].BlendLab(m.stops[i+1], frac).Clamped()
}

// Normalize maps v into [0,1] over [lo, hi], clamped. A degenerate range
// maps everything to the middle of the ramp.
func Normalize(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0.5
	}
	t := (v - lo) / (hi - lo)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
