package colormap

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Named point colors. Matches the common CSS names that plotting tools accept.
var namedColors = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"red":     "#ff0000",
	"green":   "#008000",
	"lime":    "#00ff00",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"cyan":    "#00ffff",
	"magenta": "#ff00ff",
	"orange":  "#ffa500",
	"purple":  "#800080",
	"pink":    "#ffc0cb",
	"brown":   "#a52a2a",
	"gray":    "#808080",
	"grey":    "#808080",
	"navy":    "#000080",
	"teal":    "#008080",
	"olive":   "#808000",
	"maroon":  "#800000",
	"silver":  "#c0c0c0",
}

// ParseColor resolves a color name or "#rrggbb" hex string.
func ParseColor(s string) (colorful.Color, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if hex, ok := namedColors[key]; ok {
		return colorful.Hex(hex)
	}
	if strings.HasPrefix(key, "#") {
		// colorful.Hex is lenient about malformed input (it scans with
		// Sscanf), so check the #rrggbb shape ourselves first.
		if len(key) != 7 || !isHex(key[1:]) {
			return colorful.Color{}, fmt.Errorf("invalid hex color %q", s)
		}
		c, err := colorful.Hex(key)
		if err != nil {
			return colorful.Color{}, fmt.Errorf("invalid hex color %q", s)
		}
		return c, nil
	}
	return colorful.Color{}, fmt.Errorf("unknown color %q (use a CSS name or #rrggbb)", s)
}

// isHex reports whether s consists only of lowercase hexadecimal digits.
func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
