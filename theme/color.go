package theme

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Color is an RGB color, zero value means "not set".
type Color struct {
	R, G, B uint8
	Valid   bool
}

// ParseColor understands #rgb, #rrggbb and W3C color names.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if hex, ok := strings.CutPrefix(s, "#"); ok && len(hex) == 3 {
		s = string([]byte{'#', hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	v := tcell.GetColor(s).Hex()
	if v < 0 {
		return Color{}, fmt.Errorf("unsupported color '%s'", s)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), Valid: true}, nil
}

// Hex returns #rrggbb form, empty for unset color.
func (c Color) Hex() string {
	if !c.Valid {
		return ""
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Luminance returns relative brightness in 0..1 range.
func (c Color) Luminance() float64 {
	return (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255
}
