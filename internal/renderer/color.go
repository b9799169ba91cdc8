package renderer

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a true color value or the terminal default.
type Color struct {
	R, G, B uint8
	// Default indicates this is the terminal's default color.
	Default bool
}

// ColorDefault represents the terminal's default color.
var ColorDefault = Color{Default: true}

// ColorFromRGB creates a true color from RGB components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// namedColors covers the CSS keywords style attributes commonly use.
var namedColors = map[string]Color{
	"black":   {0, 0, 0, false},
	"white":   {255, 255, 255, false},
	"red":     {255, 0, 0, false},
	"green":   {0, 128, 0, false},
	"blue":    {0, 0, 255, false},
	"yellow":  {255, 255, 0, false},
	"cyan":    {0, 255, 255, false},
	"magenta": {255, 0, 255, false},
	"gray":    {128, 128, 128, false},
	"grey":    {128, 128, 128, false},
}

// ParseColor parses "#rgb", "#rrggbb" or a basic CSS color keyword.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "inherit" || s == "initial" || s == "transparent" {
		return ColorDefault, nil
	}
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if !strings.HasPrefix(s, "#") {
		return ColorDefault, fmt.Errorf("unsupported color %q", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return ColorDefault, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b}, nil
}

// IsDefault returns true if this is the default color.
func (c Color) IsDefault() bool {
	return c.Default
}

// Hex returns the color as "#rrggbb", or "default".
func (c Color) Hex() string {
	if c.Default {
		return "default"
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Blend mixes c toward other by t in [0,1] in Lab space. Default colors
// are returned unchanged.
func (c Color) Blend(other Color, t float64) Color {
	if c.Default || other.Default {
		return c
	}
	a := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	b := colorful.Color{R: float64(other.R) / 255, G: float64(other.G) / 255, B: float64(other.B) / 255}
	r, g, bl := a.BlendLab(b, t).Clamped().RGB255()
	return Color{R: r, G: g, B: bl}
}
