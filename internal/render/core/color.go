package core

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a terminal color: the terminal default, a palette index or
// 24-bit RGB.
type Color struct {
	R, G, B uint8
	Indexed bool
	Default bool
}

// ColorDefault uses the terminal's own color.
var ColorDefault = Color{Default: true}

// Common palette colors.
var (
	ColorBlack   = ColorFromIndex(0)
	ColorRed     = ColorFromIndex(1)
	ColorGreen   = ColorFromIndex(2)
	ColorYellow  = ColorFromIndex(3)
	ColorBlue    = ColorFromIndex(4)
	ColorMagenta = ColorFromIndex(5)
	ColorCyan    = ColorFromIndex(6)
	ColorWhite   = ColorFromIndex(7)
)

// ColorFromRGB returns a true-color value.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromIndex returns a palette color. The index is stored in R.
func ColorFromIndex(index uint8) Color {
	return Color{R: index, Indexed: true}
}

// ParseColor accepts "#rrggbb", "#rgb", "default" or "" (default).
func ParseColor(s string) (Color, error) {
	switch s {
	case "", "default":
		return ColorDefault, nil
	}
	if len(s) == 4 && s[0] == '#' {
		s = string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return ColorFromRGB(r, g, b), nil
}

// MustParseColor is ParseColor for constant input.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// IsDefault reports whether c is the terminal default.
func (c Color) IsDefault() bool { return c.Default }

// Hex returns "#rrggbb" for RGB colors and "" otherwise.
func (c Color) Hex() string {
	if c.Default || c.Indexed {
		return ""
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// String implements fmt.Stringer.
func (c Color) String() string {
	switch {
	case c.Default:
		return "default"
	case c.Indexed:
		return fmt.Sprintf("palette(%d)", c.R)
	default:
		return c.Hex()
	}
}

// Blend mixes c toward other by t in [0,1] in Lab space. Only RGB colors
// blend; other kinds return c unchanged.
func (c Color) Blend(other Color, t float64) Color {
	if c.Default || c.Indexed || other.Default || other.Indexed {
		return c
	}
	mixed := c.colorful().BlendLab(other.colorful(), t).Clamped()
	r, g, b := mixed.RGB255()
	return ColorFromRGB(r, g, b)
}

// Lighten blends toward white.
func (c Color) Lighten(t float64) Color { return c.Blend(ColorFromRGB(255, 255, 255), t) }

// Darken blends toward black.
func (c Color) Darken(t float64) Color { return c.Blend(ColorFromRGB(0, 0, 0), t) }

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}
