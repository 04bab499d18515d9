package render

import (
	"fmt"

	"github.com/dshills/keygrid/internal/render/core"
)

// Theme holds the styles of every grid element.
type Theme struct {
	Header      core.Style
	Row         core.Style
	RowAlt      core.Style
	Selected    core.Style
	Focused     core.Style
	Editing     core.Style
	Invalid     core.Style
	Footer      core.Style
	Placeholder core.Style
	Overlay     core.Style
	Error       core.Style
}

// ThemeColors is the configurable palette a Theme derives from.
type ThemeColors struct {
	Foreground string
	Background string
	Accent     string
	Error      string
}

// DefaultThemeColors is a dark palette.
var DefaultThemeColors = ThemeColors{
	Foreground: "#d0d0d0",
	Background: "#1c1c1c",
	Accent:     "#5f87d7",
	Error:      "#d75f5f",
}

// DefaultTheme builds the theme for DefaultThemeColors.
func DefaultTheme() Theme {
	t, _ := NewTheme(DefaultThemeColors)
	return t
}

// NewTheme derives a full theme from four colors. Empty fields fall back to
// DefaultThemeColors.
func NewTheme(c ThemeColors) (Theme, error) {
	pick := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}
	fg, err := core.ParseColor(pick(c.Foreground, DefaultThemeColors.Foreground))
	if err != nil {
		return Theme{}, fmt.Errorf("theme foreground: %w", err)
	}
	bg, err := core.ParseColor(pick(c.Background, DefaultThemeColors.Background))
	if err != nil {
		return Theme{}, fmt.Errorf("theme background: %w", err)
	}
	accent, err := core.ParseColor(pick(c.Accent, DefaultThemeColors.Accent))
	if err != nil {
		return Theme{}, fmt.Errorf("theme accent: %w", err)
	}
	errColor, err := core.ParseColor(pick(c.Error, DefaultThemeColors.Error))
	if err != nil {
		return Theme{}, fmt.Errorf("theme error: %w", err)
	}

	base := core.DefaultStyle().Fg(fg).Bg(bg)
	return Theme{
		Header:      base.Bg(bg.Lighten(0.12)).Bold(),
		Row:         base,
		RowAlt:      base.Bg(bg.Lighten(0.04)),
		Selected:    base.Bg(accent.Darken(0.45)),
		Focused:     base.Fg(bg).Bg(accent),
		Editing:     base.Bg(bg.Lighten(0.2)).Underline(),
		Invalid:     base.Fg(errColor).Bg(bg.Lighten(0.2)).Underline(),
		Footer:      base.Fg(fg.Darken(0.25)).Bg(bg.Lighten(0.08)),
		Placeholder: base.Fg(fg.Darken(0.4)),
		Overlay:     base.Fg(accent).Bg(bg.Lighten(0.15)).Bold(),
		Error:       base.Fg(bg).Bg(errColor).Bold(),
	}, nil
}
