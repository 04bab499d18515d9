package core

// Attribute is a set of text attributes.
type Attribute uint8

const (
	AttrNone Attribute = 0
	AttrBold Attribute = 1 << (iota - 1)
	AttrDim
	AttrItalic
	AttrUnderline
	AttrReverse
	AttrStrikethrough
)

// Has reports whether a contains attr.
func (a Attribute) Has(attr Attribute) bool { return a&attr != 0 }

// Style is foreground, background and attributes.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// DefaultStyle uses terminal defaults throughout.
func DefaultStyle() Style {
	return Style{Foreground: ColorDefault, Background: ColorDefault}
}

// Fg returns s with a foreground.
func (s Style) Fg(c Color) Style { s.Foreground = c; return s }

// Bg returns s with a background.
func (s Style) Bg(c Color) Style { s.Background = c; return s }

// With returns s with attrs added.
func (s Style) With(attrs Attribute) Style { s.Attributes |= attrs; return s }

// Bold returns s in bold.
func (s Style) Bold() Style { return s.With(AttrBold) }

// Reverse returns s in reverse video.
func (s Style) Reverse() Style { return s.With(AttrReverse) }

// Underline returns s underlined.
func (s Style) Underline() Style { return s.With(AttrUnderline) }

// Over layers s on top of base: non-default colors of s win, attributes
// combine.
func (s Style) Over(base Style) Style {
	out := base
	if !s.Foreground.IsDefault() {
		out.Foreground = s.Foreground
	}
	if !s.Background.IsDefault() {
		out.Background = s.Background
	}
	out.Attributes |= s.Attributes
	return out
}
