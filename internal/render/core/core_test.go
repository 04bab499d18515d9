package core

import "testing"

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#ff8000", ColorFromRGB(255, 128, 0)},
		{"#f80", ColorFromRGB(255, 136, 0)},
		{"", ColorDefault},
		{"default", ColorDefault},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseColor("orange"); err == nil {
		t.Error("ParseColor should reject names")
	}
}

func TestColor_Blend(t *testing.T) {
	black := ColorFromRGB(0, 0, 0)
	white := ColorFromRGB(255, 255, 255)

	if got := black.Blend(white, 0); got != black {
		t.Errorf("Blend(0) = %v", got)
	}
	if got := black.Blend(white, 1); got != white {
		t.Errorf("Blend(1) = %v", got)
	}
	mid := black.Blend(white, 0.5)
	if mid.R == 0 || mid.R == 255 {
		t.Errorf("Blend(0.5) = %v, want a gray", mid)
	}
	if got := ColorRed.Blend(white, 0.5); got != ColorRed {
		t.Error("palette colors should not blend")
	}
}

func TestStyle_Over(t *testing.T) {
	base := DefaultStyle().Fg(ColorWhite).Bg(ColorBlue)
	top := DefaultStyle().Fg(ColorRed).Bold()

	got := top.Over(base)
	if got.Foreground != ColorRed || got.Background != ColorBlue || !got.Attributes.Has(AttrBold) {
		t.Errorf("Over = %+v", got)
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		s     string
		width int
		want  string
	}{
		{"abc", 5, "abc  "},
		{"abcdef", 4, "abc…"},
		{"日本語", 4, "日… "},
		{"x", 0, ""},
	}
	for _, tt := range tests {
		got := Fit(tt.s, tt.width, "…")
		if got != tt.want {
			t.Errorf("Fit(%q, %d) = %q, want %q", tt.s, tt.width, got, tt.want)
		}
		if tt.width > 0 && StringWidth(got) != tt.width {
			t.Errorf("Fit(%q, %d) width = %d", tt.s, tt.width, StringWidth(got))
		}
	}
	if got := FitRight("42", 5, "…"); got != "   42" {
		t.Errorf("FitRight = %q", got)
	}
}

func TestRuneWidth(t *testing.T) {
	if RuneWidth('a') != 1 || RuneWidth('日') != 2 {
		t.Error("RuneWidth mismatch")
	}
	if RuneWidth('\u0301') != 1 {
		t.Error("zero-width runes should advance by one")
	}
}

func TestRect(t *testing.T) {
	r := RectFromSize(2, 3, 4, 5)
	if r.Width() != 4 || r.Height() != 5 || r.Empty() {
		t.Errorf("rect = %+v", r)
	}
	if !r.Contains(2, 3) || r.Contains(6, 3) {
		t.Error("Contains mismatch")
	}
}
