package key

import "strings"

// Modifier is a set of modifier keys.
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << (iota - 1)
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether m contains mod.
func (m Modifier) Has(mod Modifier) bool { return m&mod != 0 }

// HasShift reports whether Shift is held.
func (m Modifier) HasShift() bool { return m.Has(ModShift) }

// HasCtrl reports whether Ctrl is held.
func (m Modifier) HasCtrl() bool { return m.Has(ModCtrl) }

// HasAlt reports whether Alt is held.
func (m Modifier) HasAlt() bool { return m.Has(ModAlt) }

// HasMeta reports whether Meta is held.
func (m Modifier) HasMeta() bool { return m.Has(ModMeta) }

// String returns "Ctrl+Alt+Shift+Meta" style text.
func (m Modifier) String() string {
	var parts []string
	if m.HasCtrl() {
		parts = append(parts, "Ctrl")
	}
	if m.HasAlt() {
		parts = append(parts, "Alt")
	}
	if m.HasShift() {
		parts = append(parts, "Shift")
	}
	if m.HasMeta() {
		parts = append(parts, "Meta")
	}
	return strings.Join(parts, "+")
}

var modifierNames = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"alt":     ModAlt,
	"option":  ModAlt,
	"opt":     ModAlt,
	"shift":   ModShift,
	"meta":    ModMeta,
	"cmd":     ModMeta,
	"super":   ModMeta,
}

// ModifierFromName returns the modifier for a case-insensitive name.
func ModifierFromName(name string) Modifier {
	return modifierNames[strings.ToLower(strings.TrimSpace(name))]
}
