package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Parse errors.
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Event is a single key press.
type Event struct {
	Key       Key
	Rune      rune
	Modifiers Modifier
}

// Rune returns an event for a character key.
func Rune(r rune, mods Modifier) Event {
	if r == ' ' && mods == ModNone {
		return Event{Key: KeySpace, Rune: ' '}
	}
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// Special returns an event for a non-character key.
func Special(k Key, mods Modifier) Event {
	if k == KeySpace {
		return Event{Key: KeySpace, Rune: ' ', Modifiers: mods}
	}
	return Event{Key: k, Modifiers: mods}
}

// IsChar reports whether e types a printable character (Shift allowed).
func (e Event) IsChar() bool {
	if e.Key == KeySpace {
		return e.Modifiers&^ModShift == 0
	}
	return e.Key == KeyRune && unicode.IsPrint(e.Rune) && e.Modifiers&(ModCtrl|ModAlt|ModMeta) == 0
}

// Char returns the typed character for IsChar events.
func (e Event) Char() rune {
	if e.Key == KeySpace {
		return ' '
	}
	return e.Rune
}

// Matches reports whether e is the same key chord as other. Letter case is
// ignored for Ctrl/Alt/Meta chords.
func (e Event) Matches(other Event) bool {
	if e.Key != other.Key || e.Modifiers != other.Modifiers {
		return false
	}
	if e.Key != KeyRune {
		return true
	}
	if e.Modifiers&(ModCtrl|ModAlt|ModMeta) != 0 {
		return unicode.ToLower(e.Rune) == unicode.ToLower(other.Rune)
	}
	return e.Rune == other.Rune
}

// String returns the canonical specification, parseable by Parse.
func (e Event) String() string {
	name := e.Key.String()
	if e.Key == KeyRune {
		name = string(e.Rune)
		if e.Modifiers&(ModCtrl|ModAlt|ModMeta) != 0 {
			name = strings.ToUpper(name)
		}
	}
	if mods := e.Modifiers.String(); mods != "" {
		return mods + "+" + name
	}
	return name
}

// Parse reads a specification such as "a", "Enter", "Ctrl+Z" or
// "Shift+Tab".
func Parse(spec string) (Event, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Event{}, ErrEmptySpec
	}
	if spec == "+" {
		return Rune('+', ModNone), nil
	}

	parts := strings.Split(spec, "+")
	keyPart := parts[len(parts)-1]
	if keyPart == "" && len(parts) >= 2 {
		// "Ctrl++" names the plus key.
		keyPart = "+"
		parts = parts[:len(parts)-1]
	}

	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		if p == "" {
			continue
		}
		mod := ModifierFromName(p)
		if mod == ModNone {
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods |= mod
	}

	if k := FromName(keyPart); k != KeyNone {
		return Special(k, mods), nil
	}
	runes := []rune(strings.TrimSpace(keyPart))
	if len(runes) != 1 {
		return Event{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, keyPart)
	}
	r := runes[0]
	if mods&(ModCtrl|ModAlt|ModMeta) != 0 {
		r = unicode.ToLower(r)
	}
	return Rune(r, mods), nil
}

// MustParse is Parse for known-valid specifications.
func MustParse(spec string) Event {
	ev, err := Parse(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return ev
}
