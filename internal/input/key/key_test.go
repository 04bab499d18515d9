package key

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		spec string
		want Event
	}{
		{"a", Event{Key: KeyRune, Rune: 'a'}},
		{"Enter", Event{Key: KeyEnter}},
		{"esc", Event{Key: KeyEscape}},
		{"Space", Event{Key: KeySpace, Rune: ' '}},
		{"Ctrl+Z", Event{Key: KeyRune, Rune: 'z', Modifiers: ModCtrl}},
		{"ctrl+shift+p", Event{Key: KeyRune, Rune: 'p', Modifiers: ModCtrl | ModShift}},
		{"Shift+Tab", Event{Key: KeyTab, Modifiers: ModShift}},
		{"Ctrl+Home", Event{Key: KeyHome, Modifiers: ModCtrl}},
		{"Ctrl++", Event{Key: KeyRune, Rune: '+', Modifiers: ModCtrl}},
		{"+", Event{Key: KeyRune, Rune: '+'}},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := Parse(tt.spec)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.spec, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	if _, err := Parse(""); !errors.Is(err, ErrEmptySpec) {
		t.Errorf("empty: err = %v", err)
	}
	for _, spec := range []string{"Hyper+a", "Ctrl+abc", "nonsense"} {
		if _, err := Parse(spec); !errors.Is(err, ErrInvalidSpec) {
			t.Errorf("Parse(%q) err = %v, want ErrInvalidSpec", spec, err)
		}
	}
}

func TestEvent_StringRoundTrip(t *testing.T) {
	for _, spec := range []string{"Ctrl+Z", "Shift+Tab", "Enter", "x", "Ctrl+Alt+Delete", "F5"} {
		ev := MustParse(spec)
		back, err := Parse(ev.String())
		if err != nil {
			t.Fatalf("Parse(%q): %v", ev.String(), err)
		}
		if back != ev {
			t.Errorf("%q -> %q -> %+v, want %+v", spec, ev.String(), back, ev)
		}
	}
}

func TestEvent_Matches(t *testing.T) {
	if !Rune('Z', ModCtrl).Matches(MustParse("Ctrl+Z")) {
		t.Error("Ctrl chords should ignore letter case")
	}
	if Rune('Z', ModNone).Matches(Rune('z', ModNone)) {
		t.Error("plain characters are case-sensitive")
	}
	if Special(KeyTab, ModShift).Matches(Special(KeyTab, ModNone)) {
		t.Error("modifiers must match")
	}
}

func TestEvent_IsChar(t *testing.T) {
	tests := []struct {
		ev   Event
		want bool
	}{
		{Rune('a', ModNone), true},
		{Rune('A', ModShift), true},
		{Rune(' ', ModNone), true},
		{Rune('a', ModCtrl), false},
		{Special(KeyEnter, ModNone), false},
	}
	for _, tt := range tests {
		if got := tt.ev.IsChar(); got != tt.want {
			t.Errorf("%v.IsChar() = %v, want %v", tt.ev, got, tt.want)
		}
	}
	if Rune(' ', ModNone).Char() != ' ' {
		t.Error("space should type a space")
	}
}

func TestModifier_String(t *testing.T) {
	if got := (ModCtrl | ModShift).String(); got != "Ctrl+Shift" {
		t.Errorf("String = %q", got)
	}
	if ModNone.String() != "" {
		t.Error("ModNone should be empty")
	}
}
