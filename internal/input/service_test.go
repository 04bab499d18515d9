package input

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dshills/keygrid/internal/input/key"
	"github.com/dshills/keygrid/internal/logging"
)

func TestService_BindAndDispatch(t *testing.T) {
	s := NewService(nil)
	var hits int
	if _, err := s.Bind(Binding{Keys: "Ctrl+Z", Owner: "history", Action: func(key.Event) bool {
		hits++
		return true
	}}); err != nil {
		t.Fatal(err)
	}

	if !s.Dispatch(key.Rune('z', key.ModCtrl)) {
		t.Error("Ctrl+Z should be consumed")
	}
	if s.Dispatch(key.Rune('z', key.ModNone)) {
		t.Error("plain z should not match")
	}
	if hits != 1 {
		t.Errorf("hits = %d, want 1", hits)
	}
}

func TestService_PriorityAndFallthrough(t *testing.T) {
	s := NewService(nil)
	var order []string
	add := func(name string, prio int, consume bool) {
		t.Helper()
		if _, err := s.Bind(Binding{Keys: "Ctrl+C", Owner: name, Priority: prio, Action: func(key.Event) bool {
			order = append(order, name)
			return consume
		}}); err != nil {
			t.Fatal(err)
		}
	}
	add("low", 0, true)
	add("high", 10, false)
	add("low2", 0, true)

	s.Dispatch(key.MustParse("Ctrl+C"))

	if strings.Join(order, ",") != "high,low" {
		t.Errorf("order = %v, want high then low", order)
	}
}

func TestService_SubscribeSeesUnconsumed(t *testing.T) {
	s := NewService(nil)
	var seen []key.Event
	s.Subscribe("grid", func(ev key.Event) bool {
		seen = append(seen, ev)
		return true
	})
	_, _ = s.Bind(Binding{Keys: "Ctrl+Y", Action: func(key.Event) bool { return true }})

	s.Dispatch(key.Rune('y', key.ModCtrl))
	s.Dispatch(key.Special(key.KeyDown, key.ModNone))

	if len(seen) != 1 || seen[0].Key != key.KeyDown {
		t.Errorf("seen = %v", seen)
	}
}

func TestService_RemoveAndOwner(t *testing.T) {
	s := NewService(nil)
	h, _ := s.Bind(Binding{Keys: "a", Owner: "p1", Action: func(key.Event) bool { return true }})
	_, _ = s.Bind(Binding{Keys: "b", Owner: "p1", Action: func(key.Event) bool { return true }})
	s.Subscribe("p1", func(key.Event) bool { return true })
	_, _ = s.Bind(Binding{Keys: "c", Owner: "p2", Action: func(key.Event) bool { return true }})

	h.Remove()
	h.Remove()
	if len(s.Bindings()) != 2 {
		t.Fatalf("bindings after Remove = %d, want 2", len(s.Bindings()))
	}
	if n := s.RemoveOwner("p1"); n != 2 {
		t.Errorf("RemoveOwner = %d, want 2", n)
	}
	if s.Dispatch(key.Rune('b', key.ModNone)) {
		t.Error("p1 binding should be gone")
	}
	if !s.Dispatch(key.Rune('c', key.ModNone)) {
		t.Error("p2 binding should remain")
	}

	s.Clear()
	if len(s.Bindings()) != 0 {
		t.Error("Clear should remove all bindings")
	}
}

func TestService_InvalidBinding(t *testing.T) {
	s := NewService(nil)
	if _, err := s.Bind(Binding{Keys: "Hyper+x", Action: func(key.Event) bool { return true }}); !errors.Is(err, ErrInvalidBinding) {
		t.Errorf("bad keys: err = %v", err)
	}
	if _, err := s.Bind(Binding{Keys: "x"}); !errors.Is(err, ErrInvalidBinding) {
		t.Errorf("nil action: err = %v", err)
	}
}

func TestService_PanicIsolated(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: logging.LevelDebug, Output: &buf})
	s := NewService(logger)
	_, _ = s.Bind(Binding{Keys: "x", Owner: "bad", Priority: 1, Action: func(key.Event) bool { panic("boom") }})
	_, _ = s.Bind(Binding{Keys: "x", Owner: "good", Action: func(key.Event) bool { return true }})

	if !s.Dispatch(key.Rune('x', key.ModNone)) {
		t.Error("later binding should still consume")
	}
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("panic not logged: %q", buf.String())
	}
}
