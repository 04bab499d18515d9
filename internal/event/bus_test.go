package event

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dshills/keygrid/internal/logging"
)

func TestBus_OnEmitOrder(t *testing.T) {
	bus := NewBus()
	var calls []string

	bus.On("sort", func(p any) { calls = append(calls, "first:"+p.(string)) })
	bus.On("sort", func(p any) { calls = append(calls, "second:"+p.(string)) })
	bus.On("filter", func(p any) { calls = append(calls, "other") })

	res := bus.Emit("sort", "n")
	if res.Cancelled {
		t.Fatal("unexpected cancel")
	}
	if res.Payload != "n" {
		t.Errorf("Payload = %v, want n", res.Payload)
	}

	want := []string{"first:n", "second:n"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, calls[i], want[i])
		}
	}
}

func TestBus_WildcardOrderFollowsRegistration(t *testing.T) {
	bus := NewBus()
	var calls []string

	bus.On("history:undo", func(any) { calls = append(calls, "exact") })
	bus.On("history:*", func(any) { calls = append(calls, "wild") })
	bus.On("**", func(any) { calls = append(calls, "all") })

	bus.Emit("history:undo", nil)

	want := "exact,wild,all"
	if got := strings.Join(calls, ","); got != want {
		t.Errorf("delivery order = %q, want %q", got, want)
	}
}

func TestBus_Off(t *testing.T) {
	bus := NewBus()
	count := 0
	sub := bus.On("reset", func(any) { count++ })

	bus.Emit("reset", nil)
	if !bus.Off(sub) {
		t.Fatal("Off() returned false for live subscription")
	}
	if bus.Off(sub) {
		t.Error("second Off() should return false")
	}
	bus.Emit("reset", nil)

	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestBus_Once(t *testing.T) {
	bus := NewBus()
	count := 0
	bus.Once("table:ready", func(any) { count++ })

	bus.Emit("table:ready", nil)
	bus.Emit("table:ready", nil)

	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestBus_InterceptorCancel(t *testing.T) {
	bus := NewBus()
	delivered := false
	secondInterceptor := false

	bus.Intercept("render:body", func(any) Outcome { return Cancel() })
	bus.Intercept("render:body", func(any) Outcome {
		secondInterceptor = true
		return Continue()
	})
	bus.On("render:body", func(any) { delivered = true })

	res := bus.Emit("render:body", 1)
	if !res.Cancelled {
		t.Error("expected Cancelled result")
	}
	if delivered {
		t.Error("listener ran despite cancel")
	}
	if secondInterceptor {
		t.Error("interceptor after cancel ran")
	}
	if bus.Stats().Cancelled != 1 {
		t.Errorf("Cancelled stat = %d, want 1", bus.Stats().Cancelled)
	}
}

func TestBus_InterceptorReplace(t *testing.T) {
	bus := NewBus()
	var seenBySecond, seenByListener any

	bus.Intercept("filter", func(p any) Outcome { return Replace(p.(int) * 10) })
	bus.Intercept("filter", func(p any) Outcome {
		seenBySecond = p
		return Continue()
	})
	bus.On("filter", func(p any) { seenByListener = p })

	res := bus.Emit("filter", 4)

	if seenBySecond != 40 {
		t.Errorf("second interceptor saw %v, want 40", seenBySecond)
	}
	if seenByListener != 40 {
		t.Errorf("listener saw %v, want 40", seenByListener)
	}
	if res.Payload != 40 {
		t.Errorf("result payload = %v, want 40", res.Payload)
	}
}

func TestBus_InterceptRemove(t *testing.T) {
	bus := NewBus()
	sub := bus.Intercept("sort", func(any) Outcome { return Cancel() })
	sub.Unsubscribe()

	if res := bus.Emit("sort", nil); res.Cancelled {
		t.Error("removed interceptor still cancelled")
	}
}

func TestBus_PanicIsolation(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: logging.LevelDebug, Output: &buf})
	bus := NewBus(WithLogger(log))

	reached := false
	bus.On("cell:edit", func(any) { panic("boom") })
	bus.On("cell:edit", func(any) { reached = true })
	bus.Intercept("cell:edit", func(any) Outcome { panic("intercept boom") })

	res := bus.Emit("cell:edit", nil)

	if res.Cancelled {
		t.Error("panicking interceptor must not cancel")
	}
	if !reached {
		t.Error("listener after panicking listener did not run")
	}
	if bus.Stats().Panics != 2 {
		t.Errorf("Panics = %d, want 2", bus.Stats().Panics)
	}
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("panic not logged: %q", buf.String())
	}
}

func TestBus_PanicHandler(t *testing.T) {
	var got *PanicError
	bus := NewBus(WithPanicHandler(func(err *PanicError) { got = err }))
	bus.On("sort", func(any) { panic("x") })

	bus.Emit("sort", nil)

	if got == nil || got.Topic != "sort" || got.Value != "x" {
		t.Errorf("unexpected panic report %+v", got)
	}
}

func TestBus_UnsubscribeDuringEmit(t *testing.T) {
	bus := NewBus()
	count := 0
	var second Subscription
	bus.On("sort", func(any) { second.Unsubscribe() })
	second = bus.On("sort", func(any) { count++ })

	bus.Emit("sort", nil)
	bus.Emit("sort", nil)

	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestBus_Clear(t *testing.T) {
	bus := NewBus()
	called := false
	sub := bus.On("sort", func(any) { called = true })
	bus.Intercept("sort", func(any) Outcome { return Cancel() })

	bus.Clear()
	res := bus.Emit("sort", nil)

	if called || res.Cancelled {
		t.Error("subscriptions survived Clear")
	}
	if bus.Off(sub) {
		t.Error("Off after Clear should report false")
	}
	if s := bus.Stats(); s.Listeners != 0 || s.Interceptor != 0 {
		t.Errorf("stats after Clear = %+v", s)
	}
}

func TestBus_InvalidRegistration(t *testing.T) {
	bus := NewBus()
	sub := bus.On("", func(any) {})
	if bus.Off(sub) {
		t.Error("inert subscription should not be removable")
	}
	bus.On("sort", nil)
	if bus.HasListeners("sort") {
		t.Error("nil listener registered")
	}
}

func TestOnTyped(t *testing.T) {
	bus := NewBus()
	var got []int
	OnTyped(bus, "n", func(v int) { got = append(got, v) })

	bus.Emit("n", 1)
	bus.Emit("n", "skip")
	bus.Emit("n", 2)

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("got %v, want [1 2]", got)
	}
}

func TestInterceptTyped(t *testing.T) {
	bus := NewBus()
	InterceptTyped(bus, "n", func(v int) Outcome {
		if v < 0 {
			return Cancel()
		}
		return Continue()
	})

	if !bus.Emit("n", -1).Cancelled {
		t.Error("expected cancel for negative payload")
	}
	if bus.Emit("n", "other").Cancelled {
		t.Error("mismatched payload type should pass through")
	}
}
