package event

import (
	"runtime/debug"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/dshills/keygrid/internal/event/topic"
)

// Bus is a synchronous publish/subscribe bus with interceptors.
// It is safe for concurrent use, though the grid drives it from one goroutine.
type Bus struct {
	mu           sync.RWMutex
	listeners    map[topic.Topic][]*subscription
	interceptors map[topic.Topic][]*subscription
	lMatcher     *topic.Matcher
	iMatcher     *topic.Matcher

	nextID atomic.Uint64
	config busConfig

	emitted   atomic.Uint64
	delivered atomic.Uint64
	cancelled atomic.Uint64
	panics    atomic.Uint64
}

// NewBus creates a bus with the given options.
func NewBus(opts ...BusOption) *Bus {
	cfg := defaultBusConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Bus{
		listeners:    make(map[topic.Topic][]*subscription),
		interceptors: make(map[topic.Topic][]*subscription),
		lMatcher:     topic.NewMatcher(),
		iMatcher:     topic.NewMatcher(),
		config:       cfg,
	}
}

// On registers a listener for a topic pattern.
// A nil listener or invalid pattern yields an inert subscription.
func (b *Bus) On(pattern topic.Topic, fn Listener) Subscription {
	sub := &subscription{
		id:       b.nextID.Add(1),
		pattern:  pattern,
		kind:     kindListener,
		listener: fn,
		bus:      b,
	}
	if fn == nil || !pattern.IsValid() {
		sub.cancelled.Store(true)
		return sub
	}

	b.mu.Lock()
	b.listeners[pattern] = append(b.listeners[pattern], sub)
	b.mu.Unlock()
	b.lMatcher.Add(pattern)
	return sub
}

// Once registers a listener that unsubscribes itself after its first call.
func (b *Bus) Once(pattern topic.Topic, fn Listener) Subscription {
	var sub Subscription
	sub = b.On(pattern, func(payload any) {
		sub.Unsubscribe()
		fn(payload)
	})
	return sub
}

// Off removes a subscription. It returns false if it was already removed.
func (b *Bus) Off(sub Subscription) bool {
	s, ok := sub.(*subscription)
	if !ok || s == nil || s.bus != b {
		return false
	}
	if s.cancelled.Swap(true) {
		return false
	}
	b.remove(s)
	return true
}

// Intercept registers an interceptor for a topic pattern.
func (b *Bus) Intercept(pattern topic.Topic, fn InterceptFunc) Subscription {
	sub := &subscription{
		id:          b.nextID.Add(1),
		pattern:     pattern,
		kind:        kindInterceptor,
		interceptor: fn,
		bus:         b,
	}
	if fn == nil || !pattern.IsValid() {
		sub.cancelled.Store(true)
		return sub
	}

	b.mu.Lock()
	b.interceptors[pattern] = append(b.interceptors[pattern], sub)
	b.mu.Unlock()
	b.iMatcher.Add(pattern)
	return sub
}

// Emit delivers payload to the interceptors and then the listeners of t.
func (b *Bus) Emit(t topic.Topic, payload any) Result {
	b.emitted.Add(1)

	for _, sub := range b.match(t, kindInterceptor) {
		if !sub.active() {
			continue
		}
		out, ok := b.runInterceptor(t, sub, payload)
		if !ok {
			continue
		}
		switch out.kind {
		case outcomeCancel:
			b.cancelled.Add(1)
			return Result{Payload: payload, Cancelled: true}
		case outcomeReplace:
			payload = out.payload
		}
	}

	for _, sub := range b.match(t, kindListener) {
		if !sub.active() {
			continue
		}
		if b.runListener(t, sub, payload) {
			b.delivered.Add(1)
		}
	}

	return Result{Payload: payload}
}

// HasListeners reports whether any listener matches t.
func (b *Bus) HasListeners(t topic.Topic) bool {
	return len(b.match(t, kindListener)) > 0
}

// Clear removes every listener and interceptor.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, subs := range b.listeners {
		for _, s := range subs {
			s.cancelled.Store(true)
		}
	}
	for _, subs := range b.interceptors {
		for _, s := range subs {
			s.cancelled.Store(true)
		}
	}
	b.listeners = make(map[topic.Topic][]*subscription)
	b.interceptors = make(map[topic.Topic][]*subscription)
	b.lMatcher.Clear()
	b.iMatcher.Clear()
}

// Stats returns a snapshot of the bus counters.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	listeners, interceptors := 0, 0
	for _, subs := range b.listeners {
		listeners += len(subs)
	}
	for _, subs := range b.interceptors {
		interceptors += len(subs)
	}
	b.mu.RUnlock()

	return Stats{
		Emitted:     b.emitted.Load(),
		Delivered:   b.delivered.Load(),
		Cancelled:   b.cancelled.Load(),
		Panics:      b.panics.Load(),
		Listeners:   listeners,
		Interceptor: interceptors,
	}
}

// match collects the subscriptions whose pattern matches t, ordered by
// registration (subscription IDs are monotonic). The returned slice is a
// copy, so subscribers may (un)subscribe during delivery.
func (b *Bus) match(t topic.Topic, kind subscriptionKind) []*subscription {
	matcher, table := b.lMatcher, b.listeners
	if kind == kindInterceptor {
		matcher, table = b.iMatcher, b.interceptors
	}

	patterns := matcher.Match(t)
	if len(patterns) == 0 {
		return nil
	}

	b.mu.RLock()
	var result []*subscription
	for _, p := range patterns {
		result = append(result, table[p]...)
	}
	b.mu.RUnlock()

	if len(patterns) > 1 {
		sort.Slice(result, func(i, j int) bool { return result[i].id < result[j].id })
	}
	return result
}

func (b *Bus) remove(s *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	table, matcher := b.listeners, b.lMatcher
	if s.kind == kindInterceptor {
		table, matcher = b.interceptors, b.iMatcher
	}

	subs := table[s.pattern]
	for i, other := range subs {
		if other == s {
			subs = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(subs) == 0 {
		delete(table, s.pattern)
		matcher.Remove(s.pattern)
		return
	}
	table[s.pattern] = subs
}

func (b *Bus) runListener(t topic.Topic, sub *subscription, payload any) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			b.reportPanic(t, sub, r)
			ok = false
		}
	}()
	sub.listener(payload)
	return true
}

func (b *Bus) runInterceptor(t topic.Topic, sub *subscription, payload any) (out Outcome, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			b.reportPanic(t, sub, r)
			out, ok = Continue(), false
		}
	}()
	return sub.interceptor(payload), true
}

func (b *Bus) reportPanic(t topic.Topic, sub *subscription, recovered any) {
	b.panics.Add(1)
	perr := &PanicError{
		Topic:          string(t),
		SubscriptionID: sub.id,
		Value:          recovered,
		Stack:          string(debug.Stack()),
	}
	if b.config.panicHandler != nil {
		b.config.panicHandler(perr)
		return
	}
	b.config.logger.Error("%v", perr)
}
