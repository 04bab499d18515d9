package event

import "github.com/dshills/keygrid/internal/event/topic"

// Listener receives the final payload of an emitted event.
type Listener func(payload any)

// InterceptFunc runs before listeners and decides what happens to the event.
type InterceptFunc func(payload any) Outcome

type outcomeKind uint8

const (
	outcomeContinue outcomeKind = iota
	outcomeReplace
	outcomeCancel
)

// Outcome is an interceptor's verdict on an event.
type Outcome struct {
	kind    outcomeKind
	payload any
}

// Continue leaves the payload unchanged.
func Continue() Outcome { return Outcome{kind: outcomeContinue} }

// Replace substitutes payload for all later interceptors and listeners.
func Replace(payload any) Outcome { return Outcome{kind: outcomeReplace, payload: payload} }

// Cancel aborts delivery.
func Cancel() Outcome { return Outcome{kind: outcomeCancel} }

// IsCancel reports whether the outcome cancels delivery.
func (o Outcome) IsCancel() bool { return o.kind == outcomeCancel }

// Result is what Emit reports to the caller.
type Result struct {
	// Payload is the payload after interception (the one listeners saw).
	Payload any

	// Cancelled is true when an interceptor vetoed the event.
	Cancelled bool
}

// Subscription is a handle to a listener or interceptor registration.
type Subscription interface {
	// ID returns the unique subscription identifier.
	ID() uint64

	// Topic returns the subscribed topic pattern.
	Topic() topic.Topic

	// Unsubscribe removes the registration. It is safe to call repeatedly.
	Unsubscribe()
}

// Stats contains bus counters.
type Stats struct {
	Emitted     uint64
	Delivered   uint64
	Cancelled   uint64
	Panics      uint64
	Listeners   int
	Interceptor int
}

// PanicHandler is called with the recovered panic of a subscriber.
type PanicHandler func(err *PanicError)
