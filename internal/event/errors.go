package event

import "fmt"

// PanicError wraps a value recovered from a panicking subscriber.
type PanicError struct {
	// Topic is the topic being delivered.
	Topic string

	// SubscriptionID identifies the subscriber that panicked.
	SubscriptionID uint64

	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace at the time of the panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("subscriber %d panicked on %q: %v", e.SubscriptionID, e.Topic, e.Value)
}
