package event

import "github.com/dshills/keygrid/internal/event/topic"

// OnTyped registers a listener that only fires for payloads of type T.
// Payloads of any other type are skipped silently.
func OnTyped[T any](b *Bus, pattern topic.Topic, fn func(T)) Subscription {
	return b.On(pattern, func(payload any) {
		if v, ok := payload.(T); ok {
			fn(v)
		}
	})
}

// InterceptTyped registers an interceptor that only sees payloads of type T.
// Other payload types pass through with Continue.
func InterceptTyped[T any](b *Bus, pattern topic.Topic, fn func(T) Outcome) Subscription {
	return b.Intercept(pattern, func(payload any) Outcome {
		if v, ok := payload.(T); ok {
			return fn(v)
		}
		return Continue()
	})
}
