// Package event provides the grid's event bus: publish/subscribe plus an
// interceptor chain.
//
// The bus is the seam between the narrow grid core and its plugins. The
// core emits topics such as "sort", "cell:edit" or "render:body" without
// knowing who listens; plugins subscribe, and may also intercept a topic to
// rewrite its payload or veto it entirely.
//
// # Delivery
//
// Emit runs synchronously on the caller's goroutine:
//
//  1. Interceptors matching the topic run in registration order. Each
//     returns an Outcome: Continue() leaves the payload alone, Replace(v)
//     substitutes v for every later interceptor and listener, Cancel()
//     aborts delivery and makes Emit report Result.Cancelled.
//  2. If not cancelled, listeners matching the topic run in registration
//     order with the final payload.
//
// A listener or interceptor that panics is recovered and reported through
// the bus panic handler; delivery continues with the next subscriber.
//
// # Topics
//
// Topics are colon-separated. Subscriptions may use wildcards:
//
//	history:*   every single-segment history event
//	cell:**     cell, cell:edit, cell:edit:start, ...
//	**          everything
//
// # Usage
//
//	bus := event.NewBus(event.WithLogger(log))
//	sub := bus.On("sort:after", func(p any) { ... })
//	defer sub.Unsubscribe()
//
//	bus.Intercept("render:body", func(p any) event.Outcome {
//	    return event.Cancel()
//	})
//
//	if res := bus.Emit("sort", payload); res.Cancelled {
//	    return
//	}
package event
