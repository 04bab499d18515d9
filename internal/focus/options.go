package focus

import (
	"github.com/dshills/keygrid/internal/event"
	"github.com/dshills/keygrid/internal/logging"
)

// Option configures a Controller.
type Option func(*Controller)

// WithBus sets the bus that receives cell events.
func WithBus(bus *event.Bus) Option {
	return func(c *Controller) { c.bus = bus }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l.WithComponent("focus")
		}
	}
}

// WithOnChange registers a callback run after every state change, typically
// to request a redraw.
func WithOnChange(fn func()) Option {
	return func(c *Controller) { c.onChange = fn }
}
