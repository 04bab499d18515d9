package event

import "github.com/dshills/keygrid/internal/logging"

// BusOption configures a Bus.
type BusOption func(*busConfig)

type busConfig struct {
	panicHandler PanicHandler
	logger       *logging.Logger
}

func defaultBusConfig() busConfig {
	return busConfig{logger: logging.Nop()}
}

// WithLogger sets the logger used for recovered panics when no explicit
// panic handler is configured.
func WithLogger(l *logging.Logger) BusOption {
	return func(c *busConfig) {
		if l != nil {
			c.logger = l.WithComponent("event")
		}
	}
}

// WithPanicHandler sets the handler called when a subscriber panics.
func WithPanicHandler(h PanicHandler) BusOption {
	return func(c *busConfig) {
		c.panicHandler = h
	}
}
