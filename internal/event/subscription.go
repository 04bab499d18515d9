package event

import (
	"sync/atomic"

	"github.com/dshills/keygrid/internal/event/topic"
)

type subscriptionKind uint8

const (
	kindListener subscriptionKind = iota
	kindInterceptor
)

type subscription struct {
	id          uint64
	pattern     topic.Topic
	kind        subscriptionKind
	listener    Listener
	interceptor InterceptFunc
	cancelled   atomic.Bool
	bus         *Bus
}

func (s *subscription) ID() uint64         { return s.id }
func (s *subscription) Topic() topic.Topic { return s.pattern }

func (s *subscription) Unsubscribe() {
	if s.cancelled.Swap(true) {
		return
	}
	s.bus.remove(s)
}

func (s *subscription) active() bool {
	return !s.cancelled.Load()
}
