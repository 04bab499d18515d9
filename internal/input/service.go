package input

import (
	"sort"
	"sync"

	"github.com/dshills/keygrid/internal/input/key"
	"github.com/dshills/keygrid/internal/logging"
)

// Handle removes a binding or subscription.
type Handle struct {
	id  uint64
	svc *Service
}

// Remove detaches the binding. Removing twice is a no-op.
func (h Handle) Remove() {
	if h.svc != nil {
		h.svc.remove(h.id)
	}
}

// Service dispatches key events to bindings, then to raw subscribers.
type Service struct {
	mu       sync.RWMutex
	nextID   uint64
	bindings []*parsedBinding
	raw      []rawSub
	logger   *logging.Logger
}

type rawSub struct {
	id    uint64
	owner string
	fn    Action
}

// NewService creates an input service.
func NewService(logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{logger: logger.WithComponent("input")}
}

// Bind registers a chord binding.
func (s *Service) Bind(b Binding) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	pb, err := parseBinding(b, s.nextID)
	if err != nil {
		return Handle{}, err
	}
	s.bindings = append(s.bindings, pb)
	sort.SliceStable(s.bindings, func(i, j int) bool {
		return s.bindings[i].Priority > s.bindings[j].Priority
	})
	return Handle{id: pb.id, svc: s}, nil
}

// Subscribe registers a handler that sees every event no binding consumed.
func (s *Service) Subscribe(owner string, fn Action) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.raw = append(s.raw, rawSub{id: s.nextID, owner: owner, fn: fn})
	return Handle{id: s.nextID, svc: s}
}

// Dispatch routes ev and reports whether anything consumed it.
// Handlers run without the lock held and may bind or remove.
func (s *Service) Dispatch(ev key.Event) bool {
	s.mu.RLock()
	var matched []*parsedBinding
	for _, b := range s.bindings {
		if b.chord.Matches(ev) {
			matched = append(matched, b)
		}
	}
	raw := append([]rawSub(nil), s.raw...)
	s.mu.RUnlock()

	for _, b := range matched {
		if s.run(b.Owner, b.Action, ev) {
			return true
		}
	}
	for _, sub := range raw {
		if s.run(sub.owner, sub.fn, ev) {
			return true
		}
	}
	return false
}

func (s *Service) run(owner string, fn Action, ev key.Event) (consumed bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.WithField("owner", owner).Error("key handler for %s panicked: %v", ev, r)
			consumed = false
		}
	}()
	return fn(ev)
}

// Bindings returns the registered bindings in dispatch order.
func (s *Service) Bindings() []Binding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Binding, len(s.bindings))
	for i, b := range s.bindings {
		out[i] = b.Binding
	}
	return out
}

// RemoveOwner drops every binding and subscription registered by owner.
func (s *Service) RemoveOwner(owner string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	kept := s.bindings[:0]
	for _, b := range s.bindings {
		if b.Owner == owner {
			n++
			continue
		}
		kept = append(kept, b)
	}
	s.bindings = kept

	keptRaw := s.raw[:0]
	for _, r := range s.raw {
		if r.owner == owner {
			n++
			continue
		}
		keptRaw = append(keptRaw, r)
	}
	s.raw = keptRaw
	return n
}

// Clear removes everything.
func (s *Service) Clear() {
	s.mu.Lock()
	s.bindings = nil
	s.raw = nil
	s.mu.Unlock()
}

func (s *Service) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.bindings {
		if b.id == id {
			s.bindings = append(s.bindings[:i:i], s.bindings[i+1:]...)
			return
		}
	}
	for i, r := range s.raw {
		if r.id == id {
			s.raw = append(s.raw[:i:i], s.raw[i+1:]...)
			return
		}
	}
}
