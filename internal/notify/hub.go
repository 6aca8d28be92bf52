package notify

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// Hub fans events out to in-process subscribers of a group, such as the
// websocket stream. A subscriber whose buffer is full misses the event.
type Hub struct {
	mu     sync.RWMutex
	subs   map[int64]map[*Subscription]struct{}
	buffer int
	logger *zap.Logger
}

// Subscription receives the events of one group until closed.
type Subscription struct {
	hub     *Hub
	grupoID int64
	ch      chan Event
	once    sync.Once
}

func NewHub(buffer int, logger *zap.Logger) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{subs: make(map[int64]map[*Subscription]struct{}), buffer: buffer, logger: logger}
}

var _ Publisher = (*Hub)(nil)

func (h *Hub) Subscribe(grupoID int64) *Subscription {
	s := &Subscription{hub: h, grupoID: grupoID, ch: make(chan Event, h.buffer)}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[grupoID] == nil {
		h.subs[grupoID] = make(map[*Subscription]struct{})
	}
	h.subs[grupoID][s] = struct{}{}
	return s
}

// Subscribers reports how many subscriptions grupoID has.
func (h *Hub) Subscribers(grupoID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[grupoID])
}

// Publish never blocks on a slow subscriber.
func (h *Hub) Publish(_ context.Context, ev Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subs[ev.GrupoID] {
		select {
		case s.ch <- ev:
		default:
			h.logger.Warn("Subscriber buffer full, event dropped",
				zap.Int64("grupo_id", ev.GrupoID),
				zap.String("event_id", ev.ID),
			)
		}
	}
	return nil
}

// Close ends every subscription.
func (h *Hub) Close() error {
	h.mu.Lock()
	subs := h.subs
	h.subs = make(map[int64]map[*Subscription]struct{})
	h.mu.Unlock()
	for _, set := range subs {
		for s := range set {
			s.once.Do(func() { close(s.ch) })
		}
	}
	return nil
}

// Events is closed when the subscription or the hub is closed.
func (s *Subscription) Events() <-chan Event { return s.ch }

func (s *Subscription) Close() {
	h := s.hub
	h.mu.Lock()
	if set, ok := h.subs[s.grupoID]; ok {
		delete(set, s)
		if len(set) == 0 {
			delete(h.subs, s.grupoID)
		}
	}
	h.mu.Unlock()
	s.once.Do(func() { close(s.ch) })
}

// Multi publishes to every publisher in order and joins their errors.
func Multi(publishers ...Publisher) Publisher {
	return multiPublisher(publishers)
}

type multiPublisher []Publisher

func (m multiPublisher) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m multiPublisher) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
