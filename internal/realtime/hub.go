package realtime

import (
	"context"
	"sync"
)

// Hub is an in-process Feed. Each subscription owns a goroutine and a
// one-slot mailbox: while a delivery is pending, further events for that
// subscription are coalesced into it.
type Hub struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[uint64]*hubSubscription
	closed bool
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]*hubSubscription)}
}

type hubSubscription struct {
	hub     *Hub
	id      uint64
	filter  Filter
	handler Handler
	mailbox chan Event
	ctx     context.Context
	cancel  context.CancelFunc
	once    sync.Once
}

// Publish delivers e to every matching subscription without blocking.
func (h *Hub) Publish(_ context.Context, e Event) error {
	h.Deliver(e)
	return nil
}

// Deliver hands e to matching subscribers. Bridges call it for remote events.
func (h *Hub) Deliver(e Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs {
		if !sub.filter.Matches(e) {
			continue
		}
		select {
		case sub.mailbox <- e:
		default:
		}
	}
}

// Resync hands every subscriber a RESYNC event for its table, whatever its
// filter. Bridges call it after reconnecting.
func (h *Hub) Resync() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs {
		select {
		case sub.mailbox <- Event{Table: sub.filter.Table, Type: EventResync}:
		default:
		}
	}
}

func (h *Hub) Subscribe(f Filter, handler Handler) (Subscription, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrFeedClosed
	}

	ctx, cancel := context.WithCancel(context.Background())
	h.nextID++
	sub := &hubSubscription{
		hub:     h,
		id:      h.nextID,
		filter:  f,
		handler: handler,
		mailbox: make(chan Event, 1),
		ctx:     ctx,
		cancel:  cancel,
	}
	h.subs[sub.id] = sub

	go sub.run()
	return sub, nil
}

// SubscriberCount is the number of live subscriptions.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close drops every subscription.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := make([]*hubSubscription, 0, len(h.subs))
	for _, sub := range h.subs {
		subs = append(subs, sub)
	}
	h.closed = true
	h.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

func (s *hubSubscription) run() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case e := <-s.mailbox:
			s.handler(s.ctx, e)
		}
	}
}

func (s *hubSubscription) Unsubscribe() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s.id)
		s.hub.mu.Unlock()
		s.cancel()
	})
}
