package events

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	ferrors "github.com/anorak1709/research-usecase-generator/internal/foundation/errors"
)

// Filter selects the events a subscription receives. Zero values match
// everything.
type Filter struct {
	AnalysisID string
	Types      []Type
}

func (f Filter) matches(evt Event) bool {
	if f.AnalysisID != "" && evt.AnalysisID() != f.AnalysisID {
		return false
	}
	return len(f.Types) == 0 || slices.Contains(f.Types, evt.EventType())
}

// Bus fans analysis events out to live in-process subscribers, such as the
// SSE stream. It is not durable; persisted history lives in the report store.
//
// Publish blocks until every matching subscriber has accepted the event or
// ctx is done. A subscriber that unsubscribes while a Publish is waiting on it
// is skipped, never sent to after its channel is closed.
type Bus struct {
	mu        sync.RWMutex
	subs      map[uint64]*subscription
	nextID    atomic.Uint64
	isClosed  atomic.Bool
	closeOnce sync.Once
}

type subscription struct {
	filter Filter
	ch     chan Event
	done   chan struct{}

	// mu is held for reading by senders and for writing while ch is closed.
	mu     sync.RWMutex
	closed bool
	once   sync.Once
}

// NewBus returns an open bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[uint64]*subscription)}
}

// Subscribe registers a subscription with the given backlog. The returned
// channel is closed by the returned cancel func or by Close.
func (b *Bus) Subscribe(filter Filter, buffer int) (<-chan Event, func()) {
	sub := &subscription{
		filter: filter,
		ch:     make(chan Event, buffer),
		done:   make(chan struct{}),
	}

	b.mu.Lock()
	if b.isClosed.Load() {
		b.mu.Unlock()
		sub.close()
		return sub.ch, func() {}
	}
	id := b.nextID.Add(1)
	b.subs[id] = sub
	b.mu.Unlock()

	return sub.ch, func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
		sub.close()
	}
}

// SubscriberCount returns the number of live subscriptions.
func (b *Bus) SubscriberCount() int {
	if b == nil {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Publish delivers evt to every matching subscriber.
func (b *Bus) Publish(ctx context.Context, evt Event) error {
	if evt == nil {
		return ferrors.ValidationError("event cannot be nil").Build()
	}
	if b.isClosed.Load() {
		return ferrors.RuntimeError("event bus is closed").Build()
	}

	b.mu.RLock()
	targets := make([]*subscription, 0, len(b.subs))
	for _, s := range b.subs {
		if s.filter.matches(evt) {
			targets = append(targets, s)
		}
	}
	b.mu.RUnlock()

	for _, s := range targets {
		if err := s.send(ctx, evt); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the bus and all subscription channels.
func (b *Bus) Close() {
	b.closeOnce.Do(func() {
		b.isClosed.Store(true)

		b.mu.Lock()
		subs := b.subs
		b.subs = make(map[uint64]*subscription)
		b.mu.Unlock()

		for _, s := range subs {
			s.close()
		}
	})
}

func (s *subscription) send(ctx context.Context, evt Event) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil
	}
	select {
	case s.ch <- evt:
		return nil
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ferrors.WrapError(ctx.Err(), ferrors.CategoryRuntime, "event delivery canceled").
			WithContext("event_type", string(evt.EventType())).
			WithContext("analysis_id", evt.AnalysisID()).
			Build()
	}
}

// close wakes pending senders through done, then closes ch once none remain.
func (s *subscription) close() {
	s.once.Do(func() {
		close(s.done)
		s.mu.Lock()
		s.closed = true
		close(s.ch)
		s.mu.Unlock()
	})
}
