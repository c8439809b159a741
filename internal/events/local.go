package events

import (
	"context"
	"log/slog"
	"sync"
)

const localBufferSize = 16

type localSubscriber struct {
	ch   chan Event
	done chan struct{}
	once sync.Once
}

// LocalBus fans events out to in-process subscribers. A subscriber that
// falls behind by more than its buffer loses events rather than blocking
// the session that published them.
type LocalBus struct {
	mu          sync.RWMutex
	subscribers map[string]map[*localSubscriber]struct{}
}

// NewLocalBus creates an empty in-process bus.
func NewLocalBus() *LocalBus {
	return &LocalBus{subscribers: make(map[string]map[*localSubscriber]struct{})}
}

// Publish delivers event to every current subscriber of its session.
func (b *LocalBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subscribers[event.SessionID] {
		select {
		case sub.ch <- event:
		default:
			slog.WarnContext(ctx, "dropping event for slow subscriber", "session.id", event.SessionID, "event.type", event.Type)
		}
	}
	return nil
}

// Subscribe registers a subscriber for sessionID until ctx is done or the
// subscription is closed.
func (b *LocalBus) Subscribe(ctx context.Context, sessionID string) (*Subscription, error) {
	sub := &localSubscriber{
		ch:   make(chan Event, localBufferSize),
		done: make(chan struct{}),
	}

	b.mu.Lock()
	if b.subscribers[sessionID] == nil {
		b.subscribers[sessionID] = make(map[*localSubscriber]struct{})
	}
	b.subscribers[sessionID][sub] = struct{}{}
	b.mu.Unlock()

	unsubscribe := func() error {
		sub.once.Do(func() {
			b.mu.Lock()
			delete(b.subscribers[sessionID], sub)
			if len(b.subscribers[sessionID]) == 0 {
				delete(b.subscribers, sessionID)
			}
			close(sub.ch)
			b.mu.Unlock()
			close(sub.done)
		})
		return nil
	}

	go func() {
		select {
		case <-ctx.Done():
			unsubscribe()
		case <-sub.done:
		}
	}()

	return &Subscription{C: sub.ch, close: unsubscribe}, nil
}

// subscriberCount is used by tests.
func (b *LocalBus) subscriberCount(sessionID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[sessionID])
}
