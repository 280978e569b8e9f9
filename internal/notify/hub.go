// Package notify provides in-memory fan-out of change events.
package notify

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// subscriberBufferSize is the channel buffer for each subscriber.
const subscriberBufferSize = 64

// Hub fans events out to channel subscribers and synchronous listeners.
//
// Channel subscribers suit a UI loop that re-reads state when something
// changed: Publish never blocks on them and drops events for subscribers
// whose buffer is full. Listeners run inline inside Publish, in
// registration order, so the publisher observes their side effects before
// it continues.
type Hub[T any] struct {
	mu          sync.RWMutex
	subscribers map[string]chan T
	listeners   map[string]func(T)
	order       []string
	logger      *zap.Logger
}

// NewHub creates a hub. Pass nil logger for a no-op logger.
func NewHub[T any](logger *zap.Logger) *Hub[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub[T]{
		subscribers: make(map[string]chan T),
		listeners:   make(map[string]func(T)),
		logger:      logger,
	}
}

// Subscribe registers a channel subscriber. The subscription is removed and
// its channel closed when ctx is cancelled or Unsubscribe is called.
func (h *Hub[T]) Subscribe(ctx context.Context) (<-chan T, string) {
	id := uuid.New().String()
	ch := make(chan T, subscriberBufferSize)

	h.mu.Lock()
	h.subscribers[id] = ch
	h.mu.Unlock()

	h.logger.Debug("subscriber added", zap.String("sub_id", id))

	go func() {
		<-ctx.Done()
		h.Unsubscribe(id)
	}()

	return ch, id
}

// Unsubscribe removes a channel subscriber and closes its channel.
func (h *Hub[T]) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch, ok := h.subscribers[id]
	if !ok {
		return
	}
	delete(h.subscribers, id)
	close(ch)

	h.logger.Debug("subscriber removed", zap.String("sub_id", id))
}

// Listen registers fn to be called synchronously on every Publish.
// The returned function removes the listener.
func (h *Hub[T]) Listen(fn func(T)) (cancel func()) {
	id := uuid.New().String()

	h.mu.Lock()
	h.listeners[id] = fn
	h.order = append(h.order, id)
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners, id)
		for i, lid := range h.order {
			if lid == id {
				h.order = append(h.order[:i:i], h.order[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers ev to every listener and subscriber.
func (h *Hub[T]) Publish(ev T) {
	h.mu.RLock()
	fns := make([]func(T), 0, len(h.order))
	for _, id := range h.order {
		fns = append(fns, h.listeners[id])
	}
	h.mu.RUnlock()

	// Listeners run unlocked so they may register or cancel listeners.
	for _, fn := range fns {
		fn(ev)
	}

	// Sends never block, so holding the read lock keeps Unsubscribe from
	// closing a channel mid-send.
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, ch := range h.subscribers {
		select {
		case ch <- ev:
		default:
			h.logger.Debug("dropped event for slow subscriber", zap.String("sub_id", id))
		}
	}
}

// Close removes all subscribers and listeners and closes subscriber channels.
func (h *Hub[T]) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.subscribers {
		close(ch)
		delete(h.subscribers, id)
	}
	h.listeners = make(map[string]func(T))
	h.order = nil
}
