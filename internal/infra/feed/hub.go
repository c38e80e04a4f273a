// Package feed carries job-table change events from transport adapters to
// per-user subscribers inside the process.
package feed

import (
	"context"
	"log/slog"
	"sync"

	"shorts/internal/domain/service"

	"github.com/google/uuid"
)

// Hub is an in-process fan-out of job change events, keyed by owning user.
// It implements both sides of the feed: delivery handlers dispatch into it
// and views subscribe out of it. Handlers run on the dispatching goroutine.
type Hub struct {
	logger *slog.Logger

	mu     sync.RWMutex
	nextID uint64
	subs   map[uuid.UUID]map[uint64]service.JobChangeHandler
}

// NewHub is the constructor for Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger,
		subs:   make(map[uuid.UUID]map[uint64]service.JobChangeHandler),
	}
}

// Subscribe registers a handler for events owned by userID. After the
// returned function is called the handler is never invoked again; the
// removal synchronizes with in-flight Dispatch calls through the lock.
func (h *Hub) Subscribe(_ context.Context, userID uuid.UUID, handler service.JobChangeHandler) (func(), error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[uint64]service.JobChangeHandler)
	}
	h.subs[userID][id] = handler

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		delete(h.subs[userID], id)
		if len(h.subs[userID]) == 0 {
			delete(h.subs, userID)
		}
	}, nil
}

// Dispatch delivers an event to every subscription scoped to the event's
// owning user. Subscriptions for other users never see it. Handlers are
// invoked under the read lock, so an unsubscribe blocks until in-flight
// deliveries to that handler have finished; handlers must not call
// Subscribe or an unsubscribe function from inside the callback.
func (h *Hub) Dispatch(ctx context.Context, event service.JobChangeEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	handlers := h.subs[event.UserID]
	if len(handlers) == 0 {
		h.logger.DebugContext(ctx, "No subscribers for change event",
			slog.Any("user_id", event.UserID), slog.String("kind", string(event.Kind)))

		return
	}

	for _, handler := range handlers {
		handler(event)
	}
}
