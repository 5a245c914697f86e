// Package eventbus provides the in-process event bus wiring services to
// their consumers.
package eventbus

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/tunetrace/tunetrace/internal/domain"
	"github.com/tunetrace/tunetrace/internal/ports"
)

// SyncBus delivers events on the publisher's goroutine, in subscription
// order, type-specific handlers before wildcard ones.
//
// Publish holds no locks while handlers run, so a handler may subscribe or
// unsubscribe freely. A slow handler delays the publisher; anything expensive
// belongs in a goroutine of the handler's own.
//
// Thread-safety: safe for concurrent publish and (un)subscribe.
type SyncBus struct {
	logger *slog.Logger

	// mu guards everything below
	mu       sync.RWMutex
	byType   map[domain.EventType][]subscription
	wildcard []subscription
	nextID   uint64
	closed   bool
}

// subscription pairs a handler with the id that removes it.
type subscription struct {
	id      domain.SubscriptionID
	handler domain.EventHandler
}

// NewSyncBus creates an empty bus. A nil logger silences the bus's own
// diagnostics; events still flow.
func NewSyncBus(logger *slog.Logger) *SyncBus {
	return &SyncBus{
		logger: logger,
		byType: make(map[domain.EventType][]subscription),
	}
}

// Publish delivers event to every matching handler before returning.
// Nil events and publishes on a closed bus are no-ops. A panicking handler
// is logged and contained; the handlers after it still run.
func (bus *SyncBus) Publish(event domain.Event) {
	if event == nil {
		return
	}

	bus.mu.RLock()
	if bus.closed {
		bus.mu.RUnlock()
		return
	}

	// Snapshot the recipients so handlers can mutate subscriptions without
	// deadlocking against this publish
	eventType := event.Type()
	recipients := make([]subscription, 0, len(bus.byType[eventType])+len(bus.wildcard))
	recipients = append(recipients, bus.byType[eventType]...)
	recipients = append(recipients, bus.wildcard...)
	bus.mu.RUnlock()

	if bus.logger != nil {
		bus.logger.Debug("event published",
			slog.String("event_type", string(eventType)),
			slog.Int("subscribers", len(recipients)))
	}

	for _, sub := range recipients {
		bus.deliver(sub, event)
	}
}

// deliver runs one handler, containing any panic it raises.
func (bus *SyncBus) deliver(sub subscription, event domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			if bus.logger != nil {
				bus.logger.Error("event handler panicked",
					slog.String("event_type", string(event.Type())),
					slog.Any("panic", r))
			}
		}
	}()

	sub.handler(event)
}

// Subscribe registers handler for one event type and returns the id that
// undoes it. Registering the same handler twice yields two deliveries under
// two ids. Panics when handler is nil or the bus is closed.
func (bus *SyncBus) Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID {
	if handler == nil {
		panic("event handler cannot be nil")
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		panic("cannot subscribe to closed event bus")
	}

	id := bus.mintID("sub")
	bus.byType[eventType] = append(bus.byType[eventType], subscription{id: id, handler: handler})
	return id
}

// SubscribeAll registers handler for every event type. Wildcard handlers
// suit logging and diagnostics consumers.
func (bus *SyncBus) SubscribeAll(handler domain.EventHandler) domain.SubscriptionID {
	if handler == nil {
		panic("event handler cannot be nil")
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		panic("cannot subscribe to closed event bus")
	}

	id := bus.mintID("sub-all")
	bus.wildcard = append(bus.wildcard, subscription{id: id, handler: handler})
	return id
}

// mintID allocates the next subscription id. Callers hold bus.mu.
func (bus *SyncBus) mintID(prefix string) domain.SubscriptionID {
	bus.nextID++
	return domain.SubscriptionID(fmt.Sprintf("%s-%d", prefix, bus.nextID))
}

// Unsubscribe removes the subscription with the given id; unknown ids are
// ignored. Removal swaps in the last entry, so delivery order is only stable
// across subscriptions that never unsubscribe.
func (bus *SyncBus) Unsubscribe(id domain.SubscriptionID) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	for eventType, subs := range bus.byType {
		if pruned, found := removeSubscription(subs, id); found {
			bus.byType[eventType] = pruned
			return
		}
	}
	bus.wildcard, _ = removeSubscription(bus.wildcard, id)
}

func removeSubscription(subs []subscription, id domain.SubscriptionID) ([]subscription, bool) {
	for i, sub := range subs {
		if sub.id == id {
			subs[i] = subs[len(subs)-1]
			return subs[:len(subs)-1], true
		}
	}
	return subs, false
}

// HasSubscribers reports whether anything listens for eventType, wildcard
// subscriptions included. Publishers use it to skip building events nobody
// wants.
func (bus *SyncBus) HasSubscribers(eventType domain.EventType) bool {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	return len(bus.byType[eventType]) > 0 || len(bus.wildcard) > 0
}

// SubscriberCount reports the live subscription total across all types,
// wildcard included.
func (bus *SyncBus) SubscriberCount() int {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	count := len(bus.wildcard)
	for _, subs := range bus.byType {
		count += len(subs)
	}
	return count
}

// Close drops every subscription and turns later publishes into no-ops.
// Closing twice returns an error.
func (bus *SyncBus) Close() error {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		return fmt.Errorf("event bus already closed")
	}

	bus.closed = true
	bus.byType = make(map[domain.EventType][]subscription)
	bus.wildcard = nil
	return nil
}

// Verify that SyncBus implements the EventBus interface
var _ ports.EventBus = (*SyncBus)(nil)
