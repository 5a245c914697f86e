// Package ports define the EventBus interface for event-driven communication.
// The event bus lets consumers observe the tracking pipeline without coupling
// to the services that drive it.
package ports

import (
	"github.com/tunetrace/tunetrace/internal/domain"
)

// EventBus carries domain events from the services that produce them to any
// number of consumers. Producers never learn who listens; consumers never
// import the services.
//
// Thread-safety: implementations must accept publishes and subscription
// changes from multiple goroutines at once.
//
// Example usage:
//
//	// In service: Publish an event
//	bus.Publish(domain.NewSessionStartedEvent(id, start))
//
//	// In a consumer: Subscribe to events
//	subID := bus.Subscribe(domain.EventListenRecorded, func(event domain.Event) {
//	    e := event.(domain.ListenRecordedEvent)
//	    fmt.Println(e.Track.Title, e.Listen.CompletionRate)
//	})
//
//	// Later: Unsubscribe
//	bus.Unsubscribe(subID)
type EventBus interface {
	// Publish hands event to every subscriber of its type. Synchronous
	// implementations run the handlers before returning, in subscription
	// order, so handlers must stay quick or dispatch to their own
	// goroutine.
	Publish(event domain.Event)

	// Subscribe registers handler for one event type and returns the id
	// that removes it. The same handler may be registered repeatedly; each
	// registration is delivered separately under its own id.
	Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID

	// Unsubscribe cancels one subscription. Ids that are unknown or already
	// cancelled are ignored.
	Unsubscribe(id domain.SubscriptionID)

	// SubscribeAll registers handler for every event type, which suits
	// logging and diagnostics consumers.
	SubscribeAll(handler domain.EventHandler) domain.SubscriptionID

	// HasSubscribers reports whether any subscription (wildcard included)
	// would receive events of the given type. Publishers use it to skip
	// building events nobody wants.
	HasSubscribers(eventType domain.EventType) bool

	// Close drops all subscriptions and rejects further use.
	Close() error
}
