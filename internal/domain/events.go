// Package domain defines the events published on the bus. Events let
// consumers observe the tracking pipeline without reaching into service
// state.
package domain

import (
	"time"
)

// Event is implemented by everything the bus can carry.
type Event interface {
	// Type names the kind of event; subscriptions filter on it
	Type() EventType

	// Timestamp reports when the event was created
	Timestamp() time.Time
}

// EventType names one kind of event.
type EventType string

// The full set of event types.
const (
	// Session lifecycle events
	EventSessionStarted EventType = "session.started"
	EventSessionStopped EventType = "session.stopped"
	EventSessionCleared EventType = "session.cleared"

	// Tracking events
	EventListenRecorded EventType = "listen.recorded"
)

// EventHandler consumes events delivered by the bus.
type EventHandler func(event Event)

// SubscriptionID identifies one registration so it can later be removed.
type SubscriptionID string

// baseEvent carries the publish timestamp every concrete event embeds.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp reports when the event was created.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

// newBaseEvent stamps the embedding event with the current time.
func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// SessionStartedEvent is published when a listening session begins tracking.
type SessionStartedEvent struct {
	baseEvent
	SessionID string
	StartTime time.Time
}

// Type returns the event type.
func (e SessionStartedEvent) Type() EventType {
	return EventSessionStarted
}

// NewSessionStartedEvent creates a new SessionStartedEvent.
func NewSessionStartedEvent(sessionID string, startTime time.Time) SessionStartedEvent {
	return SessionStartedEvent{
		baseEvent: newBaseEvent(),
		SessionID: sessionID,
		StartTime: startTime,
	}
}

// SessionStoppedEvent is published when a listening session stops tracking.
// The accumulated history stays available for metrics until the next start.
type SessionStoppedEvent struct {
	baseEvent
	SessionID   string
	EndTime     time.Time
	TrackCount  int
	ListenCount int
}

// Type returns the event type.
func (e SessionStoppedEvent) Type() EventType {
	return EventSessionStopped
}

// NewSessionStoppedEvent creates a new SessionStoppedEvent.
func NewSessionStoppedEvent(sessionID string, endTime time.Time, trackCount, listenCount int) SessionStoppedEvent {
	return SessionStoppedEvent{
		baseEvent:   newBaseEvent(),
		SessionID:   sessionID,
		EndTime:     endTime,
		TrackCount:  trackCount,
		ListenCount: listenCount,
	}
}

// SessionClearedEvent is published when the session and its persisted state
// are reset to the empty default.
type SessionClearedEvent struct {
	baseEvent
}

// Type returns the event type.
func (e SessionClearedEvent) Type() EventType {
	return EventSessionCleared
}

// NewSessionClearedEvent creates a new SessionClearedEvent.
func NewSessionClearedEvent() SessionClearedEvent {
	return SessionClearedEvent{baseEvent: newBaseEvent()}
}

// ListenRecordedEvent is published after a track transition was inferred and
// appended to the session history.
type ListenRecordedEvent struct {
	baseEvent
	Track  Track
	Listen TrackListen
}

// Type returns the event type.
func (e ListenRecordedEvent) Type() EventType {
	return EventListenRecorded
}

// NewListenRecordedEvent creates a new ListenRecordedEvent.
func NewListenRecordedEvent(track Track, listen TrackListen) ListenRecordedEvent {
	return ListenRecordedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
		Listen:    listen,
	}
}
