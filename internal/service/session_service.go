// Package service provides business logic for the tunetrace application.
package service

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tunetrace/tunetrace/internal/domain"
	"github.com/tunetrace/tunetrace/internal/ports"
)

// sessionKey is the storage key the session aggregate persists under.
const sessionKey = "session.current"

// SessionService is the single source of truth for the listening session.
// It owns the Session aggregate and its persistence: every mutation is
// written back to the store as one JSON blob under a fixed key. Write
// failures are logged and swallowed; the in-memory session stays
// authoritative. All operations are thread-safe via sync.RWMutex.
type SessionService struct {
	// Dependencies (injected)
	logger *slog.Logger
	store  ports.KeyValueStore
	bus    ports.EventBus

	// State
	session domain.Session

	// Concurrency control
	mu sync.RWMutex
}

// NewSessionService creates a new session service and restores any
// previously persisted session.
func NewSessionService(
	logger *slog.Logger,
	store ports.KeyValueStore,
	bus ports.EventBus,
) *SessionService {
	service := &SessionService{
		logger: logger,
		store:  store,
		bus:    bus,
	}

	logger.Debug("session service initialized")

	// Restore persisted state
	service.Load()

	return service
}

// Load restores the last persisted session into memory.
// A missing blob, a read failure, malformed JSON, or a persisted session with
// no start time and no tracks all leave the empty/inactive default in place.
// Load never fails.
func (s *SessionService) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.store.Get(sessionKey)
	if err != nil {
		s.logger.Warn("failed to read persisted session, using default", slog.Any("error", err))
		return
	}

	if raw == "" {
		s.logger.Debug("no persisted session found")
		return
	}

	var restored domain.Session
	if err := json.Unmarshal([]byte(raw), &restored); err != nil {
		s.logger.Warn("persisted session is malformed, using default", slog.Any("error", err))
		return
	}

	// A blob with no start time and no tracks carries no history worth keeping
	if restored.IsEmpty() {
		s.logger.Debug("persisted session is empty, using default")
		return
	}

	s.session = restored

	s.logger.Info("restored persisted session",
		slog.String("session_id", restored.ID),
		slog.Bool("active", restored.IsActive),
		slog.Int("track_count", len(restored.Tracks)),
		slog.Int("listen_count", len(restored.TrackListens)))
}

// Start begins a new listening session with all history cleared.
// The persisted blob is removed before the fresh session is written so no
// stale fields can leak forward into the new session.
func (s *SessionService) Start() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Explicit removal, not an in-place overwrite
	if err := s.store.Delete(sessionKey); err != nil {
		s.logger.Warn("failed to remove persisted session", slog.Any("error", err))
	}

	now := time.Now()
	s.session = domain.Session{
		ID:        uuid.NewString(),
		IsActive:  true,
		StartTime: &now,
	}

	s.persistLocked()

	s.logger.Info("session started", slog.String("session_id", s.session.ID))

	// Publish event
	s.bus.Publish(domain.NewSessionStartedEvent(s.session.ID, now))

	return s.copyLocked()
}

// Stop ends the current session, retaining its history for metrics.
// Stopping an already-inactive session is a no-op.
func (s *SessionService) Stop() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.IsActive {
		return s.copyLocked()
	}

	now := time.Now()
	s.session.IsActive = false
	s.session.EndTime = &now

	s.persistLocked()

	s.logger.Info("session stopped",
		slog.String("session_id", s.session.ID),
		slog.Int("track_count", len(s.session.Tracks)),
		slog.Int("listen_count", len(s.session.TrackListens)))

	// Publish event
	s.bus.Publish(domain.NewSessionStoppedEvent(
		s.session.ID, now, len(s.session.Tracks), len(s.session.TrackListens)))

	return s.copyLocked()
}

// Clear resets the session to the empty/inactive default and removes the
// persisted state.
func (s *SessionService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = domain.Session{}

	if err := s.store.Delete(sessionKey); err != nil {
		s.logger.Warn("failed to remove persisted session", slog.Any("error", err))
	}

	s.logger.Info("session cleared")

	// Publish event
	s.bus.Publish(domain.NewSessionClearedEvent())
}

// Append records one inferred listen. It adds track to the distinct-track
// list if its id is not already present, always appends listen, adds the
// track's full catalog duration (minutes) to the running accumulator, and
// persists the session.
//
// The active check and the mutation happen under one lock: if a stop raced
// an in-flight poll result, Append is a no-op returning false and the
// stopped session is preserved unchanged.
func (s *SessionService) Append(track domain.Track, listen domain.TrackListen) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.IsActive {
		s.logger.Debug("append skipped, session not active", slog.String("track_id", track.ID))
		return false
	}

	if !s.session.HasTrack(track.ID) {
		s.session.Tracks = append(s.session.Tracks, track)
	}

	s.session.TrackListens = append(s.session.TrackListens, listen)
	s.session.TotalListeningMinutes += track.DurationMinutes()

	s.persistLocked()

	s.logger.Debug("listen recorded",
		slog.String("track_id", track.ID),
		slog.String("title", track.Title),
		slog.Float64("listen_duration_sec", listen.ListenDurationSec),
		slog.Bool("early_skip", listen.WasEarlySkip))

	// Publish event
	s.bus.Publish(domain.NewListenRecordedEvent(track, listen))

	return true
}

// Current returns a defensive copy of the session for consumers.
func (s *SessionService) Current() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.copyLocked()
}

// IsActive reports whether a session is currently being tracked.
func (s *SessionService) IsActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.session.IsActive
}

// persistLocked writes the session to the store (caller must hold lock).
// Failures are logged and swallowed; the in-memory session is authoritative.
func (s *SessionService) persistLocked() {
	data, err := json.Marshal(s.session)
	if err != nil {
		s.logger.Warn("failed to encode session", slog.Any("error", err))
		return
	}

	if err := s.store.Set(sessionKey, string(data)); err != nil {
		s.logger.Warn("failed to persist session", slog.Any("error", err))
	}
}

// copyLocked returns a copy of the session with cloned slices
// (caller must hold lock).
func (s *SessionService) copyLocked() domain.Session {
	copied := s.session

	if s.session.Tracks != nil {
		copied.Tracks = make([]domain.Track, len(s.session.Tracks))
		copy(copied.Tracks, s.session.Tracks)
	}

	if s.session.TrackListens != nil {
		copied.TrackListens = make([]domain.TrackListen, len(s.session.TrackListens))
		copy(copied.TrackListens, s.session.TrackListens)
	}

	return copied
}

// Verify that SessionService implements the expected interface patterns
var _ interface {
	Load()
	Start() domain.Session
	Stop() domain.Session
	Clear()
	Append(domain.Track, domain.TrackListen) bool
	Current() domain.Session
	IsActive() bool
} = (*SessionService)(nil)
