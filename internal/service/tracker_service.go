package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tunetrace/tunetrace/internal/domain"
	"github.com/tunetrace/tunetrace/internal/ports"
)

// defaultPollInterval is how often the playback endpoint is observed
// while a session is active.
const defaultPollInterval = 30 * time.Second

// TrackerService drives a listening session: it polls the streaming API for
// the currently playing track and infers discrete listen events from
// successive snapshots.
//
// Transition detection characterizes the newly observed track at detection
// time: when the track id changes between snapshots, the recorded listen
// uses the new track's own current position as its listen duration. The
// outgoing track is not closed out retroactively with its last observed
// position, and a track first seen right at position zero produces no
// record (nothing has been heard yet). Downstream metrics are calibrated
// against this estimate, so it must stay as is.
//
// All operations are thread-safe.
type TrackerService struct {
	// Dependencies (injected)
	logger   *slog.Logger
	creds    ports.CredentialSource
	source   ports.NowPlayingSource
	sessions *SessionService

	pollInterval time.Duration

	// Concurrency control and transition state
	mu              sync.Mutex
	lastTrackID     string // empty = no track observed yet
	lastPositionSec float64
	stopPoll        chan struct{}
	pollWG          sync.WaitGroup
	polling         bool
}

// NewTrackerService creates a new tracker service.
// A pollInterval of zero or less selects the 30 second default.
func NewTrackerService(
	logger *slog.Logger,
	creds ports.CredentialSource,
	source ports.NowPlayingSource,
	sessions *SessionService,
	pollInterval time.Duration,
) *TrackerService {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	service := &TrackerService{
		logger:       logger,
		creds:        creds,
		source:       source,
		sessions:     sessions,
		pollInterval: pollInterval,
	}

	logger.Debug("tracker service initialized",
		slog.Duration("poll_interval", pollInterval))

	return service
}

// StartSession begins a fresh listening session and starts the poll loop.
// Any loop left over from a previous session is cancelled first, so repeated
// activations never stack timers. The first observation cycle runs
// immediately, without waiting for the first tick.
func (s *TrackerService) StartSession() domain.Session {
	// Cancel a prior loop before starting a new one
	s.stopLoop()

	s.mu.Lock()
	s.lastTrackID = ""
	s.lastPositionSec = 0
	s.mu.Unlock()

	session := s.sessions.Start()

	s.startLoop()

	return session
}

// StopSession ends the current session and stops the poll loop.
// The active flag is flipped before the loop is cancelled: a cycle already
// in flight lands on the append guard instead of racing the shutdown.
func (s *TrackerService) StopSession() domain.Session {
	session := s.sessions.Stop()

	s.stopLoop()

	return session
}

// ClearSession stops any running loop, resets the transition state, and
// resets the session to the empty default.
func (s *TrackerService) ClearSession() {
	s.stopLoop()

	s.mu.Lock()
	s.lastTrackID = ""
	s.lastPositionSec = 0
	s.mu.Unlock()

	s.sessions.Clear()
}

// IsPolling returns true while the poll loop is running.
func (s *TrackerService) IsPolling() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.polling
}

// Shutdown stops the poll loop without ending the session.
// The session stays persisted as active; the next Load restores it.
func (s *TrackerService) Shutdown() error {
	s.stopLoop()
	return nil
}

// startLoop launches the poll goroutine (one immediate cycle, then ticks).
// A second call while the loop is running is a no-op.
func (s *TrackerService) startLoop() {
	s.mu.Lock()
	if s.polling {
		s.mu.Unlock()
		return
	}
	s.polling = true
	stop := make(chan struct{})
	s.stopPoll = stop
	s.pollWG.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.pollWG.Done()

		s.pollOnce(context.Background())

		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return

			case <-ticker.C:
				s.pollOnce(context.Background())
			}
		}
	}()
}

// stopLoop cancels the poll goroutine and waits for it to exit.
func (s *TrackerService) stopLoop() {
	s.mu.Lock()
	if !s.polling {
		s.mu.Unlock()
		return
	}
	close(s.stopPoll)
	s.polling = false

	// Release lock before waiting so a running cycle can finish
	s.mu.Unlock()

	s.pollWG.Wait()
}

// pollOnce runs one observation cycle. Every failure is logged and skips
// the cycle; nothing here terminates the loop or the session.
func (s *TrackerService) pollOnce(ctx context.Context) {
	token, err := s.creds.AccessToken(ctx)
	if err != nil {
		// Transient condition, retry next cycle
		s.logger.Debug("no credential available, skipping cycle", slog.Any("error", err))
		return
	}
	if token == "" {
		s.logger.Debug("empty credential, skipping cycle")
		return
	}

	snapshot, err := s.source.CurrentlyPlaying(ctx, token)
	if err != nil {
		s.logger.Warn("failed to fetch playback snapshot", slog.Any("error", err))
		return
	}

	// Nothing playing; the session stays active across silence
	if snapshot == nil || snapshot.Track == nil {
		s.logger.Debug("nothing playing")
		return
	}

	s.observe(snapshot)
}

// observe feeds one snapshot to the transition detector.
func (s *TrackerService) observe(snapshot *domain.PlaybackSnapshot) {
	track := *snapshot.Track
	position := snapshot.ProgressSeconds()

	s.mu.Lock()
	transition := s.lastTrackID != track.ID
	s.lastTrackID = track.ID
	s.lastPositionSec = position
	s.mu.Unlock()

	// Same track still playing: position updated, no record. The listen for
	// the current track is only recorded at the next transition.
	if !transition {
		return
	}

	// A track found right at its start has not been heard yet; the
	// transition only advances the tracking state.
	if position <= 0 {
		return
	}

	listen := domain.NewTrackListen(track.ID, position, track.DurationSeconds(), time.Now())

	if !s.sessions.Append(track, listen) {
		s.logger.Debug("listen dropped, session no longer active",
			slog.String("track_id", track.ID))
		return
	}

	s.logger.Info("track transition detected",
		slog.String("track_id", track.ID),
		slog.String("title", track.Title),
		slog.Float64("position_sec", position),
		slog.Bool("early_skip", listen.WasEarlySkip))
}

// Verify that TrackerService implements the expected interface patterns
var _ interface {
	StartSession() domain.Session
	StopSession() domain.Session
	ClearSession()
	IsPolling() bool
	Shutdown() error
} = (*TrackerService)(nil)
