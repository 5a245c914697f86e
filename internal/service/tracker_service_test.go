package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunetrace/tunetrace/internal/domain"
	"github.com/tunetrace/tunetrace/internal/testutil"
)

// fakeCredentials implements ports.CredentialSource with a scriptable result
type fakeCredentials struct {
	mu    sync.Mutex
	token string
	err   error
	calls int
}

func (f *fakeCredentials) AccessToken(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.token, f.err
}

func (f *fakeCredentials) setToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
}

func (f *fakeCredentials) setError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// snapshotStep is one scripted answer from the fake snapshot source
type snapshotStep struct {
	snapshot *domain.PlaybackSnapshot
	err      error
}

// scriptedSource replays a fixed snapshot sequence, holding the last step
// once the script is exhausted
type scriptedSource struct {
	mu    sync.Mutex
	steps []snapshotStep
	index int
	calls int
}

func (f *scriptedSource) CurrentlyPlaying(context.Context, string) (*domain.PlaybackSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++

	if len(f.steps) == 0 {
		return nil, nil
	}

	step := f.steps[f.index]
	if f.index < len(f.steps)-1 {
		f.index++
	}
	return step.snapshot, step.err
}

func (f *scriptedSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// trackerSnapshot builds a playback snapshot fixture
func trackerSnapshot(id string, positionMs, durationMs int64) *domain.PlaybackSnapshot {
	return &domain.PlaybackSnapshot{
		Track: &domain.Track{
			ID:         id,
			Title:      "Track " + id,
			Artists:    []string{"Artist " + id},
			Album:      "Album " + id,
			DurationMs: durationMs,
		},
		ProgressMs: positionMs,
	}
}

// Helper to create a tracker with a scripted source over a fresh session service
func newTestTracker(steps []snapshotStep, interval time.Duration) (*TrackerService, *SessionService, *scriptedSource, *fakeCredentials) {
	sessions, _ := newTestSessionService()
	source := &scriptedSource{steps: steps}
	creds := &fakeCredentials{token: "test-token"}
	tracker := NewTrackerService(svcTestLogger(), creds, source, sessions, interval)

	return tracker, sessions, source, creds
}

func TestTrackerService_TransitionSequence(t *testing.T) {
	tracker, sessions, _, _ := newTestTracker([]snapshotStep{
		{snapshot: trackerSnapshot("t1", 5000, 200000)},
		{snapshot: trackerSnapshot("t2", 3000, 180000)},
		{snapshot: trackerSnapshot("t2", 3000, 180000)},
		{snapshot: trackerSnapshot("t3", 0, 150000)},
	}, time.Hour)

	sessions.Start()

	for i := 0; i < 4; i++ {
		tracker.pollOnce(context.Background())
	}

	session := sessions.Current()
	require.Len(t, session.TrackListens, 2)

	first := session.TrackListens[0]
	assert.Equal(t, "t1", first.TrackID)
	assert.Equal(t, 5.0, first.ListenDurationSec)
	assert.Equal(t, 200.0, first.TotalDurationSec)
	assert.True(t, first.WasSkipped)
	assert.True(t, first.WasEarlySkip)
	assert.InDelta(t, 2.5, first.CompletionRate, 0.001)

	second := session.TrackListens[1]
	assert.Equal(t, "t2", second.TrackID)
	assert.Equal(t, 3.0, second.ListenDurationSec)
	assert.Equal(t, 180.0, second.TotalDurationSec)
	assert.True(t, second.WasEarlySkip)

	// The repeated t2 snapshot and the zero-position t3 transition record
	// nothing, so only the heard tracks enter the distinct list
	require.Len(t, session.Tracks, 2)
	assert.Equal(t, "t1", session.Tracks[0].ID)
	assert.Equal(t, "t2", session.Tracks[1].ID)

	// The tracking state still advanced to the newest track
	tracker.mu.Lock()
	assert.Equal(t, "t3", tracker.lastTrackID)
	tracker.mu.Unlock()
}

func TestTrackerService_SameTrackUpdatesPositionOnly(t *testing.T) {
	tracker, sessions, _, _ := newTestTracker([]snapshotStep{
		{snapshot: trackerSnapshot("t1", 5000, 200000)},
		{snapshot: trackerSnapshot("t1", 50000, 200000)},
	}, time.Hour)

	sessions.Start()

	tracker.pollOnce(context.Background())
	tracker.pollOnce(context.Background())

	// Progress on the same track produces no additional record
	require.Len(t, sessions.Current().TrackListens, 1)

	tracker.mu.Lock()
	assert.Equal(t, 50.0, tracker.lastPositionSec)
	tracker.mu.Unlock()
}

func TestTrackerService_ZeroPositionProducesNoRecord(t *testing.T) {
	tracker, sessions, _, _ := newTestTracker([]snapshotStep{
		{snapshot: trackerSnapshot("t1", 0, 200000)},
		{snapshot: trackerSnapshot("t1", 25000, 200000)},
		{snapshot: trackerSnapshot("t2", 7000, 180000)},
	}, time.Hour)

	sessions.Start()

	for i := 0; i < 3; i++ {
		tracker.pollOnce(context.Background())
	}

	// t1 was first seen right at its start, so no listen characterizes it;
	// its later progress is tracked but never recorded retroactively
	session := sessions.Current()
	require.Len(t, session.TrackListens, 1)
	assert.Equal(t, "t2", session.TrackListens[0].TrackID)
	assert.Equal(t, 7.0, session.TrackListens[0].ListenDurationSec)
}

func TestTrackerService_SkipsCycleWithoutCredential(t *testing.T) {
	tracker, sessions, source, creds := newTestTracker([]snapshotStep{
		{snapshot: trackerSnapshot("t1", 5000, 200000)},
	}, time.Hour)

	creds.setError(domain.ErrNoCredential)

	sessions.Start()
	tracker.pollOnce(context.Background())

	// The snapshot source is never consulted without a credential
	assert.Equal(t, 0, source.callCount())
	assert.Empty(t, sessions.Current().TrackListens)

	// The condition is transient: the next cycle succeeds
	creds.setError(nil)
	tracker.pollOnce(context.Background())
	assert.Len(t, sessions.Current().TrackListens, 1)
}

func TestTrackerService_SkipsCycleWithEmptyCredential(t *testing.T) {
	tracker, sessions, source, creds := newTestTracker([]snapshotStep{
		{snapshot: trackerSnapshot("t1", 5000, 200000)},
	}, time.Hour)

	creds.setToken("")

	sessions.Start()
	tracker.pollOnce(context.Background())

	assert.Equal(t, 0, source.callCount())
	assert.Empty(t, sessions.Current().TrackListens)
}

func TestTrackerService_FetchErrorSkipsCycle(t *testing.T) {
	tracker, sessions, _, _ := newTestTracker([]snapshotStep{
		{err: domain.NewProviderError("currently_playing", 500, "server error", nil)},
		{snapshot: trackerSnapshot("t1", 5000, 200000)},
	}, time.Hour)

	sessions.Start()

	tracker.pollOnce(context.Background())
	assert.Empty(t, sessions.Current().TrackListens)

	// The failure never terminates the session or the loop
	tracker.pollOnce(context.Background())
	assert.Len(t, sessions.Current().TrackListens, 1)
	assert.True(t, sessions.Current().IsActive)
}

func TestTrackerService_NothingPlayingSkipsCycle(t *testing.T) {
	tracker, sessions, _, _ := newTestTracker([]snapshotStep{
		{snapshot: nil},
		{snapshot: trackerSnapshot("t1", 5000, 200000)},
	}, time.Hour)

	sessions.Start()

	tracker.pollOnce(context.Background())
	assert.Empty(t, sessions.Current().TrackListens)

	// The session stays active across silence
	assert.True(t, sessions.Current().IsActive)

	tracker.pollOnce(context.Background())
	assert.Len(t, sessions.Current().TrackListens, 1)
}

func TestTrackerService_LatePollAfterStop(t *testing.T) {
	tracker, sessions, _, _ := newTestTracker([]snapshotStep{
		{snapshot: trackerSnapshot("t1", 5000, 200000)},
	}, time.Hour)

	sessions.Start()
	sessions.Stop()

	// A poll result landing after stop must not grow the history
	tracker.pollOnce(context.Background())

	session := sessions.Current()
	assert.False(t, session.IsActive)
	assert.Empty(t, session.TrackListens)
}

func TestTrackerService_PollLoop(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	tracker, sessions, source, _ := newTestTracker([]snapshotStep{
		{snapshot: trackerSnapshot("t1", 5000, 200000)},
	}, 10*time.Millisecond)

	session := tracker.StartSession()
	assert.True(t, session.IsActive)
	assert.True(t, tracker.IsPolling())

	// One immediate cycle plus at least two ticks
	require.Eventually(t, func() bool {
		return source.callCount() >= 3
	}, 2*time.Second, 5*time.Millisecond)

	stopped := tracker.StopSession()
	assert.False(t, stopped.IsActive)
	assert.False(t, tracker.IsPolling())

	// No further cycles after stop
	settled := source.callCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, source.callCount())

	// The same track kept playing, so only the first observation recorded
	assert.Len(t, sessions.Current().TrackListens, 1)
}

func TestTrackerService_FirstCycleIsImmediate(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	// The ticker never fires at this interval; only the immediate
	// first cycle can observe anything
	tracker, sessions, source, _ := newTestTracker([]snapshotStep{
		{snapshot: trackerSnapshot("t1", 5000, 200000)},
	}, time.Hour)

	tracker.StartSession()

	require.Eventually(t, func() bool {
		return source.callCount() >= 1
	}, 2*time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		return len(sessions.Current().TrackListens) == 1
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, tracker.Shutdown())
}

func TestTrackerService_RestartReplacesLoop(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	tracker, sessions, source, _ := newTestTracker([]snapshotStep{
		{snapshot: trackerSnapshot("t1", 5000, 200000)},
	}, 10*time.Millisecond)

	first := tracker.StartSession()
	second := tracker.StartSession()
	assert.NotEqual(t, first.ID, second.ID)

	require.Eventually(t, func() bool {
		return source.callCount() >= 2
	}, 2*time.Second, 5*time.Millisecond)

	tracker.StopSession()

	// The restart cleared the first session's history; the replacement
	// loop's immediate cycle observed the track as a fresh transition
	assert.Len(t, sessions.Current().TrackListens, 1)
}

func TestTrackerService_Shutdown_KeepsSessionActive(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	tracker, sessions, _, _ := newTestTracker(nil, time.Hour)

	tracker.StartSession()
	require.NoError(t, tracker.Shutdown())

	// Process exit with the session persisted active is tolerated; the
	// next load restores it
	assert.False(t, tracker.IsPolling())
	assert.True(t, sessions.Current().IsActive)
}

func TestTrackerService_ClearSession(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	tracker, sessions, _, _ := newTestTracker([]snapshotStep{
		{snapshot: trackerSnapshot("t1", 5000, 200000)},
	}, time.Hour)

	tracker.StartSession()

	require.Eventually(t, func() bool {
		return len(sessions.Current().TrackListens) == 1
	}, 2*time.Second, 5*time.Millisecond)

	tracker.ClearSession()

	assert.False(t, tracker.IsPolling())
	session := sessions.Current()
	assert.False(t, session.IsActive)
	assert.Empty(t, session.Tracks)
	assert.Empty(t, session.TrackListens)
}

func TestTrackerService_DefaultPollInterval(t *testing.T) {
	tracker, _, _, _ := newTestTracker(nil, 0)

	assert.Equal(t, 30*time.Second, tracker.pollInterval)
}
