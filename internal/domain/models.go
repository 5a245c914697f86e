// Package domain contains core business models and logic with no external dependencies.
// This package defines the fundamental entities of the tunetrace listening tracker.
package domain

import (
	"time"
)

// Track represents a single catalog track as reported by the streaming API.
// Immutable once observed; fields are copied verbatim from the snapshot source.
type Track struct {
	// ID is the opaque, stable identifier assigned by the streaming catalog
	ID string `json:"id"`

	// Title is the track title
	Title string `json:"title"`

	// Artists holds the performing artists' display names in catalog order
	Artists []string `json:"artists"`

	// Album is the album name
	Album string `json:"album"`

	// AlbumArtURL references the album artwork (may be empty)
	AlbumArtURL string `json:"albumArtUrl,omitempty"`

	// DurationMs is the track's full catalog duration in milliseconds
	DurationMs int64 `json:"durationMs"`
}

// DurationSeconds returns the catalog duration in seconds.
func (t Track) DurationSeconds() float64 {
	return float64(t.DurationMs) / 1000
}

// DurationMinutes returns the catalog duration in minutes.
func (t Track) DurationMinutes() float64 {
	return float64(t.DurationMs) / 60000
}

// PrimaryArtist returns the first listed artist, or "" when none are known.
func (t Track) PrimaryArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0]
}

// PlaybackSnapshot is one poll's observation of the player: which track is
// reported playing and at what position. Snapshots are ephemeral; they are
// consumed by the transition inferencer and never persisted.
type PlaybackSnapshot struct {
	// Track is the currently playing track, nil when nothing is playing
	Track *Track

	// ProgressMs is the playback position at observation time in milliseconds
	ProgressMs int64
}

// ProgressSeconds returns the observed playback position in seconds.
func (s PlaybackSnapshot) ProgressSeconds() float64 {
	return float64(s.ProgressMs) / 1000
}

// TrackListen records one inferred listening occurrence. It is created
// exactly once per detected track transition and never updated afterwards.
type TrackListen struct {
	// TrackID references the listened track
	TrackID string `json:"trackId"`

	// ListenDurationSec is the observed listened duration in seconds
	ListenDurationSec float64 `json:"listenDurationSec"`

	// TotalDurationSec is the track's full duration in seconds
	TotalDurationSec float64 `json:"totalDurationSec"`

	// WasSkipped is true when playback stopped 5s or more before the natural end
	WasSkipped bool `json:"wasSkipped"`

	// WasEarlySkip is true when less than 10s of the track was heard
	WasEarlySkip bool `json:"wasEarlySkip"`

	// CompletionRate is listened/total as a percentage. Deliberately unclamped:
	// a misreported total duration can push it above 100
	CompletionRate float64 `json:"completionRate"`

	// Timestamp is when the listen was inferred
	Timestamp time.Time `json:"timestamp"`
}

// NewTrackListen derives a listen record from an observed playback position.
// positionSec is the listened-duration estimate, totalSec the track's full
// duration. A non-positive total is tolerated as a data-quality anomaly: the
// completion rate degrades to 0 instead of dividing by zero.
func NewTrackListen(trackID string, positionSec, totalSec float64, observedAt time.Time) TrackListen {
	listen := TrackListen{
		TrackID:           trackID,
		ListenDurationSec: positionSec,
		TotalDurationSec:  totalSec,
		WasSkipped:        positionSec < totalSec-5,
		WasEarlySkip:      positionSec < 10,
		Timestamp:         observedAt,
	}
	if totalSec > 0 {
		listen.CompletionRate = 100 * positionSec / totalSec
	}
	return listen
}

// Session is the aggregate root for one bounded period of listening tracking.
// Exactly one Session exists per device; it owns all Track and TrackListen
// data and is persisted as a single JSON blob after every mutation.
type Session struct {
	// ID correlates log lines and events for one session run (empty for
	// sessions persisted before ids were introduced)
	ID string `json:"id,omitempty"`

	// IsActive reports whether the session is currently being tracked
	IsActive bool `json:"isActive"`

	// StartTime is when tracking started, nil for the empty default session
	StartTime *time.Time `json:"startTime,omitempty"`

	// EndTime is when tracking stopped, nil while active or never started
	EndTime *time.Time `json:"endTime,omitempty"`

	// Tracks holds every distinct track encountered, in first-seen order.
	// A track id appears at most once even when replayed
	Tracks []Track `json:"tracks"`

	// TrackListens holds every inferred listen in order. The same track id
	// may appear any number of times
	TrackListens []TrackListen `json:"trackListens"`

	// TotalListeningMinutes accumulates the full catalog duration of each
	// appended track, in minutes
	TotalListeningMinutes float64 `json:"totalListeningMinutes"`
}

// HasTrack reports whether a track with the given id was already encountered.
func (s *Session) HasTrack(id string) bool {
	for _, t := range s.Tracks {
		if t.ID == id {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the session carries no usable state: never started
// and no tracks observed. Persisted blobs in this shape are discarded on load.
func (s *Session) IsEmpty() bool {
	return s.StartTime == nil && len(s.Tracks) == 0
}
