// Package metrics derives aggregate statistics, ranked lists, and rule-based
// recommendations from a listening session. Everything in this package is a
// pure function of the session snapshot it is given; nothing here mutates
// state or performs I/O.
package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/tunetrace/tunetrace/internal/domain"
)

// List lengths for the ranked projections.
const (
	topTrackLimit  = 10
	topArtistLimit = 10
	topAlbumLimit  = 5
)

// RankedTrack is one entry of the top-tracks list.
type RankedTrack struct {
	Track domain.Track `json:"track"`
	Plays int          `json:"plays"`
}

// RankedName is one entry of the top-artists or top-albums list.
// Entries are grouped by display name, so distinct catalog entities sharing
// a name collapse into one entry.
type RankedName struct {
	Name  string `json:"name"`
	Plays int    `json:"plays"`
}

// Detailed is the deterministic projection over one session. It holds no
// identity and no lifecycle; recomputing it from the same session always
// yields the same value.
type Detailed struct {
	// StartTime and EndTime are carried over from the session
	StartTime *time.Time `json:"startTime,omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty"`

	// TotalListeningMinutes sums each distinct track's full catalog duration
	// once, regardless of how often it was played
	TotalListeningMinutes float64 `json:"totalListeningMinutes"`

	// UniqueTrackCount is the number of distinct track ids encountered
	UniqueTrackCount int `json:"uniqueTrackCount"`

	// UniqueArtistCount is the number of distinct artist display names
	// across all encountered tracks
	UniqueArtistCount int `json:"uniqueArtistCount"`

	// Ranked lists over the encountered-tracks sequence
	TopTracks  []RankedTrack `json:"topTracks"`
	TopArtists []RankedName  `json:"topArtists"`
	TopAlbums  []RankedName  `json:"topAlbums"`

	// SkipRate is the rounded percentage of listens that were early skips;
	// CompletionRate is its complement
	SkipRate       int `json:"skipRate"`
	CompletionRate int `json:"completionRate"`

	// TotalSkips and EarlySkips both count early skips; no separate bucket
	// exists for late skips
	TotalSkips int `json:"totalSkips"`
	EarlySkips int `json:"earlySkips"`

	// AverageListenPercent is the mean completion rate across all listens
	AverageListenPercent float64 `json:"averageListenPercent"`

	// ListeningDiversity relates distinct artists to total plays, rounded
	// to a percentage
	ListeningDiversity int `json:"listeningDiversity"`

	// Recommendations classifies tracks as keep or remove candidates
	Recommendations []Recommendation `json:"recommendations"`

	// Insights are human-readable observations selected by thresholds on
	// the fields above
	Insights []string `json:"insights"`
}

// Compute derives the full deterministic projection from a session.
func Compute(s domain.Session) Detailed {
	m := Detailed{
		StartTime:        s.StartTime,
		EndTime:          s.EndTime,
		UniqueTrackCount: len(s.Tracks),
	}

	// Catalog minutes: each distinct track counted once
	for _, track := range s.Tracks {
		m.TotalListeningMinutes += track.DurationMinutes()
	}

	m.TopTracks = rankTracks(s.Tracks, topTrackLimit)

	artists := rankNames(artistSequence(s.Tracks))
	m.UniqueArtistCount = len(artists)
	m.TopArtists = truncateNames(artists, topArtistLimit)
	m.TopAlbums = truncateNames(rankNames(albumSequence(s.Tracks)), topAlbumLimit)

	earlySkips := 0
	var completionSum float64
	for _, listen := range s.TrackListens {
		if listen.WasEarlySkip {
			earlySkips++
		}
		completionSum += listen.CompletionRate
	}

	if plays := len(s.TrackListens); plays > 0 {
		m.SkipRate = roundPercent(float64(earlySkips), float64(plays))
		m.AverageListenPercent = completionSum / float64(plays)

		if m.UniqueArtistCount > 0 {
			m.ListeningDiversity = roundPercent(float64(m.UniqueArtistCount), float64(plays))
		}
	}
	m.CompletionRate = 100 - m.SkipRate
	m.EarlySkips = earlySkips
	m.TotalSkips = earlySkips

	m.Recommendations = recommend(s)
	m.Insights = insights(m)

	return m
}

// roundPercent returns round(100 * part / whole) as an integer percentage.
func roundPercent(part, whole float64) int {
	return int(math.Round(100 * part / whole))
}

// artistSequence flattens every track's artist names, in encounter order.
// A track credited to several artists contributes one occurrence per name.
func artistSequence(tracks []domain.Track) []string {
	var names []string
	for _, track := range tracks {
		names = append(names, track.Artists...)
	}
	return names
}

// albumSequence lists every track's album name, in encounter order.
func albumSequence(tracks []domain.Track) []string {
	var names []string
	for _, track := range tracks {
		names = append(names, track.Album)
	}
	return names
}

// rankTracks counts occurrences per track id and orders the result by count
// descending. The sort is stable, so ties keep first-encounter order.
func rankTracks(tracks []domain.Track, limit int) []RankedTrack {
	position := make(map[string]int, len(tracks))
	ranked := make([]RankedTrack, 0, len(tracks))

	for _, track := range tracks {
		if i, seen := position[track.ID]; seen {
			ranked[i].Plays++
			continue
		}
		position[track.ID] = len(ranked)
		ranked = append(ranked, RankedTrack{Track: track, Plays: 1})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Plays > ranked[j].Plays
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// rankNames counts occurrences per name and orders the result by count
// descending, ties in first-encounter order. The full list is returned;
// callers truncate as needed.
func rankNames(names []string) []RankedName {
	position := make(map[string]int, len(names))
	ranked := make([]RankedName, 0, len(names))

	for _, name := range names {
		if i, seen := position[name]; seen {
			ranked[i].Plays++
			continue
		}
		position[name] = len(ranked)
		ranked = append(ranked, RankedName{Name: name, Plays: 1})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Plays > ranked[j].Plays
	})

	return ranked
}

// truncateNames caps a ranked list at limit entries.
func truncateNames(ranked []RankedName, limit int) []RankedName {
	if len(ranked) > limit {
		return ranked[:limit]
	}
	return ranked
}
