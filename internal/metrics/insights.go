package metrics

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tunetrace/tunetrace/internal/domain"
)

// Classification thresholds for recommendations.
const (
	removeSkipRatio     = 0.5
	removeCompletionPct = 30.0
	keepCompletionPct   = 85.0
)

// Action is a recommendation verdict.
type Action string

// Recommendation verdicts.
const (
	ActionKeep   Action = "keep"
	ActionRemove Action = "remove"
)

// Recommendation flags one track as a keep or remove candidate, with a
// human-readable reason naming the rule that fired.
type Recommendation struct {
	Track  domain.Track `json:"track"`
	Action Action       `json:"action"`
	Reason string       `json:"reason"`
}

// trackStats accumulates per-track listen statistics for classification.
type trackStats struct {
	plays         int
	earlySkips    int
	completionSum float64
}

// recommend groups listens by track id and classifies each track.
// Groups are visited in first-listen order, so the output is deterministic.
// Rule order matters: the skip-ratio reason wins when both removal
// conditions hold, and keep is only considered for unflagged tracks.
func recommend(s domain.Session) []Recommendation {
	trackByID := make(map[string]domain.Track, len(s.Tracks))
	for _, track := range s.Tracks {
		trackByID[track.ID] = track
	}

	stats := make(map[string]*trackStats, len(s.Tracks))
	var order []string

	for _, listen := range s.TrackListens {
		st, seen := stats[listen.TrackID]
		if !seen {
			st = &trackStats{}
			stats[listen.TrackID] = st
			order = append(order, listen.TrackID)
		}
		st.plays++
		if listen.WasEarlySkip {
			st.earlySkips++
		}
		st.completionSum += listen.CompletionRate
	}

	var recommendations []Recommendation
	for _, id := range order {
		track, known := trackByID[id]
		if !known {
			// Listen without a matching track entry; nothing to recommend
			continue
		}

		st := stats[id]
		avgCompletion := st.completionSum / float64(st.plays)
		skipRatio := float64(st.earlySkips) / float64(st.plays)

		switch {
		case skipRatio > removeSkipRatio:
			recommendations = append(recommendations, Recommendation{
				Track:  track,
				Action: ActionRemove,
				Reason: fmt.Sprintf("skipped early on %d of %d plays", st.earlySkips, st.plays),
			})

		case avgCompletion < removeCompletionPct:
			recommendations = append(recommendations, Recommendation{
				Track:  track,
				Action: ActionRemove,
				Reason: fmt.Sprintf("average completion only %.0f%%", avgCompletion),
			})

		case avgCompletion > keepCompletionPct && st.earlySkips == 0:
			recommendations = append(recommendations, Recommendation{
				Track:  track,
				Action: ActionKeep,
				Reason: fmt.Sprintf("averaging %.0f%% completion with no early skips", avgCompletion),
			})
		}
	}

	return recommendations
}

// insights selects human-readable observations from the computed metrics.
// The rules run in a fixed order and every matching rule contributes one
// line.
func insights(m Detailed) []string {
	type rule struct {
		applies bool
		message func() string
	}

	rules := []rule{
		{
			applies: m.TotalListeningMinutes > 0,
			message: func() string {
				return fmt.Sprintf("You queued up %s of music this session.",
					humanizeMinutes(m.TotalListeningMinutes))
			},
		},
		{
			applies: len(m.TopArtists) > 0,
			message: func() string {
				top := m.TopArtists[0]
				noun := "tracks"
				if top.Plays == 1 {
					noun = "track"
				}
				return fmt.Sprintf("%s led your session with %d %s.", top.Name, top.Plays, noun)
			},
		},
		{
			applies: m.ListeningDiversity > 50,
			message: func() string {
				return fmt.Sprintf("Diverse taste! You explored %d different artists.",
					m.UniqueArtistCount)
			},
		},
		{
			applies: m.SkipRate < 15 && m.UniqueTrackCount > 0,
			message: func() string {
				return fmt.Sprintf("Only %d%% of plays were skipped early. You know what you like.",
					m.SkipRate)
			},
		},
		{
			applies: m.SkipRate > 25,
			message: func() string {
				return fmt.Sprintf("You skipped %d%% of plays early. Time to prune the playlist?",
					m.SkipRate)
			},
		},
	}

	var selected []string
	for _, r := range rules {
		if r.applies {
			selected = append(selected, r.message())
		}
	}
	return selected
}

// humanizeMinutes renders a minute count as a rough human duration,
// such as "34 minutes" or "2 hours".
func humanizeMinutes(minutes float64) string {
	base := time.Time{}
	later := base.Add(time.Duration(minutes * float64(time.Minute)))
	return strings.TrimSpace(humanize.RelTime(base, later, "", ""))
}
