package metrics

import (
	"math/rand"

	"github.com/tunetrace/tunetrace/internal/domain"
)

// Simulated holds placeholder projections standing in for data the tracker
// cannot actually observe: there is no timestamped listening history for
// real hourly or daily charts, and no audio-feature endpoint for real vibe
// scores. The values are sampled, not measured. They are produced only on
// explicit request, never as part of Compute, and carry no correctness
// guarantees beyond their ranges.
type Simulated struct {
	// PeakHour is the busiest sampled hour of day (0-23)
	PeakHour int `json:"peakHour"`

	// HourlyPlays and DailyPlays scatter the session's play count across
	// placeholder histograms
	HourlyPlays [24]int `json:"hourlyPlays"`
	DailyPlays  [7]int  `json:"dailyPlays"`

	// Audio-vibe placeholder averages on a 0-100 scale
	Energy       float64 `json:"energy"`
	Danceability float64 `json:"danceability"`
	Valence      float64 `json:"valence"`
}

// Simulate samples the placeholder projection for a session. The caller
// provides the randomness source, so tests that must touch this output can
// seed it deterministically.
func Simulate(s domain.Session, src rand.Source) Simulated {
	rng := rand.New(src)
	sim := Simulated{}

	// Scatter one histogram entry per recorded listen
	for range s.TrackListens {
		sim.HourlyPlays[rng.Intn(24)]++
		sim.DailyPlays[rng.Intn(7)]++
	}

	peak := 0
	for hour, plays := range sim.HourlyPlays {
		if plays > sim.HourlyPlays[peak] {
			peak = hour
		}
	}
	sim.PeakHour = peak

	// Mid-range vibe placeholders (40-80)
	sim.Energy = 40 + rng.Float64()*40
	sim.Danceability = 40 + rng.Float64()*40
	sim.Valence = 40 + rng.Float64()*40

	return sim
}
