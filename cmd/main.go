// Package main is the production entry point for the tunetrace session tracker.
//
// tunetrace watches what the configured Spotify account is playing, infers
// which tracks were actually listened to and which were skipped, and derives
// a listening report when the session ends:
// - Event-driven communication (no callbacks)
// - Dependency injection for testability
// - Ports and adapters for swappable storage and streaming providers
//
// Build:
//
//	go build -o build/tunetrace ./cmd
//
// Run:
//
//	./build/tunetrace
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tunetrace/tunetrace/internal/app"
	"github.com/tunetrace/tunetrace/internal/config"
	"github.com/tunetrace/tunetrace/internal/domain"
	"github.com/tunetrace/tunetrace/internal/metrics"
)

func main() {
	// Load configuration from the known locations
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create the application with dependency injection
	application, err := app.NewApplication(cfg)
	if err != nil {
		if errors.Is(err, domain.ErrNotConfigured) {
			fmt.Fprintln(os.Stderr, "Spotify credentials are not configured.")
			fmt.Fprintln(os.Stderr, "Add client_id and refresh_token to the [spotify] section of config.toml,")
			fmt.Fprintln(os.Stderr, "or set access_token there for a short-lived development token.")
			os.Exit(1)
		}
		log.Fatalf("Failed to create application: %v", err)
	}

	// Ensure a graceful shutdown
	defer func() {
		fmt.Println("\nShutting down...")
		application.Shutdown()
		fmt.Println("Shutdown complete")
	}()

	// Print each listen as the tracker infers it
	subID := application.Events().Subscribe(domain.EventListenRecorded, func(event domain.Event) {
		e, ok := event.(domain.ListenRecordedEvent)
		if !ok {
			return
		}
		verdict := "listened"
		if e.Listen.WasEarlySkip {
			verdict = "skipped early"
		} else if e.Listen.WasSkipped {
			verdict = "skipped"
		}
		fmt.Printf("%s - %s  [%.0f%% heard, %s]\n",
			e.Track.Title, e.Track.PrimaryArtist(), e.Listen.CompletionRate, verdict)
	})
	defer application.Events().Unsubscribe(subID)

	// Stop the session on Ctrl+C or SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("Tracking your listening session. Press Ctrl+C to stop and see the report.")

	// Run the session (blocks until interrupted)
	session, err := application.Run(ctx)
	if err != nil {
		log.Fatalf("Application error: %v", err)
	}

	printReport(session)
}

// printReport renders the end-of-session listening report.
func printReport(session domain.Session) {
	report := metrics.Compute(session)

	fmt.Println()
	fmt.Println("=== Session Report ===")
	fmt.Printf("Tracks:          %d unique, %d plays\n", report.UniqueTrackCount, len(session.TrackListens))
	fmt.Printf("Artists:         %d\n", report.UniqueArtistCount)
	fmt.Printf("Listening time:  %.1f minutes\n", report.TotalListeningMinutes)
	fmt.Printf("Skip rate:       %d%% (%d early skips)\n", report.SkipRate, report.EarlySkips)
	fmt.Printf("Completion:      %d%%\n", report.CompletionRate)
	fmt.Printf("Diversity:       %d%%\n", report.ListeningDiversity)

	if len(report.TopTracks) > 0 {
		fmt.Println("\nTop tracks:")
		for i, ranked := range report.TopTracks {
			fmt.Printf("  %2d. %s - %s\n", i+1, ranked.Track.Title, ranked.Track.PrimaryArtist())
		}
	}

	if len(report.TopArtists) > 0 {
		fmt.Println("\nTop artists:")
		for i, ranked := range report.TopArtists {
			fmt.Printf("  %2d. %s (%d tracks)\n", i+1, ranked.Name, ranked.Plays)
		}
	}

	if len(report.Recommendations) > 0 {
		fmt.Println("\nPlaylist suggestions:")
		for _, rec := range report.Recommendations {
			fmt.Printf("  [%s] %s: %s\n", rec.Action, rec.Track.Title, rec.Reason)
		}
	}

	if len(report.Insights) > 0 {
		fmt.Println("\nInsights:")
		for _, insight := range report.Insights {
			fmt.Printf("  %s\n", insight)
		}
	}

	if len(session.TrackListens) > 0 {
		vibe := metrics.Simulate(session, rand.NewSource(time.Now().UnixNano()))
		fmt.Println("\nVibe check (sampled, not measured):")
		fmt.Printf("  energy %.0f, danceability %.0f, valence %.0f, peak hour %02d:00\n",
			vibe.Energy, vibe.Danceability, vibe.Valence, vibe.PeakHour)
	}
}
