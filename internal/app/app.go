// Package app provides application-level orchestration and dependency injection.
// This package wires together all components and manages the application lifecycle.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	fyneapp "fyne.io/fyne/v2/app"

	"github.com/tunetrace/tunetrace/internal/adapter/credentials"
	"github.com/tunetrace/tunetrace/internal/adapter/eventbus"
	"github.com/tunetrace/tunetrace/internal/adapter/spotify"
	"github.com/tunetrace/tunetrace/internal/adapter/storage/fyneprefs"
	"github.com/tunetrace/tunetrace/internal/adapter/storage/memory"
	"github.com/tunetrace/tunetrace/internal/adapter/storage/sqlite"
	"github.com/tunetrace/tunetrace/internal/config"
	"github.com/tunetrace/tunetrace/internal/domain"
	"github.com/tunetrace/tunetrace/internal/logger"
	"github.com/tunetrace/tunetrace/internal/ports"
	"github.com/tunetrace/tunetrace/internal/service"
)

// fyneAppID identifies the app to the OS preference storage when the
// "prefs" storage driver is selected.
const fyneAppID = "com.tunetrace.app"

// Application is the root application structure that holds all dependencies.
// It follows the Dependency Injection pattern with constructor-based injection.
//
// The Application struct is responsible for:
// - Creating and wiring all dependencies
// - Managing the application lifecycle (startup, shutdown)
// - Providing a clean entry point for main.go
type Application struct {
	// Core dependencies
	logger *slog.Logger
	config *config.Config

	// Infrastructure
	eventBus ports.EventBus
	store    ports.KeyValueStore

	// storeCloser releases the store's backing resources on shutdown.
	// The sqlite driver holds a database handle; the other drivers hold nothing.
	storeCloser io.Closer

	// Streaming provider
	credentials ports.CredentialSource
	client      *spotify.Client

	// Services
	sessionService *service.SessionService
	trackerService *service.TrackerService
}

// NewApplication creates a new application with all dependencies wired.
// This is the main dependency injection function.
func NewApplication(cfg *config.Config) (*Application, error) {
	app := &Application{config: cfg}

	// Step 1: Create logger (TUNETRACE_LOG_LEVEL overrides the config file)
	app.logger = logger.NewLogger(logger.Config{
		Level:  logger.LevelFromEnv(logger.ParseLevel(cfg.Log.Level)),
		Format: cfg.Log.Format,
	})
	app.logger.Info("initializing application",
		slog.String("build", buildString()),
		slog.String("storage_driver", storageDriverName(cfg.Storage.Driver)))

	// Step 2: Create an event bus
	app.eventBus = eventbus.NewSyncBus(app.logger.With(slog.String("component", "eventbus")))

	// Step 3: Create the session store
	store, closer, err := newStore(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("create session store: %w", err)
	}
	app.store = store
	app.storeCloser = closer

	// Step 4: Create the credential source
	creds, err := newCredentialSource(cfg)
	if err != nil {
		return nil, err
	}
	app.credentials = creds

	// Step 5: Create the streaming API client
	app.client = spotify.NewClient(nil, "")

	// Step 6: Create services (with dependency injection)
	app.sessionService = service.NewSessionService(
		app.logger.With(slog.String("service", "session")),
		app.store,
		app.eventBus,
	)

	app.trackerService = service.NewTrackerService(
		app.logger.With(slog.String("service", "tracker")),
		app.credentials,
		app.client,
		app.sessionService,
		cfg.PollInterval(),
	)

	return app, nil
}

// newStore builds the key-value store selected by the storage configuration.
// Returns the store plus an optional closer for drivers that hold resources.
func newStore(cfg config.StorageConfig) (ports.KeyValueStore, io.Closer, error) {
	switch cfg.Driver {
	case "memory":
		return memory.NewStore(), nil, nil
	case "prefs":
		prefs := fyneapp.NewWithID(fyneAppID).Preferences()
		return fyneprefs.NewStore(prefs), nil, nil
	case "", "sqlite":
		path := cfg.Path
		if path == "" {
			resolved, err := sqlite.DefaultPath()
			if err != nil {
				return nil, nil, fmt.Errorf("resolve database path: %w", err)
			}
			path = resolved
		}
		store, err := sqlite.NewStore(path)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// newCredentialSource picks the credential strategy from the configuration.
// A static access token wins over the refresh flow when both are present.
func newCredentialSource(cfg *config.Config) (ports.CredentialSource, error) {
	switch {
	case cfg.HasStaticToken():
		return credentials.NewStaticSource(cfg.Spotify.AccessToken), nil
	case cfg.HasSpotifyConfig():
		return credentials.NewOAuthSource(credentials.Config{
			ClientID:     cfg.Spotify.ClientID,
			ClientSecret: cfg.Spotify.ClientSecret,
			RefreshToken: cfg.Spotify.RefreshToken,
		})
	default:
		return nil, fmt.Errorf("spotify credentials missing from configuration: %w", domain.ErrNotConfigured)
	}
}

func storageDriverName(driver string) string {
	if driver == "" {
		return "sqlite"
	}
	return driver
}

// Run verifies the configured credentials, starts a listening session, and
// blocks until ctx is cancelled. The stopped session is returned so the
// caller can derive and render metrics from it.
func (a *Application) Run(ctx context.Context) (domain.Session, error) {
	token, err := a.credentials.AccessToken(ctx)
	if err != nil {
		return domain.Session{}, fmt.Errorf("acquire access token: %w", err)
	}

	profile, err := a.client.Profile(ctx, token)
	if err != nil {
		return domain.Session{}, fmt.Errorf("verify credentials: %w", err)
	}
	a.logger.Info("authenticated with streaming API",
		slog.String("user_id", profile.ID),
		slog.String("display_name", profile.DisplayName))

	session := a.trackerService.StartSession()
	a.logger.Info("listening session started",
		slog.String("session_id", session.ID),
		slog.Duration("poll_interval", a.config.PollInterval()))

	<-ctx.Done()

	return a.trackerService.StopSession(), nil
}

// Sessions returns the session service.
func (a *Application) Sessions() *service.SessionService {
	return a.sessionService
}

// Tracker returns the tracker service.
func (a *Application) Tracker() *service.TrackerService {
	return a.trackerService
}

// Events returns the event bus.
func (a *Application) Events() ports.EventBus {
	return a.eventBus
}

// Shutdown gracefully shuts down the application.
// This should be called via deferring in main.go.
func (a *Application) Shutdown() {
	a.logger.Info("shutting down application")

	// Shutdown services (in reverse order of creation)
	if a.trackerService != nil {
		if err := a.trackerService.Shutdown(); err != nil {
			a.logger.Warn("failed to shutdown tracker service", slog.Any("error", err))
		}
	}

	if a.eventBus != nil {
		if err := a.eventBus.Close(); err != nil {
			a.logger.Warn("failed to close event bus", slog.Any("error", err))
		}
	}

	if a.storeCloser != nil {
		if err := a.storeCloser.Close(); err != nil {
			a.logger.Warn("failed to close session store", slog.Any("error", err))
		}
	}

	a.logger.Info("application shutdown complete")
}
