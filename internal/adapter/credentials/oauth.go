// Package credentials provides CredentialSource implementations.
// Browser auth flows live outside this process; the adapters here turn
// whatever credential material the app holds into valid access tokens.
package credentials

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/oauth2"

	"github.com/tunetrace/tunetrace/internal/domain"
	"github.com/tunetrace/tunetrace/internal/ports"
)

// defaultTokenURL is the Spotify accounts service token endpoint.
const defaultTokenURL = "https://accounts.spotify.com/api/token"

// Config holds the OAuth client material obtained out of band: the app's
// client id/secret and the long-lived refresh token from the user's one-time
// browser authorization.
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string

	// TokenURL overrides the token endpoint. Empty means the Spotify
	// accounts service; tests point this at a local server.
	TokenURL string
}

// OAuthSource implements ports.CredentialSource on top of golang.org/x/oauth2.
// It caches the current access token and refreshes it transparently through
// the token endpoint once expired, so callers always observe a valid token.
//
// Thread-safe: the cached token is guarded by a mutex.
type OAuthSource struct {
	conf *oauth2.Config

	mu    sync.Mutex
	token *oauth2.Token
}

// NewOAuthSource creates a refreshing credential source.
// Returns domain.ErrNotConfigured when the client id or refresh token is missing.
func NewOAuthSource(cfg Config) (*OAuthSource, error) {
	if cfg.ClientID == "" || cfg.RefreshToken == "" {
		return nil, fmt.Errorf("oauth credentials: %w", domain.ErrNotConfigured)
	}

	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}

	return &OAuthSource{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL: tokenURL,
			},
		},
		// Seed with only the refresh token; the first AccessToken call
		// exchanges it for an access token
		token: &oauth2.Token{RefreshToken: cfg.RefreshToken},
	}, nil
}

// AccessToken returns the cached access token, refreshing it first when
// expired. The context bounds the refresh request.
func (s *OAuthSource) AccessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token.Valid() {
		return s.token.AccessToken, nil
	}

	refreshed, err := s.conf.TokenSource(ctx, s.token).Token()
	if err != nil {
		return "", fmt.Errorf("refresh access token: %w", err)
	}

	// The endpoint may rotate the refresh token; keep whatever came back
	s.token = refreshed

	if s.token.AccessToken == "" {
		return "", domain.ErrNoCredential
	}
	return s.token.AccessToken, nil
}

// Verify interface implementation
var _ ports.CredentialSource = (*OAuthSource)(nil)
