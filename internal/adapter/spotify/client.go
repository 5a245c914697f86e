// Package spotify implements the playback snapshot source against the
// Spotify Web API. The adapter only reads: what is playing right now, and
// who the authenticated user is.
package spotify

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/tunetrace/tunetrace/internal/domain"
	"github.com/tunetrace/tunetrace/internal/ports"
)

// DefaultBaseURL is the production Spotify Web API endpoint.
const DefaultBaseURL = "https://api.spotify.com/v1"

// Client is an HTTP client for the Spotify Web API.
type Client struct {
	httpClient *http.Client
	baseURL    string

	// Retry tuning, zero values fall back to the package defaults
	maxRetries  int
	baseBackoff time.Duration
}

// compile-time interface assertion
var _ ports.NowPlayingSource = (*Client)(nil)

// NewClient constructs a new Spotify client.
// A nil httpClient gets a default with a request timeout; an empty baseURL
// targets the production API.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// CurrentlyPlaying fetches the current playback snapshot for the account.
// Returns (nil, nil) when nothing is playing: the endpoint answers 204 with
// no body, or 200 with a null item for playback types without track data.
func (c *Client) CurrentlyPlaying(ctx context.Context, token string) (*domain.PlaybackSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/me/player/currently-playing", nil)
	if err != nil {
		return nil, domain.NewProviderError("currently_playing", 0, "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return nil, domain.NewProviderError("currently_playing", 0, "request failed", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNoContent:
		return nil, nil
	default:
		return nil, domain.NewProviderError("currently_playing", resp.StatusCode, "unexpected status", nil)
	}

	var body currentlyPlayingResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, domain.NewProviderError("currently_playing", resp.StatusCode, "decode response", err)
	}

	if body.Item == nil {
		return nil, nil
	}

	track := mapTrackToDomain(*body.Item)
	return &domain.PlaybackSnapshot{
		Track:      &track,
		ProgressMs: body.ProgressMs,
	}, nil
}

// Profile fetches the authenticated user's profile. The app uses it at
// startup to verify the configured credentials actually work.
func (c *Client) Profile(ctx context.Context, token string) (Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/me", nil)
	if err != nil {
		return Profile{}, domain.NewProviderError("profile", 0, "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return Profile{}, domain.NewProviderError("profile", 0, "request failed", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return Profile{}, domain.NewProviderError("profile", resp.StatusCode, "unexpected status", nil)
	}

	var body profileResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Profile{}, domain.NewProviderError("profile", resp.StatusCode, "decode response", err)
	}

	return Profile{
		ID:          body.ID,
		DisplayName: body.DisplayName,
	}, nil
}
