package spotify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunetrace/tunetrace/internal/domain"
)

const nowPlayingBody = `{
	"is_playing": true,
	"progress_ms": 41231,
	"item": {
		"id": "4uLU6hMCjMI75M1A2tKUQC",
		"name": "Never Gonna Give You Up",
		"duration_ms": 213573,
		"album": {
			"name": "Whenever You Need Somebody",
			"images": [
				{"url": "https://i.scdn.co/image/large"},
				{"url": "https://i.scdn.co/image/small"}
			]
		},
		"artists": [
			{"name": "Rick Astley"},
			{"name": "Guest Artist"}
		]
	}
}`

func TestClient_CurrentlyPlaying(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/player/currently-playing", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(nowPlayingBody))
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL)

	snap, err := client.CurrentlyPlaying(context.Background(), "test-token")
	require.NoError(t, err)
	require.NotNil(t, snap)
	require.NotNil(t, snap.Track)

	assert.Equal(t, "4uLU6hMCjMI75M1A2tKUQC", snap.Track.ID)
	assert.Equal(t, "Never Gonna Give You Up", snap.Track.Title)
	assert.Equal(t, []string{"Rick Astley", "Guest Artist"}, snap.Track.Artists)
	assert.Equal(t, "Whenever You Need Somebody", snap.Track.Album)
	assert.Equal(t, "https://i.scdn.co/image/large", snap.Track.AlbumArtURL)
	assert.Equal(t, int64(213573), snap.Track.DurationMs)
	assert.Equal(t, int64(41231), snap.ProgressMs)
}

func TestClient_CurrentlyPlaying_NothingPlaying(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL)

	snap, err := client.CurrentlyPlaying(context.Background(), "test-token")
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestClient_CurrentlyPlaying_NullItem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"is_playing": true, "progress_ms": 1000, "item": null}`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL)

	snap, err := client.CurrentlyPlaying(context.Background(), "test-token")
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestClient_CurrentlyPlaying_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL)

	_, err := client.CurrentlyPlaying(context.Background(), "expired-token")
	require.Error(t, err)

	var provErr *domain.ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, http.StatusUnauthorized, provErr.StatusCode)
	assert.Equal(t, "currently_playing", provErr.Op)
}

func TestClient_CurrentlyPlaying_RetriesTransientFailure(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(nowPlayingBody))
	}))
	defer server.Close()

	client := &Client{
		httpClient:  server.Client(),
		baseURL:     server.URL,
		maxRetries:  3,
		baseBackoff: time.Millisecond,
	}

	snap, err := client.CurrentlyPlaying(context.Background(), "test-token")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, 3, attempts)
}

func TestClient_CurrentlyPlaying_ExhaustsRetries(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := &Client{
		httpClient:  server.Client(),
		baseURL:     server.URL,
		maxRetries:  2,
		baseBackoff: time.Millisecond,
	}

	_, err := client.CurrentlyPlaying(context.Background(), "test-token")
	require.Error(t, err)
	assert.Equal(t, 2, attempts)
}

func TestClient_Profile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "user-1", "display_name": "Test Listener"}`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL)

	profile, err := client.Profile(context.Background(), "test-token")
	require.NoError(t, err)
	assert.Equal(t, "user-1", profile.ID)
	assert.Equal(t, "Test Listener", profile.DisplayName)
}

func TestParseRetryAfter_Seconds(t *testing.T) {
	resp := &http.Response{Header: http.Header{"Retry-After": []string{"2"}}}
	assert.Equal(t, 2*time.Second, parseRetryAfter(resp))
}

func TestParseRetryAfter_Missing(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	assert.Equal(t, time.Duration(0), parseRetryAfter(resp))
}
