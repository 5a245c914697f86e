// Package ports define the interfaces at the application boundary.
package ports

import (
	"context"

	"github.com/tunetrace/tunetrace/internal/domain"
)

// CredentialSource supplies a currently-valid access credential for the
// streaming API, transparently refreshing it when expired. The core only
// calls it; token storage and browser auth flows live behind this boundary.
//
// Thread-safety: Implementations must be thread-safe.
type CredentialSource interface {
	// AccessToken returns a valid access token.
	// If no credential is available right now, returns domain.ErrNoCredential;
	// the caller treats that as "retry next cycle", not a failure.
	//
	// Returns the token or an error if acquisition fails.
	AccessToken(ctx context.Context) (string, error)
}

// NowPlayingSource reports what the streaming account is playing right now
// and at what position. The core only calls it; the remote catalog API is a
// black box behind this boundary.
//
// Thread-safety: Implementations must be thread-safe.
type NowPlayingSource interface {
	// CurrentlyPlaying fetches the current playback snapshot.
	// If nothing is playing, returns (nil, nil); a session stays active
	// across silence.
	//
	// Returns the snapshot or an error if the fetch fails.
	CurrentlyPlaying(ctx context.Context, token string) (*domain.PlaybackSnapshot, error)
}
