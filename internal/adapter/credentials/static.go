package credentials

import (
	"context"

	"github.com/tunetrace/tunetrace/internal/domain"
	"github.com/tunetrace/tunetrace/internal/ports"
)

// StaticSource returns a fixed access token. It backs development runs with
// a short-lived token pasted from the developer console, and test doubles.
type StaticSource struct {
	token string
}

// NewStaticSource creates a credential source that always returns token.
func NewStaticSource(token string) *StaticSource {
	return &StaticSource{token: token}
}

// AccessToken returns the fixed token, or domain.ErrNoCredential when empty.
func (s *StaticSource) AccessToken(_ context.Context) (string, error) {
	if s.token == "" {
		return "", domain.ErrNoCredential
	}
	return s.token, nil
}

// Verify interface implementation
var _ ports.CredentialSource = (*StaticSource)(nil)
