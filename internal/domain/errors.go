// Package domain defines the errors the core hands across its boundaries,
// kept free of transport and storage details.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors callers match with errors.Is.
var (
	// ErrNoCredential is returned when no valid access credential is available.
	// The poller treats this as a transient condition and skips the cycle.
	ErrNoCredential = errors.New("no access credential available")

	// ErrNotConfigured is returned when a component is used without the
	// configuration it needs (for example missing API client credentials).
	ErrNotConfigured = errors.New("component not configured")
)

// ProviderError represents an error from the streaming API.
// This wraps transport and protocol failures with additional context.
type ProviderError struct {
	Op         string // Operation that failed (e.g., "currently_playing", "profile")
	StatusCode int    // HTTP status code, 0 when the request never completed
	Message    string // Error message
	Err        error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider %s failed: %s (status: %d)", e.Op, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("provider %s failed: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError creates a new ProviderError.
func NewProviderError(op string, statusCode int, message string, err error) *ProviderError {
	return &ProviderError{
		Op:         op,
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
	}
}

// StoreError represents an error from the persistence layer.
type StoreError struct {
	Op  string // Operation that failed (e.g., "get", "set", "delete")
	Key string // Key the operation targeted
	Err error  // Underlying error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed for key %q: %v", e.Op, e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(op, key string, err error) *StoreError {
	return &StoreError{
		Op:  op,
		Key: key,
		Err: err,
	}
}
