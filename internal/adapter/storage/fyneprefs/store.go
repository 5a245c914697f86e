// Package fyneprefs provides a key-value store backed by Fyne preferences.
package fyneprefs

import (
	"sync"

	"fyne.io/fyne/v2"

	"github.com/tunetrace/tunetrace/internal/ports"
)

// Store implements ports.KeyValueStore using Fyne preferences.
//
// Fyne preferences automatically use OS-specific app data directories:
// - macOS: ~/Library/Preferences/com.tunetrace.app.plist
// - Linux: ~/.config/tunetrace/
// - Windows: %APPDATA%\tunetrace\
//
// Thread-safe: All operations protected by sync.RWMutex.
type Store struct {
	prefs fyne.Preferences
	mu    sync.RWMutex
}

// NewStore creates a new preferences-backed store.
// The preferences parameter should be obtained from fyne.CurrentApp().Preferences().
func NewStore(prefs fyne.Preferences) *Store {
	return &Store{
		prefs: prefs,
	}
}

// Get retrieves the value stored under key.
// Fyne returns "" for keys that were never set, which matches the port
// contract for absent keys.
func (s *Store) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.prefs.String(key), nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs.SetString(key, value)
	return nil
}

// Delete removes the value stored under key.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs.RemoveValue(key)
	return nil
}

// Verify interface implementation
var _ ports.KeyValueStore = (*Store)(nil)
