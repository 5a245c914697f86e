// Package memory provides an in-memory key-value store.
// It backs tests and ephemeral runs where nothing should touch the disk, and
// supports failure injection for exercising persistence error paths.
package memory

import (
	"errors"
	"sync"

	"github.com/tunetrace/tunetrace/internal/domain"
	"github.com/tunetrace/tunetrace/internal/ports"
)

// Store implements ports.KeyValueStore with a plain map.
//
// Thread-safe: All operations protected by sync.RWMutex.
type Store struct {
	mu     sync.RWMutex
	values map[string]string

	// Failure injection for tests
	failGet    bool
	failSet    bool
	failDelete bool
}

// NewStore creates a new empty in-memory store.
func NewStore() *Store {
	return &Store{
		values: make(map[string]string),
	}
}

// Get retrieves the value stored under key, or "" when absent.
func (s *Store) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failGet {
		return "", domain.NewStoreError("get", key, errors.New("simulated read failure"))
	}

	return s.values[key], nil
}

// Set stores value under key.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failSet {
		return domain.NewStoreError("set", key, errors.New("simulated write failure"))
	}

	s.values[key] = value
	return nil
}

// Delete removes the value stored under key.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failDelete {
		return domain.NewStoreError("delete", key, errors.New("simulated delete failure"))
	}

	delete(s.values, key)
	return nil
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.values)
}

// SetFailGet makes subsequent Get calls fail when set to true.
func (s *Store) SetFailGet(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failGet = fail
}

// SetFailSet makes subsequent Set calls fail when set to true.
func (s *Store) SetFailSet(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSet = fail
}

// SetFailDelete makes subsequent Delete calls fail when set to true.
func (s *Store) SetFailDelete(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failDelete = fail
}

// Verify interface implementation
var _ ports.KeyValueStore = (*Store)(nil)
