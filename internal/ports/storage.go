// Package ports define the interfaces at the application boundary.
// These interfaces enable the ports and adapters pattern and allow swapping implementations.
package ports

// KeyValueStore handles the persistence of string values under fixed keys.
// The session aggregate is serialized as one JSON blob under a single key;
// each call is all-or-nothing, there are no partial-record semantics.
// Implementations can use app-scoped preferences, a database, or memory.
//
// Thread-safety: Implementations must be thread-safe.
type KeyValueStore interface {
	// Get retrieves the value stored under key.
	// If the key was never set, returns "" (not an error).
	//
	// Returns the value or an error if reading fails.
	Get(key string) (string, error)

	// Set stores value under key, replacing any previous value.
	//
	// Returns an error if writing fails.
	Set(key, value string) error

	// Delete removes the value stored under key.
	// If the key was never set, this is a no-op (no error).
	//
	// Returns an error if deletion fails.
	Delete(key string) error
}
