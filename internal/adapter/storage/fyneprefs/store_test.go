package fyneprefs

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper to create a store on Fyne's test app, which provides an in-memory
// preferences backend.
func newTestStore() *Store {
	app := test.NewApp()
	return NewStore(app.Preferences())
}

func TestStore_SetAndGet(t *testing.T) {
	store := newTestStore()

	err := store.Set("session.current", `{"isActive":true}`)
	require.NoError(t, err)

	value, err := store.Get("session.current")
	require.NoError(t, err)
	assert.Equal(t, `{"isActive":true}`, value)
}

func TestStore_Get_MissingKey(t *testing.T) {
	store := newTestStore()

	// Absent keys report "" per the port contract
	value, err := store.Get("never.set")
	require.NoError(t, err)
	assert.Equal(t, "", value)
}

func TestStore_Set_OverwritesPrevious(t *testing.T) {
	store := newTestStore()

	require.NoError(t, store.Set("key", "first"))
	require.NoError(t, store.Set("key", "second"))

	value, err := store.Get("key")
	require.NoError(t, err)
	assert.Equal(t, "second", value)
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore()

	require.NoError(t, store.Set("key", "value"))
	require.NoError(t, store.Delete("key"))

	value, err := store.Get("key")
	require.NoError(t, err)
	assert.Equal(t, "", value)
}

func TestStore_Delete_MissingKey(t *testing.T) {
	store := newTestStore()

	// Deleting a key that was never set is a no-op
	err := store.Delete("never.set")
	assert.NoError(t, err)
}
