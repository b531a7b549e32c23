package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelink/carelink/internal/models"
)

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	fs, err := OpenFileStore(path)
	require.NoError(t, err)

	_, ok := fs.Get(KeyToken)
	assert.False(t, ok)
}

func TestFileStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	fs, err := OpenFileStore(path)
	require.NoError(t, err)
	require.NoError(t, fs.Set(KeyToken, "42"))
	require.NoError(t, fs.Set(KeyUser, `{"user_id":"42","name":"A","user_type":"helper"}`))

	reopened, err := OpenFileStore(path)
	require.NoError(t, err)

	token, ok := reopened.Get(KeyToken)
	require.True(t, ok)
	assert.Equal(t, "42", token)
}

func TestFileStore_ClearRemovesEverything(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	fs, err := OpenFileStore(path)
	require.NoError(t, err)
	require.NoError(t, fs.Set(KeyToken, "42"))
	require.NoError(t, fs.Clear())

	reopened, err := OpenFileStore(path)
	require.NoError(t, err)
	_, ok := reopened.Get(KeyToken)
	assert.False(t, ok)
}

func TestFileStore_CorruptFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	_, err := OpenFileStore(path)
	assert.Error(t, err)
}

func TestSaveAndClearSession(t *testing.T) {
	store := NewMemStore()
	sess := &models.Session{
		Token: "42",
		User:  models.UserSummary{UserID: "42", Name: "A", UserType: models.RoleHelper},
	}

	require.NoError(t, Save(store, sess))

	token, ok := store.Get(KeyToken)
	require.True(t, ok)
	assert.Equal(t, "42", token)
	raw, ok := store.Get(KeyUser)
	require.True(t, ok)
	assert.Contains(t, raw, `"user_type":"helper"`)

	require.NoError(t, Clear(store))
	_, ok = store.Get(KeyToken)
	assert.False(t, ok)
}
