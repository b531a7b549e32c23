// Package session holds the persisted login state and the startup
// routing that inspects it.
package session

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/carelink/carelink/internal/models"
)

// Keys under which the login state is persisted. The token is the user id
// issued by the backend, not a real bearer token.
const (
	KeyToken = "user_token"
	KeyUser  = "user_data"
)

// Store is the device key-value storage contract. The client only ever
// needs string values under fixed keys.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool)
	// Set stores the value for key.
	Set(key, value string) error
	// Clear removes every stored value.
	Clear() error
}

// FileStore persists values as a JSON object in a single file.
type FileStore struct {
	path   string
	mu     sync.Mutex
	values map[string]string
}

// OpenFileStore loads the store backed by the file at path. A missing
// file yields an empty store.
func OpenFileStore(path string) (*FileStore, error) {
	fs := &FileStore{path: path, values: map[string]string{}}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fs, nil
		}
		return nil, err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&fs.values); err != nil {
		return nil, err
	}
	return fs, nil
}

func (fs *FileStore) Get(key string) (string, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	v, ok := fs.values[key]
	return v, ok
}

func (fs *FileStore) Set(key, value string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.values[key] = value
	return fs.save()
}

func (fs *FileStore) Clear() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.values = map[string]string{}
	return fs.save()
}

// save writes the current values. Callers must hold fs.mu.
func (fs *FileStore) save() error {
	f, err := os.Create(fs.path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(fs.values)
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemStore() *MemStore {
	return &MemStore{values: map[string]string{}}
}

func (m *MemStore) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = map[string]string{}
	return nil
}

// Save persists a freshly established session under the fixed keys.
func Save(store Store, s *models.Session) error {
	if err := store.Set(KeyToken, s.Token); err != nil {
		return err
	}
	b, err := json.Marshal(s.User)
	if err != nil {
		return err
	}
	return store.Set(KeyUser, string(b))
}

// Clear drops the persisted session. Used on logout regardless of
// whether the backend acknowledged it.
func Clear(store Store) error {
	return store.Clear()
}
