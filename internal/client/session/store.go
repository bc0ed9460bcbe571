// Package session keeps the shopper's login state (token, username, balance)
// in a client-local key/value store.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/atinyakov/storefront/internal/models"
)

// Store is the session store the rest of the client depends on. Only login
// sets it and only logout clears it.
type Store interface {
	Get() models.Session
	Set(models.Session) error
	Clear() error
	// Token returns the current auth token, "" when anonymous.
	Token() string
}

// FileStore persists the session as a JSON file.
type FileStore struct {
	path string
	mu   sync.Mutex
	cur  models.Session
}

// NewFileStore returns a store backed by path. Call Load to read existing state.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the session file. A missing file means an anonymous session.
func (fs *FileStore) Load() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	f, err := os.Open(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			fs.cur = models.Session{}
			return nil
		}
		return err
	}
	defer f.Close()

	var s models.Session
	if err := json.NewDecoder(f).Decode(&s); err != nil {
		return fmt.Errorf("decode session file: %w", err)
	}
	fs.cur = s
	return nil
}

func (fs *FileStore) Get() models.Session {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.cur
}

func (fs *FileStore) Token() string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.cur.Token
}

// Set replaces the whole session and writes it to disk.
func (fs *FileStore) Set(s models.Session) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err := fs.save(s); err != nil {
		return err
	}
	fs.cur = s
	return nil
}

// Clear drops token, username and balance together. The session is kept
// when the file cannot be removed.
func (fs *FileStore) Clear() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err := os.Remove(fs.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	fs.cur = models.Session{}
	return nil
}

func (fs *FileStore) save(s models.Session) error {
	f, err := os.OpenFile(fs.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open session file: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(s)
}

// MemoryStore keeps the session in process memory.
type MemoryStore struct {
	mu  sync.Mutex
	cur models.Session
}

func (m *MemoryStore) Get() models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cur
}

func (m *MemoryStore) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cur.Token
}

func (m *MemoryStore) Set(s models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cur = s
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cur = models.Session{}
	return nil
}
