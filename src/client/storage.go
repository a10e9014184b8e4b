package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Keys mirrored into local storage.
const (
	KeyToken   = "token"
	KeyUser    = "user"
	KeyProfile = "profile"
	KeyDrafts  = "surveyDrafts"
)

// storageVersion is bumped whenever a stored shape changes; older entries are ignored.
const storageVersion = 1

// LocalStorage is a string key/value store that survives restarts.
type LocalStorage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

type envelope struct {
	V    int             `json:"v"`
	Data json.RawMessage `json:"data"`
}

func saveJSON(s LocalStorage, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(envelope{V: storageVersion, Data: data})
	if err != nil {
		return err
	}
	return s.Set(key, string(raw))
}

// loadJSON decodes the value under key into dst. Missing, stale or corrupt entries
// report false and leave dst untouched.
func loadJSON(s LocalStorage, key string, dst interface{}) bool {
	raw, ok := s.Get(key)
	if !ok {
		return false
	}
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil || env.V != storageVersion {
		return false
	}
	return json.Unmarshal(env.Data, dst) == nil
}

// MemoryStorage keeps values in process memory.
type MemoryStorage struct {
	mu sync.RWMutex
	m  map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{m: map[string]string{}}
}

func (s *MemoryStorage) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok
}

func (s *MemoryStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *MemoryStorage) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

// FileStorage keeps every key in one JSON object on disk, rewritten on each change.
type FileStorage struct {
	mu   sync.Mutex
	path string
	m    map[string]string
}

// NewFileStorage opens path, creating it on first write. An unreadable file is an error;
// a missing one starts empty.
func NewFileStorage(path string) (*FileStorage, error) {
	fs := &FileStorage{path: path, m: map[string]string{}}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fs, nil
	}
	if err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &fs.m); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return fs, nil
}

func (s *FileStorage) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok
}

func (s *FileStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return s.flush()
}

func (s *FileStorage) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[key]; !ok {
		return nil
	}
	delete(s.m, key)
	return s.flush()
}

// flush writes through a temp file so a crash never leaves half a document.
func (s *FileStorage) flush() error {
	raw, err := json.MarshalIndent(s.m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
