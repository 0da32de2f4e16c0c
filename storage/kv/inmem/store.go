package inmemkv

import (
	"sync"

	"github.com/trezcool/shule/core"
)

// Store is a map-backed key-value store. Used in tests and as a scratch
// backend; contents are lost on process exit.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ core.Store = (*Store)(nil)

func Open() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (s *Store) Get(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	// copy so callers cannot mutate the stored value
	cp := make([]byte, len(val))
	copy(cp, val)
	return cp, true, nil
}

func (s *Store) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]byte, len(value))
	copy(cp, value)
	s.data[key] = cp
	return nil
}

func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string][]byte)
	return nil
}
