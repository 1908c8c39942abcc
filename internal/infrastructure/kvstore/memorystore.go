package kvstore

import (
	"context"
	"sync"
)

// MemoryStore is a process-local Store used by tests and dry runs.
type MemoryStore struct {
	mu     sync.RWMutex
	logs   map[string][][]byte
	values map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		logs:   make(map[string][][]byte),
		values: make(map[string][]byte),
	}
}

func (s *MemoryStore) Append(_ context.Context, key string, record []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs[key] = append(s.logs[key], append([]byte(nil), record...))
	return nil
}

func (s *MemoryStore) Records(_ context.Context, key string) ([][]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([][]byte, 0, len(s.logs[key]))
	for _, r := range s.logs[key] {
		out = append(out, append([]byte(nil), r...))
	}
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	if err := validateKey(key); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
