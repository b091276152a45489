package otp

import (
	"context"
	"sync"
	"time"

	"github.com/ds124wfegd/mmk_universe/internal/entity"
)

type memoryEntry struct {
	code      string
	expiresAt time.Time
	attempts  int64
}

// MemoryStore is used when Redis is not configured. Codes are lost on restart.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Set(_ context.Context, email, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key(email)] = memoryEntry{code: code, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key(email)]
	if !ok {
		return "", entity.ErrInvalidOTP
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, key(email))
		return "", entity.ErrInvalidOTP
	}
	return entry.code, nil
}

func (s *MemoryStore) Fail(_ context.Context, email string, _ time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key(email)]
	if !ok {
		return 0, nil
	}
	entry.attempts++
	s.entries[key(email)] = entry
	return entry.attempts, nil
}

func (s *MemoryStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key(email))
	return nil
}
