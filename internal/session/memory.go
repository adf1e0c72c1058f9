package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryEntry struct {
	mu        sync.Mutex
	session   Session
	expiresAt time.Time
}

// MemoryStore is the default single-process session store. Each entry
// carries its own lock so Update serializes concurrent requests for
// the same token without blocking other sessions.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
	ttl     time.Duration
	done    chan struct{}
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]*memoryEntry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	go s.sweep()
	return s
}

func (s *MemoryStore) Create(ctx context.Context, sess Session) (string, error) {
	token := uuid.NewString()
	s.mu.Lock()
	s.entries[token] = &memoryEntry{
		session:   sess,
		expiresAt: time.Now().Add(s.ttl),
	}
	s.mu.Unlock()
	return token, nil
}

func (s *MemoryStore) Get(ctx context.Context, token string) (Session, error) {
	s.mu.RLock()
	entry, ok := s.entries[token]
	s.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return Session{}, ErrNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.session.clone(), nil
}

func (s *MemoryStore) Update(ctx context.Context, token string, fn func(*Session) error) error {
	s.mu.RLock()
	entry, ok := s.entries[token]
	s.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return ErrNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	// Mutate a copy so a failed callback leaves the stored session
	// untouched, matching the Redis store's discard-on-error behavior.
	updated := entry.session.clone()
	if err := fn(&updated); err != nil {
		return err
	}
	entry.session = updated
	entry.expiresAt = time.Now().Add(s.ttl)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	delete(s.entries, token)
	s.mu.Unlock()
	return nil
}

// Close stops the expiry sweeper.
func (s *MemoryStore) Close() {
	close(s.done)
}

func (s *MemoryStore) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for token, entry := range s.entries {
				if now.After(entry.expiresAt) {
					delete(s.entries, token)
				}
			}
			s.mu.Unlock()
		}
	}
}
