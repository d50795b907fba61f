package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memEntry struct {
	userID    uuid.UUID
	expiresAt time.Time
	hasTTL    bool
}

func (e memEntry) isExpired(now time.Time) bool {
	return e.hasTTL && now.After(e.expiresAt)
}

type memoryTokenCache struct {
	mu      sync.RWMutex
	entries map[string]memEntry
	now     func() time.Time
}

func NewMemoryTokenCache() TokenCache {
	return &memoryTokenCache{
		entries: make(map[string]memEntry),
		now:     time.Now,
	}
}

func (s *memoryTokenCache) Put(_ context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := memEntry{userID: userID}
	if ttl > 0 {
		entry.hasTTL = true
		entry.expiresAt = s.now().Add(ttl)
	}
	s.entries[tokenCacheKey(token)] = entry
	return nil
}

func (s *memoryTokenCache) Lookup(_ context.Context, token string) (uuid.UUID, bool, error) {
	key := tokenCacheKey(token)

	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return uuid.Nil, false, nil
	}
	if entry.isExpired(s.now()) {
		s.mu.Lock()
		// Re-check under the write lock; a concurrent Put may have refreshed it.
		if cur, still := s.entries[key]; still && cur.isExpired(s.now()) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return uuid.Nil, false, nil
	}
	return entry.userID, true, nil
}

func (s *memoryTokenCache) Evict(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, tokenCacheKey(token))
	return nil
}
