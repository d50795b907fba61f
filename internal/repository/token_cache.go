package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenCache remembers which user a bearer string resolved to, so repeated
// requests skip the tokens table. Implementations: Redis (shared across
// instances) or in-memory (single instance / tests).
type TokenCache interface {
	Put(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error
	// Lookup reports ok=false on a miss or an expired entry.
	Lookup(ctx context.Context, token string) (userID uuid.UUID, ok bool, err error)
	Evict(ctx context.Context, token string) error
}

const tokenCachePrefix = "token:"

func tokenCacheKey(token string) string { return tokenCachePrefix + token }
