package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/qvideo/rental-api/internal/core/domain"
)

const defaultCacheTTL = 5 * time.Minute

// CredentialCache stores successful credential verifications in Redis.
// Key format: authcache:<fingerprint>; value: the user's role.
type CredentialCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewCredentialCache wraps client. A non-positive ttl falls back to
// defaultCacheTTL.
func NewCredentialCache(client redis.Cmdable, ttl time.Duration) *CredentialCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CredentialCache{client: client, ttl: ttl}
}

// Lookup reports the cached role for fingerprint, if any.
func (c *CredentialCache) Lookup(ctx context.Context, fingerprint string) (domain.Role, bool, error) {
	val, err := c.client.Get(ctx, c.key(fingerprint)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("credential cache get: %w", err)
	}

	role, err := domain.ParseRole(val)
	if err != nil || val == "" {
		// Unreadable entries are treated as misses and re-verified.
		return "", false, nil
	}
	return role, true, nil
}

// Store records a verification; it expires after the configured TTL.
func (c *CredentialCache) Store(ctx context.Context, fingerprint string, role domain.Role) error {
	if err := c.client.Set(ctx, c.key(fingerprint), string(role), c.ttl).Err(); err != nil {
		return fmt.Errorf("credential cache set: %w", err)
	}
	return nil
}

func (c *CredentialCache) key(fingerprint string) string {
	return "authcache:" + fingerprint
}
