package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const denylistKeyPrefix = "auth:revoked:"

// TokenDenylist records token IDs revoked before their natural expiry.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type redisTokenDenylist struct {
	client *redis.Client
}

// NewRedisTokenDenylist stores revocations as keys that expire with the token.
func NewRedisTokenDenylist(client *redis.Client) TokenDenylist {
	return &redisTokenDenylist{client: client}
}

func (d *redisTokenDenylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, denylistKeyPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (d *redisTokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	n, err := d.client.Exists(ctx, denylistKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return n > 0, nil
}

// MemoryTokenDenylist is the in-process fallback when Redis is unavailable.
type MemoryTokenDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemoryTokenDenylist returns an empty denylist.
func NewMemoryTokenDenylist() *MemoryTokenDenylist {
	return &MemoryTokenDenylist{revoked: make(map[string]time.Time), now: time.Now}
}

func (d *MemoryTokenDenylist) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" || !expiresAt.After(d.now()) {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.prune()
	d.revoked[tokenID] = expiresAt
	return nil
}

func (d *MemoryTokenDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	expiresAt, ok := d.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if !expiresAt.After(d.now()) {
		delete(d.revoked, tokenID)
		return false, nil
	}
	return true, nil
}

func (d *MemoryTokenDenylist) prune() {
	now := d.now()
	for id, expiresAt := range d.revoked {
		if !expiresAt.After(now) {
			delete(d.revoked, id)
		}
	}
}
