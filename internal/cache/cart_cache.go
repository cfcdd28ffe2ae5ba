package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/ecotoken_store/internal/models"
)

// kvStore is the subset of RedisClient the cart cache needs.
type kvStore interface {
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// CartCache persists session carts in Redis with a sliding TTL.
type CartCache struct {
	redis kvStore
	ttl   time.Duration
}

// NewCartCache creates a new CartCache.
func NewCartCache(redis *RedisClient, ttl time.Duration) *CartCache {
	return &CartCache{redis: redis, ttl: ttl}
}

func (c *CartCache) key(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}

// Load returns the stored cart for a session, or an empty cart when none
// exists. Reading a cart slides its TTL like a write does.
func (c *CartCache) Load(ctx context.Context, sessionID string) (*models.StoredCart, error) {
	key := c.key(sessionID)
	raw, err := c.redis.Get(ctx, key)
	if errors.Is(err, ErrCacheMiss) {
		return &models.StoredCart{SessionID: sessionID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var stored models.StoredCart
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart: %w", err)
	}
	stored.SessionID = sessionID

	if err := c.redis.Expire(ctx, key, c.ttl); err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("Failed to refresh cart TTL")
	}
	return &stored, nil
}

// Save writes the cart and refreshes its TTL. An empty cart deletes the key.
func (c *CartCache) Save(ctx context.Context, stored *models.StoredCart) error {
	if len(stored.Lines) == 0 {
		return c.Delete(ctx, stored.SessionID)
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	if err := c.redis.Set(ctx, c.key(stored.SessionID), string(data), c.ttl); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Delete removes a session's cart.
func (c *CartCache) Delete(ctx context.Context, sessionID string) error {
	return c.redis.Delete(ctx, c.key(sessionID))
}
