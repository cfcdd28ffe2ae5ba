package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/ecotoken_store/internal/config"
	"github.com/GTDGit/ecotoken_store/internal/models"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisClient) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewRedisClient(&config.RedisConfig{Host: mr.Host(), Port: mr.Port()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisClient_GetMiss(t *testing.T) {
	_, client := setupTestRedis(t)

	_, err := client.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, client.Ping(context.Background()))
}

func TestCartCache_OnRedis(t *testing.T) {
	mr, client := setupTestRedis(t)
	carts := NewCartCache(client, time.Hour)
	ctx := context.Background()

	in := &models.StoredCart{SessionID: "s1", Lines: []models.StoredCartLine{{ProductID: "tote", Quantity: 3}}}
	require.NoError(t, carts.Save(ctx, in))
	assert.True(t, mr.Exists("cart:session:s1"))
	assert.Equal(t, time.Hour, mr.TTL("cart:session:s1"))

	out, err := carts.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, in.Lines, out.Lines)

	mr.FastForward(2 * time.Hour)
	out, err = carts.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, out.Lines)
}

func TestCartCache_LoadSlidesTTL(t *testing.T) {
	mr, client := setupTestRedis(t)
	carts := NewCartCache(client, time.Hour)
	ctx := context.Background()

	require.NoError(t, carts.Save(ctx, &models.StoredCart{SessionID: "s1", Lines: []models.StoredCartLine{{ProductID: "tote", Quantity: 1}}}))
	mr.FastForward(45 * time.Minute)
	assert.Equal(t, 15*time.Minute, mr.TTL("cart:session:s1"))

	_, err := carts.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, mr.TTL("cart:session:s1"))

	mr.FastForward(45 * time.Minute)
	out, err := carts.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, out.Lines, 1)
}
