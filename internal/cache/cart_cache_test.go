package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/ecotoken_store/internal/models"
)

type memKV struct {
	data map[string]string
	ttls map[string]time.Duration
}

func newMemKV() *memKV {
	return &memKV{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memKV) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memKV) Get(ctx context.Context, key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", ErrCacheMiss
	}
	return v, nil
}

func (m *memKV) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memKV) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if _, ok := m.data[key]; ok {
		m.ttls[key] = ttl
	}
	return nil
}

func TestCartCache_LoadMissingReturnsEmpty(t *testing.T) {
	c := &CartCache{redis: newMemKV(), ttl: time.Hour}

	stored, err := c.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", stored.SessionID)
	assert.Empty(t, stored.Lines)
}

func TestCartCache_SaveLoadRoundTripWithTTL(t *testing.T) {
	kv := newMemKV()
	c := &CartCache{redis: kv, ttl: 72 * time.Hour}
	ctx := context.Background()

	in := &models.StoredCart{SessionID: "s1", Lines: []models.StoredCartLine{
		{ProductID: "clock", Quantity: 2},
		{ProductID: "tote", Quantity: 1},
	}}
	require.NoError(t, c.Save(ctx, in))
	assert.Equal(t, 72*time.Hour, kv.ttls["cart:session:s1"])

	out, err := c.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, in.Lines, out.Lines)
}

func TestCartCache_SaveEmptyDeletes(t *testing.T) {
	kv := newMemKV()
	c := &CartCache{redis: kv, ttl: time.Hour}
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, &models.StoredCart{SessionID: "s1", Lines: []models.StoredCartLine{{ProductID: "a", Quantity: 1}}}))
	require.NoError(t, c.Save(ctx, &models.StoredCart{SessionID: "s1"}))
	assert.NotContains(t, kv.data, "cart:session:s1")
}

func TestCartCache_CorruptPayload(t *testing.T) {
	kv := newMemKV()
	kv.data["cart:session:s1"] = "{not json"
	c := &CartCache{redis: kv, ttl: time.Hour}

	_, err := c.Load(context.Background(), "s1")
	assert.Error(t, err)
}
