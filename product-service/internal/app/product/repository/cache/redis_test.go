package cache

import (
	"context"
	"testing"
	"time"

	"productinfo/product-service/internal/app/product/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*ProductCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewProductCacheWithClient(client, 5*time.Minute), mr
}

func TestProductCache_SetAndGet(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	product := &entity.Product{ProductID: 1, Name: "name 1", Weight: 10}
	require.NoError(t, cache.Set(ctx, product))

	got, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.ProductID)
	assert.Equal(t, "name 1", got.Name)
	assert.Equal(t, 10, got.Weight)
}

func TestProductCache_GetMiss(t *testing.T) {
	cache, _ := newTestCache(t)

	got, err := cache.Get(context.Background(), 42)

	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestProductCache_Delete(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, &entity.Product{ProductID: 1, Name: "name 1"}))
	require.NoError(t, cache.Delete(ctx, 1))

	got, err := cache.Get(ctx, 1)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestProductCache_TTLExpires(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, &entity.Product{ProductID: 1, Name: "name 1"}))

	mr.FastForward(6 * time.Minute)

	got, err := cache.Get(ctx, 1)
	assert.NoError(t, err)
	assert.Nil(t, got)
}
