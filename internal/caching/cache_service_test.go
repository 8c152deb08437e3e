package caching

import (
	"context"
	"io"
	"testing"
	"time"

	"storehouse/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (CacheService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewRedisCacheService("redis://"+mr.Addr(), "", 0, time.Minute, log), mr
}

func TestCategoryRoundTripAndDelete(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	category := &models.Category{ID: uuid.New(), Name: "Grain", Description: "cereal crops"}

	miss, err := cache.GetCategory(ctx, category.ID)
	require.NoError(t, err)
	assert.Nil(t, miss)

	require.NoError(t, cache.SetCategory(ctx, category))
	assert.True(t, mr.Exists("storehouse:category:"+category.ID.String()))

	hit, err := cache.GetCategory(ctx, category.ID)
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, "Grain", hit.Name)

	require.NoError(t, cache.DeleteCategory(ctx, category.ID))
	gone, err := cache.GetCategory(ctx, category.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestEntriesExpire(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	commodity := &models.Commodity{ID: uuid.New(), Name: "Wheat", Price: 12.5}

	require.NoError(t, cache.SetCommodity(ctx, commodity))
	mr.FastForward(2 * time.Minute)

	got, err := cache.GetCommodity(ctx, commodity.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUndecodableEntryIsAMiss(t *testing.T) {
	cache, mr := newTestCache(t)
	id := uuid.New()
	key := "storehouse:order:" + id.String()
	require.NoError(t, mr.Set(key, "{not json"))

	got, err := cache.GetOrder(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, mr.Exists(key))
}

func TestInvalidateAllOnlyTouchesOwnKeys(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, cache.SetUnit(ctx, &models.Unit{ID: uuid.New(), Name: "kg"}))
	require.NoError(t, cache.SetOrder(ctx, &models.Order{ID: uuid.New(), Name: "PO-1"}))
	require.NoError(t, mr.Set("other:key", "keep"))

	require.NoError(t, cache.InvalidateAll(ctx))
	assert.Equal(t, []string{"other:key"}, mr.Keys())
}

func TestBackendFailureSurfaces(t *testing.T) {
	cache, mr := newTestCache(t)
	mr.SetError("LOADING")

	_, err := cache.GetUnit(context.Background(), uuid.New())
	assert.Error(t, err)
}

func TestNoopCacheAlwaysMisses(t *testing.T) {
	cache := NewNoopCacheService()
	ctx := context.Background()
	order := &models.Order{ID: uuid.New()}

	require.NoError(t, cache.SetOrder(ctx, order))
	got, err := cache.GetOrder(ctx, order.ID)
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, cache.Ping(ctx))
}
