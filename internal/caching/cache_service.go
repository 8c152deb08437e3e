package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"storehouse/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const keyPrefix = "storehouse"

// CacheService caches single-entity lookups. Getters return (nil, nil) on a miss.
type CacheService interface {
	GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	SetCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	GetUnit(ctx context.Context, id uuid.UUID) (*models.Unit, error)
	SetUnit(ctx context.Context, unit *models.Unit) error
	DeleteUnit(ctx context.Context, id uuid.UUID) error

	GetCommodity(ctx context.Context, id uuid.UUID) (*models.Commodity, error)
	SetCommodity(ctx context.Context, commodity *models.Commodity) error
	DeleteCommodity(ctx context.Context, id uuid.UUID) error

	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	SetOrder(ctx context.Context, order *models.Order) error
	DeleteOrder(ctx context.Context, id uuid.UUID) error

	// InvalidateAll drops every storehouse key
	InvalidateAll(ctx context.Context) error
	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

// NewRedisCacheService accepts either host:port or a redis:// address
func NewRedisCacheService(addr, password string, db int, ttl time.Duration, log *logrus.Logger) CacheService {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsedAddr = strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.WithError(err).WithField("addr", parsedAddr).Warn("redis ping failed on initialization")
	} else {
		log.WithField("addr", parsedAddr).Debug("redis connection established")
	}

	return &redisCacheService{client: client, ttl: ttl, log: log}
}

func entityKey(kind models.EntityKind, id uuid.UUID) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, kind, id.String())
}

func (r *redisCacheService) get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		// a stale or foreign payload is a miss, not a failure
		r.log.WithError(err).WithField("key", key).Warn("dropping undecodable cache entry")
		_ = r.client.Del(ctx, key).Err()
		return false, nil
	}
	return true, nil
}

func (r *redisCacheService) set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, r.ttl).Err()
}

func (r *redisCacheService) del(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	ok, err := r.get(ctx, entityKey(models.KindCategory, id), &category)
	if err != nil || !ok {
		return nil, err
	}
	return &category, nil
}

func (r *redisCacheService) SetCategory(ctx context.Context, category *models.Category) error {
	return r.set(ctx, entityKey(models.KindCategory, category.ID), category)
}

func (r *redisCacheService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.del(ctx, entityKey(models.KindCategory, id))
}

func (r *redisCacheService) GetUnit(ctx context.Context, id uuid.UUID) (*models.Unit, error) {
	var unit models.Unit
	ok, err := r.get(ctx, entityKey(models.KindUnit, id), &unit)
	if err != nil || !ok {
		return nil, err
	}
	return &unit, nil
}

func (r *redisCacheService) SetUnit(ctx context.Context, unit *models.Unit) error {
	return r.set(ctx, entityKey(models.KindUnit, unit.ID), unit)
}

func (r *redisCacheService) DeleteUnit(ctx context.Context, id uuid.UUID) error {
	return r.del(ctx, entityKey(models.KindUnit, id))
}

func (r *redisCacheService) GetCommodity(ctx context.Context, id uuid.UUID) (*models.Commodity, error) {
	var commodity models.Commodity
	ok, err := r.get(ctx, entityKey(models.KindCommodity, id), &commodity)
	if err != nil || !ok {
		return nil, err
	}
	return &commodity, nil
}

func (r *redisCacheService) SetCommodity(ctx context.Context, commodity *models.Commodity) error {
	return r.set(ctx, entityKey(models.KindCommodity, commodity.ID), commodity)
}

func (r *redisCacheService) DeleteCommodity(ctx context.Context, id uuid.UUID) error {
	return r.del(ctx, entityKey(models.KindCommodity, id))
}

func (r *redisCacheService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	ok, err := r.get(ctx, entityKey(models.KindOrder, id), &order)
	if err != nil || !ok {
		return nil, err
	}
	return &order, nil
}

func (r *redisCacheService) SetOrder(ctx context.Context, order *models.Order) error {
	return r.set(ctx, entityKey(models.KindOrder, order.ID), order)
}

func (r *redisCacheService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return r.del(ctx, entityKey(models.KindOrder, id))
}

func (r *redisCacheService) InvalidateAll(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, keyPrefix+":*", 100).Iterator()
	keys := []string{}
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

type noopCacheService struct{}

// NewNoopCacheService returns a cache that never hits, for runs without Redis
func NewNoopCacheService() CacheService {
	return noopCacheService{}
}

func (noopCacheService) GetCategory(context.Context, uuid.UUID) (*models.Category, error) {
	return nil, nil
}

func (noopCacheService) SetCategory(context.Context, *models.Category) error { return nil }

func (noopCacheService) DeleteCategory(context.Context, uuid.UUID) error { return nil }

func (noopCacheService) GetUnit(context.Context, uuid.UUID) (*models.Unit, error) { return nil, nil }

func (noopCacheService) SetUnit(context.Context, *models.Unit) error { return nil }

func (noopCacheService) DeleteUnit(context.Context, uuid.UUID) error { return nil }

func (noopCacheService) GetCommodity(context.Context, uuid.UUID) (*models.Commodity, error) {
	return nil, nil
}

func (noopCacheService) SetCommodity(context.Context, *models.Commodity) error { return nil }

func (noopCacheService) DeleteCommodity(context.Context, uuid.UUID) error { return nil }

func (noopCacheService) GetOrder(context.Context, uuid.UUID) (*models.Order, error) { return nil, nil }

func (noopCacheService) SetOrder(context.Context, *models.Order) error { return nil }

func (noopCacheService) DeleteOrder(context.Context, uuid.UUID) error { return nil }

func (noopCacheService) InvalidateAll(context.Context) error { return nil }

func (noopCacheService) Ping(context.Context) error { return nil }
