package main

import (
	"context"
	"fmt"
	"time"

	"storehouse/internal/caching"
	"storehouse/internal/config"
	"storehouse/internal/logging"
	"storehouse/internal/repositories"
	"storehouse/internal/repositories/mongostore"
	"storehouse/internal/services"
	"storehouse/pkg/database"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const closeTimeout = 5 * time.Second

// store is the selected persistence backend with its five repositories
type store struct {
	categories       repositories.CategoryRepository
	units            repositories.UnitRepository
	commodities      repositories.CommodityRepository
	orders           repositories.OrderRepository
	orderCommodities repositories.OrderCommodityRepository

	ping    func(ctx context.Context) error
	migrate func(ctx context.Context) error
	close   func()
}

// boot loads configuration and builds the logger
func boot() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to load configuration")
	}
	log := logging.New(cfg.LogLevel, cfg.IsProduction())
	return cfg, log, nil
}

func openStore(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, err
		}
		return &store{
			categories:       repositories.NewCategoryRepository(pool),
			units:            repositories.NewUnitRepository(pool),
			commodities:      repositories.NewCommodityRepository(pool),
			orders:           repositories.NewOrderRepository(pool),
			orderCommodities: repositories.NewOrderCommodityRepository(pool),
			ping:             pool.Ping,
			migrate: func(ctx context.Context) error {
				return database.Migrate(ctx, pool)
			},
			close: pool.Close,
		}, nil

	case config.DriverMongo:
		ms, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		log.WithField("database", cfg.MongoDatabase).Info("mongodb connected")
		return &store{
			categories:       ms.Categories(),
			units:            ms.Units(),
			commodities:      ms.Commodities(),
			orders:           ms.Orders(),
			orderCommodities: ms.OrderCommodities(),
			ping:             ms.Ping,
			migrate:          ms.EnsureIndexes,
			close: func() {
				ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
				defer cancel()
				if err := ms.Close(ctx); err != nil {
					log.WithError(err).Warn("failed to disconnect from mongodb")
				}
			},
		}, nil
	}
	return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
}

func newCache(cfg *config.Config, log *logrus.Logger) caching.CacheService {
	if !cfg.CacheEnabled() {
		log.Info("REDIS_ADDR not set, read cache disabled")
		return caching.NewNoopCacheService()
	}
	return caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL, log)
}

func (s *store) referenceAudit(log *logrus.Logger) services.ReferenceAuditService {
	return services.NewReferenceAuditService(s.categories, s.units, s.commodities, s.orders, s.orderCommodities, log)
}
