package services

import (
	"context"

	"storehouse/internal/caching"
	"storehouse/internal/common"
	"storehouse/internal/models"
	"storehouse/internal/repositories"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type OrderService interface {
	List(ctx context.Context, limit, offset int) ([]*models.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	Update(ctx context.Context, id uuid.UUID, patch *models.OrderPatch) (*models.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) (*models.BulkDeleteResult, error)
}

type orderService struct {
	orderRepo    repositories.OrderRepository
	integrity    IntegrityChecker
	cacheService caching.CacheService
	log          *logrus.Logger
}

func NewOrderService(orderRepo repositories.OrderRepository, integrity IntegrityChecker, cacheService caching.CacheService, log *logrus.Logger) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		integrity:    integrity,
		cacheService: cacheService,
		log:          log,
	}
}

func (s *orderService) List(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.orderRepo.List(ctx, limit, offset)
}

func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	cached, err := s.cacheService.GetOrder(ctx, id)
	recordCacheLookup(s.log, "order", id, cached != nil, err)
	if cached != nil {
		return cached, nil
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cacheService.SetOrder(ctx, order); err != nil {
		s.log.WithError(err).WithField("id", id).Warn("failed to cache order")
	}
	return order, nil
}

func (s *orderService) Create(ctx context.Context, order *models.Order) error {
	name, err := common.ValidateRequiredString(order.Name, "name")
	if err != nil {
		return err
	}
	if err := s.ensureNameFree(ctx, name, uuid.Nil); err != nil {
		return err
	}

	order.ID = uuid.New()
	order.Name = name
	return s.orderRepo.Create(ctx, order)
}

func (s *orderService) Update(ctx context.Context, id uuid.UUID, patch *models.OrderPatch) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name, err := common.ValidateRequiredString(*patch.Name, "name")
		if err != nil {
			return nil, err
		}
		if name != order.Name {
			if err := s.ensureNameFree(ctx, name, id); err != nil {
				return nil, err
			}
		}
		order.Name = name
	}
	if patch.Description != nil {
		order.Description = *patch.Description
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	s.evict(ctx, id)
	return order, nil
}

func (s *orderService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.integrity.SoftDelete(ctx, models.KindOrder, id); err != nil {
		return err
	}
	s.evict(ctx, id)
	return nil
}

func (s *orderService) DeleteMany(ctx context.Context, ids []uuid.UUID) (*models.BulkDeleteResult, error) {
	result, err := s.integrity.SoftDeleteMany(ctx, models.KindOrder, ids)
	if result != nil {
		for _, id := range result.Deleted {
			s.evict(ctx, id)
		}
	}
	return result, err
}

func (s *orderService) ensureNameFree(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.orderRepo.GetByName(ctx, name)
	if err != nil {
		if common.KindOf(err) == common.KindNotFound {
			return nil
		}
		return err
	}
	if existing.ID != self {
		return common.ConflictError("order %q already exists", name)
	}
	return nil
}

func (s *orderService) evict(ctx context.Context, id uuid.UUID) {
	if err := s.cacheService.DeleteOrder(ctx, id); err != nil {
		s.log.WithError(err).WithField("id", id).Warn("failed to evict order from cache")
	}
}
