package services

import (
	"context"

	"storehouse/internal/common"
	"storehouse/internal/models"
	"storehouse/internal/repositories"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// OrderCommodityService manages order lines. Lines are not cached.
type OrderCommodityService interface {
	List(ctx context.Context, filter *models.OrderCommodityFilter) ([]*models.OrderCommodity, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.OrderCommodity, error)
	Create(ctx context.Context, line *models.OrderCommodity) error
	Update(ctx context.Context, id uuid.UUID, patch *models.OrderCommodityPatch) (*models.OrderCommodity, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) (*models.BulkDeleteResult, error)
}

type orderCommodityService struct {
	orderCommodityRepo repositories.OrderCommodityRepository
	orderRepo          repositories.OrderRepository
	commodityRepo      repositories.CommodityRepository
	integrity          IntegrityChecker
	log                *logrus.Logger
}

func NewOrderCommodityService(
	orderCommodityRepo repositories.OrderCommodityRepository,
	orderRepo repositories.OrderRepository,
	commodityRepo repositories.CommodityRepository,
	integrity IntegrityChecker,
	log *logrus.Logger,
) OrderCommodityService {
	return &orderCommodityService{
		orderCommodityRepo: orderCommodityRepo,
		orderRepo:          orderRepo,
		commodityRepo:      commodityRepo,
		integrity:          integrity,
		log:                log,
	}
}

func (s *orderCommodityService) List(ctx context.Context, filter *models.OrderCommodityFilter) ([]*models.OrderCommodity, error) {
	if filter == nil {
		filter = &models.OrderCommodityFilter{}
	}
	filter.Limit, filter.Offset = common.ValidatePaginationParams(filter.Limit, filter.Offset)
	return s.orderCommodityRepo.List(ctx, filter)
}

func (s *orderCommodityService) GetByID(ctx context.Context, id uuid.UUID) (*models.OrderCommodity, error) {
	return s.orderCommodityRepo.GetByID(ctx, id)
}

func (s *orderCommodityService) Create(ctx context.Context, line *models.OrderCommodity) error {
	if err := common.ValidateNonNegative(line.Count, "count"); err != nil {
		return err
	}
	if err := common.ValidateNonNegative(line.Price, "price"); err != nil {
		return err
	}
	if err := common.ValidateLineAmount(line.Count, line.Price); err != nil {
		return err
	}
	if line.OrderID == uuid.Nil {
		return common.ValidationError("order_id is required")
	}
	if _, err := s.orderRepo.GetByID(ctx, line.OrderID); err != nil {
		return referenceError(err, "order_id", line.OrderID)
	}
	if err := s.requireCommodity(ctx, line.CommodityID); err != nil {
		return err
	}
	if err := s.ensureLineFree(ctx, line.OrderID, line.CommodityID, uuid.Nil); err != nil {
		return err
	}

	line.ID = uuid.New()
	return s.orderCommodityRepo.Create(ctx, line)
}

// Update writes provided zero values, so a count can be set to 0
func (s *orderCommodityService) Update(ctx context.Context, id uuid.UUID, patch *models.OrderCommodityPatch) (*models.OrderCommodity, error) {
	line, err := s.orderCommodityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Count != nil {
		if err := common.ValidateNonNegative(*patch.Count, "count"); err != nil {
			return nil, err
		}
		line.Count = *patch.Count
	}
	if patch.Price != nil {
		if err := common.ValidateNonNegative(*patch.Price, "price"); err != nil {
			return nil, err
		}
		line.Price = *patch.Price
	}
	if err := common.ValidateLineAmount(line.Count, line.Price); err != nil {
		return nil, err
	}
	if patch.Description != nil {
		line.Description = *patch.Description
	}
	if patch.CommodityID != nil && *patch.CommodityID != line.CommodityID {
		if err := s.requireCommodity(ctx, *patch.CommodityID); err != nil {
			return nil, err
		}
		if err := s.ensureLineFree(ctx, line.OrderID, *patch.CommodityID, id); err != nil {
			return nil, err
		}
		line.CommodityID = *patch.CommodityID
	}

	if err := s.orderCommodityRepo.Update(ctx, line); err != nil {
		return nil, err
	}
	return line, nil
}

func (s *orderCommodityService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.integrity.SoftDelete(ctx, models.KindOrderCommodity, id)
}

func (s *orderCommodityService) DeleteMany(ctx context.Context, ids []uuid.UUID) (*models.BulkDeleteResult, error) {
	return s.integrity.SoftDeleteMany(ctx, models.KindOrderCommodity, ids)
}

func (s *orderCommodityService) requireCommodity(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return common.ValidationError("commodity_id is required")
	}
	_, err := s.commodityRepo.GetByID(ctx, id)
	return referenceError(err, "commodity_id", id)
}

// ensureLineFree allows one active line per (order, commodity) pair
func (s *orderCommodityService) ensureLineFree(ctx context.Context, orderID, commodityID, self uuid.UUID) error {
	existing, err := s.orderCommodityRepo.GetByOrderAndCommodity(ctx, orderID, commodityID)
	if err != nil {
		if common.KindOf(err) == common.KindNotFound {
			return nil
		}
		return err
	}
	if existing.ID != self {
		return common.ConflictError("order %s already has a line for commodity %s", orderID, commodityID)
	}
	return nil
}
