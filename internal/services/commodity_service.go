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

type CommodityService interface {
	List(ctx context.Context, filter *models.CommodityFilter) ([]*models.Commodity, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Commodity, error)
	Create(ctx context.Context, commodity *models.Commodity) error
	Update(ctx context.Context, id uuid.UUID, patch *models.CommodityPatch) (*models.Commodity, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) (*models.BulkDeleteResult, error)
}

type commodityService struct {
	commodityRepo repositories.CommodityRepository
	categoryRepo  repositories.CategoryRepository
	unitRepo      repositories.UnitRepository
	integrity     IntegrityChecker
	cacheService  caching.CacheService
	log           *logrus.Logger
}

func NewCommodityService(
	commodityRepo repositories.CommodityRepository,
	categoryRepo repositories.CategoryRepository,
	unitRepo repositories.UnitRepository,
	integrity IntegrityChecker,
	cacheService caching.CacheService,
	log *logrus.Logger,
) CommodityService {
	return &commodityService{
		commodityRepo: commodityRepo,
		categoryRepo:  categoryRepo,
		unitRepo:      unitRepo,
		integrity:     integrity,
		cacheService:  cacheService,
		log:           log,
	}
}

func (s *commodityService) List(ctx context.Context, filter *models.CommodityFilter) ([]*models.Commodity, error) {
	if filter == nil {
		filter = &models.CommodityFilter{}
	}
	filter.Limit, filter.Offset = common.ValidatePaginationParams(filter.Limit, filter.Offset)
	return s.commodityRepo.List(ctx, filter)
}

func (s *commodityService) GetByID(ctx context.Context, id uuid.UUID) (*models.Commodity, error) {
	cached, err := s.cacheService.GetCommodity(ctx, id)
	recordCacheLookup(s.log, "commodity", id, cached != nil, err)
	if cached != nil {
		return cached, nil
	}

	commodity, err := s.commodityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cacheService.SetCommodity(ctx, commodity); err != nil {
		s.log.WithError(err).WithField("id", id).Warn("failed to cache commodity")
	}
	return commodity, nil
}

func (s *commodityService) Create(ctx context.Context, commodity *models.Commodity) error {
	name, err := common.ValidateRequiredString(commodity.Name, "name")
	if err != nil {
		return err
	}
	if err := common.ValidateNonNegative(commodity.Price, "price"); err != nil {
		return err
	}
	if err := s.requireCategory(ctx, commodity.CategoryID); err != nil {
		return err
	}
	if err := s.requireUnit(ctx, commodity.UnitID); err != nil {
		return err
	}
	if err := s.ensureNameFree(ctx, name, uuid.Nil); err != nil {
		return err
	}

	commodity.ID = uuid.New()
	commodity.Name = name
	return s.commodityRepo.Create(ctx, commodity)
}

func (s *commodityService) Update(ctx context.Context, id uuid.UUID, patch *models.CommodityPatch) (*models.Commodity, error) {
	commodity, err := s.commodityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name, err := common.ValidateRequiredString(*patch.Name, "name")
		if err != nil {
			return nil, err
		}
		if name != commodity.Name {
			if err := s.ensureNameFree(ctx, name, id); err != nil {
				return nil, err
			}
		}
		commodity.Name = name
	}
	if patch.Description != nil {
		commodity.Description = *patch.Description
	}
	if patch.Price != nil {
		if err := common.ValidateNonNegative(*patch.Price, "price"); err != nil {
			return nil, err
		}
		commodity.Price = *patch.Price
	}
	if patch.CategoryID != nil {
		if err := s.requireCategory(ctx, *patch.CategoryID); err != nil {
			return nil, err
		}
		commodity.CategoryID = *patch.CategoryID
	}
	if patch.UnitID != nil {
		if err := s.requireUnit(ctx, *patch.UnitID); err != nil {
			return nil, err
		}
		commodity.UnitID = *patch.UnitID
	}

	if err := s.commodityRepo.Update(ctx, commodity); err != nil {
		return nil, err
	}
	s.evict(ctx, id)
	return commodity, nil
}

func (s *commodityService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.integrity.SoftDelete(ctx, models.KindCommodity, id); err != nil {
		return err
	}
	s.evict(ctx, id)
	return nil
}

func (s *commodityService) DeleteMany(ctx context.Context, ids []uuid.UUID) (*models.BulkDeleteResult, error) {
	result, err := s.integrity.SoftDeleteMany(ctx, models.KindCommodity, ids)
	if result != nil {
		for _, id := range result.Deleted {
			s.evict(ctx, id)
		}
	}
	return result, err
}

func (s *commodityService) requireCategory(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return common.ValidationError("category_id is required")
	}
	_, err := s.categoryRepo.GetByID(ctx, id)
	return referenceError(err, "category_id", id)
}

func (s *commodityService) requireUnit(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return common.ValidationError("unit_id is required")
	}
	_, err := s.unitRepo.GetByID(ctx, id)
	return referenceError(err, "unit_id", id)
}

func (s *commodityService) ensureNameFree(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.commodityRepo.GetByName(ctx, name)
	if err != nil {
		if common.KindOf(err) == common.KindNotFound {
			return nil
		}
		return err
	}
	if existing.ID != self {
		return common.ConflictError("commodity %q already exists", name)
	}
	return nil
}

func (s *commodityService) evict(ctx context.Context, id uuid.UUID) {
	if err := s.cacheService.DeleteCommodity(ctx, id); err != nil {
		s.log.WithError(err).WithField("id", id).Warn("failed to evict commodity from cache")
	}
}

// referenceError turns a NotFound on a referenced row into a validation failure of field
func referenceError(err error, field string, id uuid.UUID) error {
	if err == nil {
		return nil
	}
	if common.KindOf(err) == common.KindNotFound {
		return common.ValidationError("%s %s does not reference an active row", field, id)
	}
	return err
}
