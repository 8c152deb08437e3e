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

type UnitService interface {
	List(ctx context.Context, limit, offset int) ([]*models.Unit, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Unit, error)
	Create(ctx context.Context, unit *models.Unit) error
	Update(ctx context.Context, id uuid.UUID, patch *models.UnitPatch) (*models.Unit, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) (*models.BulkDeleteResult, error)
}

type unitService struct {
	unitRepo     repositories.UnitRepository
	integrity    IntegrityChecker
	cacheService caching.CacheService
	log          *logrus.Logger
}

func NewUnitService(unitRepo repositories.UnitRepository, integrity IntegrityChecker, cacheService caching.CacheService, log *logrus.Logger) UnitService {
	return &unitService{
		unitRepo:     unitRepo,
		integrity:    integrity,
		cacheService: cacheService,
		log:          log,
	}
}

func (s *unitService) List(ctx context.Context, limit, offset int) ([]*models.Unit, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.unitRepo.List(ctx, limit, offset)
}

func (s *unitService) GetByID(ctx context.Context, id uuid.UUID) (*models.Unit, error) {
	cached, err := s.cacheService.GetUnit(ctx, id)
	recordCacheLookup(s.log, "unit", id, cached != nil, err)
	if cached != nil {
		return cached, nil
	}

	unit, err := s.unitRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cacheService.SetUnit(ctx, unit); err != nil {
		s.log.WithError(err).WithField("id", id).Warn("failed to cache unit")
	}
	return unit, nil
}

func (s *unitService) Create(ctx context.Context, unit *models.Unit) error {
	name, err := common.ValidateRequiredString(unit.Name, "name")
	if err != nil {
		return err
	}
	if err := s.ensureNameFree(ctx, name, uuid.Nil); err != nil {
		return err
	}

	unit.ID = uuid.New()
	unit.Name = name
	return s.unitRepo.Create(ctx, unit)
}

func (s *unitService) Update(ctx context.Context, id uuid.UUID, patch *models.UnitPatch) (*models.Unit, error) {
	unit, err := s.unitRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name, err := common.ValidateRequiredString(*patch.Name, "name")
		if err != nil {
			return nil, err
		}
		if name != unit.Name {
			if err := s.ensureNameFree(ctx, name, id); err != nil {
				return nil, err
			}
		}
		unit.Name = name
	}
	if patch.Description != nil {
		unit.Description = *patch.Description
	}

	if err := s.unitRepo.Update(ctx, unit); err != nil {
		return nil, err
	}
	s.evict(ctx, id)
	return unit, nil
}

func (s *unitService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.integrity.SoftDelete(ctx, models.KindUnit, id); err != nil {
		return err
	}
	s.evict(ctx, id)
	return nil
}

func (s *unitService) DeleteMany(ctx context.Context, ids []uuid.UUID) (*models.BulkDeleteResult, error) {
	result, err := s.integrity.SoftDeleteMany(ctx, models.KindUnit, ids)
	if result != nil {
		for _, id := range result.Deleted {
			s.evict(ctx, id)
		}
	}
	return result, err
}

func (s *unitService) ensureNameFree(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.unitRepo.GetByName(ctx, name)
	if err != nil {
		if common.KindOf(err) == common.KindNotFound {
			return nil
		}
		return err
	}
	if existing.ID != self {
		return common.ConflictError("unit %q already exists", name)
	}
	return nil
}

func (s *unitService) evict(ctx context.Context, id uuid.UUID) {
	if err := s.cacheService.DeleteUnit(ctx, id); err != nil {
		s.log.WithError(err).WithField("id", id).Warn("failed to evict unit from cache")
	}
}
