package services

import (
	"context"

	"storehouse/internal/caching"
	"storehouse/internal/common"
	"storehouse/internal/metrics"
	"storehouse/internal/models"
	"storehouse/internal/repositories"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type CategoryService interface {
	List(ctx context.Context, limit, offset int) ([]*models.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, id uuid.UUID, patch *models.CategoryPatch) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) (*models.BulkDeleteResult, error)
}

type categoryService struct {
	categoryRepo repositories.CategoryRepository
	integrity    IntegrityChecker
	cacheService caching.CacheService
	log          *logrus.Logger
}

func NewCategoryService(categoryRepo repositories.CategoryRepository, integrity IntegrityChecker, cacheService caching.CacheService, log *logrus.Logger) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		integrity:    integrity,
		cacheService: cacheService,
		log:          log,
	}
}

func (s *categoryService) List(ctx context.Context, limit, offset int) ([]*models.Category, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.categoryRepo.List(ctx, limit, offset)
}

func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	cached, err := s.cacheService.GetCategory(ctx, id)
	recordCacheLookup(s.log, "category", id, cached != nil, err)
	if cached != nil {
		return cached, nil
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cacheService.SetCategory(ctx, category); err != nil {
		s.log.WithError(err).WithField("id", id).Warn("failed to cache category")
	}
	return category, nil
}

func (s *categoryService) Create(ctx context.Context, category *models.Category) error {
	name, err := common.ValidateRequiredString(category.Name, "name")
	if err != nil {
		return err
	}
	if err := s.ensureNameFree(ctx, name, uuid.Nil); err != nil {
		return err
	}

	category.ID = uuid.New()
	category.Name = name
	return s.categoryRepo.Create(ctx, category)
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, patch *models.CategoryPatch) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name, err := common.ValidateRequiredString(*patch.Name, "name")
		if err != nil {
			return nil, err
		}
		if name != category.Name {
			if err := s.ensureNameFree(ctx, name, id); err != nil {
				return nil, err
			}
		}
		category.Name = name
	}
	if patch.Description != nil {
		category.Description = *patch.Description
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	s.evict(ctx, id)
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.integrity.SoftDelete(ctx, models.KindCategory, id); err != nil {
		return err
	}
	s.evict(ctx, id)
	return nil
}

func (s *categoryService) DeleteMany(ctx context.Context, ids []uuid.UUID) (*models.BulkDeleteResult, error) {
	result, err := s.integrity.SoftDeleteMany(ctx, models.KindCategory, ids)
	if result != nil {
		for _, id := range result.Deleted {
			s.evict(ctx, id)
		}
	}
	return result, err
}

// ensureNameFree fails with Conflict when another active category holds name
func (s *categoryService) ensureNameFree(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.categoryRepo.GetByName(ctx, name)
	if err != nil {
		if common.KindOf(err) == common.KindNotFound {
			return nil
		}
		return err
	}
	if existing.ID != self {
		return common.ConflictError("category %q already exists", name)
	}
	return nil
}

func (s *categoryService) evict(ctx context.Context, id uuid.UUID) {
	if err := s.cacheService.DeleteCategory(ctx, id); err != nil {
		s.log.WithError(err).WithField("id", id).Warn("failed to evict category from cache")
	}
}

// recordCacheLookup counts a read-cache lookup. Cache failures never fail a read.
func recordCacheLookup(log *logrus.Logger, resource string, id uuid.UUID, hit bool, err error) {
	switch {
	case err != nil:
		metrics.CacheLookups.WithLabelValues(resource, "error").Inc()
		log.WithError(err).WithFields(logrus.Fields{"resource": resource, "id": id}).Warn("cache lookup failed")
	case hit:
		metrics.CacheLookups.WithLabelValues(resource, "hit").Inc()
	default:
		metrics.CacheLookups.WithLabelValues(resource, "miss").Inc()
	}
}
