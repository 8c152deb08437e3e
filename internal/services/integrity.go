package services

import (
	"context"
	"errors"

	"storehouse/internal/common"
	"storehouse/internal/metrics"
	"storehouse/internal/models"
	"storehouse/internal/repositories"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// IntegrityChecker soft-deletes rows of any kind, refusing to orphan active dependents
type IntegrityChecker interface {
	// CheckDelete runs the existence and dependent checks without mutating anything
	CheckDelete(ctx context.Context, kind models.EntityKind, id uuid.UUID) error
	SoftDelete(ctx context.Context, kind models.EntityKind, id uuid.UUID) error
	// SoftDeleteMany stops at the first failing id. Ids deleted before it stay deleted.
	SoftDeleteMany(ctx context.Context, kind models.EntityKind, ids []uuid.UUID) (*models.BulkDeleteResult, error)
}

// deleteRule describes how one kind is looked up, guarded and removed
type deleteRule struct {
	resource      string
	lookup        func(ctx context.Context, id uuid.UUID) error
	hasDependents func(ctx context.Context, id uuid.UUID) (bool, error)
	dependents    string
	remove        func(ctx context.Context, id uuid.UUID) error
}

type integrityChecker struct {
	rules map[models.EntityKind]*deleteRule
	log   *logrus.Logger
}

func NewIntegrityChecker(
	categoryRepo repositories.CategoryRepository,
	unitRepo repositories.UnitRepository,
	commodityRepo repositories.CommodityRepository,
	orderRepo repositories.OrderRepository,
	orderCommodityRepo repositories.OrderCommodityRepository,
	log *logrus.Logger,
) IntegrityChecker {
	rules := map[models.EntityKind]*deleteRule{
		models.KindCategory: {
			resource: "category",
			lookup: func(ctx context.Context, id uuid.UUID) error {
				_, err := categoryRepo.GetByID(ctx, id)
				return err
			},
			hasDependents: commodityRepo.ExistsActiveByCategory,
			dependents:    "commodities",
			remove:        categoryRepo.SoftDelete,
		},
		models.KindUnit: {
			resource: "unit",
			lookup: func(ctx context.Context, id uuid.UUID) error {
				_, err := unitRepo.GetByID(ctx, id)
				return err
			},
			hasDependents: commodityRepo.ExistsActiveByUnit,
			dependents:    "commodities",
			remove:        unitRepo.SoftDelete,
		},
		models.KindCommodity: {
			resource: "commodity",
			lookup: func(ctx context.Context, id uuid.UUID) error {
				_, err := commodityRepo.GetByID(ctx, id)
				return err
			},
			hasDependents: orderCommodityRepo.ExistsActiveByCommodity,
			dependents:    "order_commodities",
			remove:        commodityRepo.SoftDelete,
		},
		models.KindOrder: {
			resource: "order",
			lookup: func(ctx context.Context, id uuid.UUID) error {
				_, err := orderRepo.GetByID(ctx, id)
				return err
			},
			hasDependents: orderCommodityRepo.ExistsActiveByOrder,
			dependents:    "order_commodities",
			remove:        orderRepo.SoftDelete,
		},
		models.KindOrderCommodity: {
			resource: "order commodity",
			lookup: func(ctx context.Context, id uuid.UUID) error {
				_, err := orderCommodityRepo.GetByID(ctx, id)
				return err
			},
			remove: orderCommodityRepo.SoftDelete,
		},
	}
	return &integrityChecker{rules: rules, log: log}
}

func (c *integrityChecker) rule(kind models.EntityKind) (*deleteRule, error) {
	rule, ok := c.rules[kind]
	if !ok {
		return nil, common.ValidationError("unsupported entity kind %q", kind)
	}
	return rule, nil
}

func (c *integrityChecker) CheckDelete(ctx context.Context, kind models.EntityKind, id uuid.UUID) error {
	rule, err := c.rule(kind)
	if err != nil {
		return err
	}
	return c.check(ctx, kind, rule, id)
}

func (c *integrityChecker) check(ctx context.Context, kind models.EntityKind, rule *deleteRule, id uuid.UUID) error {
	if err := rule.lookup(ctx, id); err != nil {
		c.reject(kind, id, err)
		return err
	}
	if rule.hasDependents == nil {
		return nil
	}

	referenced, err := rule.hasDependents(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		err := common.ConflictError("%s is still referenced by active %s, cannot delete", rule.resource, rule.dependents)
		c.reject(kind, id, err)
		return err
	}
	return nil
}

func (c *integrityChecker) SoftDelete(ctx context.Context, kind models.EntityKind, id uuid.UUID) error {
	rule, err := c.rule(kind)
	if err != nil {
		return err
	}
	if err := c.check(ctx, kind, rule, id); err != nil {
		return err
	}

	// the store re-applies the guard on write and may still refuse
	if err := rule.remove(ctx, id); err != nil {
		c.reject(kind, id, err)
		return err
	}

	c.log.WithFields(logrus.Fields{"kind": kind, "id": id}).Info("soft deleted")
	return nil
}

func (c *integrityChecker) SoftDeleteMany(ctx context.Context, kind models.EntityKind, ids []uuid.UUID) (*models.BulkDeleteResult, error) {
	if _, err := c.rule(kind); err != nil {
		return nil, err
	}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, common.ValidationError("ids must not be empty")
	}

	result := &models.BulkDeleteResult{Deleted: []uuid.UUID{}, Skipped: []uuid.UUID{}}
	for i, id := range ids {
		if err := c.SoftDelete(ctx, kind, id); err != nil {
			result.Failed = &models.BulkDeleteFailure{
				ID:      id,
				Kind:    common.KindOf(err).String(),
				Message: clientMessage(err),
			}
			result.Skipped = append(result.Skipped, ids[i+1:]...)

			c.log.WithFields(logrus.Fields{
				"kind":    kind,
				"failed":  id,
				"deleted": len(result.Deleted),
				"skipped": len(result.Skipped),
			}).Warn("bulk soft delete stopped")
			return result, err
		}
		result.Deleted = append(result.Deleted, id)
	}
	return result, nil
}

func (c *integrityChecker) reject(kind models.EntityKind, id uuid.UUID, err error) {
	var reason string
	switch common.KindOf(err) {
	case common.KindNotFound:
		reason = "not_found"
	case common.KindConflict:
		reason = "referenced"
	default:
		return
	}
	metrics.SoftDeleteRejections.WithLabelValues(string(kind), reason).Inc()
	c.log.WithFields(logrus.Fields{"kind": kind, "id": id, "reason": reason}).Info("soft delete rejected")
}

// uniqueIDs keeps the first occurrence of every id, in order
func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// clientMessage drops storage causes, which are not for clients
func clientMessage(err error) string {
	var domainErr *common.Error
	if errors.As(err, &domainErr) {
		return domainErr.Message()
	}
	return "internal error"
}
