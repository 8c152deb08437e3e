package services

import (
	"context"
	"time"

	"storehouse/internal/metrics"
	"storehouse/internal/models"
	"storehouse/internal/repositories"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const auditPageSize = 500

// ReferenceAuditService finds active rows pointing at soft-deleted rows.
// Deletes are guarded, so a non-zero count means data was changed outside
// the service or a delete raced on the MongoDB store.
type ReferenceAuditService interface {
	Audit(ctx context.Context) (*models.ReferenceAudit, error)
}

type referenceAuditService struct {
	categoryRepo       repositories.CategoryRepository
	unitRepo           repositories.UnitRepository
	commodityRepo      repositories.CommodityRepository
	orderRepo          repositories.OrderRepository
	orderCommodityRepo repositories.OrderCommodityRepository
	log                *logrus.Logger
}

func NewReferenceAuditService(
	categoryRepo repositories.CategoryRepository,
	unitRepo repositories.UnitRepository,
	commodityRepo repositories.CommodityRepository,
	orderRepo repositories.OrderRepository,
	orderCommodityRepo repositories.OrderCommodityRepository,
	log *logrus.Logger,
) ReferenceAuditService {
	return &referenceAuditService{
		categoryRepo:       categoryRepo,
		unitRepo:           unitRepo,
		commodityRepo:      commodityRepo,
		orderRepo:          orderRepo,
		orderCommodityRepo: orderCommodityRepo,
		log:                log,
	}
}

func (s *referenceAuditService) Audit(ctx context.Context) (*models.ReferenceAudit, error) {
	audit := &models.ReferenceAudit{}

	if err := s.auditCommodities(ctx, audit); err != nil {
		return nil, err
	}
	if err := s.auditOrderLines(ctx, audit); err != nil {
		return nil, err
	}
	audit.CheckedAt = time.Now().UTC()

	metrics.StaleReferences.WithLabelValues("commodity_category").Set(float64(audit.CommoditiesWithDeletedCategory))
	metrics.StaleReferences.WithLabelValues("commodity_unit").Set(float64(audit.CommoditiesWithDeletedUnit))
	metrics.StaleReferences.WithLabelValues("line_order").Set(float64(audit.LinesWithDeletedOrder))
	metrics.StaleReferences.WithLabelValues("line_commodity").Set(float64(audit.LinesWithDeletedCommodity))

	if audit.Total() > 0 {
		s.log.WithFields(logrus.Fields{
			"commodity_category": audit.CommoditiesWithDeletedCategory,
			"commodity_unit":     audit.CommoditiesWithDeletedUnit,
			"line_order":         audit.LinesWithDeletedOrder,
			"line_commodity":     audit.LinesWithDeletedCommodity,
		}).Warn("stale references found")
	}
	return audit, nil
}

func (s *referenceAuditService) auditCommodities(ctx context.Context, audit *models.ReferenceAudit) error {
	for offset := 0; ; offset += auditPageSize {
		commodities, err := s.commodityRepo.List(ctx, &models.CommodityFilter{Limit: auditPageSize, Offset: offset})
		if err != nil {
			return err
		}

		categoryIDs := make([]uuid.UUID, 0, len(commodities))
		unitIDs := make([]uuid.UUID, 0, len(commodities))
		for _, c := range commodities {
			categoryIDs = append(categoryIDs, c.CategoryID)
			unitIDs = append(unitIDs, c.UnitID)
		}
		categories, err := s.categoryRepo.ListByIDs(ctx, uniqueIDs(categoryIDs))
		if err != nil {
			return err
		}
		units, err := s.unitRepo.ListByIDs(ctx, uniqueIDs(unitIDs))
		if err != nil {
			return err
		}

		deletedCategories := map[uuid.UUID]bool{}
		for _, c := range categories {
			deletedCategories[c.ID] = c.Deleted
		}
		deletedUnits := map[uuid.UUID]bool{}
		for _, u := range units {
			deletedUnits[u.ID] = u.Deleted
		}
		for _, c := range commodities {
			if deletedCategories[c.CategoryID] {
				audit.CommoditiesWithDeletedCategory++
			}
			if deletedUnits[c.UnitID] {
				audit.CommoditiesWithDeletedUnit++
			}
		}

		if len(commodities) < auditPageSize {
			return nil
		}
	}
}

func (s *referenceAuditService) auditOrderLines(ctx context.Context, audit *models.ReferenceAudit) error {
	for offset := 0; ; offset += auditPageSize {
		lines, err := s.orderCommodityRepo.List(ctx, &models.OrderCommodityFilter{Limit: auditPageSize, Offset: offset})
		if err != nil {
			return err
		}

		orderIDs := make([]uuid.UUID, 0, len(lines))
		commodityIDs := make([]uuid.UUID, 0, len(lines))
		for _, line := range lines {
			orderIDs = append(orderIDs, line.OrderID)
			commodityIDs = append(commodityIDs, line.CommodityID)
		}
		orders, err := s.orderRepo.ListByIDs(ctx, uniqueIDs(orderIDs))
		if err != nil {
			return err
		}
		commodities, err := s.commodityRepo.ListByIDs(ctx, uniqueIDs(commodityIDs))
		if err != nil {
			return err
		}

		deletedOrders := map[uuid.UUID]bool{}
		for _, o := range orders {
			deletedOrders[o.ID] = o.Deleted
		}
		deletedCommodities := map[uuid.UUID]bool{}
		for _, c := range commodities {
			deletedCommodities[c.ID] = c.Deleted
		}
		for _, line := range lines {
			if deletedOrders[line.OrderID] {
				audit.LinesWithDeletedOrder++
			}
			if deletedCommodities[line.CommodityID] {
				audit.LinesWithDeletedCommodity++
			}
		}

		if len(lines) < auditPageSize {
			return nil
		}
	}
}
