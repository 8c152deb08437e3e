package services

import (
	"context"
	"math"
	"sort"

	"storehouse/internal/common"
	"storehouse/internal/models"
	"storehouse/internal/repositories"

	"github.com/google/uuid"
)

// AggregationService joins an order's lines to their commodity, category and
// unit and computes line, category and order totals.
type AggregationService interface {
	// AggregateOrderLines does not check that the order exists; an unknown
	// order yields an empty slice.
	AggregateOrderLines(ctx context.Context, orderID uuid.UUID) ([]*models.EnrichedOrderLine, error)
}

type aggregationService struct {
	orderCommodityRepo repositories.OrderCommodityRepository
	commodityRepo      repositories.CommodityRepository
	categoryRepo       repositories.CategoryRepository
	unitRepo           repositories.UnitRepository
}

func NewAggregationService(
	orderCommodityRepo repositories.OrderCommodityRepository,
	commodityRepo repositories.CommodityRepository,
	categoryRepo repositories.CategoryRepository,
	unitRepo repositories.UnitRepository,
) AggregationService {
	return &aggregationService{
		orderCommodityRepo: orderCommodityRepo,
		commodityRepo:      commodityRepo,
		categoryRepo:       categoryRepo,
		unitRepo:           unitRepo,
	}
}

func (s *aggregationService) AggregateOrderLines(ctx context.Context, orderID uuid.UUID) ([]*models.EnrichedOrderLine, error) {
	lines, err := s.orderCommodityRepo.ListActiveByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return []*models.EnrichedOrderLine{}, nil
	}

	commodityIDs := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		commodityIDs = append(commodityIDs, line.CommodityID)
	}
	commodities, err := s.commodityRepo.ListByIDs(ctx, uniqueIDs(commodityIDs))
	if err != nil {
		return nil, err
	}

	categoryIDs := make([]uuid.UUID, 0, len(commodities))
	unitIDs := make([]uuid.UUID, 0, len(commodities))
	for _, commodity := range commodities {
		categoryIDs = append(categoryIDs, commodity.CategoryID)
		unitIDs = append(unitIDs, commodity.UnitID)
	}
	categories, err := s.categoryRepo.ListByIDs(ctx, uniqueIDs(categoryIDs))
	if err != nil {
		return nil, err
	}
	units, err := s.unitRepo.ListByIDs(ctx, uniqueIDs(unitIDs))
	if err != nil {
		return nil, err
	}

	return BuildOrderLines(lines, commodities, categories, units), nil
}

// BuildOrderLines is the pure half of the aggregation. lines must be the
// order's active lines in creation order; the reference slices may hold
// deleted rows, which still join. A line whose commodity, category or unit is
// missing is dropped and contributes to no total.
func BuildOrderLines(
	lines []*models.OrderCommodity,
	commodities []*models.Commodity,
	categories []*models.Category,
	units []*models.Unit,
) []*models.EnrichedOrderLine {
	commodityByID := make(map[uuid.UUID]*models.Commodity, len(commodities))
	for _, c := range commodities {
		commodityByID[c.ID] = c
	}
	categoryByID := make(map[uuid.UUID]*models.Category, len(categories))
	for _, c := range categories {
		categoryByID[c.ID] = c
	}
	unitByID := make(map[uuid.UUID]*models.Unit, len(units))
	for _, u := range units {
		unitByID[u.ID] = u
	}

	enriched := make([]*models.EnrichedOrderLine, 0, len(lines))
	categoryTotals := make(map[uuid.UUID]int64)
	var orderTotal int64

	for _, line := range lines {
		commodity, ok := commodityByID[line.CommodityID]
		if !ok {
			continue
		}
		category, ok := categoryByID[commodity.CategoryID]
		if !ok {
			continue
		}
		unit, ok := unitByID[commodity.UnitID]
		if !ok {
			continue
		}

		origin := lineAmount(line.Count, line.Price)
		lineTotal := int64(math.Round(origin))
		categoryTotals[category.ID] = addCapped(categoryTotals[category.ID], lineTotal)
		orderTotal = addCapped(orderTotal, lineTotal)

		enriched = append(enriched, &models.EnrichedOrderLine{
			ID:          line.ID,
			OrderID:     line.OrderID,
			Count:       line.Count,
			Price:       line.Price,
			Description: line.Description,
			Commodity: models.RefSummary{
				ID: commodity.ID, Name: commodity.Name, Description: commodity.Description, Deleted: commodity.Deleted,
			},
			Category: models.RefSummary{
				ID: category.ID, Name: category.Name, Description: category.Description, Deleted: category.Deleted,
			},
			Unit: models.RefSummary{
				ID: unit.ID, Name: unit.Name, Description: unit.Description, Deleted: unit.Deleted,
			},
			LineTotal:   lineTotal,
			OriginTotal: origin,
			CreatedAt:   line.CreatedAt,
			UpdatedAt:   line.UpdatedAt,
		})
	}

	for _, line := range enriched {
		line.CategoryTotal = categoryTotals[line.Category.ID]
		line.OrderTotal = orderTotal
	}

	sort.SliceStable(enriched, func(i, j int) bool {
		return enriched[i].Category.Name < enriched[j].Category.Name
	})
	return enriched
}

// lineAmount clamps count * price into [0, common.MaxAmount]. Rows written
// before the amount bound existed can still hold larger values.
func lineAmount(count, price float64) float64 {
	amount := price * count
	switch {
	case math.IsNaN(amount) || amount < 0:
		return 0
	case amount > common.MaxAmount:
		return common.MaxAmount
	}
	return amount
}

func addCapped(total, amount int64) int64 {
	if amount > math.MaxInt64-total {
		return math.MaxInt64
	}
	return total + amount
}
