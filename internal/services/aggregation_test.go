package services

import (
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"

	"storehouse/internal/common"
	"storehouse/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	orderID    uuid.UUID
	fruit      *models.Category
	grain      *models.Category
	kg         *models.Unit
	apple      *models.Commodity
	wheat      *models.Commodity
	rice       *models.Commodity
	categories []*models.Category
	units      []*models.Unit
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{orderID: uuid.New()}
	f.fruit = &models.Category{ID: uuid.New(), Name: "fruit"}
	f.grain = &models.Category{ID: uuid.New(), Name: "grain"}
	f.kg = &models.Unit{ID: uuid.New(), Name: "kg"}
	f.apple = &models.Commodity{ID: uuid.New(), Name: "apple", CategoryID: f.fruit.ID, UnitID: f.kg.ID}
	f.wheat = &models.Commodity{ID: uuid.New(), Name: "wheat", CategoryID: f.grain.ID, UnitID: f.kg.ID}
	f.rice = &models.Commodity{ID: uuid.New(), Name: "rice", CategoryID: f.grain.ID, UnitID: f.kg.ID}
	f.categories = []*models.Category{f.grain, f.fruit}
	f.units = []*models.Unit{f.kg}
	return f
}

func (f *orderFixture) line(commodity *models.Commodity, count, price float64, offset time.Duration) *models.OrderCommodity {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(offset)
	return &models.OrderCommodity{
		ID:          uuid.New(),
		OrderID:     f.orderID,
		CommodityID: commodity.ID,
		Count:       count,
		Price:       price,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
}

func TestBuildOrderLines_TotalsAndOrdering(t *testing.T) {
	f := newOrderFixture()
	wheatLine := f.line(f.wheat, 2, 1.25, 0)          // 2.5 -> 3
	appleLine := f.line(f.apple, 3, 0.5, time.Minute)  // 1.5 -> 2
	riceLine := f.line(f.rice, 1, 10.4, 2*time.Minute) // 10.4 -> 10

	out := BuildOrderLines(
		[]*models.OrderCommodity{wheatLine, appleLine, riceLine},
		[]*models.Commodity{f.apple, f.wheat, f.rice},
		f.categories, f.units,
	)

	require.Len(t, out, 3)
	assert.Equal(t, appleLine.ID, out[0].ID)
	assert.Equal(t, wheatLine.ID, out[1].ID)
	assert.Equal(t, riceLine.ID, out[2].ID)

	assert.Equal(t, int64(2), out[0].LineTotal)
	assert.Equal(t, 1.5, out[0].OriginTotal)
	assert.Equal(t, int64(2), out[0].CategoryTotal)

	assert.Equal(t, int64(3), out[1].LineTotal)
	assert.Equal(t, 2.5, out[1].OriginTotal)
	assert.Equal(t, int64(13), out[1].CategoryTotal)
	assert.Equal(t, int64(13), out[2].CategoryTotal)

	for _, line := range out {
		assert.Equal(t, int64(15), line.OrderTotal)
		assert.Equal(t, f.orderID, line.OrderID)
	}
	assert.Equal(t, "kg", out[0].Unit.Name)
	assert.Equal(t, "apple", out[0].Commodity.Name)
}

func TestBuildOrderLines_RoundsHalfAwayFromZero(t *testing.T) {
	f := newOrderFixture()
	out := BuildOrderLines(
		[]*models.OrderCommodity{f.line(f.wheat, 1, 0.5, 0)},
		[]*models.Commodity{f.wheat}, f.categories, f.units,
	)
	require.Len(t, out, 1)
	assert.Equal(t, int64(1), out[0].LineTotal)
}

func TestBuildOrderLines_DeletedReferencesStillJoin(t *testing.T) {
	f := newOrderFixture()
	f.apple.Deleted = true
	f.fruit.Deleted = true

	out := BuildOrderLines(
		[]*models.OrderCommodity{f.line(f.apple, 4, 2, 0)},
		[]*models.Commodity{f.apple}, f.categories, f.units,
	)
	require.Len(t, out, 1)
	assert.True(t, out[0].Commodity.Deleted)
	assert.True(t, out[0].Category.Deleted)
	assert.Equal(t, int64(8), out[0].OrderTotal)
}

func TestBuildOrderLines_DropsUnresolvedLines(t *testing.T) {
	f := newOrderFixture()
	ghost := &models.Commodity{ID: uuid.New(), Name: "ghost", CategoryID: f.grain.ID, UnitID: f.kg.ID}
	orphanCategory := &models.Commodity{ID: uuid.New(), Name: "orphan", CategoryID: uuid.New(), UnitID: f.kg.ID}

	out := BuildOrderLines(
		[]*models.OrderCommodity{
			f.line(f.wheat, 1, 5, 0),
			f.line(ghost, 100, 100, time.Minute),
			f.line(orphanCategory, 100, 100, 2*time.Minute),
		},
		[]*models.Commodity{f.wheat, orphanCategory}, f.categories, f.units,
	)
	require.Len(t, out, 1)
	assert.Equal(t, int64(5), out[0].OrderTotal)
	assert.Equal(t, int64(5), out[0].CategoryTotal)
}

func TestBuildOrderLines_StableWithinCategory(t *testing.T) {
	f := newOrderFixture()
	first := f.line(f.wheat, 1, 1, 0)
	second := f.line(f.rice, 1, 1, time.Minute)
	third := f.line(f.wheat, 1, 1, 2*time.Minute)

	out := BuildOrderLines(
		[]*models.OrderCommodity{first, second, third},
		[]*models.Commodity{f.wheat, f.rice}, f.categories, f.units,
	)
	require.Len(t, out, 3)
	assert.Equal(t, []uuid.UUID{first.ID, second.ID, third.ID}, []uuid.UUID{out[0].ID, out[1].ID, out[2].ID})
}

func TestBuildOrderLines_AmountBoundary(t *testing.T) {
	f := newOrderFixture()
	out := BuildOrderLines(
		[]*models.OrderCommodity{f.line(f.wheat, 1<<26, 1<<27, 0)},
		[]*models.Commodity{f.wheat}, f.categories, f.units,
	)
	require.Len(t, out, 1)
	assert.Equal(t, int64(common.MaxAmount), out[0].LineTotal)
	assert.Equal(t, float64(common.MaxAmount), out[0].OriginTotal)
	assert.Equal(t, int64(common.MaxAmount), out[0].OrderTotal)
}

func TestBuildOrderLines_OversizedStoredLinesAreCapped(t *testing.T) {
	f := newOrderFixture()
	huge := f.line(f.wheat, 1e200, 1e200, 0)
	large := f.line(f.rice, 1e10, 1e10, time.Minute)
	apple := f.line(f.apple, 2, 3, 2*time.Minute)

	out := BuildOrderLines(
		[]*models.OrderCommodity{huge, large, apple},
		[]*models.Commodity{f.wheat, f.rice, f.apple}, f.categories, f.units,
	)
	require.Len(t, out, 3)
	for _, line := range out {
		assert.GreaterOrEqual(t, line.LineTotal, int64(0))
		assert.LessOrEqual(t, line.OriginTotal, float64(common.MaxAmount))
		assert.Equal(t, int64(2*common.MaxAmount+6), line.OrderTotal)
	}
	assert.Equal(t, int64(6), out[0].CategoryTotal)
	assert.Equal(t, int64(2*common.MaxAmount), out[1].CategoryTotal)

	_, err := json.Marshal(out)
	assert.NoError(t, err)
}

func TestAddCapped(t *testing.T) {
	assert.Equal(t, int64(5), addCapped(2, 3))
	assert.Equal(t, int64(math.MaxInt64), addCapped(math.MaxInt64-1, 2))
}

func TestBuildOrderLines_Empty(t *testing.T) {
	out := BuildOrderLines(nil, nil, nil, nil)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestAggregateOrderLines_FetchesReferences(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	lines := []*models.OrderCommodity{f.line(f.wheat, 2, 3, 0), f.line(f.wheat, 1, 1, time.Minute)}

	lineRepo := &MockOrderCommodityRepository{}
	commodityRepo := &MockCommodityRepository{}
	categoryRepo := &MockCategoryRepository{}
	unitRepo := &MockUnitRepository{}

	lineRepo.On("ListActiveByOrder", ctx, f.orderID).Return(lines, nil)
	commodityRepo.On("ListByIDs", ctx, []uuid.UUID{f.wheat.ID}).Return([]*models.Commodity{f.wheat}, nil)
	categoryRepo.On("ListByIDs", ctx, []uuid.UUID{f.grain.ID}).Return([]*models.Category{f.grain}, nil)
	unitRepo.On("ListByIDs", ctx, []uuid.UUID{f.kg.ID}).Return([]*models.Unit{f.kg}, nil)

	svc := NewAggregationService(lineRepo, commodityRepo, categoryRepo, unitRepo)
	out, err := svc.AggregateOrderLines(ctx, f.orderID)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, int64(7), out[0].OrderTotal)

	lineRepo.AssertExpectations(t)
	commodityRepo.AssertExpectations(t)
	categoryRepo.AssertExpectations(t)
	unitRepo.AssertExpectations(t)
}

func TestAggregateOrderLines_UnknownOrder(t *testing.T) {
	ctx := context.Background()
	lineRepo := &MockOrderCommodityRepository{}
	commodityRepo := &MockCommodityRepository{}
	lineRepo.On("ListActiveByOrder", ctx, mock.Anything).Return([]*models.OrderCommodity{}, nil)

	svc := NewAggregationService(lineRepo, commodityRepo, &MockCategoryRepository{}, &MockUnitRepository{})
	out, err := svc.AggregateOrderLines(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, out)
	commodityRepo.AssertNotCalled(t, "ListByIDs", mock.Anything, mock.Anything)
}
