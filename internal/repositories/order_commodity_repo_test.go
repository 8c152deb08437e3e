package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"storehouse/internal/common"
	"storehouse/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

var (
	commodityRowColumns = []string{"id", "name", "description", "price", "category_id", "unit_id",
		"created_at", "updated_at", "deleted"}
	orderCommodityRowColumns = []string{"id", "order_id", "commodity_id", "count", "price", "description",
		"created_at", "updated_at", "deleted"}
)

type OrderLineRepoTestSuite struct {
	suite.Suite
	mock        pgxmock.PgxPoolIface
	commodities CommodityRepository
	lines       OrderCommodityRepository
	orders      OrderRepository
	units       UnitRepository
	orderID     uuid.UUID
	commodityID uuid.UUID
	categoryID  uuid.UUID
	unitID      uuid.UUID
	context     context.Context
}

func (suite *OrderLineRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.commodities = NewCommodityRepository(mock)
	suite.lines = NewOrderCommodityRepository(mock)
	suite.orders = NewOrderRepository(mock)
	suite.units = NewUnitRepository(mock)
	suite.orderID = uuid.New()
	suite.commodityID = uuid.New()
	suite.categoryID = uuid.New()
	suite.unitID = uuid.New()
	suite.context = context.Background()
}

func (suite *OrderLineRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestOrderLineRepoTestSuite(t *testing.T) {
	suite.Run(t, new(OrderLineRepoTestSuite))
}

func (suite *OrderLineRepoTestSuite) TestCommodityList_AllFilters() {
	now := time.Now()
	filter := &models.CommodityFilter{
		CategoryID: &suite.categoryID,
		UnitID:     &suite.unitID,
		Name:       "10%_mix",
		Limit:      20,
		Offset:     40,
	}

	suite.mock.ExpectQuery(`AND category_id = \$1 AND unit_id = \$2 AND name ILIKE \$3 ORDER BY created_at ASC, id ASC LIMIT \$4 OFFSET \$5`).
		WithArgs(suite.categoryID, suite.unitID, `%10\%\_mix%`, 20, 40).
		WillReturnRows(pgxmock.NewRows(commodityRowColumns).
			AddRow(suite.commodityID, "10%_mix", "", 12.5, suite.categoryID, suite.unitID, now, now, false))

	commodities, err := suite.commodities.List(suite.context, filter)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), commodities, 1)
	assert.Equal(suite.T(), 12.5, commodities[0].Price)
	assert.Equal(suite.T(), suite.unitID, commodities[0].UnitID)
}

func (suite *OrderLineRepoTestSuite) TestCommodityList_NoFilters() {
	suite.mock.ExpectQuery(`WHERE deleted = FALSE ORDER BY created_at ASC, id ASC LIMIT \$1 OFFSET \$2`).
		WithArgs(50, 0).
		WillReturnRows(pgxmock.NewRows(commodityRowColumns))

	commodities, err := suite.commodities.List(suite.context, &models.CommodityFilter{Limit: 50})
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), commodities)
	assert.Empty(suite.T(), commodities)
}

func (suite *OrderLineRepoTestSuite) TestCommodityExistsActiveByUnit() {
	suite.mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM commodities WHERE unit_id = \$1 AND deleted = FALSE\)`).
		WithArgs(suite.unitID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := suite.commodities.ExistsActiveByUnit(suite.context, suite.unitID)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), exists)
}

func (suite *OrderLineRepoTestSuite) TestCommoditySoftDelete_GuardedByOrderLines() {
	suite.mock.ExpectExec(`AND NOT EXISTS \(SELECT 1 FROM order_commodities WHERE commodity_id = \$1 AND deleted = FALSE\)`).
		WithArgs(suite.commodityID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	suite.mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM commodities WHERE id = \$1`).
		WithArgs(suite.commodityID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	err := suite.commodities.SoftDelete(suite.context, suite.commodityID)
	assert.True(suite.T(), errors.Is(err, common.ErrConflict))
}

func (suite *OrderLineRepoTestSuite) TestUnitSoftDelete_Success() {
	suite.mock.ExpectExec(`UPDATE units SET deleted = TRUE`).
		WithArgs(suite.unitID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(suite.T(), suite.units.SoftDelete(suite.context, suite.unitID))
}

func (suite *OrderLineRepoTestSuite) TestOrderSoftDelete_StillHasLines() {
	suite.mock.ExpectExec(`UPDATE orders SET deleted = TRUE`).
		WithArgs(suite.orderID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	suite.mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(suite.orderID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	err := suite.orders.SoftDelete(suite.context, suite.orderID)
	assert.True(suite.T(), errors.Is(err, common.ErrConflict))
	assert.Equal(suite.T(), "order is still referenced by active order_commodities, cannot delete", err.Error())
}

func (suite *OrderLineRepoTestSuite) TestListActiveByOrder() {
	first, second := uuid.New(), uuid.New()
	earlier := time.Now().Add(-time.Hour)
	later := time.Now()

	suite.mock.ExpectQuery(`WHERE order_id = \$1 AND deleted = FALSE`).
		WithArgs(suite.orderID).
		WillReturnRows(pgxmock.NewRows(orderCommodityRowColumns).
			AddRow(first, suite.orderID, suite.commodityID, 2.0, 3.5, "", earlier, earlier, false).
			AddRow(second, suite.orderID, suite.commodityID, 1.0, 10.0, "bulk", later, later, false))

	lines, err := suite.lines.ListActiveByOrder(suite.context, suite.orderID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), lines, 2)
	assert.Equal(suite.T(), first, lines[0].ID)
	assert.Equal(suite.T(), 3.5, lines[0].Price)
	assert.Equal(suite.T(), "bulk", lines[1].Description)
}

func (suite *OrderLineRepoTestSuite) TestOrderCommodityList_ByCommodity() {
	filter := &models.OrderCommodityFilter{CommodityID: &suite.commodityID, Limit: 10}

	suite.mock.ExpectQuery(`AND commodity_id = \$1 ORDER BY created_at ASC, id ASC LIMIT \$2 OFFSET \$3`).
		WithArgs(suite.commodityID, 10, 0).
		WillReturnRows(pgxmock.NewRows(orderCommodityRowColumns))

	lines, err := suite.lines.List(suite.context, filter)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), lines)
}

func (suite *OrderLineRepoTestSuite) TestOrderCommoditySoftDelete_Unguarded() {
	lineID := uuid.New()
	suite.mock.ExpectExec(`UPDATE order_commodities SET deleted = TRUE`).
		WithArgs(lineID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(suite.T(), suite.lines.SoftDelete(suite.context, lineID))
}

func (suite *OrderLineRepoTestSuite) TestOrderCommoditySoftDelete_Missing() {
	lineID := uuid.New()
	suite.mock.ExpectExec(`UPDATE order_commodities SET deleted = TRUE`).
		WithArgs(lineID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	suite.mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(lineID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	err := suite.lines.SoftDelete(suite.context, lineID)
	assert.True(suite.T(), errors.Is(err, common.ErrNotFound))
	assert.Equal(suite.T(), "order commodity not found", err.Error())
}
