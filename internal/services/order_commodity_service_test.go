package services

import (
	"context"
	"errors"
	"testing"

	"storehouse/internal/common"
	"storehouse/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type OrderCommodityServiceTestSuite struct {
	suite.Suite
	lineRepo      *MockOrderCommodityRepository
	orderRepo     *MockOrderRepository
	commodityRepo *MockCommodityRepository
	integrity     *MockIntegrityChecker
	service       OrderCommodityService
	ctx           context.Context
}

func (suite *OrderCommodityServiceTestSuite) SetupTest() {
	suite.lineRepo = &MockOrderCommodityRepository{}
	suite.orderRepo = &MockOrderRepository{}
	suite.commodityRepo = &MockCommodityRepository{}
	suite.integrity = &MockIntegrityChecker{}
	suite.service = NewOrderCommodityService(suite.lineRepo, suite.orderRepo, suite.commodityRepo, suite.integrity, newTestLogger())
	suite.ctx = context.Background()
}

func (suite *OrderCommodityServiceTestSuite) TearDownTest() {
	suite.lineRepo.AssertExpectations(suite.T())
	suite.orderRepo.AssertExpectations(suite.T())
	suite.commodityRepo.AssertExpectations(suite.T())
	suite.integrity.AssertExpectations(suite.T())
}

func TestOrderCommodityServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderCommodityServiceTestSuite))
}

func (suite *OrderCommodityServiceTestSuite) TestCreate_Success() {
	orderID, commodityID := uuid.New(), uuid.New()
	line := &models.OrderCommodity{OrderID: orderID, CommodityID: commodityID, Count: 3, Price: 2.5}

	suite.orderRepo.On("GetByID", suite.ctx, orderID).Return(&models.Order{ID: orderID}, nil)
	suite.commodityRepo.On("GetByID", suite.ctx, commodityID).Return(&models.Commodity{ID: commodityID, Price: 99}, nil)
	suite.lineRepo.On("GetByOrderAndCommodity", suite.ctx, orderID, commodityID).Return(nil, common.NotFoundError("order commodity"))
	suite.lineRepo.On("Create", suite.ctx, line).Return(nil)

	assert.NoError(suite.T(), suite.service.Create(suite.ctx, line))
	assert.NotEqual(suite.T(), uuid.Nil, line.ID)
	assert.Equal(suite.T(), 2.5, line.Price)
}

func (suite *OrderCommodityServiceTestSuite) TestCreate_ZeroPriceKept() {
	orderID, commodityID := uuid.New(), uuid.New()
	line := &models.OrderCommodity{OrderID: orderID, CommodityID: commodityID, Count: 1}

	suite.orderRepo.On("GetByID", suite.ctx, orderID).Return(&models.Order{ID: orderID}, nil)
	suite.commodityRepo.On("GetByID", suite.ctx, commodityID).Return(&models.Commodity{ID: commodityID, Price: 10}, nil)
	suite.lineRepo.On("GetByOrderAndCommodity", suite.ctx, orderID, commodityID).Return(nil, common.NotFoundError("order commodity"))
	suite.lineRepo.On("Create", suite.ctx, line).Return(nil)

	assert.NoError(suite.T(), suite.service.Create(suite.ctx, line))
	assert.Equal(suite.T(), 0.0, line.Price)
}

func (suite *OrderCommodityServiceTestSuite) TestCreate_NegativeCount() {
	err := suite.service.Create(suite.ctx, &models.OrderCommodity{OrderID: uuid.New(), CommodityID: uuid.New(), Count: -2})
	assert.True(suite.T(), errors.Is(err, common.ErrValidation))
}

func (suite *OrderCommodityServiceTestSuite) TestCreate_LineAmountTooLarge() {
	line := &models.OrderCommodity{OrderID: uuid.New(), CommodityID: uuid.New(), Count: 1e10, Price: 1e10}

	err := suite.service.Create(suite.ctx, line)
	assert.True(suite.T(), errors.Is(err, common.ErrValidation))
	suite.lineRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *OrderCommodityServiceTestSuite) TestUpdate_PatchedAmountTooLarge() {
	id := uuid.New()
	count := float64(1 << 30)
	suite.lineRepo.On("GetByID", suite.ctx, id).
		Return(&models.OrderCommodity{ID: id, OrderID: uuid.New(), CommodityID: uuid.New(), Count: 1, Price: 1 << 30}, nil)

	_, err := suite.service.Update(suite.ctx, id, &models.OrderCommodityPatch{Count: &count})
	assert.True(suite.T(), errors.Is(err, common.ErrValidation))
	suite.lineRepo.AssertNotCalled(suite.T(), "Update", mock.Anything, mock.Anything)
}

func (suite *OrderCommodityServiceTestSuite) TestCreate_DeletedOrder() {
	orderID := uuid.New()
	suite.orderRepo.On("GetByID", suite.ctx, orderID).Return(nil, common.NotFoundError("order"))

	err := suite.service.Create(suite.ctx, &models.OrderCommodity{OrderID: orderID, CommodityID: uuid.New(), Count: 1})
	assert.True(suite.T(), errors.Is(err, common.ErrValidation))
	assert.Contains(suite.T(), err.Error(), "order_id")
}

func (suite *OrderCommodityServiceTestSuite) TestCreate_DuplicateLine() {
	orderID, commodityID := uuid.New(), uuid.New()
	suite.orderRepo.On("GetByID", suite.ctx, orderID).Return(&models.Order{ID: orderID}, nil)
	suite.commodityRepo.On("GetByID", suite.ctx, commodityID).Return(&models.Commodity{ID: commodityID}, nil)
	suite.lineRepo.On("GetByOrderAndCommodity", suite.ctx, orderID, commodityID).
		Return(&models.OrderCommodity{ID: uuid.New(), OrderID: orderID, CommodityID: commodityID}, nil)

	err := suite.service.Create(suite.ctx, &models.OrderCommodity{OrderID: orderID, CommodityID: commodityID, Count: 1})
	assert.True(suite.T(), errors.Is(err, common.ErrConflict))
	suite.lineRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *OrderCommodityServiceTestSuite) TestUpdate_CountToZero() {
	id := uuid.New()
	zero := 0.0
	suite.lineRepo.On("GetByID", suite.ctx, id).Return(&models.OrderCommodity{ID: id, Count: 5, Price: 2}, nil)
	suite.lineRepo.On("Update", suite.ctx, mock.MatchedBy(func(l *models.OrderCommodity) bool {
		return l.ID == id && l.Count == 0 && l.Price == 2
	})).Return(nil)

	updated, err := suite.service.Update(suite.ctx, id, &models.OrderCommodityPatch{Count: &zero})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0.0, updated.Count)
}

func (suite *OrderCommodityServiceTestSuite) TestUpdate_SwapCommodityToExistingLine() {
	id, orderID, other := uuid.New(), uuid.New(), uuid.New()
	suite.lineRepo.On("GetByID", suite.ctx, id).Return(&models.OrderCommodity{ID: id, OrderID: orderID, CommodityID: uuid.New()}, nil)
	suite.commodityRepo.On("GetByID", suite.ctx, other).Return(&models.Commodity{ID: other}, nil)
	suite.lineRepo.On("GetByOrderAndCommodity", suite.ctx, orderID, other).
		Return(&models.OrderCommodity{ID: uuid.New(), OrderID: orderID, CommodityID: other}, nil)

	_, err := suite.service.Update(suite.ctx, id, &models.OrderCommodityPatch{CommodityID: &other})
	assert.True(suite.T(), errors.Is(err, common.ErrConflict))
}

func (suite *OrderCommodityServiceTestSuite) TestUpdate_NotFound() {
	id := uuid.New()
	suite.lineRepo.On("GetByID", suite.ctx, id).Return(nil, common.NotFoundError("order commodity"))

	_, err := suite.service.Update(suite.ctx, id, &models.OrderCommodityPatch{})
	assert.True(suite.T(), errors.Is(err, common.ErrNotFound))
}

func (suite *OrderCommodityServiceTestSuite) TestDelete_DelegatesToIntegrity() {
	id := uuid.New()
	suite.integrity.On("SoftDelete", suite.ctx, models.KindOrderCommodity, id).Return(nil)
	assert.NoError(suite.T(), suite.service.Delete(suite.ctx, id))
}
