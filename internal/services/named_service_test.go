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
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// NamedServiceTestSuite covers the category, unit and order services, which
// share the name-uniqueness and cache eviction rules.
type NamedServiceTestSuite struct {
	suite.Suite
	categoryRepo *MockCategoryRepository
	unitRepo     *MockUnitRepository
	orderRepo    *MockOrderRepository
	integrity    *MockIntegrityChecker
	cache        *MockCacheService
	categories   CategoryService
	units        UnitService
	orders       OrderService
	ctx          context.Context
}

func (suite *NamedServiceTestSuite) SetupTest() {
	suite.categoryRepo = &MockCategoryRepository{}
	suite.unitRepo = &MockUnitRepository{}
	suite.orderRepo = &MockOrderRepository{}
	suite.integrity = &MockIntegrityChecker{}
	suite.cache = &MockCacheService{}

	log := newTestLogger()
	suite.categories = NewCategoryService(suite.categoryRepo, suite.integrity, suite.cache, log)
	suite.units = NewUnitService(suite.unitRepo, suite.integrity, suite.cache, log)
	suite.orders = NewOrderService(suite.orderRepo, suite.integrity, suite.cache, log)
	suite.ctx = context.Background()
}

func (suite *NamedServiceTestSuite) TearDownTest() {
	suite.categoryRepo.AssertExpectations(suite.T())
	suite.unitRepo.AssertExpectations(suite.T())
	suite.orderRepo.AssertExpectations(suite.T())
	suite.integrity.AssertExpectations(suite.T())
	suite.cache.AssertExpectations(suite.T())
}

func TestNamedServiceTestSuite(t *testing.T) {
	suite.Run(t, new(NamedServiceTestSuite))
}

func (suite *NamedServiceTestSuite) TestCreateCategory_TrimsAndAssignsID() {
	suite.categoryRepo.On("GetByName", suite.ctx, "Grain").Return(nil, common.NotFoundError("category"))
	suite.categoryRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Category")).Return(nil)

	category := &models.Category{Name: " Grain ", Description: "cereals"}
	require.NoError(suite.T(), suite.categories.Create(suite.ctx, category))
	assert.Equal(suite.T(), "Grain", category.Name)
	assert.NotEqual(suite.T(), uuid.Nil, category.ID)
}

func (suite *NamedServiceTestSuite) TestCreateCategory_DuplicateName() {
	suite.categoryRepo.On("GetByName", suite.ctx, "Grain").Return(&models.Category{ID: uuid.New(), Name: "Grain"}, nil)

	err := suite.categories.Create(suite.ctx, &models.Category{Name: "Grain"})
	assert.True(suite.T(), errors.Is(err, common.ErrConflict))
	suite.categoryRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *NamedServiceTestSuite) TestCreateCategory_BlankName() {
	err := suite.categories.Create(suite.ctx, &models.Category{Name: "   "})
	assert.True(suite.T(), errors.Is(err, common.ErrValidation))
}

func (suite *NamedServiceTestSuite) TestCreateCategory_LookupFailure() {
	suite.categoryRepo.On("GetByName", suite.ctx, "Grain").
		Return(nil, common.StorageError("get category", errors.New("timeout")))

	err := suite.categories.Create(suite.ctx, &models.Category{Name: "Grain"})
	assert.True(suite.T(), errors.Is(err, common.ErrStorage))
}

func (suite *NamedServiceTestSuite) TestUpdateCategory_DescriptionOnlySkipsNameCheck() {
	id := uuid.New()
	description := ""
	suite.categoryRepo.On("GetByID", suite.ctx, id).Return(&models.Category{ID: id, Name: "Grain", Description: "old"}, nil)
	suite.categoryRepo.On("Update", suite.ctx, mock.MatchedBy(func(c *models.Category) bool {
		return c.Name == "Grain" && c.Description == ""
	})).Return(nil)
	suite.cache.On("DeleteCategory", suite.ctx, id).Return(nil)

	updated, err := suite.categories.Update(suite.ctx, id, &models.CategoryPatch{Description: &description})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "", updated.Description)
	suite.categoryRepo.AssertNotCalled(suite.T(), "GetByName", mock.Anything, mock.Anything)
}

func (suite *NamedServiceTestSuite) TestUpdateCategory_RenameToTakenName() {
	id := uuid.New()
	name := "Fruit"
	suite.categoryRepo.On("GetByID", suite.ctx, id).Return(&models.Category{ID: id, Name: "Grain"}, nil)
	suite.categoryRepo.On("GetByName", suite.ctx, "Fruit").Return(&models.Category{ID: uuid.New(), Name: "Fruit"}, nil)

	_, err := suite.categories.Update(suite.ctx, id, &models.CategoryPatch{Name: &name})
	assert.True(suite.T(), errors.Is(err, common.ErrConflict))
}

func (suite *NamedServiceTestSuite) TestDeleteCategory_ReferencedKeepsCache() {
	id := uuid.New()
	suite.integrity.On("SoftDelete", suite.ctx, models.KindCategory, id).
		Return(common.ConflictError("category is still referenced by active commodities, cannot delete"))

	err := suite.categories.Delete(suite.ctx, id)
	assert.True(suite.T(), errors.Is(err, common.ErrConflict))
	suite.cache.AssertNotCalled(suite.T(), "DeleteCategory", mock.Anything, mock.Anything)
}

func (suite *NamedServiceTestSuite) TestGetUnit_CacheHit() {
	id := uuid.New()
	suite.cache.On("GetUnit", suite.ctx, id).Return(&models.Unit{ID: id, Name: "kg"}, nil)

	unit, err := suite.units.GetByID(suite.ctx, id)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "kg", unit.Name)
	suite.unitRepo.AssertNotCalled(suite.T(), "GetByID", mock.Anything, mock.Anything)
}

func (suite *NamedServiceTestSuite) TestGetUnit_NotFoundIsNotCached() {
	id := uuid.New()
	suite.cache.On("GetUnit", suite.ctx, id).Return(nil, nil)
	suite.unitRepo.On("GetByID", suite.ctx, id).Return(nil, common.NotFoundError("unit"))

	_, err := suite.units.GetByID(suite.ctx, id)
	assert.True(suite.T(), errors.Is(err, common.ErrNotFound))
	suite.cache.AssertNotCalled(suite.T(), "SetUnit", mock.Anything, mock.Anything)
}

func (suite *NamedServiceTestSuite) TestUpdateUnit_RenameToOwnName() {
	id := uuid.New()
	name := " kg "
	suite.unitRepo.On("GetByID", suite.ctx, id).Return(&models.Unit{ID: id, Name: "kg"}, nil)
	suite.unitRepo.On("Update", suite.ctx, mock.AnythingOfType("*models.Unit")).Return(nil)
	suite.cache.On("DeleteUnit", suite.ctx, id).Return(nil)

	unit, err := suite.units.Update(suite.ctx, id, &models.UnitPatch{Name: &name})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "kg", unit.Name)
}

func (suite *NamedServiceTestSuite) TestListOrders_ClampsPagination() {
	suite.orderRepo.On("List", suite.ctx, 1000, 0).Return([]*models.Order{}, nil)

	orders, err := suite.orders.List(suite.ctx, 5000, -3)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), orders)
}

func (suite *NamedServiceTestSuite) TestDeleteOrders_EvictsOnlyDeleted() {
	first, second, third := uuid.New(), uuid.New(), uuid.New()
	result := &models.BulkDeleteResult{
		Deleted: []uuid.UUID{first},
		Failed:  &models.BulkDeleteFailure{ID: second, Kind: "CONFLICT", Message: "order is still referenced by active order_commodities, cannot delete"},
		Skipped: []uuid.UUID{third},
	}
	suite.integrity.On("SoftDeleteMany", suite.ctx, models.KindOrder, []uuid.UUID{first, second, third}).
		Return(result, common.ConflictError("order is still referenced by active order_commodities, cannot delete"))
	suite.cache.On("DeleteOrder", suite.ctx, first).Return(nil)

	got, err := suite.orders.DeleteMany(suite.ctx, []uuid.UUID{first, second, third})
	assert.True(suite.T(), errors.Is(err, common.ErrConflict))
	assert.Same(suite.T(), result, got)
}

func (suite *NamedServiceTestSuite) TestDeleteOrder_EvictFailureIsIgnored() {
	id := uuid.New()
	suite.integrity.On("SoftDelete", suite.ctx, models.KindOrder, id).Return(nil)
	suite.cache.On("DeleteOrder", suite.ctx, id).Return(errors.New("redis down"))

	assert.NoError(suite.T(), suite.orders.Delete(suite.ctx, id))
}
