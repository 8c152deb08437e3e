package services

import (
	"context"
	"io"
	"time"

	"storehouse/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) List(ctx context.Context, limit, offset int) ([]*models.Category, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Category, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUnitRepository struct {
	mock.Mock
}

func (m *MockUnitRepository) Create(ctx context.Context, unit *models.Unit) error {
	args := m.Called(ctx, unit)
	return args.Error(0)
}

func (m *MockUnitRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Unit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Unit), args.Error(1)
}

func (m *MockUnitRepository) GetByName(ctx context.Context, name string) (*models.Unit, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Unit), args.Error(1)
}

func (m *MockUnitRepository) Update(ctx context.Context, unit *models.Unit) error {
	args := m.Called(ctx, unit)
	return args.Error(0)
}

func (m *MockUnitRepository) List(ctx context.Context, limit, offset int) ([]*models.Unit, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Unit), args.Error(1)
}

func (m *MockUnitRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Unit, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*models.Unit), args.Error(1)
}

func (m *MockUnitRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCommodityRepository struct {
	mock.Mock
}

func (m *MockCommodityRepository) Create(ctx context.Context, commodity *models.Commodity) error {
	args := m.Called(ctx, commodity)
	return args.Error(0)
}

func (m *MockCommodityRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Commodity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Commodity), args.Error(1)
}

func (m *MockCommodityRepository) GetByName(ctx context.Context, name string) (*models.Commodity, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Commodity), args.Error(1)
}

func (m *MockCommodityRepository) Update(ctx context.Context, commodity *models.Commodity) error {
	args := m.Called(ctx, commodity)
	return args.Error(0)
}

func (m *MockCommodityRepository) List(ctx context.Context, filter *models.CommodityFilter) ([]*models.Commodity, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.Commodity), args.Error(1)
}

func (m *MockCommodityRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Commodity, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*models.Commodity), args.Error(1)
}

func (m *MockCommodityRepository) ExistsActiveByCategory(ctx context.Context, categoryID uuid.UUID) (bool, error) {
	args := m.Called(ctx, categoryID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCommodityRepository) ExistsActiveByUnit(ctx context.Context, unitID uuid.UUID) (bool, error) {
	args := m.Called(ctx, unitID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCommodityRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByName(ctx context.Context, name string) (*models.Order, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) Update(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) List(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Order, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockOrderCommodityRepository struct {
	mock.Mock
}

func (m *MockOrderCommodityRepository) Create(ctx context.Context, line *models.OrderCommodity) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *MockOrderCommodityRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.OrderCommodity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderCommodity), args.Error(1)
}

func (m *MockOrderCommodityRepository) GetByOrderAndCommodity(ctx context.Context, orderID, commodityID uuid.UUID) (*models.OrderCommodity, error) {
	args := m.Called(ctx, orderID, commodityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderCommodity), args.Error(1)
}

func (m *MockOrderCommodityRepository) Update(ctx context.Context, line *models.OrderCommodity) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *MockOrderCommodityRepository) List(ctx context.Context, filter *models.OrderCommodityFilter) ([]*models.OrderCommodity, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.OrderCommodity), args.Error(1)
}

func (m *MockOrderCommodityRepository) ListActiveByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.OrderCommodity, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]*models.OrderCommodity), args.Error(1)
}

func (m *MockOrderCommodityRepository) ExistsActiveByOrder(ctx context.Context, orderID uuid.UUID) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderCommodityRepository) ExistsActiveByCommodity(ctx context.Context, commodityID uuid.UUID) (bool, error) {
	args := m.Called(ctx, commodityID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderCommodityRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCacheService) SetCategory(ctx context.Context, category *models.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *MockCacheService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCacheService) GetUnit(ctx context.Context, id uuid.UUID) (*models.Unit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Unit), args.Error(1)
}

func (m *MockCacheService) SetUnit(ctx context.Context, unit *models.Unit) error {
	return m.Called(ctx, unit).Error(0)
}

func (m *MockCacheService) DeleteUnit(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCacheService) GetCommodity(ctx context.Context, id uuid.UUID) (*models.Commodity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Commodity), args.Error(1)
}

func (m *MockCacheService) SetCommodity(ctx context.Context, commodity *models.Commodity) error {
	return m.Called(ctx, commodity).Error(0)
}

func (m *MockCacheService) DeleteCommodity(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCacheService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockCacheService) SetOrder(ctx context.Context, order *models.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockCacheService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCacheService) InvalidateAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockIntegrityChecker struct {
	mock.Mock
}

func (m *MockIntegrityChecker) CheckDelete(ctx context.Context, kind models.EntityKind, id uuid.UUID) error {
	return m.Called(ctx, kind, id).Error(0)
}

func (m *MockIntegrityChecker) SoftDelete(ctx context.Context, kind models.EntityKind, id uuid.UUID) error {
	return m.Called(ctx, kind, id).Error(0)
}

func (m *MockIntegrityChecker) SoftDeleteMany(ctx context.Context, kind models.EntityKind, ids []uuid.UUID) (*models.BulkDeleteResult, error) {
	args := m.Called(ctx, kind, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BulkDeleteResult), args.Error(1)
}

type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	// drain the reader so tests can assert on the uploaded body
	body, _ := io.ReadAll(reader)
	return m.Called(ctx, bucketName, objectName, string(body), objectSize, contentType).Error(0)
}

func (m *MockObjectStorage) PresignedGetURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, bucketName, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStorage) EnsureBucketExists(ctx context.Context, bucketName string) error {
	return m.Called(ctx, bucketName).Error(0)
}

func (m *MockObjectStorage) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}
