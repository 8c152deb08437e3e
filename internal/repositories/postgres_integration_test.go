package repositories_test

import (
	"context"
	"errors"
	"testing"

	"storehouse/internal/common"
	"storehouse/internal/models"
	"storehouse/internal/repositories"
	"storehouse/testhelpers"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgres_ActiveNameUniqueness(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	defer db.Cleanup()

	ctx := context.Background()
	repo := repositories.NewCategoryRepository(db.Pool)
	first := testhelpers.SetupTestCategory(t, db, "Grain")

	err := repo.Create(ctx, &models.Category{ID: uuid.New(), Name: "Grain"})
	assert.True(t, errors.Is(err, common.ErrConflict))

	require.NoError(t, repo.SoftDelete(ctx, first.ID))
	require.NoError(t, repo.Create(ctx, &models.Category{ID: uuid.New(), Name: "Grain"}))
}

func TestPostgres_GuardedSoftDelete(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	defer db.Cleanup()

	ctx := context.Background()
	categories := repositories.NewCategoryRepository(db.Pool)
	commodities := repositories.NewCommodityRepository(db.Pool)

	category := testhelpers.SetupTestCategory(t, db, "Fruit")
	unit := testhelpers.SetupTestUnit(t, db, "kg")
	apple := testhelpers.SetupTestCommodity(t, db, "Apple", 2.5, category.ID, unit.ID)

	err := categories.SoftDelete(ctx, category.ID)
	assert.True(t, errors.Is(err, common.ErrConflict))

	stillActive, err := categories.GetByID(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fruit", stillActive.Name)

	require.NoError(t, commodities.SoftDelete(ctx, apple.ID))
	require.NoError(t, categories.SoftDelete(ctx, category.ID))

	_, err = categories.GetByID(ctx, category.ID)
	assert.True(t, errors.Is(err, common.ErrNotFound))

	err = categories.SoftDelete(ctx, category.ID)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestPostgres_OrderLineUniquePerCommodity(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	defer db.Cleanup()

	ctx := context.Background()
	lines := repositories.NewOrderCommodityRepository(db.Pool)

	category := testhelpers.SetupTestCategory(t, db, "Grain")
	unit := testhelpers.SetupTestUnit(t, db, "t")
	wheat := testhelpers.SetupTestCommodity(t, db, "Wheat", 1, category.ID, unit.ID)
	order := testhelpers.SetupTestOrder(t, db, "spring")
	line := testhelpers.SetupTestOrderCommodity(t, db, order.ID, wheat.ID, 3, 1.5)

	err := lines.Create(ctx, &models.OrderCommodity{ID: uuid.New(), OrderID: order.ID, CommodityID: wheat.ID, Count: 1})
	assert.True(t, errors.Is(err, common.ErrConflict))

	active, err := lines.ListActiveByOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, line.ID, active[0].ID)

	referenced, err := lines.ExistsActiveByCommodity(ctx, wheat.ID)
	require.NoError(t, err)
	assert.True(t, referenced)
}
