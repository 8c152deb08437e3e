package testhelpers

import (
	"context"
	"os"
	"testing"

	"storehouse/internal/models"
	"storehouse/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func()
}

// SetupTestDB connects to TEST_DATABASE_URL, applies the schema and empties
// every table. The test is skipped when the variable is not set.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("Failed to apply schema: %v", err)
	}

	db := &TestDB{Pool: pool}
	db.truncate(t)
	db.Cleanup = func() {
		db.truncate(t)
		pool.Close()
	}
	return db
}

func (db *TestDB) truncate(t *testing.T) {
	t.Helper()
	_, err := db.Pool.Exec(context.Background(),
		`TRUNCATE order_commodities, orders, commodities, units, categories`)
	if err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
}

// SetupTestCategory inserts an active category
func SetupTestCategory(t *testing.T, db *TestDB, name string) *models.Category {
	t.Helper()

	category := &models.Category{ID: uuid.New(), Name: name}
	query := `
		INSERT INTO categories (id, name, description)
		VALUES ($1, $2, '')
		RETURNING created_at, updated_at
	`
	err := db.Pool.QueryRow(context.Background(), query, category.ID, category.Name).
		Scan(&category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create test category: %v", err)
	}
	return category
}

// SetupTestUnit inserts an active unit
func SetupTestUnit(t *testing.T, db *TestDB, name string) *models.Unit {
	t.Helper()

	unit := &models.Unit{ID: uuid.New(), Name: name}
	query := `
		INSERT INTO units (id, name, description)
		VALUES ($1, $2, '')
		RETURNING created_at, updated_at
	`
	err := db.Pool.QueryRow(context.Background(), query, unit.ID, unit.Name).
		Scan(&unit.CreatedAt, &unit.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create test unit: %v", err)
	}
	return unit
}

// SetupTestCommodity inserts an active commodity under category and unit
func SetupTestCommodity(t *testing.T, db *TestDB, name string, price float64, categoryID, unitID uuid.UUID) *models.Commodity {
	t.Helper()

	commodity := &models.Commodity{ID: uuid.New(), Name: name, Price: price, CategoryID: categoryID, UnitID: unitID}
	query := `
		INSERT INTO commodities (id, name, description, price, category_id, unit_id)
		VALUES ($1, $2, '', $3, $4, $5)
		RETURNING created_at, updated_at
	`
	err := db.Pool.QueryRow(context.Background(), query,
		commodity.ID, commodity.Name, commodity.Price, commodity.CategoryID, commodity.UnitID).
		Scan(&commodity.CreatedAt, &commodity.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create test commodity: %v", err)
	}
	return commodity
}

// SetupTestOrder inserts an active order
func SetupTestOrder(t *testing.T, db *TestDB, name string) *models.Order {
	t.Helper()

	order := &models.Order{ID: uuid.New(), Name: name}
	query := `
		INSERT INTO orders (id, name, description)
		VALUES ($1, $2, '')
		RETURNING created_at, updated_at
	`
	err := db.Pool.QueryRow(context.Background(), query, order.ID, order.Name).
		Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create test order: %v", err)
	}
	return order
}

// SetupTestOrderCommodity inserts an active order line
func SetupTestOrderCommodity(t *testing.T, db *TestDB, orderID, commodityID uuid.UUID, count, price float64) *models.OrderCommodity {
	t.Helper()

	line := &models.OrderCommodity{ID: uuid.New(), OrderID: orderID, CommodityID: commodityID, Count: count, Price: price}
	query := `
		INSERT INTO order_commodities (id, order_id, commodity_id, count, price, description)
		VALUES ($1, $2, $3, $4, $5, '')
		RETURNING created_at, updated_at
	`
	err := db.Pool.QueryRow(context.Background(), query,
		line.ID, line.OrderID, line.CommodityID, line.Count, line.Price).
		Scan(&line.CreatedAt, &line.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create test order line: %v", err)
	}
	return line
}
