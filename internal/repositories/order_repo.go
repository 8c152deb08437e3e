package repositories

import (
	"context"

	"storehouse/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByName(ctx context.Context, name string) (*models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	List(ctx context.Context, limit, offset int) ([]*models.Order, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Order, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type orderRepo struct {
	db Database
}

func NewOrderRepository(db Database) OrderRepository {
	return &orderRepo{db: db}
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	order := &models.Order{}
	if err := row.Scan(&order.ID, &order.Name, &order.Description, &order.CreatedAt, &order.UpdatedAt, &order.Deleted); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (id, name, description, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, FALSE, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, order.ID, order.Name, order.Description).Scan(&order.CreatedAt, &order.UpdatedAt)
	return classifyError("order", "create order", err)
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	query := `
		SELECT id, name, description, created_at, updated_at, deleted
		FROM orders
		WHERE id = $1 AND deleted = FALSE
	`
	order, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, classifyError("order", "get order", err)
	}
	return order, nil
}

func (r *orderRepo) GetByName(ctx context.Context, name string) (*models.Order, error) {
	query := `
		SELECT id, name, description, created_at, updated_at, deleted
		FROM orders
		WHERE name = $1 AND deleted = FALSE
	`
	order, err := scanOrder(r.db.QueryRow(ctx, query, name))
	if err != nil {
		return nil, classifyError("order", "get order", err)
	}
	return order, nil
}

func (r *orderRepo) Update(ctx context.Context, order *models.Order) error {
	query := `
		UPDATE orders
		SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3 AND deleted = FALSE
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, order.Name, order.Description, order.ID).Scan(&order.UpdatedAt)
	return classifyError("order", "update order", err)
}

func (r *orderRepo) List(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	query := `
		SELECT id, name, description, created_at, updated_at, deleted
		FROM orders
		WHERE deleted = FALSE
		ORDER BY created_at DESC, id ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, classifyError("order", "list orders", err)
	}
	return collectOrders(rows)
}

func (r *orderRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Order, error) {
	if len(ids) == 0 {
		return []*models.Order{}, nil
	}
	query := `
		SELECT id, name, description, created_at, updated_at, deleted
		FROM orders
		WHERE id = ANY($1::uuid[])
	`
	rows, err := r.db.Query(ctx, query, idStrings(ids))
	if err != nil {
		return nil, classifyError("order", "list orders", err)
	}
	return collectOrders(rows)
}

func (r *orderRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return guardedSoftDelete(ctx, r.db, "order", "orders", "order_commodities", "order_id", id)
}

func collectOrders(rows pgx.Rows) ([]*models.Order, error) {
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, classifyError("order", "scan order", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError("order", "list orders", err)
	}
	return orders, nil
}
