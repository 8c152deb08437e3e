package repositories

import (
	"context"
	"fmt"

	"storehouse/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderCommodityRepository interface {
	Create(ctx context.Context, line *models.OrderCommodity) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.OrderCommodity, error)
	GetByOrderAndCommodity(ctx context.Context, orderID, commodityID uuid.UUID) (*models.OrderCommodity, error)
	Update(ctx context.Context, line *models.OrderCommodity) error
	List(ctx context.Context, filter *models.OrderCommodityFilter) ([]*models.OrderCommodity, error)
	// ListActiveByOrder returns every active line of an order, oldest first
	ListActiveByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.OrderCommodity, error)
	ExistsActiveByOrder(ctx context.Context, orderID uuid.UUID) (bool, error)
	ExistsActiveByCommodity(ctx context.Context, commodityID uuid.UUID) (bool, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type orderCommodityRepo struct {
	db Database
}

func NewOrderCommodityRepository(db Database) OrderCommodityRepository {
	return &orderCommodityRepo{db: db}
}

const orderCommodityColumns = `id, order_id, commodity_id, count, price, description, created_at, updated_at, deleted`

func scanOrderCommodity(row pgx.Row) (*models.OrderCommodity, error) {
	line := &models.OrderCommodity{}
	err := row.Scan(&line.ID, &line.OrderID, &line.CommodityID, &line.Count, &line.Price, &line.Description,
		&line.CreatedAt, &line.UpdatedAt, &line.Deleted)
	if err != nil {
		return nil, err
	}
	return line, nil
}

func (r *orderCommodityRepo) Create(ctx context.Context, line *models.OrderCommodity) error {
	query := `
		INSERT INTO order_commodities (id, order_id, commodity_id, count, price, description, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, line.ID, line.OrderID, line.CommodityID, line.Count, line.Price, line.Description).
		Scan(&line.CreatedAt, &line.UpdatedAt)
	return classifyError("order commodity", "create order commodity", err)
}

func (r *orderCommodityRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.OrderCommodity, error) {
	query := `SELECT ` + orderCommodityColumns + ` FROM order_commodities WHERE id = $1 AND deleted = FALSE`
	line, err := scanOrderCommodity(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, classifyError("order commodity", "get order commodity", err)
	}
	return line, nil
}

func (r *orderCommodityRepo) GetByOrderAndCommodity(ctx context.Context, orderID, commodityID uuid.UUID) (*models.OrderCommodity, error) {
	query := `SELECT ` + orderCommodityColumns + `
		FROM order_commodities
		WHERE order_id = $1 AND commodity_id = $2 AND deleted = FALSE`
	line, err := scanOrderCommodity(r.db.QueryRow(ctx, query, orderID, commodityID))
	if err != nil {
		return nil, classifyError("order commodity", "get order commodity", err)
	}
	return line, nil
}

func (r *orderCommodityRepo) Update(ctx context.Context, line *models.OrderCommodity) error {
	query := `
		UPDATE order_commodities
		SET commodity_id = $1, count = $2, price = $3, description = $4, updated_at = NOW()
		WHERE id = $5 AND deleted = FALSE
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, line.CommodityID, line.Count, line.Price, line.Description, line.ID).
		Scan(&line.UpdatedAt)
	return classifyError("order commodity", "update order commodity", err)
}

func (r *orderCommodityRepo) List(ctx context.Context, filter *models.OrderCommodityFilter) ([]*models.OrderCommodity, error) {
	query := `SELECT ` + orderCommodityColumns + ` FROM order_commodities WHERE deleted = FALSE`
	args := []interface{}{}
	conditionCount := 0

	if filter.OrderID != nil {
		conditionCount++
		query += fmt.Sprintf(` AND order_id = $%d`, conditionCount)
		args = append(args, *filter.OrderID)
	}
	if filter.CommodityID != nil {
		conditionCount++
		query += fmt.Sprintf(` AND commodity_id = $%d`, conditionCount)
		args = append(args, *filter.CommodityID)
	}

	query += fmt.Sprintf(` ORDER BY created_at ASC, id ASC LIMIT $%d OFFSET $%d`, conditionCount+1, conditionCount+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, classifyError("order commodity", "list order commodities", err)
	}
	return collectOrderCommodities(rows)
}

func (r *orderCommodityRepo) ListActiveByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.OrderCommodity, error) {
	query := `SELECT ` + orderCommodityColumns + `
		FROM order_commodities
		WHERE order_id = $1 AND deleted = FALSE
		ORDER BY created_at ASC, id ASC`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, classifyError("order commodity", "list order commodities", err)
	}
	return collectOrderCommodities(rows)
}

func (r *orderCommodityRepo) ExistsActiveByOrder(ctx context.Context, orderID uuid.UUID) (bool, error) {
	exists, err := existsActive(ctx, r.db, "order_commodities", "order_id", orderID)
	if err != nil {
		return false, classifyError("order commodity", "check order commodities by order", err)
	}
	return exists, nil
}

func (r *orderCommodityRepo) ExistsActiveByCommodity(ctx context.Context, commodityID uuid.UUID) (bool, error) {
	exists, err := existsActive(ctx, r.db, "order_commodities", "commodity_id", commodityID)
	if err != nil {
		return false, classifyError("order commodity", "check order commodities by commodity", err)
	}
	return exists, nil
}

// SoftDelete marks a line deleted; nothing references order lines
func (r *orderCommodityRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return guardedSoftDelete(ctx, r.db, "order commodity", "order_commodities", "", "", id)
}

func collectOrderCommodities(rows pgx.Rows) ([]*models.OrderCommodity, error) {
	defer rows.Close()

	lines := []*models.OrderCommodity{}
	for rows.Next() {
		line, err := scanOrderCommodity(rows)
		if err != nil {
			return nil, classifyError("order commodity", "scan order commodity", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError("order commodity", "list order commodities", err)
	}
	return lines, nil
}
