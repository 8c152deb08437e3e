package repositories

import (
	"context"
	"fmt"
	"strings"

	"storehouse/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CommodityRepository interface {
	Create(ctx context.Context, commodity *models.Commodity) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Commodity, error)
	GetByName(ctx context.Context, name string) (*models.Commodity, error)
	Update(ctx context.Context, commodity *models.Commodity) error
	List(ctx context.Context, filter *models.CommodityFilter) ([]*models.Commodity, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Commodity, error)
	ExistsActiveByCategory(ctx context.Context, categoryID uuid.UUID) (bool, error)
	ExistsActiveByUnit(ctx context.Context, unitID uuid.UUID) (bool, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type commodityRepo struct {
	db Database
}

func NewCommodityRepository(db Database) CommodityRepository {
	return &commodityRepo{db: db}
}

const commodityColumns = `id, name, description, price, category_id, unit_id, created_at, updated_at, deleted`

func scanCommodity(row pgx.Row) (*models.Commodity, error) {
	c := &models.Commodity{}
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Price, &c.CategoryID, &c.UnitID,
		&c.CreatedAt, &c.UpdatedAt, &c.Deleted)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *commodityRepo) Create(ctx context.Context, commodity *models.Commodity) error {
	query := `
		INSERT INTO commodities (id, name, description, price, category_id, unit_id, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, commodity.ID, commodity.Name, commodity.Description, commodity.Price,
		commodity.CategoryID, commodity.UnitID).Scan(&commodity.CreatedAt, &commodity.UpdatedAt)
	return classifyError("commodity", "create commodity", err)
}

func (r *commodityRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Commodity, error) {
	query := `SELECT ` + commodityColumns + ` FROM commodities WHERE id = $1 AND deleted = FALSE`
	commodity, err := scanCommodity(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, classifyError("commodity", "get commodity", err)
	}
	return commodity, nil
}

func (r *commodityRepo) GetByName(ctx context.Context, name string) (*models.Commodity, error) {
	query := `SELECT ` + commodityColumns + ` FROM commodities WHERE name = $1 AND deleted = FALSE`
	commodity, err := scanCommodity(r.db.QueryRow(ctx, query, name))
	if err != nil {
		return nil, classifyError("commodity", "get commodity", err)
	}
	return commodity, nil
}

func (r *commodityRepo) Update(ctx context.Context, commodity *models.Commodity) error {
	query := `
		UPDATE commodities
		SET name = $1, description = $2, price = $3, category_id = $4, unit_id = $5, updated_at = NOW()
		WHERE id = $6 AND deleted = FALSE
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, commodity.Name, commodity.Description, commodity.Price,
		commodity.CategoryID, commodity.UnitID, commodity.ID).Scan(&commodity.UpdatedAt)
	return classifyError("commodity", "update commodity", err)
}

// List returns active commodities matching filter
func (r *commodityRepo) List(ctx context.Context, filter *models.CommodityFilter) ([]*models.Commodity, error) {
	query := `SELECT ` + commodityColumns + ` FROM commodities WHERE deleted = FALSE`
	args := []interface{}{}
	conditionCount := 0

	if filter.CategoryID != nil {
		conditionCount++
		query += fmt.Sprintf(` AND category_id = $%d`, conditionCount)
		args = append(args, *filter.CategoryID)
	}
	if filter.UnitID != nil {
		conditionCount++
		query += fmt.Sprintf(` AND unit_id = $%d`, conditionCount)
		args = append(args, *filter.UnitID)
	}
	if name := strings.TrimSpace(filter.Name); name != "" {
		conditionCount++
		query += fmt.Sprintf(` AND name ILIKE $%d`, conditionCount)
		args = append(args, "%"+escapeLike(name)+"%")
	}

	query += fmt.Sprintf(` ORDER BY created_at ASC, id ASC LIMIT $%d OFFSET $%d`, conditionCount+1, conditionCount+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, classifyError("commodity", "list commodities", err)
	}
	return collectCommodities(rows)
}

func (r *commodityRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Commodity, error) {
	if len(ids) == 0 {
		return []*models.Commodity{}, nil
	}
	query := `SELECT ` + commodityColumns + ` FROM commodities WHERE id = ANY($1::uuid[])`
	rows, err := r.db.Query(ctx, query, idStrings(ids))
	if err != nil {
		return nil, classifyError("commodity", "list commodities", err)
	}
	return collectCommodities(rows)
}

func (r *commodityRepo) ExistsActiveByCategory(ctx context.Context, categoryID uuid.UUID) (bool, error) {
	exists, err := existsActive(ctx, r.db, "commodities", "category_id", categoryID)
	if err != nil {
		return false, classifyError("commodity", "check commodities by category", err)
	}
	return exists, nil
}

func (r *commodityRepo) ExistsActiveByUnit(ctx context.Context, unitID uuid.UUID) (bool, error) {
	exists, err := existsActive(ctx, r.db, "commodities", "unit_id", unitID)
	if err != nil {
		return false, classifyError("commodity", "check commodities by unit", err)
	}
	return exists, nil
}

func (r *commodityRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return guardedSoftDelete(ctx, r.db, "commodity", "commodities", "order_commodities", "commodity_id", id)
}

func collectCommodities(rows pgx.Rows) ([]*models.Commodity, error) {
	defer rows.Close()

	commodities := []*models.Commodity{}
	for rows.Next() {
		commodity, err := scanCommodity(rows)
		if err != nil {
			return nil, classifyError("commodity", "scan commodity", err)
		}
		commodities = append(commodities, commodity)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError("commodity", "list commodities", err)
	}
	return commodities, nil
}

// escapeLike escapes LIKE wildcards so user input matches literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
