package repositories

import (
	"context"

	"storehouse/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UnitRepository interface {
	Create(ctx context.Context, unit *models.Unit) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Unit, error)
	GetByName(ctx context.Context, name string) (*models.Unit, error)
	Update(ctx context.Context, unit *models.Unit) error
	List(ctx context.Context, limit, offset int) ([]*models.Unit, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Unit, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type unitRepo struct {
	db Database
}

func NewUnitRepository(db Database) UnitRepository {
	return &unitRepo{db: db}
}

func scanUnit(row pgx.Row) (*models.Unit, error) {
	unit := &models.Unit{}
	if err := row.Scan(&unit.ID, &unit.Name, &unit.Description, &unit.CreatedAt, &unit.UpdatedAt, &unit.Deleted); err != nil {
		return nil, err
	}
	return unit, nil
}

func (r *unitRepo) Create(ctx context.Context, unit *models.Unit) error {
	query := `
		INSERT INTO units (id, name, description, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, FALSE, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, unit.ID, unit.Name, unit.Description).Scan(&unit.CreatedAt, &unit.UpdatedAt)
	return classifyError("unit", "create unit", err)
}

func (r *unitRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Unit, error) {
	query := `
		SELECT id, name, description, created_at, updated_at, deleted
		FROM units
		WHERE id = $1 AND deleted = FALSE
	`
	unit, err := scanUnit(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, classifyError("unit", "get unit", err)
	}
	return unit, nil
}

func (r *unitRepo) GetByName(ctx context.Context, name string) (*models.Unit, error) {
	query := `
		SELECT id, name, description, created_at, updated_at, deleted
		FROM units
		WHERE name = $1 AND deleted = FALSE
	`
	unit, err := scanUnit(r.db.QueryRow(ctx, query, name))
	if err != nil {
		return nil, classifyError("unit", "get unit", err)
	}
	return unit, nil
}

func (r *unitRepo) Update(ctx context.Context, unit *models.Unit) error {
	query := `
		UPDATE units
		SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3 AND deleted = FALSE
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, unit.Name, unit.Description, unit.ID).Scan(&unit.UpdatedAt)
	return classifyError("unit", "update unit", err)
}

func (r *unitRepo) List(ctx context.Context, limit, offset int) ([]*models.Unit, error) {
	query := `
		SELECT id, name, description, created_at, updated_at, deleted
		FROM units
		WHERE deleted = FALSE
		ORDER BY created_at ASC, id ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, classifyError("unit", "list units", err)
	}
	return collectUnits(rows)
}

func (r *unitRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Unit, error) {
	if len(ids) == 0 {
		return []*models.Unit{}, nil
	}
	query := `
		SELECT id, name, description, created_at, updated_at, deleted
		FROM units
		WHERE id = ANY($1::uuid[])
	`
	rows, err := r.db.Query(ctx, query, idStrings(ids))
	if err != nil {
		return nil, classifyError("unit", "list units", err)
	}
	return collectUnits(rows)
}

func (r *unitRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return guardedSoftDelete(ctx, r.db, "unit", "units", "commodities", "unit_id", id)
}

func collectUnits(rows pgx.Rows) ([]*models.Unit, error) {
	defer rows.Close()

	units := []*models.Unit{}
	for rows.Next() {
		unit, err := scanUnit(rows)
		if err != nil {
			return nil, classifyError("unit", "scan unit", err)
		}
		units = append(units, unit)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError("unit", "list units", err)
	}
	return units, nil
}
