package repositories

import (
	"context"

	"storehouse/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	List(ctx context.Context, limit, offset int) ([]*models.Category, error)
	// ListByIDs returns matching rows whether or not they are deleted
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Category, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type categoryRepo struct {
	db Database
}

func NewCategoryRepository(db Database) CategoryRepository {
	return &categoryRepo{db: db}
}

func scanCategory(row pgx.Row) (*models.Category, error) {
	category := &models.Category{}
	err := row.Scan(&category.ID, &category.Name, &category.Description,
		&category.CreatedAt, &category.UpdatedAt, &category.Deleted)
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (r *categoryRepo) Create(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (id, name, description, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, FALSE, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, category.ID, category.Name, category.Description).
		Scan(&category.CreatedAt, &category.UpdatedAt)
	return classifyError("category", "create category", err)
}

func (r *categoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	query := `
		SELECT id, name, description, created_at, updated_at, deleted
		FROM categories
		WHERE id = $1 AND deleted = FALSE
	`
	category, err := scanCategory(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, classifyError("category", "get category", err)
	}
	return category, nil
}

func (r *categoryRepo) GetByName(ctx context.Context, name string) (*models.Category, error) {
	query := `
		SELECT id, name, description, created_at, updated_at, deleted
		FROM categories
		WHERE name = $1 AND deleted = FALSE
	`
	category, err := scanCategory(r.db.QueryRow(ctx, query, name))
	if err != nil {
		return nil, classifyError("category", "get category", err)
	}
	return category, nil
}

func (r *categoryRepo) Update(ctx context.Context, category *models.Category) error {
	query := `
		UPDATE categories
		SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3 AND deleted = FALSE
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, category.Name, category.Description, category.ID).Scan(&category.UpdatedAt)
	return classifyError("category", "update category", err)
}

func (r *categoryRepo) List(ctx context.Context, limit, offset int) ([]*models.Category, error) {
	query := `
		SELECT id, name, description, created_at, updated_at, deleted
		FROM categories
		WHERE deleted = FALSE
		ORDER BY created_at ASC, id ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, classifyError("category", "list categories", err)
	}
	return collectCategories(rows)
}

func (r *categoryRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Category, error) {
	if len(ids) == 0 {
		return []*models.Category{}, nil
	}
	query := `
		SELECT id, name, description, created_at, updated_at, deleted
		FROM categories
		WHERE id = ANY($1::uuid[])
	`
	rows, err := r.db.Query(ctx, query, idStrings(ids))
	if err != nil {
		return nil, classifyError("category", "list categories", err)
	}
	return collectCategories(rows)
}

func (r *categoryRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return guardedSoftDelete(ctx, r.db, "category", "categories", "commodities", "category_id", id)
}

func collectCategories(rows pgx.Rows) ([]*models.Category, error) {
	defer rows.Close()

	categories := []*models.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, classifyError("category", "scan category", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError("category", "list categories", err)
	}
	return categories, nil
}
