package repositories

import (
	"context"
	"fmt"

	"storehouse/internal/common"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

// Database is the subset of pgxpool.Pool the repositories use. pgxmock pools satisfy it too.
type Database interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

const uniqueViolation = "23505"

// classifyError maps driver errors onto the domain taxonomy
func classifyError(resource, operation string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return common.NotFoundError(resource)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return common.ConflictError("%s already exists", resource)
	}
	return common.StorageError(operation, errors.Wrap(err, resource))
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// existsActive reports whether an active row of table matches column = value
func existsActive(ctx context.Context, db Database, table, column string, value uuid.UUID) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND deleted = FALSE)`, table, column)
	var exists bool
	if err := db.QueryRow(ctx, query, value).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// guardedSoftDelete flips the deleted flag of an active row in a single
// statement that also requires no active row of dependentTable to reference
// it. A zero-row result is classified as NotFound or Conflict.
func guardedSoftDelete(ctx context.Context, db Database, resource, table, dependentTable, dependentColumn string, id uuid.UUID) error {
	query := fmt.Sprintf(`
		UPDATE %s SET deleted = TRUE, updated_at = NOW()
		WHERE id = $1 AND deleted = FALSE`, table)
	if dependentTable != "" {
		query += fmt.Sprintf(`
		  AND NOT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND deleted = FALSE)`, dependentTable, dependentColumn)
	}

	tag, err := db.Exec(ctx, query, id)
	if err != nil {
		return classifyError(resource, "delete "+resource, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	active, err := existsActive(ctx, db, table, "id", id)
	if err != nil {
		return classifyError(resource, "delete "+resource, err)
	}
	if !active {
		return common.NotFoundError(resource)
	}
	return common.ConflictError("%s is still referenced by active %s, cannot delete", resource, dependentTable)
}
