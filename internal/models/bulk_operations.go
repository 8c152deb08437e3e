package models

import (
	"github.com/google/uuid"
)

// EntityKind names a soft-deletable resource
type EntityKind string

const (
	KindCategory       EntityKind = "category"
	KindUnit           EntityKind = "unit"
	KindCommodity      EntityKind = "commodity"
	KindOrder          EntityKind = "order"
	KindOrderCommodity EntityKind = "order_commodity"
)

// BulkDeleteFailure describes the id that stopped a bulk delete
type BulkDeleteFailure struct {
	ID      uuid.UUID `json:"id"`
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
}

// BulkDeleteResult reports a fail-fast bulk soft delete. Ids in Deleted stay
// deleted even when Failed is set; Skipped ids were never attempted.
type BulkDeleteResult struct {
	Deleted []uuid.UUID        `json:"deleted"`
	Failed  *BulkDeleteFailure `json:"failed,omitempty"`
	Skipped []uuid.UUID        `json:"skipped"`
}

// BulkDeleteRequest is the body of a bulk soft delete
type BulkDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}
