package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderReport points at an exported CSV of an order's aggregated lines
type OrderReport struct {
	OrderID     uuid.UUID `json:"order_id"`
	ObjectKey   string    `json:"object_key"`
	URL         string    `json:"url"`
	LineCount   int       `json:"line_count"`
	OrderTotal  int64     `json:"order_total"`
	GeneratedAt time.Time `json:"generated_at"`
}

// ReferenceAudit counts active rows whose references point at soft-deleted rows
type ReferenceAudit struct {
	CommoditiesWithDeletedCategory int       `json:"commodities_with_deleted_category"`
	CommoditiesWithDeletedUnit     int       `json:"commodities_with_deleted_unit"`
	LinesWithDeletedOrder          int       `json:"lines_with_deleted_order"`
	LinesWithDeletedCommodity      int       `json:"lines_with_deleted_commodity"`
	CheckedAt                      time.Time `json:"checked_at"`
}

// Total returns the number of stale references found
func (a *ReferenceAudit) Total() int {
	return a.CommoditiesWithDeletedCategory + a.CommoditiesWithDeletedUnit +
		a.LinesWithDeletedOrder + a.LinesWithDeletedCommodity
}
