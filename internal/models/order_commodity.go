package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderCommodity is one line of an order: a commodity, how many, and at what unit price
type OrderCommodity struct {
	ID          uuid.UUID `json:"id" db:"id"`
	OrderID     uuid.UUID `json:"order_id" db:"order_id"`
	CommodityID uuid.UUID `json:"commodity_id" db:"commodity_id"`
	Count       float64   `json:"count" db:"count"`
	Price       float64   `json:"price" db:"price"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
	Deleted     bool      `json:"-" db:"deleted"`
}

type OrderCommodityPatch struct {
	CommodityID *uuid.UUID `json:"commodity_id,omitempty"`
	Count       *float64   `json:"count,omitempty"`
	Price       *float64   `json:"price,omitempty"`
	Description *string    `json:"description,omitempty"`
}

type OrderCommodityFilter struct {
	OrderID     *uuid.UUID `json:"order_id,omitempty"`
	CommodityID *uuid.UUID `json:"commodity_id,omitempty"`
	Limit       int        `json:"limit,omitempty"`
	Offset      int        `json:"offset,omitempty"`
}

// RefSummary is the id/name/description projection of a joined entity
type RefSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Deleted     bool      `json:"deleted"`
}

// EnrichedOrderLine is an order line joined to its commodity, category and
// unit, annotated with its own total and the subtotals it rolls up into.
type EnrichedOrderLine struct {
	ID            uuid.UUID  `json:"id"`
	OrderID       uuid.UUID  `json:"order_id"`
	Count         float64    `json:"count"`
	Price         float64    `json:"price"`
	Description   string     `json:"description"`
	Commodity     RefSummary `json:"commodity"`
	Category      RefSummary `json:"category"`
	Unit          RefSummary `json:"unit"`
	LineTotal     int64      `json:"line_total"`
	OriginTotal   float64    `json:"origin_total"`
	CategoryTotal int64      `json:"category_total"`
	OrderTotal    int64      `json:"order_total"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
