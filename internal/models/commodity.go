package models

import (
	"time"

	"github.com/google/uuid"
)

type Commodity struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"` // reference price, order lines carry their own
	CategoryID  uuid.UUID `json:"category_id" db:"category_id"`
	UnitID      uuid.UUID `json:"unit_id" db:"unit_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
	Deleted     bool      `json:"-" db:"deleted"`
}

// CommodityPatch carries the fields of a partial commodity update; nil means not provided
type CommodityPatch struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Price       *float64   `json:"price,omitempty"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	UnitID      *uuid.UUID `json:"unit_id,omitempty"`
}

// CommodityFilter holds the optional criteria of a commodity listing
type CommodityFilter struct {
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	UnitID     *uuid.UUID `json:"unit_id,omitempty"`
	Name       string     `json:"name,omitempty"` // case-insensitive substring
	Limit      int        `json:"limit,omitempty"`
	Offset     int        `json:"offset,omitempty"`
}
