package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Field-level validation errors surfaced as 400s at the handler boundary.
var (
	ErrEmptyProductName = errors.New("product name must not be empty")
	ErrNegativeQuantity = errors.New("quantity must not be negative")
	ErrNegativePrice    = errors.New("price must not be negative")
)

// Product is a catalogue record. It belongs to exactly one database at a time
// and is mutated in place (full field replacement, no partial merge).
type Product struct {
	ID         uuid.UUID       `json:"id"`
	DatabaseID uuid.UUID       `json:"database_id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Validate checks the product's field invariants.
func (p *Product) Validate() error {
	if p.Name == "" {
		return ErrEmptyProductName
	}
	if p.Quantity < 0 {
		return ErrNegativeQuantity
	}
	if p.Price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}
