package models

import (
	"time"

	"github.com/google/uuid"
)

// StockTransaction records one immutable quantity delta for a product.
// Rows are append-only; a product's current quantity is always the sum of
// its deltas and never stored on the product row. Zero deltas are dropped
// before they reach the database.
type StockTransaction struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Quantity  int       `gorm:"column:quantity;not null"`
	Type      string    `gorm:"column:type;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
