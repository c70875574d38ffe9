package product

import (
	"time"

	"github.com/google/uuid"

	"github.com/jirasak-dev/stockledger/pkg/db/models"
)

// ProductDTO is the transport shape for catalog reads.
type ProductDTO struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	MFD         *time.Time `json:"mfd,omitempty"`
	EXD         *time.Time `json:"exd,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// OwnedProductDTO adds the derived quantity to the owner-facing read. The
// quantity is always computed from the ledger, never stored on the row.
type OwnedProductDTO struct {
	ProductDTO
	Quantity int64 `json:"quantity"`
}

// AddProductInput captures a create request. InitialQuantity seeds the
// ledger in the same transaction when non-zero.
type AddProductInput struct {
	Name            string
	Description     *string
	MFD             *time.Time
	EXD             *time.Time
	InitialQuantity int
}

// EditProductInput applies partial updates: nil means unchanged, a pointer
// to the empty string is an applied value.
type EditProductInput struct {
	Name        *string
	Description *string
	MFD         *time.Time
	EXD         *time.Time
}

// FromModel maps a persisted product to its transport shape.
func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		Description: p.Description,
		MFD:         p.MFD,
		EXD:         p.EXD,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
