package ledger

import (
	"time"

	"github.com/google/uuid"
)

// Transaction type tags recorded on ledger rows.
const (
	TypeInitialize = "Initialize quantity"
	TypeAdjust     = "Adjust quantity"
)

// TransactionDTO is the transport shape for one ledger row, joined with
// the product it belongs to.
type TransactionDTO struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Quantity    int       `json:"quantity"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"created_at"`
}

// TransactionPage is one page of ledger rows. NextCursor is empty on the
// last page.
type TransactionPage struct {
	Items      []TransactionDTO `json:"items"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// AppendInput captures one quantity delta to record.
type AppendInput struct {
	ProductID uuid.UUID
	Delta     int
	Type      string
}
