package ledger

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jirasak-dev/stockledger/pkg/db/models"
	"github.com/jirasak-dev/stockledger/pkg/pagination"
)

// ListFilter narrows a ledger read. Nil fields are ignored. Limit is the
// exact number of rows to fetch; callers add their own lookahead buffer.
type ListFilter struct {
	OwnerID   *uuid.UUID
	ProductID *uuid.UUID
	Cursor    *pagination.Cursor
	Limit     int
}

// Repository manages persistence for stock transactions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, txn *models.StockTransaction) error
	SumQuantity(ctx context.Context, productID uuid.UUID) (int64, error)
	List(ctx context.Context, filter ListFilter) ([]TransactionDTO, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, txn *models.StockTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

// SumQuantity aggregates every delta ever recorded for the product,
// including rows belonging to soft-deleted products.
func (r *repository) SumQuantity(ctx context.Context, productID uuid.UUID) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).
		Model(&models.StockTransaction{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	return sum, nil
}

// List returns ledger rows joined with their product, newest first with
// the row id as tie-break so cursors are stable. Rows belonging to
// soft-deleted products are excluded.
func (r *repository) List(ctx context.Context, filter ListFilter) ([]TransactionDTO, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = pagination.LimitWithBuffer(0)
	}

	q := r.db.WithContext(ctx).
		Table("stock_transactions AS t").
		Select("t.id, t.product_id, p.name AS product_name, p.owner_id, t.quantity, t.type, t.created_at").
		Joins("JOIN products p ON p.id = t.product_id").
		Where("p.is_deleted = ?", false).
		Order("t.created_at DESC, t.id DESC").
		Limit(limit)

	if filter.OwnerID != nil {
		q = q.Where("p.owner_id = ?", *filter.OwnerID)
	}
	if filter.ProductID != nil {
		q = q.Where("t.product_id = ?", *filter.ProductID)
	}
	if filter.Cursor != nil {
		q = q.Where("(t.created_at, t.id) < (?, ?)", filter.Cursor.CreatedAt, filter.Cursor.ID)
	}

	var rows []TransactionDTO
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
