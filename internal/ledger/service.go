package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jirasak-dev/stockledger/pkg/db/models"
	"github.com/jirasak-dev/stockledger/pkg/errors"
	"github.com/jirasak-dev/stockledger/pkg/pagination"
)

// Service records and reads quantity deltas. A product's current quantity
// is always derived by summing its ledger rows.
type Service interface {
	WithTx(tx *gorm.DB) Service
	Append(ctx context.Context, input AppendInput) (*models.StockTransaction, error)
	CurrentQuantity(ctx context.Context, productID uuid.UUID) (int64, error)
	ListAll(ctx context.Context, productID *uuid.UUID, page pagination.Params) (*TransactionPage, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, productID *uuid.UUID, page pagination.Params) (*TransactionPage, error)
}

type service struct {
	repo Repository
}

// NewService wires a ledger service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) WithTx(tx *gorm.DB) Service {
	return &service{repo: s.repo.WithTx(tx)}
}

// Append records one delta. A zero delta is dropped without touching the
// database and reported as success with no row.
func (s *service) Append(ctx context.Context, input AppendInput) (*models.StockTransaction, error) {
	if input.ProductID == uuid.Nil {
		return nil, errors.New(errors.CodeValidation, "product id is required")
	}
	if input.Delta == 0 {
		return nil, nil
	}

	typeTag := input.Type
	if typeTag == "" {
		typeTag = TypeAdjust
	}

	txn := &models.StockTransaction{
		ProductID: input.ProductID,
		Quantity:  input.Delta,
		Type:      typeTag,
	}
	if err := s.repo.Create(ctx, txn); err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "recording stock transaction")
	}
	return txn, nil
}

func (s *service) CurrentQuantity(ctx context.Context, productID uuid.UUID) (int64, error) {
	if productID == uuid.Nil {
		return 0, errors.New(errors.CodeValidation, "product id is required")
	}
	sum, err := s.repo.SumQuantity(ctx, productID)
	if err != nil {
		return 0, errors.Wrap(errors.CodeDependency, err, "summing stock transactions")
	}
	return sum, nil
}

func (s *service) ListAll(ctx context.Context, productID *uuid.UUID, page pagination.Params) (*TransactionPage, error) {
	return s.list(ctx, ListFilter{ProductID: productID}, page)
}

func (s *service) ListByOwner(ctx context.Context, ownerID uuid.UUID, productID *uuid.UUID, page pagination.Params) (*TransactionPage, error) {
	if ownerID == uuid.Nil {
		return nil, errors.New(errors.CodeValidation, "owner id is required")
	}
	return s.list(ctx, ListFilter{OwnerID: &ownerID, ProductID: productID}, page)
}

// list fetches one row past the requested limit to decide whether another
// page exists, and stamps the next cursor from the last returned row.
func (s *service) list(ctx context.Context, filter ListFilter, page pagination.Params) (*TransactionPage, error) {
	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, errors.Wrap(errors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(page.Limit)
	filter.Cursor = cursor
	filter.Limit = limit + 1

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "listing stock transactions")
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	if rows == nil {
		rows = []TransactionDTO{}
	}
	return &TransactionPage{Items: rows, NextCursor: next}, nil
}
