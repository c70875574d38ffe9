package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/jirasak-dev/stockledger/api/middleware"
	"github.com/jirasak-dev/stockledger/api/responses"
	"github.com/jirasak-dev/stockledger/api/validators"
	"github.com/jirasak-dev/stockledger/internal/guard"
	ledgersvc "github.com/jirasak-dev/stockledger/internal/ledger"
	"github.com/jirasak-dev/stockledger/pkg/db/models"
	pkgerrors "github.com/jirasak-dev/stockledger/pkg/errors"
	"github.com/jirasak-dev/stockledger/pkg/logger"
	"github.com/jirasak-dev/stockledger/pkg/pagination"
)

// LedgerService is the slice of the ledger service the controllers use.
type LedgerService interface {
	Append(ctx context.Context, input ledgersvc.AppendInput) (*models.StockTransaction, error)
	ListAll(ctx context.Context, productID *uuid.UUID, page pagination.Params) (*ledgersvc.TransactionPage, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, productID *uuid.UUID, page pagination.Params) (*ledgersvc.TransactionPage, error)
}

func parseListQuery(r *http.Request) (*uuid.UUID, pagination.Params, error) {
	productID, err := validators.ParseQueryUUID(r, "product_id")
	if err != nil {
		return nil, pagination.Params{}, err
	}
	limit, err := validators.ParseQueryInt(r, "limit")
	if err != nil {
		return nil, pagination.Params{}, err
	}
	return productID, pagination.Params{
		Limit:  limit,
		Cursor: r.URL.Query().Get("cursor"),
	}, nil
}

type createTransactionRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"`
	Type      string `json:"type,omitempty" validate:"omitempty,max=60"`
}

// ListTransactions serves ledger rows across all users.
func ListTransactions(svc LedgerService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, page, err := parseListQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListAll(r.Context(), productID, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// ListMyTransactions serves ledger rows for the acting user's products.
func ListMyTransactions(svc LedgerService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actingID, ok := middleware.ActingUserFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		productID, page, err := parseListQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListByOwner(r.Context(), actingID, productID, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// CreateTransaction appends a quantity delta to a product the acting user
// owns. A zero delta succeeds without recording anything.
func CreateTransaction(ledger LedgerService, products ProductService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actingID, ok := middleware.ActingUserFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		var payload createTransactionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		// A deleted product reads as not found here, so deltas can only be
		// appended to live products.
		dto, err := products.FindByID(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !guard.IsOwner(dto.OwnerID, actingID) {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another user"))
			return
		}

		txn, err := ledger.Append(r.Context(), ledgersvc.AppendInput{
			ProductID: productID,
			Delta:     payload.Quantity,
			Type:      validators.SanitizeString(payload.Type, 60),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if txn == nil {
			responses.WriteSuccess(w, nil)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, txn)
	}
}
