package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jirasak-dev/stockledger/api/middleware"
	"github.com/jirasak-dev/stockledger/api/responses"
	"github.com/jirasak-dev/stockledger/api/validators"
	"github.com/jirasak-dev/stockledger/internal/guard"
	productsvc "github.com/jirasak-dev/stockledger/internal/products"
	pkgerrors "github.com/jirasak-dev/stockledger/pkg/errors"
	"github.com/jirasak-dev/stockledger/pkg/logger"
)

// ProductService is the slice of the product service the controllers use.
type ProductService interface {
	Add(ctx context.Context, ownerID uuid.UUID, input productsvc.AddProductInput) (*productsvc.ProductDTO, error)
	Edit(ctx context.Context, productID uuid.UUID, input productsvc.EditProductInput) (*productsvc.ProductDTO, error)
	SoftDelete(ctx context.Context, productID uuid.UUID) error
	Restore(ctx context.Context, productID uuid.UUID) error
	FindByID(ctx context.Context, productID uuid.UUID) (*productsvc.ProductDTO, error)
	OwnerOf(ctx context.Context, productID uuid.UUID) (uuid.UUID, error)
	ListAll(ctx context.Context, productID *uuid.UUID) ([]productsvc.ProductDTO, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, productID *uuid.UUID) ([]productsvc.OwnedProductDTO, error)
}

type createProductRequest struct {
	Name        string     `json:"name" validate:"required,max=50"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=500"`
	MFD         *time.Time `json:"mfd,omitempty"`
	EXD         *time.Time `json:"exd,omitempty"`
	Quantity    int        `json:"quantity"`
}

type updateProductRequest struct {
	Name        *string    `json:"name,omitempty" validate:"omitempty,max=50"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=500"`
	MFD         *time.Time `json:"mfd,omitempty"`
	EXD         *time.Time `json:"exd,omitempty"`
}

// ListProducts serves the public catalog.
func ListProducts(svc ProductService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseQueryUUID(r, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.ListAll(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// ListMyProducts serves the acting user's products with derived quantities.
func ListMyProducts(svc ProductService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actingID, ok := middleware.ActingUserFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		productID, err := validators.ParseQueryUUID(r, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.ListByOwner(r.Context(), actingID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// GetProduct serves one live product to any authenticated user.
func GetProduct(svc ProductService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.FindByID(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// CreateProduct adds a product owned by the acting user.
func CreateProduct(svc ProductService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actingID, ok := middleware.ActingUserFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Add(r.Context(), actingID, productsvc.AddProductInput{
			Name:            payload.Name,
			Description:     sanitizeOptional(payload.Description, 500),
			MFD:             payload.MFD,
			EXD:             payload.EXD,
			InitialQuantity: payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// UpdateProduct partially edits a product the acting user owns.
func UpdateProduct(svc ProductService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := requireOwnedProduct(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Edit(r.Context(), productID, productsvc.EditProductInput{
			Name:        payload.Name,
			Description: sanitizeOptional(payload.Description, 500),
			MFD:         payload.MFD,
			EXD:         payload.EXD,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// DeleteProduct soft-deletes a product the acting user owns.
func DeleteProduct(svc ProductService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := requireOwnedProduct(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SoftDelete(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": productID, "deleted": true})
	}
}

// RestoreProduct clears the delete flag on a product the acting user owns.
func RestoreProduct(svc ProductService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := requireOwnedProduct(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Restore(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": productID, "deleted": false})
	}
}

// sanitizeOptional cleans a free-text field while preserving the
// nil-means-unchanged contract.
func sanitizeOptional(s *string, maxLen int) *string {
	if s == nil {
		return nil
	}
	clean := validators.SanitizeString(*s, maxLen)
	return &clean
}

// requireOwnedProduct parses the path id and verifies the acting user owns
// the product, including soft-deleted rows.
func requireOwnedProduct(r *http.Request, svc ProductService) (uuid.UUID, error) {
	actingID, ok := middleware.ActingUserFromContext(r.Context())
	if !ok {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}

	productID, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
	if err != nil {
		return uuid.Nil, err
	}

	ownerID, err := svc.OwnerOf(r.Context(), productID)
	if err != nil {
		return uuid.Nil, err
	}
	if !guard.IsOwner(ownerID, actingID) {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another user")
	}
	return productID, nil
}
