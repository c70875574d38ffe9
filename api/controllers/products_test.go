package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jirasak-dev/stockledger/api/middleware"
	productsvc "github.com/jirasak-dev/stockledger/internal/products"
	pkgerrors "github.com/jirasak-dev/stockledger/pkg/errors"
	"github.com/jirasak-dev/stockledger/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

type stubProductService struct {
	owner      uuid.UUID
	product    *productsvc.ProductDTO
	ownerErr   error
	added      *productsvc.AddProductInput
	edited     *productsvc.EditProductInput
	deleted    bool
	restored   bool
	listAll    []productsvc.ProductDTO
	listOwned  []productsvc.OwnedProductDTO
	listAllErr error
}

func (s *stubProductService) Add(ctx context.Context, ownerID uuid.UUID, input productsvc.AddProductInput) (*productsvc.ProductDTO, error) {
	s.added = &input
	return &productsvc.ProductDTO{ID: uuid.New(), OwnerID: ownerID, Name: input.Name}, nil
}

func (s *stubProductService) Edit(ctx context.Context, productID uuid.UUID, input productsvc.EditProductInput) (*productsvc.ProductDTO, error) {
	s.edited = &input
	return &productsvc.ProductDTO{ID: productID, OwnerID: s.owner}, nil
}

func (s *stubProductService) SoftDelete(ctx context.Context, productID uuid.UUID) error {
	s.deleted = true
	return nil
}

func (s *stubProductService) Restore(ctx context.Context, productID uuid.UUID) error {
	s.restored = true
	return nil
}

func (s *stubProductService) FindByID(ctx context.Context, productID uuid.UUID) (*productsvc.ProductDTO, error) {
	if s.product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return s.product, nil
}

func (s *stubProductService) OwnerOf(ctx context.Context, productID uuid.UUID) (uuid.UUID, error) {
	if s.ownerErr != nil {
		return uuid.Nil, s.ownerErr
	}
	return s.owner, nil
}

func (s *stubProductService) ListAll(ctx context.Context, productID *uuid.UUID) ([]productsvc.ProductDTO, error) {
	if s.listAllErr != nil {
		return nil, s.listAllErr
	}
	return s.listAll, nil
}

func (s *stubProductService) ListByOwner(ctx context.Context, ownerID uuid.UUID, productID *uuid.UUID) ([]productsvc.OwnedProductDTO, error) {
	return s.listOwned, nil
}

func authedContext(userID uuid.UUID) context.Context {
	return middleware.WithActingUser(context.Background(), userID, nil)
}

func withPathParam(ctx context.Context, key, value string) context.Context {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return body
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeEnvelope(t, rec)
	errBody, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("no error envelope in %s", rec.Body.String())
	}
	code, _ := errBody["code"].(string)
	return code
}

func TestCreateProduct(t *testing.T) {
	logg := testLogger()
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		stub := &stubProductService{}
		payload := bytes.NewBufferString(`{"name":"Milk","quantity":5}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", payload).WithContext(authedContext(userID))
		rec := httptest.NewRecorder()

		CreateProduct(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.added == nil || stub.added.InitialQuantity != 5 {
			t.Fatalf("service saw %+v", stub.added)
		}
	})

	t.Run("missing user context", func(t *testing.T) {
		payload := bytes.NewBufferString(`{"name":"Milk"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", payload)
		rec := httptest.NewRecorder()

		CreateProduct(&stubProductService{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		payload := bytes.NewBufferString(`{"quantity":5}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", payload).WithContext(authedContext(userID))
		rec := httptest.NewRecorder()

		CreateProduct(&stubProductService{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unknown body fields rejected", func(t *testing.T) {
		payload := bytes.NewBufferString(`{"name":"Milk","bogus":1}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", payload).WithContext(authedContext(userID))
		rec := httptest.NewRecorder()

		CreateProduct(&stubProductService{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestUpdateProductOwnership(t *testing.T) {
	logg := testLogger()
	owner := uuid.New()
	stranger := uuid.New()
	productID := uuid.New()

	makeRequest := func(actingID uuid.UUID, stub *stubProductService) *httptest.ResponseRecorder {
		ctx := withPathParam(authedContext(actingID), "productID", productID.String())
		payload := bytes.NewBufferString(`{"name":"Cream"}`)
		req := httptest.NewRequest(http.MethodPut, "/api/v1/products/"+productID.String(), payload).WithContext(ctx)
		rec := httptest.NewRecorder()
		UpdateProduct(stub, logg).ServeHTTP(rec, req)
		return rec
	}

	t.Run("owner can edit", func(t *testing.T) {
		stub := &stubProductService{owner: owner}
		rec := makeRequest(owner, stub)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.edited == nil || stub.edited.Name == nil || *stub.edited.Name != "Cream" {
			t.Fatalf("service saw %+v", stub.edited)
		}
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		stub := &stubProductService{owner: owner}
		rec := makeRequest(stranger, stub)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		if stub.edited != nil {
			t.Fatal("edit must not reach the service for a non-owner")
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		stub := &stubProductService{ownerErr: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
		rec := makeRequest(owner, stub)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestDeleteAndRestoreProduct(t *testing.T) {
	logg := testLogger()
	owner := uuid.New()
	productID := uuid.New()

	ctx := withPathParam(authedContext(owner), "productID", productID.String())

	stub := &stubProductService{owner: owner}
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/"+productID.String(), nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	DeleteProduct(stub, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}
	if !stub.deleted {
		t.Fatal("delete must reach the service")
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/products/"+productID.String()+"/restore", nil).WithContext(ctx)
	rec = httptest.NewRecorder()
	RestoreProduct(stub, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("restore: expected 200, got %d", rec.Code)
	}
	if !stub.restored {
		t.Fatal("restore must reach the service")
	}
}

func TestListProducts(t *testing.T) {
	logg := testLogger()

	t.Run("public list", func(t *testing.T) {
		stub := &stubProductService{listAll: []productsvc.ProductDTO{{ID: uuid.New(), Name: "Milk"}}}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		rec := httptest.NewRecorder()

		ListProducts(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		body := decodeEnvelope(t, rec)
		data, ok := body["data"].([]any)
		if !ok || len(data) != 1 {
			t.Fatalf("unexpected data: %s", rec.Body.String())
		}
	})

	t.Run("bad product_id filter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products?product_id=nope", nil)
		rec := httptest.NewRecorder()

		ListProducts(&stubProductService{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if code := errorCode(t, rec); code != string(pkgerrors.CodeValidation) {
			t.Fatalf("error code = %q", code)
		}
	})

	t.Run("storage failure maps to 503", func(t *testing.T) {
		stub := &stubProductService{listAllErr: pkgerrors.New(pkgerrors.CodeDependency, "db down")}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		rec := httptest.NewRecorder()

		ListProducts(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
	})
}
