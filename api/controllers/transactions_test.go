package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	ledgersvc "github.com/jirasak-dev/stockledger/internal/ledger"
	productsvc "github.com/jirasak-dev/stockledger/internal/products"
	"github.com/jirasak-dev/stockledger/pkg/db/models"
	"github.com/jirasak-dev/stockledger/pkg/pagination"
)

type stubLedgerService struct {
	appended *ledgersvc.AppendInput
	rows     []ledgersvc.TransactionDTO
	ownerID  *uuid.UUID
	page     *pagination.Params
}

func (s *stubLedgerService) Append(ctx context.Context, input ledgersvc.AppendInput) (*models.StockTransaction, error) {
	s.appended = &input
	if input.Delta == 0 {
		return nil, nil
	}
	return &models.StockTransaction{ID: uuid.New(), ProductID: input.ProductID, Quantity: input.Delta}, nil
}

func (s *stubLedgerService) ListAll(ctx context.Context, productID *uuid.UUID, page pagination.Params) (*ledgersvc.TransactionPage, error) {
	s.page = &page
	return &ledgersvc.TransactionPage{Items: s.rows}, nil
}

func (s *stubLedgerService) ListByOwner(ctx context.Context, ownerID uuid.UUID, productID *uuid.UUID, page pagination.Params) (*ledgersvc.TransactionPage, error) {
	s.ownerID = &ownerID
	s.page = &page
	return &ledgersvc.TransactionPage{Items: s.rows}, nil
}

func TestCreateTransaction(t *testing.T) {
	logg := testLogger()
	owner := uuid.New()
	productID := uuid.New()

	liveProduct := &productsvc.ProductDTO{ID: productID, OwnerID: owner, Name: "Milk"}

	makeRequest := func(actingID uuid.UUID, body string, products *stubProductService, ledger *stubLedgerService) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", bytes.NewBufferString(body)).
			WithContext(authedContext(actingID))
		rec := httptest.NewRecorder()
		CreateTransaction(ledger, products, logg).ServeHTTP(rec, req)
		return rec
	}

	t.Run("owner appends delta", func(t *testing.T) {
		ledger := &stubLedgerService{}
		rec := makeRequest(owner, `{"product_id":"`+productID.String()+`","quantity":-3}`,
			&stubProductService{owner: owner, product: liveProduct}, ledger)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if ledger.appended == nil || ledger.appended.Delta != -3 {
			t.Fatalf("ledger saw %+v", ledger.appended)
		}
	})

	t.Run("zero delta succeeds without a row", func(t *testing.T) {
		ledger := &stubLedgerService{}
		rec := makeRequest(owner, `{"product_id":"`+productID.String()+`","quantity":0}`,
			&stubProductService{owner: owner, product: liveProduct}, ledger)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("type tag is sanitized", func(t *testing.T) {
		ledger := &stubLedgerService{}
		rec := makeRequest(owner, `{"product_id":"`+productID.String()+`","quantity":2,"type":"  Adjust\u0000 quantity  "}`,
			&stubProductService{owner: owner, product: liveProduct}, ledger)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if ledger.appended == nil || ledger.appended.Type != "Adjust quantity" {
			t.Fatalf("ledger saw type %+v", ledger.appended)
		}
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		ledger := &stubLedgerService{}
		rec := makeRequest(uuid.New(), `{"product_id":"`+productID.String()+`","quantity":1}`,
			&stubProductService{owner: owner, product: liveProduct}, ledger)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		if ledger.appended != nil {
			t.Fatal("append must not reach the ledger for a non-owner")
		}
	})

	t.Run("deleted product reads as not found", func(t *testing.T) {
		rec := makeRequest(owner, `{"product_id":"`+productID.String()+`","quantity":1}`,
			&stubProductService{owner: owner, product: nil}, &stubLedgerService{})

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("invalid product id", func(t *testing.T) {
		rec := makeRequest(owner, `{"product_id":"nope","quantity":1}`,
			&stubProductService{owner: owner, product: liveProduct}, &stubLedgerService{})

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestListMyTransactionsUsesActingUser(t *testing.T) {
	logg := testLogger()
	owner := uuid.New()
	ledger := &stubLedgerService{rows: []ledgersvc.TransactionDTO{{ID: uuid.New()}}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/mine", nil).
		WithContext(authedContext(owner))
	rec := httptest.NewRecorder()
	ListMyTransactions(ledger, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ledger.ownerID == nil || *ledger.ownerID != owner {
		t.Fatalf("ledger filtered by %v, want %s", ledger.ownerID, owner)
	}
}

func TestListTransactionsPassesPageParams(t *testing.T) {
	logg := testLogger()
	ledger := &stubLedgerService{}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions?limit=10&cursor=abc", nil)
	rec := httptest.NewRecorder()
	ListTransactions(ledger, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ledger.page == nil || ledger.page.Limit != 10 || ledger.page.Cursor != "abc" {
		t.Fatalf("page params = %+v", ledger.page)
	}
}

func TestListTransactionsRejectsBadLimit(t *testing.T) {
	logg := testLogger()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions?limit=ten", nil)
	rec := httptest.NewRecorder()
	ListTransactions(&stubLedgerService{}, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListMyTransactionsRequiresUserContext(t *testing.T) {
	logg := testLogger()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/mine", nil)
	rec := httptest.NewRecorder()
	ListMyTransactions(&stubLedgerService{}, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
