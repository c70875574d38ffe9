package ledger

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jirasak-dev/stockledger/pkg/db/models"
	"github.com/jirasak-dev/stockledger/pkg/errors"
	"github.com/jirasak-dev/stockledger/pkg/pagination"
)

type fakeRepo struct {
	created    []*models.StockTransaction
	createErr  error
	sums       map[uuid.UUID]int64
	sumErr     error
	listFilter *ListFilter
	listRows   []TransactionDTO
	listErr    error
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, txn *models.StockTransaction) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, txn)
	return nil
}

func (f *fakeRepo) SumQuantity(ctx context.Context, productID uuid.UUID) (int64, error) {
	if f.sumErr != nil {
		return 0, f.sumErr
	}
	return f.sums[productID], nil
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter) ([]TransactionDTO, error) {
	f.listFilter = &filter
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listRows, nil
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestAppendRecordsDelta(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo)
	productID := uuid.New()

	txn, err := svc.Append(context.Background(), AppendInput{
		ProductID: productID,
		Delta:     -7,
		Type:      TypeInitialize,
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if txn == nil {
		t.Fatal("expected a recorded transaction")
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 created row, got %d", len(repo.created))
	}
	if repo.created[0].ProductID != productID || repo.created[0].Quantity != -7 {
		t.Fatalf("unexpected row: %+v", repo.created[0])
	}
	if repo.created[0].Type != TypeInitialize {
		t.Fatalf("type = %q, want %q", repo.created[0].Type, TypeInitialize)
	}
}

func TestAppendZeroDeltaIsDropped(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo)

	txn, err := svc.Append(context.Background(), AppendInput{ProductID: uuid.New(), Delta: 0})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if txn != nil {
		t.Fatalf("zero delta must not produce a row, got %+v", txn)
	}
	if len(repo.created) != 0 {
		t.Fatalf("zero delta must not reach the repo, got %d rows", len(repo.created))
	}
}

func TestAppendDefaultsTypeTag(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo)

	if _, err := svc.Append(context.Background(), AppendInput{ProductID: uuid.New(), Delta: 3}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if got := repo.created[0].Type; got != TypeAdjust {
		t.Fatalf("type = %q, want %q", got, TypeAdjust)
	}
}

func TestAppendRequiresProductID(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})

	_, err := svc.Append(context.Background(), AppendInput{Delta: 1})
	if !errors.HasCode(err, errors.CodeValidation) {
		t.Fatalf("expected %s, got %v", errors.CodeValidation, err)
	}
}

func TestAppendWrapsRepoFailure(t *testing.T) {
	repo := &fakeRepo{createErr: fmt.Errorf("connection reset")}
	svc := newTestService(t, repo)

	_, err := svc.Append(context.Background(), AppendInput{ProductID: uuid.New(), Delta: 1})
	if !errors.HasCode(err, errors.CodeDependency) {
		t.Fatalf("expected %s, got %v", errors.CodeDependency, err)
	}
}

func TestCurrentQuantitySumsLedger(t *testing.T) {
	productID := uuid.New()
	repo := &fakeRepo{sums: map[uuid.UUID]int64{productID: 42}}
	svc := newTestService(t, repo)

	sum, err := svc.CurrentQuantity(context.Background(), productID)
	if err != nil {
		t.Fatalf("CurrentQuantity: %v", err)
	}
	if sum != 42 {
		t.Fatalf("sum = %d, want 42", sum)
	}

	// Unknown products sum to zero, not an error.
	sum, err = svc.CurrentQuantity(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("CurrentQuantity: %v", err)
	}
	if sum != 0 {
		t.Fatalf("sum = %d, want 0", sum)
	}
}

func TestListByOwnerFiltersByOwner(t *testing.T) {
	ownerID := uuid.New()
	productID := uuid.New()
	repo := &fakeRepo{listRows: []TransactionDTO{{ID: uuid.New(), ProductID: productID}}}
	svc := newTestService(t, repo)

	page, err := svc.ListByOwner(context.Background(), ownerID, &productID, pagination.Params{})
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("expected 1 row, got %d", len(page.Items))
	}
	if repo.listFilter == nil || repo.listFilter.OwnerID == nil || *repo.listFilter.OwnerID != ownerID {
		t.Fatalf("owner filter was not applied: %+v", repo.listFilter)
	}
	if repo.listFilter.ProductID == nil || *repo.listFilter.ProductID != productID {
		t.Fatalf("product filter was not applied: %+v", repo.listFilter)
	}
}

func TestListByOwnerRequiresOwnerID(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})

	_, err := svc.ListByOwner(context.Background(), uuid.Nil, nil, pagination.Params{})
	if !errors.HasCode(err, errors.CodeValidation) {
		t.Fatalf("expected %s, got %v", errors.CodeValidation, err)
	}
}

func TestListAllPassesProductFilterOnly(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo)

	if _, err := svc.ListAll(context.Background(), nil, pagination.Params{}); err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if repo.listFilter == nil || repo.listFilter.OwnerID != nil {
		t.Fatalf("list-all must not filter by owner: %+v", repo.listFilter)
	}
}

func TestListAllPaginates(t *testing.T) {
	rows := make([]TransactionDTO, 4)
	for i := range rows {
		rows[i] = TransactionDTO{ID: uuid.New(), ProductID: uuid.New()}
	}
	repo := &fakeRepo{listRows: rows}
	svc := newTestService(t, repo)

	page, err := svc.ListAll(context.Background(), nil, pagination.Params{Limit: 3})
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if repo.listFilter.Limit != 4 {
		t.Fatalf("repo limit = %d, want lookahead of 4", repo.listFilter.Limit)
	}
	if len(page.Items) != 3 {
		t.Fatalf("expected 3 rows on the page, got %d", len(page.Items))
	}
	if page.NextCursor == "" {
		t.Fatal("expected a next cursor when more rows exist")
	}

	cursor, err := pagination.ParseCursor(page.NextCursor)
	if err != nil {
		t.Fatalf("ParseCursor: %v", err)
	}
	if cursor.ID != page.Items[2].ID {
		t.Fatalf("cursor id = %s, want last returned row %s", cursor.ID, page.Items[2].ID)
	}

	// Exactly one page of rows means no cursor.
	repo.listRows = rows[:2]
	page, err = svc.ListAll(context.Background(), nil, pagination.Params{Limit: 3})
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(page.Items) != 2 || page.NextCursor != "" {
		t.Fatalf("expected 2 rows and no cursor, got %d rows, cursor %q", len(page.Items), page.NextCursor)
	}
}

func TestListAllRejectsBadCursor(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})

	_, err := svc.ListAll(context.Background(), nil, pagination.Params{Cursor: "not-a-cursor!!"})
	if !errors.HasCode(err, errors.CodeValidation) {
		t.Fatalf("expected %s, got %v", errors.CodeValidation, err)
	}
}
