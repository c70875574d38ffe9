package product

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jirasak-dev/stockledger/pkg/db/models"
)

// List reads return at most this many rows.
const listLimit = 100

// Repository defines persistence operations for products.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (*models.Product, error)
	FindLiveByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Save(ctx context.Context, p *models.Product) error
	SetDeleted(ctx context.Context, id uuid.UUID, deleted bool) error
	ListLive(ctx context.Context, productID *uuid.UUID) ([]models.Product, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, productID *uuid.UUID) ([]OwnedProductDTO, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// FindByID loads the product row regardless of its delete flag.
func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByOwnerAndName matches on the exact name for the owner, including
// soft-deleted rows. Deleted rows are what makes restore-in-place work.
func (r *repository) FindByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND name = ?", ownerID, name).
		Order("is_deleted ASC").
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindLiveByOwnerAndName matches only non-deleted rows.
func (r *repository) FindLiveByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND name = ? AND is_deleted = ?", ownerID, name, false).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) Create(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) Save(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *repository) SetDeleted(ctx context.Context, id uuid.UUID, deleted bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"is_deleted": deleted,
			"updated_at": time.Now().UTC(),
		}).Error
}

// ListLive returns non-deleted products, oldest first then by name.
func (r *repository) ListLive(ctx context.Context, productID *uuid.UUID) ([]models.Product, error) {
	q := r.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Order("created_at ASC").
		Order("name ASC").
		Limit(listLimit)
	if productID != nil {
		q = q.Where("id = ?", *productID)
	}

	var rows []models.Product
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByOwner returns the owner's live products with their derived
// quantity summed from the ledger.
func (r *repository) ListByOwner(ctx context.Context, ownerID uuid.UUID, productID *uuid.UUID) ([]OwnedProductDTO, error) {
	q := r.db.WithContext(ctx).
		Table("products AS p").
		Select("p.id, p.owner_id, p.name, p.description, p.mfd, p.exd, p.created_at, p.updated_at, " +
			"COALESCE((SELECT SUM(t.quantity) FROM stock_transactions t WHERE t.product_id = p.id), 0) AS quantity").
		Where("p.owner_id = ? AND p.is_deleted = ?", ownerID, false).
		Order("p.created_at ASC").
		Order("p.name ASC").
		Limit(listLimit)
	if productID != nil {
		q = q.Where("p.id = ?", *productID)
	}

	var rows []OwnedProductDTO
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
