package product

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jirasak-dev/stockledger/internal/ledger"
	"github.com/jirasak-dev/stockledger/pkg/db/models"
	"github.com/jirasak-dev/stockledger/pkg/errors"
)

const maxNameLength = 50

// TxRunner executes a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ListCache is the read-through cache for the unfiltered catalog list.
type ListCache interface {
	Get(ctx context.Context) ([]byte, bool)
	Set(ctx context.Context, payload []byte) error
}

// OwnerResolver confirms the owning user exists before a product is
// written for them. users.Repository satisfies it.
type OwnerResolver interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service implements the product lifecycle: create with restore-in-place,
// partial edit, idempotent soft delete, restore, and the read paths.
type Service struct {
	repo   Repository
	owners OwnerResolver
	ledger ledger.Service
	tx     TxRunner
	cache  ListCache
}

// NewService wires the product service. The cache is optional; when nil
// every list-all read goes to the database.
func NewService(repo Repository, owners OwnerResolver, ledgerSvc ledger.Service, tx TxRunner, cache ListCache) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if owners == nil {
		return nil, fmt.Errorf("owner resolver required")
	}
	if ledgerSvc == nil {
		return nil, fmt.Errorf("ledger service required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &Service{repo: repo, owners: owners, ledger: ledgerSvc, tx: tx, cache: cache}, nil
}

// Add creates a product for the owner. Names are trimmed before any
// comparison. When a soft-deleted row holds the same name it is restored
// in place: the row keeps its id and its ledger history, and the incoming
// fields overwrite the old ones. A live row with the same name is a
// conflict. A non-zero initial quantity seeds the ledger in the same
// transaction.
func (s *Service) Add(ctx context.Context, ownerID uuid.UUID, input AddProductInput) (*ProductDTO, error) {
	if ownerID == uuid.Nil {
		return nil, errors.New(errors.CodeValidation, "owner id is required")
	}
	name, err := normalizeName(input.Name)
	if err != nil {
		return nil, err
	}

	// The owner must exist before any product work happens for them.
	if _, err := s.owners.FindByID(ctx, ownerID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeUserNotFound, "user not found")
		}
		return nil, errors.Wrap(errors.CodeDependency, err, "resolving owner")
	}

	var result *models.Product
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.FindByOwnerAndName(ctx, ownerID, name)
		switch {
		case err == nil && !existing.IsDeleted:
			return errors.New(errors.CodeDuplicateName, fmt.Sprintf("product %q already exists", name)).
				WithDetails(map[string]string{"name": name})

		case err == nil:
			// Restore in place: same row id, history intact.
			existing.Name = name
			existing.Description = input.Description
			existing.MFD = input.MFD
			existing.EXD = input.EXD
			existing.IsDeleted = false
			if err := repo.Save(ctx, existing); err != nil {
				return classifyWrite(err, "restoring product")
			}
			result = existing

		case stderrors.Is(err, gorm.ErrRecordNotFound):
			created := &models.Product{
				OwnerID:     ownerID,
				Name:        name,
				Description: input.Description,
				MFD:         input.MFD,
				EXD:         input.EXD,
			}
			if err := repo.Create(ctx, created); err != nil {
				return classifyWrite(err, "creating product")
			}
			result = created

		default:
			return errors.Wrap(errors.CodeDependency, err, "looking up product by name")
		}

		if input.InitialQuantity != 0 {
			_, err := s.ledger.WithTx(tx).Append(ctx, ledger.AppendInput{
				ProductID: result.ID,
				Delta:     input.InitialQuantity,
				Type:      ledger.TypeInitialize,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if typed := errors.As(err); typed != nil {
			return nil, typed
		}
		return nil, classifyWrite(err, "adding product")
	}
	return FromModel(result), nil
}

// Edit applies a partial update. Nil fields stay unchanged. A rename
// re-checks name uniqueness against live rows, excluding the product
// itself so saving an unchanged name is not a self-collision.
func (s *Service) Edit(ctx context.Context, productID uuid.UUID, input EditProductInput) (*ProductDTO, error) {
	if productID == uuid.Nil {
		return nil, errors.New(errors.CodeValidation, "product id is required")
	}

	var result *models.Product
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		p, err := repo.FindByID(ctx, productID)
		if err != nil {
			return classifyRead(err, "loading product")
		}
		if p.IsDeleted {
			return errors.New(errors.CodeNotFound, "product not found")
		}

		if input.Name != nil {
			name, err := normalizeName(*input.Name)
			if err != nil {
				return err
			}
			if name != p.Name {
				other, err := repo.FindLiveByOwnerAndName(ctx, p.OwnerID, name)
				switch {
				case err == nil && other.ID != p.ID:
					return errors.New(errors.CodeDuplicateName, fmt.Sprintf("product %q already exists", name)).
						WithDetails(map[string]string{"name": name})
				case err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound):
					return errors.Wrap(errors.CodeDependency, err, "checking name uniqueness")
				}
			}
			p.Name = name
		}
		if input.Description != nil {
			p.Description = input.Description
		}
		if input.MFD != nil {
			p.MFD = input.MFD
		}
		if input.EXD != nil {
			p.EXD = input.EXD
		}

		if err := repo.Save(ctx, p); err != nil {
			return classifyWrite(err, "saving product")
		}
		result = p
		return nil
	})
	if err != nil {
		if typed := errors.As(err); typed != nil {
			return nil, typed
		}
		return nil, classifyWrite(err, "editing product")
	}
	return FromModel(result), nil
}

// SoftDelete marks the product deleted. Deleting an already-deleted
// product succeeds without touching the row.
func (s *Service) SoftDelete(ctx context.Context, productID uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return classifyRead(err, "loading product")
	}
	if p.IsDeleted {
		return nil
	}
	if err := s.repo.SetDeleted(ctx, productID, true); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "soft-deleting product")
	}
	return nil
}

// Restore clears the delete flag. The restored name is not re-checked for
// uniqueness; the partial index only guards live rows, so restoring into a
// name that was since taken surfaces as a constraint violation.
func (s *Service) Restore(ctx context.Context, productID uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return classifyRead(err, "loading product")
	}
	if !p.IsDeleted {
		return nil
	}
	if err := s.repo.SetDeleted(ctx, productID, false); err != nil {
		return classifyWrite(err, "restoring product")
	}
	return nil
}

// FindByID returns a live product. Soft-deleted rows read as not found.
func (s *Service) FindByID(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	p, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, classifyRead(err, "loading product")
	}
	if p.IsDeleted {
		return nil, errors.New(errors.CodeNotFound, "product not found")
	}
	return FromModel(p), nil
}

// OwnerOf reports the owning user for guard checks. It sees soft-deleted
// rows so that delete and restore can be authorized.
func (s *Service) OwnerOf(ctx context.Context, productID uuid.UUID) (uuid.UUID, error) {
	p, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return uuid.Nil, classifyRead(err, "loading product")
	}
	return p.OwnerID, nil
}

// ListAll returns the public catalog. The unfiltered read goes through
// the cache; a filtered read always hits the database.
func (s *Service) ListAll(ctx context.Context, productID *uuid.UUID) ([]ProductDTO, error) {
	if productID == nil && s.cache != nil {
		if payload, ok := s.cache.Get(ctx); ok {
			var cached []ProductDTO
			if err := json.Unmarshal(payload, &cached); err == nil {
				return cached, nil
			}
		}
	}

	rows, err := s.repo.ListLive(ctx, productID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "listing products")
	}

	dtos := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}

	if productID == nil && s.cache != nil {
		if payload, err := json.Marshal(dtos); err == nil {
			// Best effort: a failed cache write never fails the read.
			_ = s.cache.Set(ctx, payload)
		}
	}
	return dtos, nil
}

// ListByOwner returns the owner's live products with derived quantities.
func (s *Service) ListByOwner(ctx context.Context, ownerID uuid.UUID, productID *uuid.UUID) ([]OwnedProductDTO, error) {
	if ownerID == uuid.Nil {
		return nil, errors.New(errors.CodeValidation, "owner id is required")
	}
	rows, err := s.repo.ListByOwner(ctx, ownerID, productID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "listing owned products")
	}
	return rows, nil
}

func normalizeName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", errors.New(errors.CodeValidation, "product name is required")
	}
	if len(name) > maxNameLength {
		return "", errors.New(errors.CodeValidation,
			fmt.Sprintf("product name exceeds %d characters", maxNameLength))
	}
	return name, nil
}

func classifyWrite(err error, msg string) error {
	if errors.IsUniqueViolation(err) {
		return errors.Wrap(errors.CodeDuplicateName, err, "product name already in use")
	}
	return errors.Wrap(errors.CodeDependency, err, msg)
}

func classifyRead(err error, msg string) error {
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return errors.New(errors.CodeNotFound, "product not found")
	}
	return errors.Wrap(errors.CodeDependency, err, msg)
}
