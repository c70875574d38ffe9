package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog entry owned by exactly one user. The row is never
// physically removed: delete sets IsDeleted, and a later add with the same
// name for the same owner restores the row in place, keeping the id and the
// attached transaction history.
//
// Name uniqueness per owner is enforced by a partial unique index over
// (owner_id, name) WHERE NOT is_deleted; application-level checks are
// advisory only.
type Product struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID     uuid.UUID          `gorm:"column:owner_id;type:uuid;not null"`
	Name        string             `gorm:"column:name;type:varchar(50);not null"`
	Description *string            `gorm:"column:description"`
	MFD         *time.Time         `gorm:"column:mfd"`
	EXD         *time.Time         `gorm:"column:exd"`
	IsDeleted   bool               `gorm:"column:is_deleted;not null;default:false"`
	Owner       *User              `gorm:"foreignKey:OwnerID"`
	Transactions []StockTransaction `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
