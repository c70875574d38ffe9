package models

import (
	"time"

	"github.com/google/uuid"
)

// UserClaim is one typed fact asserted about a user. Claims are copied
// into the token claim bag at login; the same claim type may appear with
// several values (multiple roles, for example).
type UserClaim struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:user_claims_user_type_value_idx"`
	Type      string    `gorm:"column:type;not null;uniqueIndex:user_claims_user_type_value_idx"`
	Value     string    `gorm:"column:value;not null;uniqueIndex:user_claims_user_type_value_idx"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
