package models

import (
	"time"

	"github.com/google/uuid"
)

// Membership roles and statuses
const (
	RoleOwner  = "owner"
	RoleMember = "member"

	MembershipStatusActive  = "active"
	MembershipStatusRemoved = "removed"
)

// UserAccount links an auth-provider user identity to an Account. At most one
// active membership per user is flagged primary; account resolution prefers it.
type UserAccount struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	UserID    string    `json:"user_id" db:"user_id" gorm:"not null;index;uniqueIndex:idx_user_accounts_user_account"`
	AccountID uuid.UUID `json:"account_id" db:"account_id" gorm:"not null;index;uniqueIndex:idx_user_accounts_user_account"`
	Role      string    `json:"role" db:"role" gorm:"default:'member'"`
	IsPrimary bool      `json:"is_primary" db:"is_primary" gorm:"default:false"`
	Status    string    `json:"status" db:"status" gorm:"default:'active'"`
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Account Account `json:"account,omitempty" gorm:"foreignKey:AccountID;references:ID"`
}

// TableName sets the table name for the UserAccount model
func (UserAccount) TableName() string {
	return "user_accounts"
}
