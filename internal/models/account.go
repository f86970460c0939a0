package models

import (
	"time"

	"github.com/google/uuid"
)

// Account plans and statuses
const (
	PlanFree = "free"
	PlanPro  = "pro"

	AccountStatusActive    = "active"
	AccountStatusSuspended = "suspended"
)

// Account is the tenant boundary. Every content-bearing row carries exactly
// one account id and all queries are filtered by it.
type Account struct {
	ID              uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	Name            string    `json:"name" db:"name" gorm:"not null"`
	Slug            string    `json:"slug" db:"slug" gorm:"uniqueIndex;not null"`
	Plan            string    `json:"plan" db:"plan" gorm:"default:'free'"`
	Status          string    `json:"status" db:"status" gorm:"default:'active'"`
	CreatedByUserID string    `json:"created_by_user_id" db:"created_by_user_id" gorm:"index"`
	CreatedAt       time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Memberships []UserAccount `json:"memberships,omitempty" gorm:"foreignKey:AccountID"`
}

// TableName sets the table name for the Account model
func (Account) TableName() string {
	return "accounts"
}
