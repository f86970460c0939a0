package models

import (
	"time"

	"github.com/google/uuid"
)

// Invite statuses
const (
	InviteStatusPending   = "pending"
	InviteStatusAccepted  = "accepted"
	InviteStatusCancelled = "cancelled"
	InviteStatusExpired   = "expired"
)

// UserInvite is a time-boxed invitation token. Lifecycle:
// pending -> accepted | cancelled | expired.
type UserInvite struct {
	ID               uuid.UUID  `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	Email            string     `json:"email" db:"email" gorm:"not null;index"`
	Name             string     `json:"name" db:"name"`
	Token            string     `json:"-" db:"token" gorm:"uniqueIndex;not null"`
	TokenExpiresAt   time.Time  `json:"token_expires_at" db:"token_expires_at" gorm:"not null"`
	Status           string     `json:"status" db:"status" gorm:"default:'pending';index"`
	ReminderCount    int        `json:"reminder_count" db:"reminder_count" gorm:"default:0"`
	LastReminderAt   *time.Time `json:"last_reminder_at" db:"last_reminder_at"`
	InvitedByUserID  string     `json:"invited_by_user_id" db:"invited_by_user_id"`
	AcceptedAt       *time.Time `json:"accepted_at" db:"accepted_at"`
	AcceptedByUserID string     `json:"accepted_by_user_id" db:"accepted_by_user_id"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for the UserInvite model
func (UserInvite) TableName() string {
	return "user_invites"
}

// IsExpired reports whether the token deadline has passed, regardless of
// whether a sweep has flipped the stored status yet.
func (i *UserInvite) IsExpired(now time.Time) bool {
	return now.After(i.TokenExpiresAt)
}
