package models

import (
	"time"

	"github.com/google/uuid"
)

// DigestHistory records one delivered digest email for an account.
type DigestHistory struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	AccountID    uuid.UUID `json:"account_id" db:"account_id" gorm:"not null;index"`
	Cadence      string    `json:"cadence" db:"cadence" gorm:"not null"`
	ItemCount    int       `json:"item_count" db:"item_count" gorm:"default:0"`
	EmailAddress string    `json:"email_address" db:"email_address"`
	MessageID    string    `json:"message_id" db:"message_id"`
	JobLogID     string    `json:"job_log_id" db:"job_log_id"`
	SentAt       time.Time `json:"sent_at" db:"sent_at"`
	CreatedAt    time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
}

// TableName sets the table name for the DigestHistory model
func (DigestHistory) TableName() string {
	return "digest_history"
}
