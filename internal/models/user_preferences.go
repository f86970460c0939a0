package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Digest frequencies
const (
	DigestFrequencyDaily  = "daily"
	DigestFrequencyWeekly = "weekly"
	DigestFrequencyBoth   = "both"
	DigestFrequencyNone   = "none"
)

// UserPreferences holds one account's digest configuration. DigestTimezone is
// nil until onboarding finishes; onboarding completion is derived from it, not
// stored.
type UserPreferences struct {
	ID              uuid.UUID      `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	AccountID       uuid.UUID      `json:"account_id" db:"account_id" gorm:"not null;uniqueIndex"`
	DigestEnabled   bool           `json:"digest_enabled" db:"digest_enabled"`
	DigestFrequency string         `json:"digest_frequency" db:"digest_frequency" gorm:"default:'daily'"`
	DigestTime      string         `json:"digest_time" db:"digest_time" gorm:"default:'07:00'"`
	DigestTimezone  *string        `json:"digest_timezone" db:"digest_timezone"`
	DigestTopics    pq.StringArray `json:"digest_topics" db:"digest_topics" gorm:"type:text[]"`
	EmailAddress    string         `json:"email_address" db:"email_address"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for the UserPreferences model
func (UserPreferences) TableName() string {
	return "user_preferences"
}

// OnboardingComplete reports whether onboarding has finished for this account.
// True iff a digest timezone has been resolved.
func (p *UserPreferences) OnboardingComplete() bool {
	return p.DigestTimezone != nil
}

// WantsCadence reports whether this account's frequency matches a digest
// cadence ("morning"/"evening" map to daily, "weekly" to weekly).
func (p *UserPreferences) WantsCadence(cadence string) bool {
	if !p.DigestEnabled {
		return false
	}
	switch cadence {
	case "morning", "evening":
		return p.DigestFrequency == DigestFrequencyDaily || p.DigestFrequency == DigestFrequencyBoth
	case "weekly":
		return p.DigestFrequency == DigestFrequencyWeekly || p.DigestFrequency == DigestFrequencyBoth
	}
	return false
}
