package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Topic is a user-defined tagging category with a color, icon, and a slug
// derived deterministically from the name.
type Topic struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	AccountID uuid.UUID `json:"account_id" db:"account_id" gorm:"not null;index;uniqueIndex:idx_topics_account_slug"`
	Name      string    `json:"name" db:"name" gorm:"not null"`
	Slug      string    `json:"slug" db:"slug" gorm:"not null;uniqueIndex:idx_topics_account_slug"`
	Color     string    `json:"color" db:"color"`
	Icon      string    `json:"icon" db:"icon"`
	IsDefault bool      `json:"is_default" db:"is_default" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for the Topic model
func (Topic) TableName() string {
	return "topics"
}

var slugSeparators = regexp.MustCompile(`\s+`)

// Slugify derives a topic slug from a display name: lowercase with whitespace
// runs collapsed to single hyphens. Deterministic, so renaming a topic back to
// its old name reproduces the old slug.
func Slugify(name string) string {
	return slugSeparators.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}
