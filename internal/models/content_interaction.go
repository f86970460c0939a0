package models

import (
	"time"

	"github.com/google/uuid"
)

// ContentInteraction is the per-account annotation state on one content item.
// At most one row exists per (account_id, content_item_id); it is created
// lazily on first interaction and upserted on every toggle after that.
type ContentInteraction struct {
	ID            uuid.UUID  `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	AccountID     uuid.UUID  `json:"account_id" db:"account_id" gorm:"not null;index;uniqueIndex:idx_interactions_account_item"`
	ContentItemID uuid.UUID  `json:"content_item_id" db:"content_item_id" gorm:"not null;index;uniqueIndex:idx_interactions_account_item"`
	IsLiked       bool       `json:"is_liked" db:"is_liked" gorm:"default:false"`
	IsSaved       bool       `json:"is_saved" db:"is_saved" gorm:"default:false"`
	IsDismissed   bool       `json:"is_dismissed" db:"is_dismissed" gorm:"default:false"`
	Notes         string     `json:"notes" db:"notes" gorm:"type:text"`
	ReadAt        *time.Time `json:"read_at" db:"read_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for the ContentInteraction model
func (ContentInteraction) TableName() string {
	return "content_interactions"
}
