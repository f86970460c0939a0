package models

import (
	"time"

	"github.com/google/uuid"
)

// WhatsHot statuses
const (
	WhatsHotStatusDraft     = "draft"
	WhatsHotStatusPublished = "published"
)

// WhatsHotPost is a published highlight: a snapshot of a content item at the
// moment it was promoted, optionally cross-posted to a social network.
type WhatsHotPost struct {
	ID             uuid.UUID  `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	AccountID      uuid.UUID  `json:"account_id" db:"account_id" gorm:"not null;index"`
	ContentItemID  uuid.UUID  `json:"content_item_id" db:"content_item_id" gorm:"not null;index"`
	Title          string     `json:"title" db:"title" gorm:"not null"`
	Summary        string     `json:"summary" db:"summary" gorm:"type:text"`
	URL            string     `json:"url" db:"url"`
	ThumbnailURL   string     `json:"thumbnail_url" db:"thumbnail_url"`
	TopicID        *uuid.UUID `json:"topic_id" db:"topic_id"`
	Status         string     `json:"status" db:"status" gorm:"default:'published'"`
	PublishedAt    *time.Time `json:"published_at" db:"published_at"`
	SocialPostID   string     `json:"social_post_id" db:"social_post_id"`
	SocialPostedAt *time.Time `json:"social_posted_at" db:"social_posted_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for the WhatsHotPost model
func (WhatsHotPost) TableName() string {
	return "whats_hot_posts"
}
