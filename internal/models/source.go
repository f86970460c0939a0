package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Source types
const (
	SourceTypeRSS        = "rss"
	SourceTypeYouTube    = "youtube"
	SourceTypeTwitter    = "twitter"
	SourceTypePrediction = "prediction"
)

// Source is a monitored origin (RSS feed, YouTube channel, social handle,
// prediction-market feed) that produces content items for one account.
type Source struct {
	ID        uuid.UUID      `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	AccountID uuid.UUID      `json:"account_id" db:"account_id" gorm:"not null;index"`
	Type      string         `json:"type" db:"type" gorm:"not null"`
	Name      string         `json:"name" db:"name" gorm:"not null"`
	URL       string         `json:"url" db:"url" gorm:"not null"`
	ChannelID string         `json:"channel_id" db:"channel_id"`
	Username  string         `json:"username" db:"username"`
	TopicID   *uuid.UUID     `json:"topic_id" db:"topic_id" gorm:"index"`
	Metadata  datatypes.JSON `json:"metadata" db:"metadata"`
	IsActive  bool           `json:"is_active" db:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Topic *Topic `json:"topic,omitempty" gorm:"foreignKey:TopicID;references:ID"`
}

// TableName sets the table name for the Source model
func (Source) TableName() string {
	return "sources"
}
