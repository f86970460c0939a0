package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Content item types
const (
	ContentTypeArticle    = "article"
	ContentTypeVideo      = "video"
	ContentTypeTweet      = "tweet"
	ContentTypePrediction = "prediction"
)

// ContentItem is one aggregated unit of content (article, video, tweet, or
// prediction-market entry). (account_id, external_id) is unique and is the
// dedup key for ingestion.
type ContentItem struct {
	ID           uuid.UUID      `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	AccountID    uuid.UUID      `json:"account_id" db:"account_id" gorm:"not null;index;uniqueIndex:idx_content_items_account_external"`
	SourceID     *uuid.UUID     `json:"source_id" db:"source_id" gorm:"index"`
	TopicID      *uuid.UUID     `json:"topic_id" db:"topic_id" gorm:"index"`
	Type         string         `json:"type" db:"type" gorm:"not null"`
	Title        string         `json:"title" db:"title" gorm:"not null"`
	Summary      string         `json:"summary" db:"summary" gorm:"type:text"`
	Content      string         `json:"content" db:"content" gorm:"type:text"`
	URL          string         `json:"url" db:"url"`
	ThumbnailURL string         `json:"thumbnail_url" db:"thumbnail_url"`
	Author       string         `json:"author" db:"author"`
	PublishedAt  *time.Time     `json:"published_at" db:"published_at" gorm:"index"`
	ExternalID   string         `json:"external_id" db:"external_id" gorm:"not null;uniqueIndex:idx_content_items_account_external"`
	Metadata     datatypes.JSON `json:"metadata" db:"metadata"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Source      *Source             `json:"source,omitempty" gorm:"foreignKey:SourceID;references:ID"`
	Topic       *Topic              `json:"topic,omitempty" gorm:"foreignKey:TopicID;references:ID"`
	Interaction *ContentInteraction `json:"interaction,omitempty" gorm:"foreignKey:ContentItemID;references:ID"`
}

// TableName sets the table name for the ContentItem model
func (ContentItem) TableName() string {
	return "content_items"
}

// ItemMetadata is the typed view of the metadata blob. Fields are per content
// type: MarketEndDate for predictions, AISummary caches the generated digest
// summary for articles, tweet counters for tweets.
type ItemMetadata struct {
	AISummary     string     `json:"ai_summary,omitempty"`
	ExtractedAt   *time.Time `json:"extracted_at,omitempty"`
	MarketEndDate *time.Time `json:"market_end_date,omitempty"`
	MarketYesOdds float64    `json:"market_yes_odds,omitempty"`
	TweetLikes    int        `json:"tweet_likes,omitempty"`
	TweetRetweets int        `json:"tweet_retweets,omitempty"`
	DurationSecs  int        `json:"duration_secs,omitempty"`
}

// Meta decodes the metadata blob. A missing or malformed blob decodes to the
// zero value rather than failing the read path.
func (c *ContentItem) Meta() ItemMetadata {
	var meta ItemMetadata
	if len(c.Metadata) > 0 {
		_ = json.Unmarshal(c.Metadata, &meta)
	}
	return meta
}

// SetMeta encodes and stores the typed metadata back onto the item.
func (c *ContentItem) SetMeta(meta ItemMetadata) error {
	raw, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	c.Metadata = datatypes.JSON(raw)
	return nil
}

// IsExpired reports whether a prediction item's market has already ended.
// Non-prediction items never expire.
func (c *ContentItem) IsExpired(now time.Time) bool {
	if c.Type != ContentTypePrediction {
		return false
	}
	meta := c.Meta()
	return meta.MarketEndDate != nil && meta.MarketEndDate.Before(now)
}
