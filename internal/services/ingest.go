package services

import (
	"fmt"
	"time"

	"radar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IngestService accepts externally-sourced content and deduplicates it into
// the content store on (account_id, external_id).
type IngestService struct {
	db *gorm.DB
}

// NewIngestService creates a new ingest service
func NewIngestService(db *gorm.DB) *IngestService {
	return &IngestService{db: db}
}

// Tweet is one inbound tweet from the ingestion webhook.
type Tweet struct {
	ID             string     `json:"id"`
	Text           string     `json:"text"`
	URL            string     `json:"url"`
	AuthorName     string     `json:"author_name"`
	AuthorUsername string     `json:"author_username"`
	ThumbnailURL   string     `json:"thumbnail_url"`
	CreatedAt      *time.Time `json:"created_at"`
	Likes          int        `json:"likes"`
	Retweets       int        `json:"retweets"`
}

// IngestResult summarizes one ingestion batch.
type IngestResult struct {
	Inserted int      `json:"inserted"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// IngestTweets inserts a batch of tweets for an account. Re-ingesting a tweet
// id the account already has counts as skipped, not inserted; a malformed
// tweet lands in the error list without aborting its siblings.
func (s *IngestService) IngestTweets(accountID uuid.UUID, tweets []Tweet, topicID, sourceID *uuid.UUID) (*IngestResult, error) {
	result := &IngestResult{Errors: []string{}}

	for _, tweet := range tweets {
		if tweet.ID == "" || tweet.Text == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("tweet missing id or text (id=%q)", tweet.ID))
			continue
		}

		item := models.ContentItem{
			AccountID:    accountID,
			SourceID:     sourceID,
			TopicID:      topicID,
			Type:         models.ContentTypeTweet,
			Title:        tweetTitle(tweet),
			Summary:      tweet.Text,
			URL:          tweet.URL,
			ThumbnailURL: tweet.ThumbnailURL,
			Author:       tweet.AuthorUsername,
			PublishedAt:  tweet.CreatedAt,
			ExternalID:   "twitter:" + tweet.ID,
		}
		if err := item.SetMeta(models.ItemMetadata{
			TweetLikes:    tweet.Likes,
			TweetRetweets: tweet.Retweets,
		}); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("tweet %s: %v", tweet.ID, err))
			continue
		}

		err := s.db.Create(&item).Error
		switch {
		case err == nil:
			result.Inserted++
		case isDuplicateKey(err):
			result.Skipped++
		default:
			result.Errors = append(result.Errors, fmt.Sprintf("tweet %s: %v", tweet.ID, err))
		}
	}

	return result, nil
}

// InsertItem dedup-inserts a single content item (used by the RSS fetcher).
// Returns true when a new row was created.
func (s *IngestService) InsertItem(item *models.ContentItem) (bool, error) {
	err := s.db.Create(item).Error
	if err == nil {
		return true, nil
	}
	if isDuplicateKey(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to insert content item: %w", err)
}

func tweetTitle(tweet Tweet) string {
	title := tweet.Text
	if len(title) > 80 {
		title = title[:77] + "..."
	}
	if tweet.AuthorUsername != "" {
		return "@" + tweet.AuthorUsername + ": " + title
	}
	return title
}
