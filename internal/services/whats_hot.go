package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"radar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SocialPoster publishes one text post and returns the provider post id.
type SocialPoster interface {
	Post(ctx context.Context, text string) (string, error)
}

// WhatsHotService promotes content items into published highlights and
// cross-posts them. The snapshot is taken at publish time so later edits or
// deletions of the item do not rewrite history.
type WhatsHotService struct {
	db     *gorm.DB
	social SocialPoster
}

// NewWhatsHotService creates a new what's hot service
func NewWhatsHotService(db *gorm.DB, social SocialPoster) *WhatsHotService {
	return &WhatsHotService{db: db, social: social}
}

// List returns the account's highlights, newest first.
func (s *WhatsHotService) List(accountID uuid.UUID) ([]models.WhatsHotPost, error) {
	var posts []models.WhatsHotPost
	err := s.db.Where("account_id = ?", accountID).Order("created_at DESC").Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list highlights: %w", err)
	}
	return posts, nil
}

// Publish snapshots a content item into a highlight and cross-posts it. A
// social API failure degrades to a highlight without an external post id.
func (s *WhatsHotService) Publish(ctx context.Context, accountID, contentItemID uuid.UUID) (*models.WhatsHotPost, error) {
	var item models.ContentItem
	err := s.db.Where("id = ? AND account_id = ?", contentItemID, accountID).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load content item: %w", err)
	}

	now := time.Now()
	post := models.WhatsHotPost{
		AccountID:     accountID,
		ContentItemID: item.ID,
		Title:         item.Title,
		Summary:       item.Summary,
		URL:           item.URL,
		ThumbnailURL:  item.ThumbnailURL,
		TopicID:       item.TopicID,
		Status:        models.WhatsHotStatusPublished,
		PublishedAt:   &now,
	}

	if s.social != nil {
		text := item.Title
		if item.URL != "" {
			text += " " + item.URL
		}
		postID, err := s.social.Post(ctx, text)
		if err != nil {
			log.Printf("Social cross-post failed for item %s: %v", item.ID, err)
		} else {
			post.SocialPostID = postID
			post.SocialPostedAt = &now
		}
	}

	if err := s.db.Create(&post).Error; err != nil {
		return nil, fmt.Errorf("failed to create highlight: %w", err)
	}

	return &post, nil
}
