package services

import (
	"fmt"

	"radar/internal/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SourcesService is the per-account registry of monitored feeds and channels.
// Creation is capped at a configured maximum per account.
type SourcesService struct {
	db            *gorm.DB
	maxPerAccount int
	warnThreshold int
}

// NewSourcesService creates a new sources service
func NewSourcesService(db *gorm.DB, maxPerAccount, warnThreshold int) *SourcesService {
	return &SourcesService{
		db:            db,
		maxPerAccount: maxPerAccount,
		warnThreshold: warnThreshold,
	}
}

// SourceQuota describes an account's standing against the source cap.
type SourceQuota struct {
	Limit     int  `json:"limit"`
	Count     int  `json:"count"`
	NearLimit bool `json:"near_limit"`
	AtLimit   bool `json:"at_limit"`
}

// CreateSourceInput carries the fields accepted on source creation.
type CreateSourceInput struct {
	Name      string         `json:"name"`
	Type      string         `json:"type"`
	URL       string         `json:"url"`
	ChannelID string         `json:"channel_id"`
	Username  string         `json:"username"`
	TopicID   *uuid.UUID     `json:"topic_id"`
	Metadata  datatypes.JSON `json:"metadata"`
}

// UpdateSourceInput carries the whitelisted mutable fields. Nil pointers are
// left unchanged.
type UpdateSourceInput struct {
	Name      *string        `json:"name"`
	URL       *string        `json:"url"`
	ChannelID *string        `json:"channel_id"`
	Username  *string        `json:"username"`
	TopicID   *uuid.UUID     `json:"topic_id"`
	Metadata  datatypes.JSON `json:"metadata"`
}

// List returns the account's sources, newest first, with quota standing.
func (s *SourcesService) List(accountID uuid.UUID) ([]models.Source, *SourceQuota, error) {
	var sources []models.Source
	err := s.db.Where("account_id = ?", accountID).
		Preload("Topic").
		Order("created_at DESC").
		Find(&sources).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list sources: %w", err)
	}

	return sources, s.quota(len(sources)), nil
}

// Create validates the input, enforces the per-account cap, and inserts the
// source. At the cap the creation is rejected with the limit and the current
// count surfaced to the caller.
func (s *SourcesService) Create(accountID uuid.UUID, input CreateSourceInput) (*models.Source, error) {
	if input.Name == "" || input.Type == "" || input.URL == "" {
		return nil, validationError("name, type, and url are required")
	}

	var count int64
	if err := s.db.Model(&models.Source{}).Where("account_id = ?", accountID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count sources: %w", err)
	}
	if int(count) >= s.maxPerAccount {
		return nil, &QuotaExceededError{Limit: s.maxPerAccount, Count: int(count)}
	}

	source := models.Source{
		AccountID: accountID,
		Type:      input.Type,
		Name:      input.Name,
		URL:       input.URL,
		ChannelID: input.ChannelID,
		Username:  input.Username,
		TopicID:   input.TopicID,
		Metadata:  input.Metadata,
		IsActive:  true,
	}
	if err := s.db.Create(&source).Error; err != nil {
		return nil, fmt.Errorf("failed to create source: %w", err)
	}

	return &source, nil
}

// Update applies whitelisted field changes. Re-pointing the source at a new
// topic re-tags every content item currently attributed to it.
func (s *SourcesService) Update(accountID, sourceID uuid.UUID, input UpdateSourceInput) (*models.Source, error) {
	var source models.Source
	err := s.db.Where("id = ? AND account_id = ?", sourceID, accountID).First(&source).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load source: %w", err)
	}

	topicChanged := input.TopicID != nil && (source.TopicID == nil || *source.TopicID != *input.TopicID)

	if input.Name != nil {
		source.Name = *input.Name
	}
	if input.URL != nil {
		source.URL = *input.URL
	}
	if input.ChannelID != nil {
		source.ChannelID = *input.ChannelID
	}
	if input.Username != nil {
		source.Username = *input.Username
	}
	if input.TopicID != nil {
		source.TopicID = input.TopicID
	}
	if input.Metadata != nil {
		source.Metadata = input.Metadata
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&source).Error; err != nil {
			return err
		}
		if topicChanged {
			return tx.Model(&models.ContentItem{}).
				Where("account_id = ? AND source_id = ?", accountID, source.ID).
				Update("topic_id", source.TopicID).Error
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update source: %w", err)
	}

	return &source, nil
}

// Delete hard-deletes an account's source.
func (s *SourcesService) Delete(accountID, sourceID uuid.UUID) error {
	result := s.db.Where("id = ? AND account_id = ?", sourceID, accountID).Delete(&models.Source{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete source: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SourcesService) quota(count int) *SourceQuota {
	return &SourceQuota{
		Limit:     s.maxPerAccount,
		Count:     count,
		NearLimit: count >= s.warnThreshold && count < s.maxPerAccount,
		AtLimit:   count >= s.maxPerAccount,
	}
}
