package services

import (
	"fmt"
	"log"

	"radar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TopicsService is the per-account registry of tagging categories. Slugs are
// derived from names and unique per account; a name whose slug collides with
// an existing topic is rejected rather than silently disambiguated.
type TopicsService struct {
	db *gorm.DB
}

// NewTopicsService creates a new topics service
func NewTopicsService(db *gorm.DB) *TopicsService {
	return &TopicsService{db: db}
}

// CreateTopicInput carries the fields accepted on topic creation.
type CreateTopicInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// UpdateTopicInput carries optional topic changes. Renaming regenerates the slug.
type UpdateTopicInput struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
	Icon  *string `json:"icon"`
}

// defaultTopics are seeded for an account that finishes onboarding with no
// topics of its own.
var defaultTopics = []models.Topic{
	{Name: "AI", Color: "#8b5cf6", Icon: "cpu", IsDefault: true},
	{Name: "Markets", Color: "#10b981", Icon: "trending-up", IsDefault: true},
	{Name: "Tech", Color: "#3b82f6", Icon: "monitor", IsDefault: true},
	{Name: "Media", Color: "#f59e0b", Icon: "film", IsDefault: true},
}

// List returns the account's topics in alphabetical order.
func (s *TopicsService) List(accountID uuid.UUID) ([]models.Topic, error) {
	var topics []models.Topic
	err := s.db.Where("account_id = ?", accountID).Order("name ASC").Find(&topics).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	return topics, nil
}

// Create inserts a topic with a slug derived from its name.
func (s *TopicsService) Create(accountID uuid.UUID, input CreateTopicInput) (*models.Topic, error) {
	if input.Name == "" {
		return nil, validationError("name is required")
	}

	topic := models.Topic{
		AccountID: accountID,
		Name:      input.Name,
		Slug:      models.Slugify(input.Name),
		Color:     input.Color,
		Icon:      input.Icon,
	}
	if err := s.db.Create(&topic).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, validationError("a topic with slug %q already exists", topic.Slug)
		}
		return nil, fmt.Errorf("failed to create topic: %w", err)
	}

	return &topic, nil
}

// Update applies changes to a topic. A name change regenerates the slug;
// color and icon are updatable independently.
func (s *TopicsService) Update(accountID, topicID uuid.UUID, input UpdateTopicInput) (*models.Topic, error) {
	var topic models.Topic
	err := s.db.Where("id = ? AND account_id = ?", topicID, accountID).First(&topic).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load topic: %w", err)
	}

	if input.Name != nil {
		topic.Name = *input.Name
		topic.Slug = models.Slugify(*input.Name)
	}
	if input.Color != nil {
		topic.Color = *input.Color
	}
	if input.Icon != nil {
		topic.Icon = *input.Icon
	}

	if err := s.db.Save(&topic).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, validationError("a topic with slug %q already exists", topic.Slug)
		}
		return nil, fmt.Errorf("failed to update topic: %w", err)
	}

	return &topic, nil
}

// Delete removes an account's topic.
func (s *TopicsService) Delete(accountID, topicID uuid.UUID) error {
	result := s.db.Where("id = ? AND account_id = ?", topicID, accountID).Delete(&models.Topic{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete topic: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindBySlug resolves a topic slug within an account.
func (s *TopicsService) FindBySlug(accountID uuid.UUID, slug string) (*models.Topic, error) {
	var topic models.Topic
	err := s.db.Where("account_id = ? AND slug = ?", accountID, slug).First(&topic).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find topic: %w", err)
	}
	return &topic, nil
}

// EnsureDefaults seeds the default topic set for accounts that have none.
// Called when onboarding completes.
func (s *TopicsService) EnsureDefaults(accountID uuid.UUID) error {
	var count int64
	if err := s.db.Model(&models.Topic{}).Where("account_id = ?", accountID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count topics: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, def := range defaultTopics {
		topic := def
		topic.AccountID = accountID
		topic.Slug = models.Slugify(topic.Name)
		if err := s.db.Create(&topic).Error; err != nil {
			return fmt.Errorf("failed to seed topic %s: %w", topic.Name, err)
		}
	}

	log.Printf("Seeded %d default topics for account %s", len(defaultTopics), accountID)
	return nil
}
