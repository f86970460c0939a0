package services

import (
	"fmt"
	"log"

	"radar/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// PreferencesService manages per-account digest configuration. Preferences
// are created lazily: reads synthesize defaults until the first write.
type PreferencesService struct {
	db     *gorm.DB
	topics *TopicsService
}

// NewPreferencesService creates a new preferences service
func NewPreferencesService(db *gorm.DB, topics *TopicsService) *PreferencesService {
	return &PreferencesService{db: db, topics: topics}
}

// PreferencesView is the API shape of preferences, including the derived
// onboarding flag (never stored).
type PreferencesView struct {
	models.UserPreferences
	OnboardingComplete bool `json:"onboarding_complete"`
}

// UpdatePreferencesInput carries optional preference changes.
type UpdatePreferencesInput struct {
	DigestEnabled   *bool     `json:"digest_enabled"`
	DigestFrequency *string   `json:"digest_frequency"`
	DigestTime      *string   `json:"digest_time"`
	DigestTimezone  *string   `json:"digest_timezone"`
	DigestTopics    *[]string `json:"digest_topics"`
	EmailAddress    *string   `json:"email_address"`
}

// Get returns the account's preferences, synthesizing (without persisting)
// defaults when no row exists yet.
func (s *PreferencesService) Get(accountID uuid.UUID) (*PreferencesView, error) {
	var prefs models.UserPreferences
	err := s.db.Where("account_id = ?", accountID).First(&prefs).Error
	if err == gorm.ErrRecordNotFound {
		prefs = defaultPreferences(accountID)
	} else if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	return &PreferencesView{UserPreferences: prefs, OnboardingComplete: prefs.OnboardingComplete()}, nil
}

// Update upserts the account's preferences. Finishing onboarding (the first
// timezone write) seeds default topics for accounts that have none.
func (s *PreferencesService) Update(accountID uuid.UUID, input UpdatePreferencesInput) (*PreferencesView, error) {
	if input.DigestFrequency != nil {
		switch *input.DigestFrequency {
		case models.DigestFrequencyDaily, models.DigestFrequencyWeekly, models.DigestFrequencyBoth, models.DigestFrequencyNone:
		default:
			return nil, validationError("invalid digest_frequency %q", *input.DigestFrequency)
		}
	}

	var prefs models.UserPreferences
	err := s.db.Where("account_id = ?", accountID).First(&prefs).Error
	freshlyOnboarded := false
	if err == gorm.ErrRecordNotFound {
		prefs = defaultPreferences(accountID)
	} else if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	wasOnboarded := prefs.OnboardingComplete()

	if input.DigestEnabled != nil {
		prefs.DigestEnabled = *input.DigestEnabled
	}
	if input.DigestFrequency != nil {
		prefs.DigestFrequency = *input.DigestFrequency
	}
	if input.DigestTime != nil {
		prefs.DigestTime = *input.DigestTime
	}
	if input.DigestTimezone != nil {
		prefs.DigestTimezone = input.DigestTimezone
	}
	if input.DigestTopics != nil {
		prefs.DigestTopics = pq.StringArray(*input.DigestTopics)
	}
	if input.EmailAddress != nil {
		prefs.EmailAddress = *input.EmailAddress
	}

	if !wasOnboarded && prefs.OnboardingComplete() {
		freshlyOnboarded = true
	}

	if err := s.db.Save(&prefs).Error; err != nil {
		return nil, fmt.Errorf("failed to save preferences: %w", err)
	}

	if freshlyOnboarded {
		if err := s.topics.EnsureDefaults(accountID); err != nil {
			log.Printf("Failed to seed default topics for account %s: %v", accountID, err)
		}
	}

	return &PreferencesView{UserPreferences: prefs, OnboardingComplete: prefs.OnboardingComplete()}, nil
}

func defaultPreferences(accountID uuid.UUID) models.UserPreferences {
	return models.UserPreferences{
		AccountID:       accountID,
		DigestEnabled:   true,
		DigestFrequency: models.DigestFrequencyDaily,
		DigestTime:      "07:00",
	}
}
