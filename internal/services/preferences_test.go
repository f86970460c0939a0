package services

import (
	"testing"

	"radar/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestPreferencesService_Get(t *testing.T) {
	db := setupTestDB(t)
	account := createTestAccount(t, db)
	service := NewPreferencesService(db, NewTopicsService(db))

	t.Run("synthesizes defaults before the first write", func(t *testing.T) {
		view, err := service.Get(account.ID)
		assert.NoError(t, err)
		assert.True(t, view.DigestEnabled)
		assert.Equal(t, models.DigestFrequencyDaily, view.DigestFrequency)
		assert.Equal(t, "07:00", view.DigestTime)
		assert.False(t, view.OnboardingComplete)

		// A read must not persist the defaults.
		var count int64
		db.Model(&models.UserPreferences{}).Where("account_id = ?", account.ID).Count(&count)
		assert.Equal(t, int64(0), count)
	})
}

func TestPreferencesService_Update(t *testing.T) {
	db := setupTestDB(t)
	topics := NewTopicsService(db)
	service := NewPreferencesService(db, topics)

	t.Run("rejects an invalid frequency", func(t *testing.T) {
		account := createTestAccount(t, db)
		freq := "hourly"
		_, err := service.Update(account.ID, UpdatePreferencesInput{DigestFrequency: &freq})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("digests can be switched off as the very first write", func(t *testing.T) {
		account := createTestAccount(t, db)
		off := false
		view, err := service.Update(account.ID, UpdatePreferencesInput{DigestEnabled: &off})
		assert.NoError(t, err)
		assert.False(t, view.DigestEnabled)

		var stored models.UserPreferences
		assert.NoError(t, db.First(&stored, "account_id = ?", account.ID).Error)
		assert.False(t, stored.DigestEnabled)
	})

	t.Run("first write persists the row", func(t *testing.T) {
		account := createTestAccount(t, db)
		email := "alerts@example.com"
		view, err := service.Update(account.ID, UpdatePreferencesInput{EmailAddress: &email})
		assert.NoError(t, err)
		assert.Equal(t, "alerts@example.com", view.EmailAddress)
		assert.False(t, view.OnboardingComplete)

		var count int64
		db.Model(&models.UserPreferences{}).Where("account_id = ?", account.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("onboarding completes when the timezone lands", func(t *testing.T) {
		account := createTestAccount(t, db)
		tz := "America/New_York"
		view, err := service.Update(account.ID, UpdatePreferencesInput{DigestTimezone: &tz})
		assert.NoError(t, err)
		assert.True(t, view.OnboardingComplete)
	})

	t.Run("finishing onboarding seeds default topics", func(t *testing.T) {
		account := createTestAccount(t, db)
		tz := "Europe/London"
		_, err := service.Update(account.ID, UpdatePreferencesInput{DigestTimezone: &tz})
		assert.NoError(t, err)

		seeded, err := topics.List(account.ID)
		assert.NoError(t, err)
		assert.Len(t, seeded, 4)
	})

	t.Run("existing topics survive onboarding", func(t *testing.T) {
		account := createTestAccount(t, db)
		if _, err := topics.Create(account.ID, CreateTopicInput{Name: "Handmade"}); err != nil {
			t.Fatalf("Topic create failed: %v", err)
		}

		tz := "UTC"
		_, err := service.Update(account.ID, UpdatePreferencesInput{DigestTimezone: &tz})
		assert.NoError(t, err)

		list, err := topics.List(account.ID)
		assert.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("a second timezone write does not reseed", func(t *testing.T) {
		account := createTestAccount(t, db)
		tz := "UTC"
		_, err := service.Update(account.ID, UpdatePreferencesInput{DigestTimezone: &tz})
		assert.NoError(t, err)

		list, _ := topics.List(account.ID)
		for _, topic := range list {
			assert.NoError(t, topics.Delete(account.ID, topic.ID))
		}

		tz2 := "America/Chicago"
		_, err = service.Update(account.ID, UpdatePreferencesInput{DigestTimezone: &tz2})
		assert.NoError(t, err)

		list, err = topics.List(account.ID)
		assert.NoError(t, err)
		assert.Empty(t, list, "already-onboarded accounts keep their topic choices")
	})

	t.Run("digest topic slugs round-trip", func(t *testing.T) {
		account := createTestAccount(t, db)
		selection := []string{"ai", "markets"}
		view, err := service.Update(account.ID, UpdatePreferencesInput{DigestTopics: &selection})
		assert.NoError(t, err)
		assert.Equal(t, []string{"ai", "markets"}, []string(view.DigestTopics))

		reloaded, err := service.Get(account.ID)
		assert.NoError(t, err)
		assert.Equal(t, []string{"ai", "markets"}, []string(reloaded.DigestTopics))
	})
}
