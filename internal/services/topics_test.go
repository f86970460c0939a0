package services

import (
	"testing"

	"radar/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"AI Tools":        "ai-tools",
		"  Markets  ":     "markets",
		"Deep   Learning": "deep-learning",
		"media":           "media",
	}
	for name, want := range cases {
		assert.Equal(t, want, models.Slugify(name))
	}
}

func TestTopicsService_Create(t *testing.T) {
	db := setupTestDB(t)
	account := createTestAccount(t, db)
	service := NewTopicsService(db)

	t.Run("derives the slug from the name", func(t *testing.T) {
		topic, err := service.Create(account.ID, CreateTopicInput{Name: "AI Tools", Color: "#8b5cf6"})
		assert.NoError(t, err)
		assert.Equal(t, "ai-tools", topic.Slug)
	})

	t.Run("rejects a colliding slug", func(t *testing.T) {
		_, err := service.Create(account.ID, CreateTopicInput{Name: "ai   tools"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("same slug is fine in another account", func(t *testing.T) {
		other := createTestAccount(t, db)
		_, err := service.Create(other.ID, CreateTopicInput{Name: "AI Tools"})
		assert.NoError(t, err)
	})

	t.Run("requires a name", func(t *testing.T) {
		_, err := service.Create(account.ID, CreateTopicInput{})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestTopicsService_Update(t *testing.T) {
	db := setupTestDB(t)
	account := createTestAccount(t, db)
	service := NewTopicsService(db)

	topic, err := service.Create(account.ID, CreateTopicInput{Name: "Crypto"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("rename regenerates the slug", func(t *testing.T) {
		name := "Digital Assets"
		updated, err := service.Update(account.ID, topic.ID, UpdateTopicInput{Name: &name})
		assert.NoError(t, err)
		assert.Equal(t, "digital-assets", updated.Slug)
	})

	t.Run("rename back reproduces the original slug", func(t *testing.T) {
		name := "Crypto"
		updated, err := service.Update(account.ID, topic.ID, UpdateTopicInput{Name: &name})
		assert.NoError(t, err)
		assert.Equal(t, "crypto", updated.Slug)
	})

	t.Run("color changes without touching the slug", func(t *testing.T) {
		color := "#ff0000"
		updated, err := service.Update(account.ID, topic.ID, UpdateTopicInput{Color: &color})
		assert.NoError(t, err)
		assert.Equal(t, "#ff0000", updated.Color)
		assert.Equal(t, "crypto", updated.Slug)
	})

	t.Run("rename onto an existing slug is rejected", func(t *testing.T) {
		if _, err := service.Create(account.ID, CreateTopicInput{Name: "Energy"}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		name := "energy"
		_, err := service.Update(account.ID, topic.ID, UpdateTopicInput{Name: &name})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestTopicsService_List(t *testing.T) {
	db := setupTestDB(t)
	account := createTestAccount(t, db)
	service := NewTopicsService(db)

	for _, name := range []string{"Zebra", "Apple", "Mango"} {
		if _, err := service.Create(account.ID, CreateTopicInput{Name: name}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	topics, err := service.List(account.ID)
	assert.NoError(t, err)
	if assert.Len(t, topics, 3) {
		assert.Equal(t, "Apple", topics[0].Name)
		assert.Equal(t, "Mango", topics[1].Name)
		assert.Equal(t, "Zebra", topics[2].Name)
	}
}

func TestTopicsService_EnsureDefaults(t *testing.T) {
	db := setupTestDB(t)
	service := NewTopicsService(db)

	t.Run("seeds the default set for an empty account", func(t *testing.T) {
		account := createTestAccount(t, db)
		assert.NoError(t, service.EnsureDefaults(account.ID))

		topics, err := service.List(account.ID)
		assert.NoError(t, err)
		assert.Len(t, topics, 4)
		for _, topic := range topics {
			assert.True(t, topic.IsDefault)
			assert.NotEmpty(t, topic.Slug)
		}
	})

	t.Run("leaves existing topics alone", func(t *testing.T) {
		account := createTestAccount(t, db)
		if _, err := service.Create(account.ID, CreateTopicInput{Name: "Mine"}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		assert.NoError(t, service.EnsureDefaults(account.ID))

		topics, err := service.List(account.ID)
		assert.NoError(t, err)
		assert.Len(t, topics, 1)
	})
}
