package services

import (
	"context"
	"testing"

	"radar/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestWhatsHotService_Publish(t *testing.T) {
	db := setupTestDB(t)
	account := createTestAccount(t, db)

	t.Run("snapshots the item and cross-posts", func(t *testing.T) {
		social := &fakeSocial{}
		service := NewWhatsHotService(db, social)

		item := createTestItem(t, db, account.ID, "Hot take")
		db.Model(item).Update("url", "https://example.com/hot")

		post, err := service.Publish(context.Background(), account.ID, item.ID)
		assert.NoError(t, err)
		assert.Equal(t, "Hot take", post.Title)
		assert.Equal(t, models.WhatsHotStatusPublished, post.Status)
		assert.Equal(t, "post-1", post.SocialPostID)
		assert.NotNil(t, post.SocialPostedAt)

		if assert.Len(t, social.posts, 1) {
			assert.Equal(t, "Hot take https://example.com/hot", social.posts[0])
		}
	})

	t.Run("a social failure still publishes the highlight", func(t *testing.T) {
		service := NewWhatsHotService(db, &fakeSocial{fail: true})

		item := createTestItem(t, db, account.ID, "Unshared take")
		post, err := service.Publish(context.Background(), account.ID, item.ID)
		assert.NoError(t, err)
		assert.Empty(t, post.SocialPostID)
		assert.Nil(t, post.SocialPostedAt)
	})

	t.Run("the snapshot survives item deletion", func(t *testing.T) {
		service := NewWhatsHotService(db, &fakeSocial{})
		content := newContentService(db)

		item := createTestItem(t, db, account.ID, "Ephemeral take")
		post, err := service.Publish(context.Background(), account.ID, item.ID)
		assert.NoError(t, err)

		assert.NoError(t, content.Delete(account.ID, item.ID))

		var stored models.WhatsHotPost
		assert.NoError(t, db.First(&stored, "id = ?", post.ID).Error)
		assert.Equal(t, "Ephemeral take", stored.Title)
	})

	t.Run("scoped to the owning account", func(t *testing.T) {
		service := NewWhatsHotService(db, &fakeSocial{})

		other := createTestAccount(t, db)
		item := createTestItem(t, db, other.ID, "Foreign take")
		_, err := service.Publish(context.Background(), account.ID, item.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = service.Publish(context.Background(), account.ID, uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestWhatsHotService_List(t *testing.T) {
	db := setupTestDB(t)
	account := createTestAccount(t, db)
	service := NewWhatsHotService(db, &fakeSocial{})

	for _, title := range []string{"First", "Second"} {
		item := createTestItem(t, db, account.ID, title)
		if _, err := service.Publish(context.Background(), account.ID, item.ID); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}
	}

	other := createTestAccount(t, db)
	foreign := createTestItem(t, db, other.ID, "Foreign")
	if _, err := service.Publish(context.Background(), other.ID, foreign.ID); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	posts, err := service.List(account.ID)
	assert.NoError(t, err)
	assert.Len(t, posts, 2)
	for _, post := range posts {
		assert.Equal(t, account.ID, post.AccountID)
	}
}
