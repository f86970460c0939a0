package digest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"radar/internal/insight"
	"radar/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func createItem(t *testing.T, db *gorm.DB, accountID uuid.UUID, title string, publishedAt time.Time) *models.ContentItem {
	item := &models.ContentItem{
		AccountID:   accountID,
		Type:        models.ContentTypeArticle,
		Title:       title,
		ExternalID:  "test:" + uuid.NewString(),
		PublishedAt: &publishedAt,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("Failed to create content item: %v", err)
	}
	return item
}

// fakeInsighter returns canned markdown, or an error when told to fail.
type fakeInsighter struct {
	markdown string
	fail     bool
}

func (f *fakeInsighter) Generate(ctx context.Context, items []insight.Item) (string, error) {
	if f.fail {
		return "", fmt.Errorf("completion API down")
	}
	return f.markdown, nil
}

func TestGenerator_Generate(t *testing.T) {
	now := time.Now()
	accountID := uuid.New()
	prefs := &models.UserPreferences{AccountID: accountID}

	t.Run("empty window yields a zero-count digest", func(t *testing.T) {
		db := setupTestDB(t)
		generator := NewGenerator(db, nil)

		digest, err := generator.Generate(context.Background(), accountID, prefs, CadenceMorning, now)
		assert.NoError(t, err)
		assert.Equal(t, 0, digest.ItemCount)
	})

	t.Run("morning window is 24 hours", func(t *testing.T) {
		db := setupTestDB(t)
		generator := NewGenerator(db, nil)

		createItem(t, db, accountID, "Inside the window", now.Add(-2*time.Hour))
		createItem(t, db, accountID, "Outside the window", now.Add(-30*time.Hour))

		digest, err := generator.Generate(context.Background(), accountID, prefs, CadenceMorning, now)
		assert.NoError(t, err)
		assert.Equal(t, 1, digest.ItemCount)
		assert.Contains(t, digest.HTML, "Inside the window")
		assert.NotContains(t, digest.HTML, "Outside the window")
	})

	t.Run("weekly window is 7 days", func(t *testing.T) {
		db := setupTestDB(t)
		generator := NewGenerator(db, nil)

		createItem(t, db, accountID, "Three days old", now.Add(-3*24*time.Hour))
		createItem(t, db, accountID, "Ten days old", now.Add(-10*24*time.Hour))

		digest, err := generator.Generate(context.Background(), accountID, prefs, CadenceWeekly, now)
		assert.NoError(t, err)
		assert.Equal(t, 1, digest.ItemCount)
		assert.Contains(t, digest.HTML, "Three days old")
	})

	t.Run("dismissed items stay out of the digest", func(t *testing.T) {
		db := setupTestDB(t)
		generator := NewGenerator(db, nil)

		createItem(t, db, accountID, "Kept story", now.Add(-time.Hour))
		dismissed := createItem(t, db, accountID, "Dismissed story", now.Add(-time.Hour))
		interaction := models.ContentInteraction{
			AccountID:     accountID,
			ContentItemID: dismissed.ID,
			IsDismissed:   true,
		}
		if err := db.Create(&interaction).Error; err != nil {
			t.Fatalf("Failed to create interaction: %v", err)
		}

		digest, err := generator.Generate(context.Background(), accountID, prefs, CadenceMorning, now)
		assert.NoError(t, err)
		assert.Equal(t, 1, digest.ItemCount)
		assert.NotContains(t, digest.HTML, "Dismissed story")
	})

	t.Run("topic preferences filter the selection", func(t *testing.T) {
		db := setupTestDB(t)
		generator := NewGenerator(db, nil)

		topic := models.Topic{AccountID: accountID, Name: "AI", Slug: "ai"}
		if err := db.Create(&topic).Error; err != nil {
			t.Fatalf("Failed to create topic: %v", err)
		}

		tagged := createItem(t, db, accountID, "AI story", now.Add(-time.Hour))
		db.Model(tagged).Update("topic_id", topic.ID)
		createItem(t, db, accountID, "Untagged story", now.Add(-time.Hour))

		filtered := &models.UserPreferences{
			AccountID:    accountID,
			DigestTopics: pq.StringArray{"ai"},
		}

		digest, err := generator.Generate(context.Background(), accountID, filtered, CadenceMorning, now)
		assert.NoError(t, err)
		assert.Equal(t, 1, digest.ItemCount)
		assert.Contains(t, digest.HTML, "AI story")
		assert.NotContains(t, digest.HTML, "Untagged story")
	})

	t.Run("insight markdown renders into the digest", func(t *testing.T) {
		db := setupTestDB(t)
		generator := NewGenerator(db, &fakeInsighter{markdown: "**Big** theme today"})

		createItem(t, db, accountID, "Some story", now.Add(-time.Hour))

		digest, err := generator.Generate(context.Background(), accountID, prefs, CadenceMorning, now)
		assert.NoError(t, err)
		assert.Contains(t, digest.HTML, "<strong>Big</strong>")
	})

	t.Run("insight failure degrades to a plain digest", func(t *testing.T) {
		db := setupTestDB(t)
		generator := NewGenerator(db, &fakeInsighter{fail: true})

		createItem(t, db, accountID, "Resilient story", now.Add(-time.Hour))

		digest, err := generator.Generate(context.Background(), accountID, prefs, CadenceMorning, now)
		assert.NoError(t, err)
		assert.Equal(t, 1, digest.ItemCount)
		assert.Contains(t, digest.HTML, "Resilient story")
	})

	t.Run("other accounts never leak into the digest", func(t *testing.T) {
		db := setupTestDB(t)
		generator := NewGenerator(db, nil)

		createItem(t, db, accountID, "Mine", now.Add(-time.Hour))
		createItem(t, db, uuid.New(), "Theirs", now.Add(-time.Hour))

		digest, err := generator.Generate(context.Background(), accountID, prefs, CadenceMorning, now)
		assert.NoError(t, err)
		assert.Equal(t, 1, digest.ItemCount)
		assert.NotContains(t, digest.HTML, "Theirs")
	})
}
