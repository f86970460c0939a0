package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"radar/internal/mailer"
	"radar/internal/models"

	"github.com/google/uuid"
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

func createTestAccount(t *testing.T, db *gorm.DB) *models.Account {
	account := &models.Account{
		Name:   "Test Account",
		Slug:   "test-" + uuid.NewString()[:8],
		Plan:   models.PlanFree,
		Status: models.AccountStatusActive,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}
	return account
}

func createTestItem(t *testing.T, db *gorm.DB, accountID uuid.UUID, title string) *models.ContentItem {
	now := time.Now()
	item := &models.ContentItem{
		AccountID:   accountID,
		Type:        models.ContentTypeArticle,
		Title:       title,
		ExternalID:  "test:" + uuid.NewString(),
		PublishedAt: &now,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("Failed to create test content item: %v", err)
	}
	return item
}

// fakeMailer records sent emails and can be told to fail for specific
// recipients.
type fakeMailer struct {
	sent   []mailer.Email
	failTo map[string]bool
}

func (m *fakeMailer) Send(ctx context.Context, email mailer.Email) (string, error) {
	if m.failTo[email.To] {
		return "", fmt.Errorf("smtp rejected %s", email.To)
	}
	m.sent = append(m.sent, email)
	return fmt.Sprintf("msg-%d", len(m.sent)), nil
}

// fakeConfirmer records which user ids had their email confirmed.
type fakeConfirmer struct {
	confirmed []string
}

func (c *fakeConfirmer) ConfirmEmail(ctx context.Context, userID string) error {
	c.confirmed = append(c.confirmed, userID)
	return nil
}

// fakeSocial records posted texts and can be forced to fail.
type fakeSocial struct {
	posts []string
	fail  bool
}

func (s *fakeSocial) Post(ctx context.Context, text string) (string, error) {
	if s.fail {
		return "", fmt.Errorf("social API unavailable")
	}
	s.posts = append(s.posts, text)
	return fmt.Sprintf("post-%d", len(s.posts)), nil
}
