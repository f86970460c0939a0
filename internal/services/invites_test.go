package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"radar/internal/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func testInviteConfig() InviteConfig {
	return InviteConfig{
		TTL:              7 * 24 * time.Hour,
		MaxReminders:     3,
		ReminderInterval: 48 * time.Hour,
		AppBaseURL:       "https://radar.example.com",
	}
}

func newInvitesService(db *gorm.DB, m *fakeMailer, c *fakeConfirmer) *InvitesService {
	return NewInvitesService(db, m, c, testInviteConfig())
}

func TestInvitesService_Create(t *testing.T) {
	db := setupTestDB(t)
	sent := &fakeMailer{}
	service := newInvitesService(db, sent, &fakeConfirmer{})

	t.Run("requires an email", func(t *testing.T) {
		_, err := service.Create(context.Background(), "", "Nobody", "user_admin")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("issues a pending invite and emails the link", func(t *testing.T) {
		invite, err := service.Create(context.Background(), "new@example.com", "Newcomer", "user_admin")
		assert.NoError(t, err)
		assert.Equal(t, models.InviteStatusPending, invite.Status)
		assert.Len(t, invite.Token, 64)
		assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), invite.TokenExpiresAt, time.Minute)

		if assert.Len(t, sent.sent, 1) {
			assert.Equal(t, "new@example.com", sent.sent[0].To)
			assert.Contains(t, sent.sent[0].HTML, invite.Token)
		}
	})

	t.Run("a send failure keeps the invite", func(t *testing.T) {
		failing := &fakeMailer{failTo: map[string]bool{"bounce@example.com": true}}
		service := newInvitesService(db, failing, &fakeConfirmer{})

		invite, err := service.Create(context.Background(), "bounce@example.com", "", "user_admin")
		assert.NoError(t, err)

		var stored models.UserInvite
		assert.NoError(t, db.First(&stored, "id = ?", invite.ID).Error)
	})
}

func TestInvitesService_Accept(t *testing.T) {
	db := setupTestDB(t)
	confirmer := &fakeConfirmer{}
	service := newInvitesService(db, &fakeMailer{}, confirmer)
	now := time.Now()

	t.Run("happy path stamps acceptance and confirms the email", func(t *testing.T) {
		invite, err := service.Create(context.Background(), "accept@example.com", "", "user_admin")
		assert.NoError(t, err)

		accepted, err := service.MarkAccepted(context.Background(), invite.Token, "user_new", now)
		assert.NoError(t, err)
		assert.Equal(t, models.InviteStatusAccepted, accepted.Status)
		assert.Equal(t, "user_new", accepted.AcceptedByUserID)
		assert.NotNil(t, accepted.AcceptedAt)
		assert.Contains(t, confirmer.confirmed, "user_new")
	})

	t.Run("a token accepts exactly once", func(t *testing.T) {
		invite, err := service.Create(context.Background(), "once@example.com", "", "user_admin")
		assert.NoError(t, err)

		_, err = service.MarkAccepted(context.Background(), invite.Token, "user_first", now)
		assert.NoError(t, err)

		_, err = service.MarkAccepted(context.Background(), invite.Token, "user_second", now)
		assert.ErrorIs(t, err, ErrInviteAlreadyAccepted)

		var stored models.UserInvite
		db.First(&stored, "id = ?", invite.ID)
		assert.Equal(t, "user_first", stored.AcceptedByUserID)
	})

	t.Run("cancelled tokens are rejected", func(t *testing.T) {
		invite, err := service.Create(context.Background(), "cancel@example.com", "", "user_admin")
		assert.NoError(t, err)
		assert.NoError(t, service.Cancel(invite.ID.String()))

		_, err = service.MarkAccepted(context.Background(), invite.Token, "user_late", now)
		assert.ErrorIs(t, err, ErrInviteCancelled)
	})

	t.Run("a past-deadline token expires lazily, ahead of the sweep", func(t *testing.T) {
		invite, err := service.Create(context.Background(), "slow@example.com", "", "user_admin")
		assert.NoError(t, err)

		afterDeadline := invite.TokenExpiresAt.Add(time.Hour)
		_, err = service.ValidateToken(invite.Token, afterDeadline)
		assert.ErrorIs(t, err, ErrInviteExpired)

		var stored models.UserInvite
		db.First(&stored, "id = ?", invite.ID)
		assert.Equal(t, models.InviteStatusExpired, stored.Status)
	})

	t.Run("unknown token is a miss", func(t *testing.T) {
		_, err := service.ValidateToken("deadbeef", now)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("accepting requires a user id", func(t *testing.T) {
		invite, err := service.Create(context.Background(), "nouser@example.com", "", "user_admin")
		assert.NoError(t, err)

		_, err = service.MarkAccepted(context.Background(), invite.Token, "", now)
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestInvitesService_Cancel(t *testing.T) {
	db := setupTestDB(t)
	service := newInvitesService(db, &fakeMailer{}, &fakeConfirmer{})

	invite, err := service.Create(context.Background(), "target@example.com", "", "user_admin")
	assert.NoError(t, err)

	assert.NoError(t, service.Cancel(invite.ID.String()))
	assert.ErrorIs(t, service.Cancel(invite.ID.String()), ErrNotFound, "only pending invites can be cancelled")
}

func TestInvitesService_ExpireSweep(t *testing.T) {
	db := setupTestDB(t)
	service := newInvitesService(db, &fakeMailer{}, &fakeConfirmer{})

	stale, err := service.Create(context.Background(), "stale@example.com", "", "user_admin")
	assert.NoError(t, err)
	fresh, err := service.Create(context.Background(), "fresh@example.com", "", "user_admin")
	assert.NoError(t, err)

	// Rewind one invite's deadline into the past.
	db.Model(stale).Update("token_expires_at", time.Now().Add(-time.Hour))

	expired, err := service.ExpireSweep(time.Now())
	assert.NoError(t, err)
	assert.Equal(t, 1, expired)

	var staleStored models.UserInvite
	assert.NoError(t, db.First(&staleStored, "id = ?", stale.ID).Error)
	assert.Equal(t, models.InviteStatusExpired, staleStored.Status)

	var freshStored models.UserInvite
	assert.NoError(t, db.First(&freshStored, "id = ?", fresh.ID).Error)
	assert.Equal(t, models.InviteStatusPending, freshStored.Status)
}

func TestInvitesService_SendReminders(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()

	t.Run("reminds never-reminded invites immediately", func(t *testing.T) {
		sent := &fakeMailer{}
		service := newInvitesService(db, sent, &fakeConfirmer{})

		_, err := service.Create(context.Background(), "due@example.com", "Due", "user_admin")
		assert.NoError(t, err)
		sent.sent = nil // drop the initial invitation email

		result, err := service.SendReminders(context.Background(), now)
		assert.NoError(t, err)
		assert.Equal(t, 1, result.Processed)
		assert.Equal(t, 1, result.Sent)

		if assert.Len(t, sent.sent, 1) {
			assert.True(t, strings.HasPrefix(sent.sent[0].Subject, "Reminder 1:"))
		}

		var stored models.UserInvite
		db.First(&stored, "email = ?", "due@example.com")
		assert.Equal(t, 1, stored.ReminderCount)
		assert.NotNil(t, stored.LastReminderAt)
	})

	t.Run("skips invites inside the reminder interval", func(t *testing.T) {
		sent := &fakeMailer{}
		service := newInvitesService(db, sent, &fakeConfirmer{})

		invite, err := service.Create(context.Background(), "recent@example.com", "", "user_admin")
		assert.NoError(t, err)
		lastReminder := now.Add(-time.Hour)
		db.Model(invite).Updates(map[string]interface{}{
			"reminder_count":   1,
			"last_reminder_at": lastReminder,
		})
		sent.sent = nil

		result, err := service.SendReminders(context.Background(), now)
		assert.NoError(t, err)
		for _, email := range sent.sent {
			assert.NotEqual(t, "recent@example.com", email.To)
		}
		assert.NotNil(t, result)
	})

	t.Run("stops after the reminder budget", func(t *testing.T) {
		sent := &fakeMailer{}
		service := newInvitesService(db, sent, &fakeConfirmer{})

		invite, err := service.Create(context.Background(), "maxed@example.com", "", "user_admin")
		assert.NoError(t, err)
		db.Model(invite).Updates(map[string]interface{}{
			"reminder_count":   3,
			"last_reminder_at": now.Add(-30 * 24 * time.Hour),
		})
		sent.sent = nil

		_, err = service.SendReminders(context.Background(), now)
		assert.NoError(t, err)
		for _, email := range sent.sent {
			assert.NotEqual(t, "maxed@example.com", email.To)
		}
	})

	t.Run("one bad address does not stop the batch", func(t *testing.T) {
		db := setupTestDB(t)
		sent := &fakeMailer{failTo: map[string]bool{"broken@example.com": true}}
		service := newInvitesService(db, sent, &fakeConfirmer{})

		_, err := service.Create(context.Background(), "broken@example.com", "", "user_admin")
		assert.NoError(t, err)
		_, err = service.Create(context.Background(), "fine@example.com", "", "user_admin")
		assert.NoError(t, err)
		sent.sent = nil

		result, err := service.SendReminders(context.Background(), now)
		assert.NoError(t, err)
		assert.Equal(t, 2, result.Processed)
		assert.Equal(t, 1, result.Sent)
		if assert.Len(t, result.Errors, 1) {
			assert.Contains(t, result.Errors[0], "broken@example.com")
		}
	})
}
