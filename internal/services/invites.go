package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"radar/internal/mailer"
	"radar/internal/models"

	"gorm.io/gorm"
)

// Mailer sends one email and returns the provider message id.
type Mailer interface {
	Send(ctx context.Context, email mailer.Email) (string, error)
}

// EmailConfirmer marks an auth-provider user's email as verified. Arriving
// via a trusted invite link bypasses the normal verification email.
type EmailConfirmer interface {
	ConfirmEmail(ctx context.Context, userID string) error
}

// InviteConfig tunes the invite lifecycle.
type InviteConfig struct {
	TTL              time.Duration
	MaxReminders     int
	ReminderInterval time.Duration
	AppBaseURL       string
}

// InvitesService runs the token-based invitation flow:
// pending -> accepted | cancelled | expired.
type InvitesService struct {
	db        *gorm.DB
	mailer    Mailer
	confirmer EmailConfirmer
	config    InviteConfig
}

// NewInvitesService creates a new invites service
func NewInvitesService(db *gorm.DB, m Mailer, confirmer EmailConfirmer, config InviteConfig) *InvitesService {
	return &InvitesService{db: db, mailer: m, confirmer: confirmer, config: config}
}

// Create issues a pending invite with an unguessable token and sends the
// invitation email. A send failure does not undo the invite; the reminder
// job retries delivery.
func (s *InvitesService) Create(ctx context.Context, email, name, invitedByUserID string) (*models.UserInvite, error) {
	if email == "" {
		return nil, validationError("email is required")
	}

	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invite token: %w", err)
	}

	invite := models.UserInvite{
		Email:           email,
		Name:            name,
		Token:           token,
		TokenExpiresAt:  time.Now().Add(s.config.TTL),
		Status:          models.InviteStatusPending,
		InvitedByUserID: invitedByUserID,
	}
	if err := s.db.Create(&invite).Error; err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}

	if _, err := s.mailer.Send(ctx, s.inviteEmail(&invite, 0)); err != nil {
		log.Printf("Failed to send invite email to %s: %v", invite.Email, err)
	}

	return &invite, nil
}

// Cancel moves a pending invite to cancelled.
func (s *InvitesService) Cancel(inviteID string) error {
	result := s.db.Model(&models.UserInvite{}).
		Where("id = ? AND status = ?", inviteID, models.InviteStatusPending).
		Update("status", models.InviteStatusCancelled)
	if result.Error != nil {
		return fmt.Errorf("failed to cancel invite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ValidateToken is step one of acceptance: it checks a token presented at the
// public accept entry point. Past-deadline tokens are marked expired lazily,
// without waiting for the sweep.
func (s *InvitesService) ValidateToken(token string, now time.Time) (*models.UserInvite, error) {
	if token == "" {
		return nil, validationError("token is required")
	}

	var invite models.UserInvite
	err := s.db.Where("token = ?", token).First(&invite).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up invite: %w", err)
	}

	switch invite.Status {
	case models.InviteStatusAccepted:
		return &invite, ErrInviteAlreadyAccepted
	case models.InviteStatusCancelled:
		return &invite, ErrInviteCancelled
	case models.InviteStatusExpired:
		return &invite, ErrInviteExpired
	}

	if invite.IsExpired(now) {
		if err := s.db.Model(&invite).Update("status", models.InviteStatusExpired).Error; err != nil {
			log.Printf("Failed to mark invite %s expired: %v", invite.ID, err)
		}
		invite.Status = models.InviteStatusExpired
		return &invite, ErrInviteExpired
	}

	return &invite, nil
}

// MarkAccepted is step two: after the invited user's account exists, the
// invite is stamped accepted and the new user's email is auto-confirmed. A
// token can only be accepted once.
func (s *InvitesService) MarkAccepted(ctx context.Context, token, userID string, now time.Time) (*models.UserInvite, error) {
	invite, err := s.ValidateToken(token, now)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, validationError("userId is required")
	}

	updates := map[string]interface{}{
		"status":              models.InviteStatusAccepted,
		"accepted_at":         now,
		"accepted_by_user_id": userID,
	}
	// Guard on pending status so a concurrent second accept loses.
	result := s.db.Model(&models.UserInvite{}).
		Where("id = ? AND status = ?", invite.ID, models.InviteStatusPending).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to accept invite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrInviteAlreadyAccepted
	}

	invite.Status = models.InviteStatusAccepted
	invite.AcceptedAt = &now
	invite.AcceptedByUserID = userID

	if s.confirmer != nil {
		if err := s.confirmer.ConfirmEmail(ctx, userID); err != nil {
			log.Printf("Failed to auto-confirm email for user %s: %v", userID, err)
		}
	}

	return invite, nil
}

// ExpireSweep flips pending invites whose deadline has passed to expired and
// returns the number of rows affected.
func (s *InvitesService) ExpireSweep(now time.Time) (int, error) {
	result := s.db.Model(&models.UserInvite{}).
		Where("status = ? AND token_expires_at < ?", models.InviteStatusPending, now).
		Update("status", models.InviteStatusExpired)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to expire invites: %w", result.Error)
	}
	return int(result.RowsAffected), nil
}

// ReminderBatchResult summarizes one reminder run.
type ReminderBatchResult struct {
	Processed int      `json:"processed"`
	Sent      int      `json:"sent"`
	Errors    []string `json:"errors"`
}

// SendReminders emails every pending, unexpired invite that is due: never
// reminded means due immediately, otherwise due once the reminder interval
// has elapsed. Each invite fails independently; one bad address does not
// stop the batch.
func (s *InvitesService) SendReminders(ctx context.Context, now time.Time) (*ReminderBatchResult, error) {
	var invites []models.UserInvite
	err := s.db.Where("status = ? AND token_expires_at > ? AND reminder_count < ?",
		models.InviteStatusPending, now, s.config.MaxReminders).
		Find(&invites).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending invites: %w", err)
	}

	result := &ReminderBatchResult{Errors: []string{}}
	for _, invite := range invites {
		if invite.LastReminderAt != nil && now.Sub(*invite.LastReminderAt) < s.config.ReminderInterval {
			continue
		}
		result.Processed++

		reminderNumber := invite.ReminderCount + 1
		if _, err := s.mailer.Send(ctx, s.inviteEmail(&invite, reminderNumber)); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", invite.Email, err))
			continue
		}

		err := s.db.Model(&invite).Updates(map[string]interface{}{
			"reminder_count":   reminderNumber,
			"last_reminder_at": now,
		}).Error
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", invite.Email, err))
			continue
		}
		result.Sent++
	}

	return result, nil
}

func (s *InvitesService) inviteEmail(invite *models.UserInvite, reminderNumber int) mailer.Email {
	subject := "You're invited to Radar"
	if reminderNumber > 0 {
		subject = fmt.Sprintf("Reminder %d: your Radar invite is waiting", reminderNumber)
	}
	link := fmt.Sprintf("%s/invites/accept?token=%s", s.config.AppBaseURL, invite.Token)
	html := fmt.Sprintf(
		`<p>Hi %s,</p><p>You've been invited to Radar. <a href=%q>Accept your invite</a> before %s.</p>`,
		invite.Name, link, invite.TokenExpiresAt.Format("Jan 2, 2006"),
	)
	return mailer.Email{To: invite.Email, Subject: subject, HTML: html}
}

func generateToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}
