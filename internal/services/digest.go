package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"radar/internal/digest"
	"radar/internal/mailer"
	"radar/internal/models"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// DigestService runs one digest cadence over every eligible account. Each
// account is processed independently; a failure lands in the error list and
// the batch continues.
type DigestService struct {
	db        *gorm.DB
	generator *digest.Generator
	mailer    Mailer
}

// NewDigestService creates a new digest service
func NewDigestService(db *gorm.DB, generator *digest.Generator, m Mailer) *DigestService {
	return &DigestService{db: db, generator: generator, mailer: m}
}

// DigestBatchResult summarizes one cadence run.
type DigestBatchResult struct {
	Cadence   string   `json:"cadence"`
	Processed int      `json:"processed"`
	Sent      int      `json:"sent"`
	Errors    []string `json:"errors"`
	JobLogID  string   `json:"job_log_id,omitempty"`
}

// History returns the account's delivered digests, newest first.
func (s *DigestService) History(accountID uuid.UUID) ([]models.DigestHistory, error) {
	var history []models.DigestHistory
	err := s.db.Where("account_id = ?", accountID).Order("sent_at DESC").Find(&history).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list digest history: %w", err)
	}
	return history, nil
}

// Run enumerates accounts whose preferences match the cadence, generates each
// digest, sends it when at least one item qualified, and records a history
// row. jobLogID correlates the run in external job logs and is threaded onto
// every history row it produces.
func (s *DigestService) Run(ctx context.Context, cadence, jobLogID string) (*DigestBatchResult, error) {
	switch cadence {
	case digest.CadenceMorning, digest.CadenceEvening, digest.CadenceWeekly:
	default:
		return nil, validationError("unknown digest cadence %q", cadence)
	}

	var allPrefs []models.UserPreferences
	if err := s.db.Where("digest_enabled = ?", true).Find(&allPrefs).Error; err != nil {
		return nil, fmt.Errorf("failed to list digest preferences: %w", err)
	}

	eligible := lo.Filter(allPrefs, func(prefs models.UserPreferences, _ int) bool {
		return prefs.WantsCadence(cadence)
	})

	result := &DigestBatchResult{Cadence: cadence, Errors: []string{}, JobLogID: jobLogID}
	log.Printf("Digest run %s (%s): %d eligible accounts", cadence, jobLogID, len(eligible))

	now := time.Now()
	for i := range eligible {
		prefs := eligible[i]
		result.Processed++

		if err := s.runAccount(ctx, &prefs, cadence, jobLogID, now, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", prefs.AccountID, err))
		}
	}

	log.Printf("Digest run %s (%s) complete: processed=%d sent=%d errors=%d",
		cadence, jobLogID, result.Processed, result.Sent, len(result.Errors))
	return result, nil
}

func (s *DigestService) runAccount(ctx context.Context, prefs *models.UserPreferences, cadence, jobLogID string, now time.Time, result *DigestBatchResult) error {
	if prefs.EmailAddress == "" {
		return fmt.Errorf("no notification email configured")
	}

	generated, err := s.generator.Generate(ctx, prefs.AccountID, prefs, cadence, now)
	if err != nil {
		return err
	}
	if generated.ItemCount == 0 {
		return nil
	}

	messageID, err := s.mailer.Send(ctx, mailer.Email{
		To:      prefs.EmailAddress,
		Subject: fmt.Sprintf("Radar %s digest: %d new items", cadence, generated.ItemCount),
		HTML:    generated.HTML,
	})
	if err != nil {
		return fmt.Errorf("failed to send digest: %w", err)
	}

	history := models.DigestHistory{
		AccountID:    prefs.AccountID,
		Cadence:      cadence,
		ItemCount:    generated.ItemCount,
		EmailAddress: prefs.EmailAddress,
		MessageID:    messageID,
		JobLogID:     jobLogID,
		SentAt:       now,
	}
	if err := s.db.Create(&history).Error; err != nil {
		return fmt.Errorf("failed to record digest history: %w", err)
	}

	result.Sent++
	return nil
}
