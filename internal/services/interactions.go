package services

import (
	"fmt"

	"radar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Interaction actions
const (
	ActionLike    = "like"
	ActionSave    = "save"
	ActionDismiss = "dismiss"
	ActionNote    = "note"
)

// InteractionsService maintains the per-account annotation row for each
// content item with upsert-on-toggle semantics: callers never read current
// state first, the server computes the flip.
type InteractionsService struct {
	db *gorm.DB
}

// NewInteractionsService creates a new interactions service
func NewInteractionsService(db *gorm.DB) *InteractionsService {
	return &InteractionsService{db: db}
}

// Apply toggles or sets one interaction flag for an (account, item) pair.
// A missing row means "never toggled", so the first like/save always turns
// the flag on. Dismiss is one-directional. Note overwrites the stored notes
// with the provided value.
func (s *InteractionsService) Apply(accountID, contentItemID uuid.UUID, action, value string) (*models.ContentInteraction, error) {
	switch action {
	case ActionLike, ActionSave, ActionDismiss, ActionNote:
	default:
		return nil, validationError("unknown action %q", action)
	}

	// The item must be visible inside this account's scope.
	var exists int64
	if err := s.db.Model(&models.ContentItem{}).
		Where("id = ? AND account_id = ?", contentItemID, accountID).
		Count(&exists).Error; err != nil {
		return nil, fmt.Errorf("failed to check content item: %w", err)
	}
	if exists == 0 {
		return nil, ErrNotFound
	}

	var interaction models.ContentInteraction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("account_id = ? AND content_item_id = ?", accountID, contentItemID).
			First(&interaction).Error

		if err == gorm.ErrRecordNotFound {
			interaction = models.ContentInteraction{
				AccountID:     accountID,
				ContentItemID: contentItemID,
			}
			applyAction(&interaction, action, value)
			if createErr := tx.Create(&interaction).Error; createErr != nil {
				if isDuplicateKey(createErr) {
					// Lost the first-insert race; reload and apply as an update.
					if err := tx.Where("account_id = ? AND content_item_id = ?", accountID, contentItemID).
						First(&interaction).Error; err != nil {
						return err
					}
					applyAction(&interaction, action, value)
					return tx.Save(&interaction).Error
				}
				return createErr
			}
			return nil
		}
		if err != nil {
			return err
		}

		applyAction(&interaction, action, value)
		return tx.Save(&interaction).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to apply interaction: %w", err)
	}

	return &interaction, nil
}

// applyAction mutates the row in place: booleans flip, dismiss only sets,
// note overwrites.
func applyAction(interaction *models.ContentInteraction, action, value string) {
	switch action {
	case ActionLike:
		interaction.IsLiked = !interaction.IsLiked
	case ActionSave:
		interaction.IsSaved = !interaction.IsSaved
	case ActionDismiss:
		interaction.IsDismissed = true
	case ActionNote:
		interaction.Notes = value
	}
}
