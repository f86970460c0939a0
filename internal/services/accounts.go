package services

import (
	"fmt"
	"log"
	"strings"

	"radar/internal/auth"
	"radar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccountsService resolves an authenticated identity to its tenant account,
// provisioning one on first contact.
type AccountsService struct {
	db *gorm.DB
}

// NewAccountsService creates a new accounts service
func NewAccountsService(db *gorm.DB) *AccountsService {
	return &AccountsService{db: db}
}

// ResolvedAccount is the tenant scope established for one request.
type ResolvedAccount struct {
	AccountID uuid.UUID
	UserID    string
}

// Resolve finds the caller's account: the primary active membership first,
// otherwise the oldest active membership, otherwise a freshly provisioned
// account. An authenticated user always resolves to exactly one account.
func (s *AccountsService) Resolve(identity *auth.Identity) (*ResolvedAccount, error) {
	if identity == nil || identity.UserID == "" {
		return nil, ErrUnauthenticated
	}

	var membership models.UserAccount
	err := s.db.Where("user_id = ? AND status = ?", identity.UserID, models.MembershipStatusActive).
		Order("is_primary DESC, created_at ASC").
		First(&membership).Error

	if err == nil {
		return &ResolvedAccount{AccountID: membership.AccountID, UserID: identity.UserID}, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to query memberships: %w", err)
	}

	return s.provision(identity)
}

// provision creates a new account plus an owner/primary membership in one
// transaction. The unique membership index makes this race-safe: if two
// concurrent requests provision the same new user, the loser retries the
// lookup and adopts the winner's account.
func (s *AccountsService) provision(identity *auth.Identity) (*ResolvedAccount, error) {
	account := models.Account{
		Name:            accountName(identity),
		Slug:            accountSlug(identity.UserID),
		Plan:            models.PlanFree,
		Status:          models.AccountStatusActive,
		CreatedByUserID: identity.UserID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&account).Error; err != nil {
			return err
		}
		membership := models.UserAccount{
			UserID:    identity.UserID,
			AccountID: account.ID,
			Role:      models.RoleOwner,
			IsPrimary: true,
			Status:    models.MembershipStatusActive,
		}
		return tx.Create(&membership).Error
	})

	if isDuplicateKey(err) {
		// A concurrent request provisioned this user first.
		var membership models.UserAccount
		if lookupErr := s.db.Where("user_id = ? AND status = ?", identity.UserID, models.MembershipStatusActive).
			Order("is_primary DESC, created_at ASC").
			First(&membership).Error; lookupErr != nil {
			return nil, fmt.Errorf("failed to resolve account after conflict: %w", lookupErr)
		}
		return &ResolvedAccount{AccountID: membership.AccountID, UserID: identity.UserID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to provision account: %w", err)
	}

	log.Printf("Provisioned account %s (%s) for user %s", account.Slug, account.ID, identity.UserID)
	return &ResolvedAccount{AccountID: account.ID, UserID: identity.UserID}, nil
}

// accountName defaults to the profile name, then the email, then a generic label.
func accountName(identity *auth.Identity) string {
	if identity.Name != "" {
		return identity.Name
	}
	if identity.Email != "" {
		return identity.Email
	}
	return "Radar Account"
}

// accountSlug derives a stable slug from a fragment of the user id, so
// re-provision attempts for the same user collide on the accounts slug index
// as well as the membership index.
func accountSlug(userID string) string {
	fragment := strings.ToLower(userID)
	fragment = strings.NewReplacer(":", "-", "_", "-", ".", "-", "@", "-").Replace(fragment)
	if len(fragment) > 12 {
		fragment = fragment[len(fragment)-12:]
	}
	return "radar-" + strings.Trim(fragment, "-")
}
