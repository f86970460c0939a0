package services

import (
	"testing"

	"radar/internal/auth"
	"radar/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestAccountsService_Resolve(t *testing.T) {
	db := setupTestDB(t)
	service := NewAccountsService(db)

	t.Run("rejects missing identity", func(t *testing.T) {
		_, err := service.Resolve(nil)
		assert.ErrorIs(t, err, ErrUnauthenticated)

		_, err = service.Resolve(&auth.Identity{})
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("provisions an account on first contact", func(t *testing.T) {
		identity := &auth.Identity{UserID: "user_abc123", Email: "abc@example.com", Name: "Alice"}

		resolved, err := service.Resolve(identity)
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}

		var account models.Account
		if err := db.First(&account, "id = ?", resolved.AccountID).Error; err != nil {
			t.Fatalf("Provisioned account not found: %v", err)
		}
		assert.Equal(t, "Alice", account.Name)
		assert.Equal(t, models.PlanFree, account.Plan)
		assert.Equal(t, "user_abc123", account.CreatedByUserID)

		var membership models.UserAccount
		if err := db.First(&membership, "user_id = ?", "user_abc123").Error; err != nil {
			t.Fatalf("Membership not found: %v", err)
		}
		assert.Equal(t, models.RoleOwner, membership.Role)
		assert.True(t, membership.IsPrimary)
	})

	t.Run("second resolve reuses the same account", func(t *testing.T) {
		identity := &auth.Identity{UserID: "user_repeat", Email: "repeat@example.com"}

		first, err := service.Resolve(identity)
		assert.NoError(t, err)
		second, err := service.Resolve(identity)
		assert.NoError(t, err)
		assert.Equal(t, first.AccountID, second.AccountID)

		var count int64
		db.Model(&models.UserAccount{}).Where("user_id = ?", "user_repeat").Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("prefers the primary membership", func(t *testing.T) {
		primary := createTestAccount(t, db)
		secondary := createTestAccount(t, db)

		memberships := []models.UserAccount{
			{UserID: "user_multi", AccountID: secondary.ID, Role: models.RoleMember, Status: models.MembershipStatusActive},
			{UserID: "user_multi", AccountID: primary.ID, Role: models.RoleOwner, IsPrimary: true, Status: models.MembershipStatusActive},
		}
		for i := range memberships {
			if err := db.Create(&memberships[i]).Error; err != nil {
				t.Fatalf("Failed to create membership: %v", err)
			}
		}

		resolved, err := service.Resolve(&auth.Identity{UserID: "user_multi"})
		assert.NoError(t, err)
		assert.Equal(t, primary.ID, resolved.AccountID)
	})

	t.Run("account name falls back to email", func(t *testing.T) {
		resolved, err := service.Resolve(&auth.Identity{UserID: "user_noname", Email: "noname@example.com"})
		assert.NoError(t, err)

		var account models.Account
		db.First(&account, "id = ?", resolved.AccountID)
		assert.Equal(t, "noname@example.com", account.Name)
	})
}
