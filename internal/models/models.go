// Package models contains all data models for the radar application
package models

import (
	"gorm.io/gorm"
)

// AllModels returns a slice of all model types for database migrations
func AllModels() []interface{} {
	return []interface{}{
		&Account{},
		&UserAccount{},
		&Source{},
		&Topic{},
		&ContentItem{},
		&ContentInteraction{},
		&UserPreferences{},
		&UserInvite{},
		&WhatsHotPost{},
		&DigestHistory{},
	}
}

// AutoMigrate runs automatic migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
