package models

import "gorm.io/gorm"

// AllModels returns all models for migration
// Note: Role must be migrated before User, and the content entities
// before their join tables, because of foreign key dependencies.
func AllModels() []interface{} {
	return []interface{}{
		&Role{},
		&User{},
		&Follow{},
		&Group{},
		&GroupMember{},
		&Recipe{},
		&Ingredient{},
		&Tag{},
		&RecipeLink{},
		&Review{},
		&Event{},
		&RSVP{},
		&Report{},
		&LogEvent{},
	}
}

// AutoMigrate runs GORM auto-migration for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}

// Seed inserts the fixed role and tag vocabularies. Safe to run on
// every startup.
func Seed(db *gorm.DB) error {
	if err := SeedRoles(db); err != nil {
		return err
	}
	return SeedTags(db)
}
