package database

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Connect initializes the database connection.
// Foreign key enforcement is switched on so the declared cascade
// constraints actually apply on SQLite.
func Connect(dsn string) error {
	var err error
	DB, err = gorm.Open(sqlite.Open(dsn+"?_foreign_keys=on"), &gorm.Config{})
	if err != nil {
		return err
	}
	return nil
}

// GetDB returns the database instance.
func GetDB() *gorm.DB {
	return DB
}
