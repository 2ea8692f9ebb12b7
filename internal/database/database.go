package database

import (
	"fmt"

	"github.com/cadenza-labs/cadenza-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the track history database. An empty URL disables
// persistence; callers get a nil *gorm.DB and treat history as off.
func Connect(databaseURL string) (*gorm.DB, error) {
	if databaseURL == "" {
		return nil, nil
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the track history schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Track{})
}
