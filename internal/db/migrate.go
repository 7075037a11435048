package db

import (
	"fmt"

	"github.com/toolbelt-dev/toolbelt/internal/models"
	"gorm.io/gorm"
)

// AllModels returns every recorder model for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.Session{},
		&models.Turn{},
		&models.ToolCall{},
		&models.Message{},
		&models.ModelChange{},
	}
}

// AutoMigrate creates or updates all recorder tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}
