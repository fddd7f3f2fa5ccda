package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yukikurage/taskboard-api/internal/models"
)

// AddIndexes creates indexes missing from an existing schema
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model any
		name  string
	}{
		{&models.BoardSnapshot{}, "CreatedAt"},
		{&models.User{}, "Email"},
		{&models.User{}, "DeletedAt"},
	}

	m := db.Migrator()
	for _, idx := range indexes {
		if m.HasIndex(idx.model, idx.name) {
			continue
		}
		if err := m.CreateIndex(idx.model, idx.name); err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}
	return nil
}

// MigrateDatabase runs all database migrations
func MigrateDatabase(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.BoardSnapshot{},
		&models.Preference{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}
	return nil
}
