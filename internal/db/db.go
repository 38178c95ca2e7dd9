package db

import (
	"fmt"

	"github.com/pantrydesk/pantrydesk/internal/logger"
	"github.com/pantrydesk/pantrydesk/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// New opens (creating on first run) the local database file and migrates the
// schema. Migration is idempotent: tables are created if absent and never
// dropped, so account and history rows survive re-initialization.
func New(path string) (*gorm.DB, error) {
	logger.Get().Info("opening database", zap.String("path", path))

	database, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		// Map unique-constraint violations to gorm.ErrDuplicatedKey so
		// repositories can treat them as outcomes, not failures.
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("could not open database at %s: %w", path, err)
	}

	if err := database.AutoMigrate(
		&models.User{},
		&models.SearchHistoryEntry{},
		&models.ViewHistoryEntry{},
		&models.FavoriteEntry{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return database, nil
}

// ResetHistories drops and recreates the search-history, view-history, and
// favorites tables, preserving users. This wipes all non-account data; it is
// only reachable from the explicit maintenance path, never from login.
func ResetHistories(database *gorm.DB) error {
	migrator := database.Migrator()
	for _, model := range []interface{}{
		&models.FavoriteEntry{},
		&models.ViewHistoryEntry{},
		&models.SearchHistoryEntry{},
	} {
		if migrator.HasTable(model) {
			if err := migrator.DropTable(model); err != nil {
				return fmt.Errorf("failed to drop table: %w", err)
			}
		}
	}

	if err := database.AutoMigrate(
		&models.SearchHistoryEntry{},
		&models.ViewHistoryEntry{},
		&models.FavoriteEntry{},
	); err != nil {
		return fmt.Errorf("failed to recreate history tables: %w", err)
	}

	logger.Get().Info("history tables reset")
	return nil
}
