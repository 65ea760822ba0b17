package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/stevensoneremeh/eriggalive-auth/internal/infrastructure/repositories"
)

// Open creates a new Postgres connection with production settings.
func Open(dsn string) (*gorm.DB, error) {
	config := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
		NamingStrategy: schema.NamingStrategy{
			TablePrefix: "auth.",
		},
	}

	return gorm.Open(postgres.Open(dsn), config)
}

// OpenSQLite opens a file or in-memory SQLite database. Used by tests and the
// local smoke tool; the schema is the same as production.
func OpenSQLite(path string) (*gorm.DB, error) {
	config := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}
	return gorm.Open(sqlite.Open(path), config)
}

// AutoMigrate creates the user and audit tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&repositories.DBUser{}); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	if err := db.AutoMigrate(&repositories.DBAuditEntry{}); err != nil {
		return fmt.Errorf("failed to migrate audit_logs table: %w", err)
	}
	return nil
}
