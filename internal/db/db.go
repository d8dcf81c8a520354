package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/clockwork-dev/clockwork/internal/models"
)

var DB *gorm.DB

// Initialize sets up the default database connection and runs migrations
func Initialize() error {
	dbPath, err := DefaultPath()
	if err != nil {
		return fmt.Errorf("failed to get database path: %w", err)
	}

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create clockwork directory: %w", err)
	}

	db, err := Open(dbPath)
	if err != nil {
		return err
	}

	DB = db
	return nil
}

// Open connects to the SQLite database at path and runs migrations
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Quiet by default
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Project{},
		&models.User{},
		&models.Task{},
		&models.TimeLog{},
	); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// DefaultPath returns the path to the SQLite database file
func DefaultPath() (string, error) {
	if env := os.Getenv("CLOCKWORK_DB"); env != "" {
		return env, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".clockwork", "clockwork.db"), nil
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		sqlDB, err := DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
