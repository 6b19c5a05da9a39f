package database

import (
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"task-planner-api/internal/models"
)

// Open connects to the SQLite database at path (created on first use)
// and migrates the schema. glebarez/sqlite is a pure Go driver, so no
// CGO is required.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.ProgressRecord{},
	); err != nil {
		return nil, err
	}
	return db, nil
}
