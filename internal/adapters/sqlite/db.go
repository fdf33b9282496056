package sqlite

import (
	"fmt"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/letterboxhq/letterbox-api/internal/domain"
)

// Open connects to the sqlite database at dsn and migrates the record schema.
// The returned *gorm.DB is the process-wide shared persistent-store client.
func Open(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "letterbox.db"
	}
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database at '%s': %w", dsn, err)
	}

	if err := db.AutoMigrate(&domain.User{}, &domain.Task{}, &domain.Newsletter{}); err != nil {
		return nil, fmt.Errorf("failed to migrate record schema: %w", err)
	}

	return db, nil
}
