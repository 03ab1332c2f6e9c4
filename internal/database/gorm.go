package database

import (
	"fmt"
	"time"

	"github.com/techlab/challenge-backend/internal/config"
	"github.com/techlab/challenge-backend/internal/models"
	"github.com/techlab/challenge-backend/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenGorm opens a relational connection for the given driver ("postgres" or "sqlite").
func OpenGorm(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case config.DriverPostgres:
		dialector = postgres.Open(dsn)
	case config.DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported relational driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(logger.NewWriter("db"), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLogLevel(logger.CurrentLevel()),
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("gorm open (%s): %w", driver, err)
	}
	return db, nil
}

// Migrate creates or updates the users, posts and comments tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func gormLogLevel(l logger.Level) gormlogger.LogLevel {
	switch l {
	case logger.LevelDebug:
		return gormlogger.Info
	case logger.LevelInfo, logger.LevelWarn:
		return gormlogger.Warn
	default:
		return gormlogger.Error
	}
}
