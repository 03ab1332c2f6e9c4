// Package app wires configuration, storage and HTTP routing for the binaries.
package app

import (
	"context"
	"fmt"

	"github.com/techlab/challenge-backend/internal/config"
	"github.com/techlab/challenge-backend/internal/database"
	"github.com/techlab/challenge-backend/internal/users"
	"github.com/techlab/challenge-backend/pkg/logger"
)

const mongoConnectAttempts = 5

// Store is the opened user store for the configured DB_DRIVER.
type Store struct {
	Users users.Repository
	Ping  func(ctx context.Context) error
	Close func(ctx context.Context) error
}

// OpenStore connects to the configured backend and prepares its schema
// (migrations for SQL, indexes for Mongo) when DB_AUTO_MIGRATE is on.
func OpenStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	if cfg.Database.Driver == config.DriverMongo {
		return openMongo(ctx, cfg)
	}

	db, err := database.OpenGorm(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm sql handle: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		logger.Infof("database migrated (%s)", cfg.Database.Driver)
	}
	return &Store{
		Users: users.NewGormRepository(db),
		Ping:  sqlDB.PingContext,
		Close: func(context.Context) error { return sqlDB.Close() },
	}, nil
}

func openMongo(ctx context.Context, cfg *config.Config) (*Store, error) {
	client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, mongoConnectAttempts)
	if err != nil {
		return nil, err
	}
	repo := users.NewMongoRepository(client.Database(cfg.MongoDB.Database))
	if cfg.Database.AutoMigrate {
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		logger.Infof("mongo indexes ensured on %s", cfg.MongoDB.Database)
	}
	return &Store{
		Users: repo,
		Ping:  func(ctx context.Context) error { return client.Ping(ctx, nil) },
		Close: client.Disconnect,
	}, nil
}
