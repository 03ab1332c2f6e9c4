// Command seed creates a user in the configured store.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/techlab/challenge-backend/internal/app"
	"github.com/techlab/challenge-backend/internal/config"
	"github.com/techlab/challenge-backend/internal/models"
	"github.com/techlab/challenge-backend/internal/passwords"
	"github.com/techlab/challenge-backend/internal/users"
	"github.com/techlab/challenge-backend/pkg/logger"
)

func main() {
	var (
		username = flag.String("username", "", "username (required)")
		email    = flag.String("email", "", "email (required)")
		password = flag.String("password", "", "plaintext password, stored as a bcrypt hash (required)")
		profile  = flag.String("profile", string(models.ProfileStandard), "profile: sudo or standard")
	)
	flag.Parse()

	logger.Init(os.Getenv("LOG_LEVEL"))

	if *username == "" || *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, err := app.OpenStore(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to open %s store: %v", cfg.Database.Driver, err)
	}
	defer func() { _ = store.Close(context.Background()) }()

	svc := users.NewService(store.Users, passwords.NewBcrypt())
	u, err := svc.Create(ctx, *username, *email, *password, models.Profile(*profile))
	if err != nil {
		logger.Errorf("seed failed: %v", err)
		_ = store.Close(context.Background())
		os.Exit(1)
	}
	logger.Infof("created user id=%s username=%s profile=%s", u.ID, u.Username, u.Profile)
}
