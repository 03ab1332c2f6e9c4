package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/techlab/challenge-backend/internal/app"
	"github.com/techlab/challenge-backend/internal/config"
	"github.com/techlab/challenge-backend/internal/passwords"
	"github.com/techlab/challenge-backend/internal/tokens"
	"github.com/techlab/challenge-backend/pkg/logger"
	"github.com/techlab/challenge-backend/pkg/metrics"
)

var startTime = time.Now()

func main() {
	// initialize logging (can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: app=%q driver=%s redis=%v require_token=%v", cfg.App.Name, cfg.Database.Driver, cfg.Redis.Host != "", cfg.Auth.RequireToken)
	if cfg.Server.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := app.OpenStore(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to open %s store: %v", cfg.Database.Driver, err)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			logger.Warnf("store close: %v", err)
		}
	}()

	// Redis is optional; only the distributed rate limiter uses it
	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			_ = rdb.Close()
			rdb = nil
		} else {
			logger.Infof("connected to Redis: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
			defer rdb.Close()
		}
	}

	issuer, err := tokens.NewJWTIssuer(cfg)
	if err != nil {
		logger.Fatalf("token issuer: %v", err)
	}

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)

	r := app.NewRouter(cfg, app.Deps{
		Store:  store,
		Redis:  rdb,
		Issuer: issuer,
		Hasher: passwords.NewBcrypt(),
	}, startTime)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Infof("Starting %s on %s", cfg.App.Name, srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	case <-ctx.Done():
		logger.Infof("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("graceful shutdown failed: %v", err)
		}
	}
}
