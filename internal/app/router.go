package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/techlab/challenge-backend/handlers"
	"github.com/techlab/challenge-backend/internal/auth"
	"github.com/techlab/challenge-backend/internal/config"
	"github.com/techlab/challenge-backend/internal/passwords"
	"github.com/techlab/challenge-backend/internal/profiles"
	"github.com/techlab/challenge-backend/internal/tokens"
	"github.com/techlab/challenge-backend/internal/users"
	"github.com/techlab/challenge-backend/pkg/logger"
	"github.com/techlab/challenge-backend/pkg/middleware"
)

// Deps are the long-lived collaborators the router is built from.
type Deps struct {
	Store  *Store
	Redis  *redis.Client // optional
	Issuer *tokens.JWTIssuer
	Hasher *passwords.Bcrypt
}

// NewRouter builds the gin engine with the public routes.
func NewRouter(cfg *config.Config, deps Deps, started time.Time) *gin.Engine {
	r := gin.New()

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})
	r.Use(gin.Logger(), gin.Recovery())

	checks := map[string]handlers.Check{"database": deps.Store.Ping}
	if cfg.RateLimit.Enabled && cfg.RateLimit.UseRedis {
		checks["redis"] = func(ctx context.Context) error {
			if deps.Redis == nil {
				return redis.ErrClosed
			}
			return deps.Redis.Ping(ctx).Err()
		}
	}
	handlers.RegisterHealth(r, started, checks)
	handlers.RegisterSwagger(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	userSvc := users.NewService(deps.Store.Users, deps.Hasher)
	authSvc := auth.NewService(deps.Store.Users, deps.Hasher, profiles.NewRegistry(), deps.Issuer, deps.Issuer.TTL())
	limiter := rateLimiter(cfg, deps.Redis)

	var authMW, userMW []gin.HandlerFunc
	if cfg.Auth.RequireToken {
		userMW = append(userMW, middleware.AuthMiddleware(deps.Issuer))
	}
	if limiter != nil {
		// runs after the bearer check, keyed by subject once verified
		authMW = append(authMW, limiter)
		userMW = append(userMW, limiter)
	}
	handlers.NewAuthHandler(authSvc).Register(r, authMW...)
	handlers.NewUsersHandler(userSvc).Register(r, userMW...)

	return r
}

// rateLimiter returns nil when limiting is disabled. The Redis limiter is used
// only when requested and a client is available.
func rateLimiter(cfg *config.Config, rdb *redis.Client) gin.HandlerFunc {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	if cfg.RateLimit.UseRedis && rdb != nil {
		win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
		logger.Infof("rate limiter: redis (rps=%.2f burst=%d window=%s)", cfg.RateLimit.RPS, cfg.RateLimit.Burst, win)
		return middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win)
	}
	logger.Infof("rate limiter: memory (rps=%.2f burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	return middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
}
