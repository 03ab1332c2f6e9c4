package config

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultAppName is used as token audience and issuer unless APP_NAME is set.
const DefaultAppName = "TechLab Challenge 2024 3q Backend"

// Supported DB_DRIVER values.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

// Config holds application configuration. It is built once at startup and
// treated as read-only afterwards.
type Config struct {
	App       AppConfig
	Server    ServerConfig
	Database  DatabaseConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	JWT       JWTConfig
	Auth      AuthConfig
	LogLevel  string
}

type AppConfig struct {
	Name string
}

type ServerConfig struct {
	Port         int
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Driver      string
	DSN         string
	AutoMigrate bool
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

type JWTConfig struct {
	Secret         string
	AccessTokenTTL time.Duration
}

type AuthConfig struct {
	// RequireToken guards the /users routes with the bearer middleware.
	RequireToken bool
}

// Addr returns host:port for the HTTP listener.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// LoadConfig loads configuration from environment variables and an optional .env file.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("APP_NAME", DefaultAppName)
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("DB_DRIVER", DriverSQLite)
	viper.SetDefault("DATABASE_DSN", "file:techlab.db?_foreign_keys=on")
	viper.SetDefault("DB_AUTO_MIGRATE", true)
	viper.SetDefault("MONGODB_DATABASE", "techlab")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("RATE_LIMIT_RPS", 10)
	viper.SetDefault("RATE_LIMIT_BURST", 20)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
	viper.SetDefault("LOG_LEVEL", "info")

	portEnv := strings.TrimSpace(viper.GetString("APP_PORT"))
	if portEnv == "" {
		return nil, errors.New("APP_PORT must be defined")
	}
	port, err := strconv.Atoi(portEnv)
	if err != nil {
		return nil, errors.New("APP_PORT must be an integer")
	}

	secret := viper.GetString("SECRET")
	if secret == "" {
		return nil, errors.New("SECRET must be defined")
	}

	driver := strings.ToLower(strings.TrimSpace(viper.GetString("DB_DRIVER")))
	switch driver {
	case DriverPostgres, DriverSQLite, DriverMongo:
	default:
		return nil, errors.New("DB_DRIVER must be one of postgres, sqlite, mongo")
	}

	cfg := &Config{
		App: AppConfig{
			Name: viper.GetString("APP_NAME"),
		},
		Server: ServerConfig{
			Port:         port,
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:      driver,
			DSN:         viper.GetString("DATABASE_DSN"),
			AutoMigrate: viper.GetBool("DB_AUTO_MIGRATE"),
		},
		MongoDB: MongoDBConfig{
			URI:      viper.GetString("MONGODB_URI"),
			Database: viper.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       0,
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		JWT: JWTConfig{
			Secret:         secret,
			AccessTokenTTL: time.Hour,
		},
		Auth: AuthConfig{
			RequireToken: viper.GetBool("AUTH_REQUIRE_TOKEN"),
		},
		LogLevel: viper.GetString("LOG_LEVEL"),
	}

	if cfg.Database.Driver == DriverMongo && cfg.MongoDB.URI == "" {
		return nil, errors.New("MONGODB_URI is required when DB_DRIVER=mongo")
	}

	return cfg, nil
}
