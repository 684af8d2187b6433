package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/random"
	"go.uber.org/zap"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DBConfig holds database configuration
type DBConfig struct {
	URL     string
	Migrate bool
}

// JWTConfig holds token settings. Generated is true when no secret was
// configured and a random development secret was used instead.
type JWTConfig struct {
	Secret     string
	Generated  bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	JWKSURL    string
}

// RedisConfig holds cache configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MinioConfig holds object storage configuration
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	PublicURL string
}

// Config holds all configuration
type Config struct {
	ServiceName     string
	Server          ServerConfig
	DB              DBConfig
	JWT             JWTConfig
	Redis           RedisConfig
	Minio           MinioConfig
	LogLevel        string
	SentryDSN       string
	ListingCacheTTL time.Duration
	JobsEnabled     bool
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: .env file not found, using environment variables\n")
	}

	cfg := &Config{
		ServiceName: "pgpathfinder",
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("APP_ENV", "development"),
		},
		DB: DBConfig{
			URL:     getEnv("DATABASE_URL", ""),
			Migrate: getEnvAsBool("DB_MIGRATE", true),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", ""),
			AccessTTL:  getEnvAsDuration("JWT_ACCESS_TTL", 15*time.Minute),
			RefreshTTL: getEnvAsDuration("JWT_REFRESH_TTL", 7*24*time.Hour),
			JWKSURL:    getEnv("JWKS_URL", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Minio: MinioConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			UseSSL:    getEnvAsBool("MINIO_USE_SSL", false),
			Bucket:    getEnv("MINIO_BUCKET", "pg-images"),
			PublicURL: getEnv("MINIO_PUBLIC_URL", ""),
		},
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		SentryDSN:       getEnv("SENTRY_DSN", ""),
		ListingCacheTTL: getEnvAsDuration("LISTING_CACHE_TTL", 5*time.Minute),
		JobsEnabled:     getEnvAsBool("JOBS_ENABLED", true),
	}

	if cfg.Minio.PublicURL == "" {
		scheme := "http"
		if cfg.Minio.UseSSL {
			scheme = "https"
		}
		cfg.Minio.PublicURL = scheme + "://" + cfg.Minio.Endpoint
	}

	if cfg.JWT.Secret == "" && !cfg.IsProduction() {
		cfg.JWT.Secret = random.String(32)
		cfg.JWT.Generated = true
	}

	return cfg, cfg.Validate()
}

// IsProduction reports whether APP_ENV is production
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Validate checks the settings the service cannot start without
func (c *Config) Validate() error {
	var errs []error
	if c.DB.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL environment variable is required"))
	}
	if c.JWT.Secret == "" && c.JWT.JWKSURL == "" {
		errs = append(errs, errors.New("JWT_SECRET environment variable is required in production"))
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		errs = append(errs, errors.New("token lifetimes must be positive"))
	}
	if c.Minio.Bucket == "" {
		errs = append(errs, errors.New("MINIO_BUCKET must not be empty"))
	}
	return errors.Join(errs...)
}

// LogFields returns the non-secret settings for the startup log line
func (c *Config) LogFields() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("server_port", c.Server.Port),
		zap.String("redis_addr", c.Redis.Addr),
		zap.String("minio_endpoint", c.Minio.Endpoint),
		zap.String("minio_bucket", c.Minio.Bucket),
		zap.Bool("jwks", c.JWT.JWKSURL != ""),
		zap.Bool("sentry", c.SentryDSN != ""),
		zap.Bool("jobs", c.JobsEnabled),
	}
}

// Helper function to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as integers
func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as durations
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
