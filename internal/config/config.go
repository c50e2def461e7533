package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string

	DB       DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Cache    CacheConfig
	Mail     MailConfig
	Media    MediaConfig
	Snapshot SnapshotConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// AuthConfig contains token lifetimes for the access/refresh pair.
type AuthConfig struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// CacheConfig contains TTLs for the catalog read cache.
type CacheConfig struct {
	ProductTTL  time.Duration
	CategoryTTL time.Duration
}

// MailConfig contains SMTP settings for creation notifications.
type MailConfig struct {
	Host             string
	Port             int
	Username         string
	Password         string
	From             string
	CategoryNotifyTo string
}

// Enabled reports whether SMTP is configured. Notifications are
// best-effort and skipped entirely when no host is set.
func (m *MailConfig) Enabled() bool {
	return m.Host != ""
}

// MediaConfig contains the S3-compatible object store used for
// category and product images.
type MediaConfig struct {
	Region          string
	Bucket          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// SnapshotConfig controls where deletion snapshots are written.
type SnapshotConfig struct {
	Dir string
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Mail (creation notifications)
	cfg.Mail = MailConfig{
		Host:             getEnv("SMTP_HOST", ""),
		Port:             getEnvInt("SMTP_PORT", 587),
		Username:         getEnv("SMTP_USERNAME", ""),
		Password:         getEnv("SMTP_PASSWORD", ""),
		From:             getEnv("SMTP_FROM", "noreply@texnomart.uz"),
		CategoryNotifyTo: getEnv("CATEGORY_NOTIFY_EMAIL", ""),
	}

	// Media object store
	cfg.Media = MediaConfig{
		Region:          getEnv("MEDIA_S3_REGION", "eu-central-1"),
		Bucket:          getEnv("MEDIA_S3_BUCKET", "texnomart-media"),
		Endpoint:        getEnv("MEDIA_S3_ENDPOINT", "https://s3.eu-central-1.amazonaws.com"),
		AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
	}

	// Deletion snapshots
	cfg.Snapshot = SnapshotConfig{
		Dir: getEnv("SNAPSHOT_DIR", "deleted"),
	}

	// Token lifetimes
	var err error
	if cfg.Auth.AccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", "30m"); err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TTL: %w", err)
	}
	if cfg.Auth.RefreshTTL, err = parseDurationEnv("JWT_REFRESH_TTL", "168h"); err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_TTL: %w", err)
	}

	// Catalog cache TTLs
	if cfg.Cache.ProductTTL, err = parseDurationEnv("CACHE_PRODUCT_TTL", "11m"); err != nil {
		return nil, fmt.Errorf("invalid CACHE_PRODUCT_TTL: %w", err)
	}
	if cfg.Cache.CategoryTTL, err = parseDurationEnv("CACHE_CATEGORY_TTL", "15m"); err != nil {
		return nil, fmt.Errorf("invalid CACHE_CATEGORY_TTL: %w", err)
	}

	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	// Validate JWT_SECRET
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for authentication")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be > 0")
	}
	return d, nil
}
