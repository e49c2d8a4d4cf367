package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Rate limit storage backends.
const (
	RateLimitBackendPostgres = "postgres"
	RateLimitBackendRedis    = "redis"
)

// Config holds all application configuration loaded from environment variables.
// It is built once in main and handed to constructors; nothing else reads the
// environment.
type Config struct {
	Port           string
	Env            string
	JWTSecret      string
	MigrationsPath string
	TrustedProxies []string
	AllowedOrigins []string

	DB        DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Seed      SeedConfig
}

// DatabaseConfig contains PostgreSQL connection parameters. URL, when set,
// takes precedence over the discrete fields.
type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters. An empty Host disables Redis.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Enabled reports whether a Redis host was configured.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

// AuthConfig contains token lifetimes and TOTP settings.
type AuthConfig struct {
	PendingTokenTTL  time.Duration
	SessionTokenTTL  time.Duration
	TOTPIssuer       string
	LoginMaxFailures int
	LoginWindow      time.Duration
}

// RateLimitConfig contains the public submission rate limit.
type RateLimitConfig struct {
	Backend       string
	Window        time.Duration
	Max           int
	SweepInterval time.Duration
}

// CacheConfig contains TTLs for cached public reads.
type CacheConfig struct {
	BarListTTL time.Duration
}

// SeedConfig describes the admin account created on an empty database.
type SeedConfig struct {
	Enabled  bool
	Username string
	Password string
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first.
func Load() (*Config, error) {
	// Missing .env is fine; production relies on real environment variables.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.MigrationsPath = getEnv("MIGRATIONS_PATH", "file://migrations")
	cfg.TrustedProxies = getEnvList("TRUSTED_PROXIES", nil)
	cfg.AllowedOrigins = getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"})

	// Database
	cfg.DB = DatabaseConfig{
		URL:      getEnv("DATABASE_URL", ""),
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", ""),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	cfg.Seed = SeedConfig{
		Enabled:  getEnvBool("SEED_ADMIN", true),
		Username: getEnv("SEED_ADMIN_USERNAME", "admin"),
		Password: getEnv("SEED_ADMIN_PASSWORD", "admin"),
	}

	var err error

	// Auth
	cfg.Auth.TOTPIssuer = getEnv("TOTP_ISSUER", "BudBeer")
	cfg.Auth.LoginMaxFailures = getEnvInt("LOGIN_MAX_FAILURES", 5)
	if cfg.Auth.PendingTokenTTL, err = parseDurationEnv("PENDING_TOKEN_TTL", "5m"); err != nil {
		return nil, fmt.Errorf("invalid PENDING_TOKEN_TTL: %w", err)
	}
	if cfg.Auth.SessionTokenTTL, err = parseDurationEnv("SESSION_TOKEN_TTL", "24h"); err != nil {
		return nil, fmt.Errorf("invalid SESSION_TOKEN_TTL: %w", err)
	}
	if cfg.Auth.LoginWindow, err = parseDurationEnv("LOGIN_WINDOW", "1m"); err != nil {
		return nil, fmt.Errorf("invalid LOGIN_WINDOW: %w", err)
	}

	// Rate limit
	cfg.RateLimit.Backend = strings.ToLower(getEnv("RATE_LIMIT_BACKEND", RateLimitBackendPostgres))
	cfg.RateLimit.Max = getEnvInt("RATE_LIMIT_MAX", 10)
	if cfg.RateLimit.Window, err = parseDurationEnv("RATE_LIMIT_WINDOW", "1h"); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_WINDOW: %w", err)
	}
	if cfg.RateLimit.SweepInterval, err = parseDurationEnv("RATE_LIMIT_SWEEP_INTERVAL", "10m"); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_SWEEP_INTERVAL: %w", err)
	}

	// Cache
	if cfg.Cache.BarListTTL, err = parseDurationEnv("BAR_CACHE_TTL", "5m"); err != nil {
		return nil, fmt.Errorf("invalid BAR_CACHE_TTL: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DB.URL == "" && (c.DB.Host == "" || c.DB.User == "" || c.DB.Name == "") {
		return errors.New("database configuration incomplete: set DATABASE_URL or DB_HOST, DB_USER and DB_NAME")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set for authentication")
	}
	switch c.RateLimit.Backend {
	case RateLimitBackendPostgres:
	case RateLimitBackendRedis:
		if !c.Redis.Enabled() {
			return errors.New("RATE_LIMIT_BACKEND=redis requires REDIS_HOST")
		}
	default:
		return fmt.Errorf("unknown RATE_LIMIT_BACKEND %q", c.RateLimit.Backend)
	}
	if c.RateLimit.Max <= 0 {
		return errors.New("RATE_LIMIT_MAX must be positive")
	}
	if c.RateLimit.Window <= 0 {
		return errors.New("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
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

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// getEnvList splits a comma separated variable, dropping empty items.
func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
