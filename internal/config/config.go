// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Session marker backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	App      AppConfig
	Session  SessionConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Mock     MockConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins []string
}

type SessionConfig struct {
	Backend     string
	ClientID    string
	TokenSecret string
	TokenTTL    time.Duration
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN builds a libpq-compatible connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

type RedisConfig struct {
	URL string
}

// MockConfig sets the artificial latency of the mock external services.
type MockConfig struct {
	AuthDelay    time.Duration
	SearchDelay  time.Duration
	BookingDelay time.Duration
}

// Load reads .env (if present) and the environment. Missing variables fall
// back to local-development defaults.
func Load() (*Config, bool) {
	envLoaded := godotenv.Load() == nil

	return &Config{
		App: AppConfig{
			Port:               getEnv("PORT", "8080"),
			Environment:        getEnv("APP_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", ""),
			CorsAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Session: SessionConfig{
			Backend:     getEnv("SESSION_BACKEND", BackendMemory),
			ClientID:    getEnv("SESSION_CLIENT_ID", "local"),
			TokenSecret: getEnv("SESSION_TOKEN_SECRET", "dev-secret-change-me"),
			TokenTTL:    getEnvAsDuration("SESSION_TOKEN_TTL", 7*24*time.Hour),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "flightbooking"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
		},
		Mock: MockConfig{
			AuthDelay:    getEnvAsDuration("MOCK_AUTH_DELAY", time.Second),
			SearchDelay:  getEnvAsDuration("MOCK_SEARCH_DELAY", 1500*time.Millisecond),
			BookingDelay: getEnvAsDuration("MOCK_BOOKING_DELAY", 2*time.Second),
		},
	}, envLoaded
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("1500ms") or plain milliseconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if ms := getEnvAsInt(key, -1); ms >= 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
