package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_defaults(t *testing.T) {
	for _, k := range []string{"PORT", "SESSION_BACKEND", "MOCK_SEARCH_DELAY", "CORS_ALLOWED_ORIGINS", "DB_NAME"} {
		t.Setenv(k, "")
	}

	cfg, _ := Load()

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, BackendMemory, cfg.Session.Backend)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.TokenTTL)
	assert.Equal(t, 1500*time.Millisecond, cfg.Mock.SearchDelay)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.App.CorsAllowedOrigins)
	assert.Equal(t, "flightbooking", cfg.Database.DBName)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_BACKEND", BackendRedis)
	t.Setenv("MOCK_AUTH_DELAY", "0s")
	t.Setenv("MOCK_BOOKING_DELAY", "250")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test ,")

	cfg, _ := Load()

	assert.Equal(t, "9090", cfg.App.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, BackendRedis, cfg.Session.Backend)
	assert.Zero(t, cfg.Mock.AuthDelay)
	assert.Equal(t, 250*time.Millisecond, cfg.Mock.BookingDelay)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.App.CorsAllowedOrigins)
}

func TestGetEnvAsDuration_invalidFallsBack(t *testing.T) {
	t.Setenv("SOME_DELAY", "soon")
	assert.Equal(t, time.Second, getEnvAsDuration("SOME_DELAY", time.Second))
}
