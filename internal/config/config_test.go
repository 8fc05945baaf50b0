package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, 14, cfg.Planner.HorizonDays)
	assert.Equal(t, 60, cfg.Planner.SlackMinutes)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("PLANNER_HORIZON_DAYS", "30")
	t.Setenv("PLANNER_SLACK_MINUTES", "90")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, 30, cfg.Planner.HorizonDays)
	assert.Equal(t, 90, cfg.Planner.SlackMinutes)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_ENV_VAR", "value")

	assert.Equal(t, "value", getEnv("TEST_ENV_VAR", "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("TEST_BOOL_VAR", "true")
	assert.True(t, getEnvBool("TEST_BOOL_VAR", false))

	t.Setenv("TEST_BOOL_VAR", "false")
	assert.False(t, getEnvBool("TEST_BOOL_VAR", true))

	t.Setenv("TEST_BOOL_VAR", "invalid")
	assert.True(t, getEnvBool("TEST_BOOL_VAR", true))

	assert.True(t, getEnvBool("TEST_BOOL_MISSING", true))
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEST_INT_VAR", "123")
	assert.Equal(t, 123, getEnvInt("TEST_INT_VAR", 0))

	t.Setenv("TEST_INT_VAR", "invalid")
	assert.Equal(t, 10, getEnvInt("TEST_INT_VAR", 10))

	assert.Equal(t, 10, getEnvInt("TEST_INT_MISSING", 10))
}
