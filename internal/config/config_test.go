package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://boreas@localhost/boreas")
	t.Setenv("JWT_SECRET", "supersecret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, time.Minute, cfg.PollInterval)
	assert.Equal(t, "ventilation", cfg.VentilationAction)
	assert.Equal(t, "boreas", cfg.MQTTTopicPrefix)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.False(t, cfg.StrictTimes)
	assert.False(t, cfg.Production())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "file:boreas.db")
	t.Setenv("JWT_SECRET", "supersecret")
	t.Setenv("VENTILATION_POLL_INTERVAL", "15s")
	t.Setenv("STRICT_TIME_PARSING", "true")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite3", cfg.DatabaseDriver)
	assert.Equal(t, 15*time.Second, cfg.PollInterval)
	assert.True(t, cfg.StrictTimes)
	assert.True(t, cfg.Production())
}

func TestLoadRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "supersecret")
	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL")

	t.Setenv("DATABASE_URL", "file:boreas.db")
	t.Setenv("JWT_SECRET", "")
	_, err = Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadRejectsBadInterval(t *testing.T) {
	t.Setenv("DATABASE_URL", "file:boreas.db")
	t.Setenv("JWT_SECRET", "supersecret")
	t.Setenv("VENTILATION_POLL_INTERVAL", "soon")
	_, err := Load()
	assert.Error(t, err)
}
