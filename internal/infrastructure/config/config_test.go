package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("AUTH_TOKEN_SECRET", "s3cret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, "catalog_session", cfg.Auth.CookieName)
	assert.Equal(t, "/login", cfg.Auth.LoginURL)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.Auth.APIRequireAdmin)
	assert.True(t, cfg.OTLP.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("AUTH_TOKEN_SECRET", "s3cret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_SHUTDOWN_TIMEOUT", "3")
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("DATABASE_URL", "file:catalog.db")
	t.Setenv("OTEL_ENABLED", "false")
	t.Setenv("AUTH_TOKEN_TTL", "45m")
	t.Setenv("API_REQUIRE_ADMIN", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.False(t, cfg.OTLP.Enabled)
	assert.Equal(t, 45*time.Minute, cfg.Auth.TokenTTL)
	assert.True(t, cfg.Auth.APIRequireAdmin)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("AUTH_TOKEN_SECRET", "")
		_, err := LoadConfig()
		assert.ErrorIs(t, err, ErrMissingTokenSecret)
	})

	t.Run("sql driver without dsn", func(t *testing.T) {
		t.Setenv("AUTH_TOKEN_SECRET", "s3cret")
		t.Setenv("STORE_DRIVER", "postgres")
		t.Setenv("DATABASE_URL", "")
		_, err := LoadConfig()
		assert.ErrorIs(t, err, ErrMissingDatabaseURL)
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("AUTH_TOKEN_SECRET", "s3cret")
		t.Setenv("STORE_DRIVER", "mongo")
		_, err := LoadConfig()
		assert.ErrorIs(t, err, ErrUnknownDriver)
	})
}
