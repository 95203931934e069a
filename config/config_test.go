package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/swiss")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("ORGANIZER_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "organizer", cfg.OrganizerUsername)
	assert.Equal(t, 4096, cfg.PairingMaxPlayers)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.R2.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("PAIRING_MAX_PLAYERS", "64")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("R2_ACCOUNT_ID", "acc")
	t.Setenv("R2_ACCESS_KEY_ID", "key")
	t.Setenv("R2_SECRET_ACCESS_KEY", "secret")
	t.Setenv("R2_BUCKET_NAME", "rounds")
	t.Setenv("R2_PUBLIC_BASE_URL", "https://cdn.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, 9000, cfg.ServerPort)
	assert.Equal(t, 64, cfg.PairingMaxPlayers)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.R2.Enabled())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"missing database url", "DATABASE_URL", ""},
		{"missing jwt key", "JWT_SECRET_KEY", ""},
		{"missing organizer hash", "ORGANIZER_PASSWORD_HASH", ""},
		{"bad driver", "DATABASE_DRIVER", "mysql"},
		{"bad port", "SERVER_PORT", "eighty"},
		{"port out of range", "SERVER_PORT", "70000"},
		{"too few players", "PAIRING_MAX_PLAYERS", "1"},
		{"bad log format", "LOG_FORMAT", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
