package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret")
	t.Setenv("GOOGLE_REDIRECT_URI", "https://api.example.com/oauth2callback")
	t.Setenv("SECRET_KEY", "0123456789abcdef0123456789abcdef")

	t.Setenv("ENCRYPTION_ALGORITHM", "")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("DATABASE_FILE", "")
	t.Setenv("GOOGLE_REGISTRATION_TABLE_NAME", "")
	t.Setenv("GOOGLE_SESSIONS_TABLE_NAME", "")
	t.Setenv("DEEPLINK_SCHEME", "")
	t.Setenv("PORT", "")

	cfg := LoadConfig()
	require.NoError(t, cfg.Validate())

	require.Equal(t, "HS256", cfg.Algorithm)
	require.Equal(t, 14*24*time.Hour, cfg.TokenTTL)
	require.Equal(t, "signon.db", cfg.DatabaseFile)
	require.Empty(t, cfg.UsersTable)
	require.Empty(t, cfg.SessionsTable)
	require.Equal(t, "app_deeplink", cfg.DeeplinkScheme)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret")
	t.Setenv("GOOGLE_REDIRECT_URI", "https://api.example.com/oauth2callback")
	t.Setenv("SECRET_KEY", "0123456789abcdef0123456789abcdef")

	t.Setenv("ENCRYPTION_ALGORITHM", "HS512")
	t.Setenv("TOKEN_TTL", "1h30m")
	t.Setenv("GOOGLE_REGISTRATION_TABLE_NAME", "acme_registrations")
	t.Setenv("GOOGLE_SESSIONS_TABLE_NAME", "acme_sessions")
	t.Setenv("PORT", "9090")

	cfg := LoadConfig()
	require.Equal(t, "HS512", cfg.Algorithm)
	require.Equal(t, 90*time.Minute, cfg.TokenTTL)
	require.Equal(t, "acme_registrations", cfg.UsersTable)
	require.Equal(t, "acme_sessions", cfg.SessionsTable)
	require.Equal(t, 9090, cfg.Port)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := Config{
		GoogleClientID:     "client-id",
		GoogleClientSecret: "client-secret",
		GoogleRedirectURI:  "https://api.example.com/oauth2callback",
		SecretKey:          "0123456789abcdef0123456789abcdef",
	}
	require.NoError(t, valid.Validate())

	for _, tc := range []struct {
		name  string
		strip func(c *Config)
	}{
		{"client id", func(c *Config) { c.GoogleClientID = "" }},
		{"client secret", func(c *Config) { c.GoogleClientSecret = "" }},
		{"redirect uri", func(c *Config) { c.GoogleRedirectURI = "" }},
		{"secret key", func(c *Config) { c.SecretKey = "" }},
	} {
		t.Run("missing "+tc.name, func(t *testing.T) {
			cfg := valid
			tc.strip(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
