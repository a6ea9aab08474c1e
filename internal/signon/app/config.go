package app

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Google OAuth2 client settings. All three are required; the service
	// cannot run the callback flow without them.
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string

	SecretKey string // Required: symmetric signing key for session tokens
	Algorithm string // Optional: HMAC signing algorithm (HS256, HS384, HS512) (default: HS256)
	Issuer    string // Optional: issuer claim for tokens (default: signon)

	TokenTTL time.Duration // Optional: session token validity window (default: 336h, i.e. two weeks)

	DatabaseFile  string // Optional: path to SQLite database file (default: ./signon.db)
	UsersTable    string // Optional: users table name (default: google_users)
	SessionsTable string // Optional: sessions table name (default: google_sessions)

	DeeplinkScheme string // Optional: URI scheme for callback redirects (default: app_deeplink)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// LoadConfig reads configuration from the environment. Variable names match
// the deployment's existing .env layout, so the Google and token settings
// keep their historical names.
func LoadConfig() Config {
	return Config{
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURI:  os.Getenv("GOOGLE_REDIRECT_URI"),

		SecretKey: os.Getenv("SECRET_KEY"),
		Algorithm: getEnvOrDefault("ENCRYPTION_ALGORITHM", "HS256"),
		Issuer:    getEnvOrDefault("TOKEN_ISSUER", "signon"),

		TokenTTL: getEnvDurationOrDefault("TOKEN_TTL", 14*24*time.Hour),

		DatabaseFile:  getEnvOrDefault("DATABASE_FILE", "signon.db"),
		UsersTable:    os.Getenv("GOOGLE_REGISTRATION_TABLE_NAME"),
		SessionsTable: os.Getenv("GOOGLE_SESSIONS_TABLE_NAME"),

		DeeplinkScheme: getEnvOrDefault("DEEPLINK_SCHEME", "app_deeplink"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

// Validate reports the first missing required setting.
func (c Config) Validate() error {
	switch {
	case c.GoogleClientID == "":
		return errors.New("config: GOOGLE_CLIENT_ID is required")
	case c.GoogleClientSecret == "":
		return errors.New("config: GOOGLE_CLIENT_SECRET is required")
	case c.GoogleRedirectURI == "":
		return errors.New("config: GOOGLE_REDIRECT_URI is required")
	case c.SecretKey == "":
		return errors.New("config: SECRET_KEY is required")
	default:
		return nil
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
