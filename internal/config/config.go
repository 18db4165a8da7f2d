package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Auth scheme constants for the backend Authorization header.
const (
	AuthSchemeBearer = "Bearer"
	AuthSchemeAPIKey = "API-Key"
	AuthSchemeToken  = "Token"
	AuthSchemeCustom = "Custom"
)

// Config holds all runtime settings. It is built once in main and passed
// explicitly to the components that need it; no other package reads
// environment variables.
type Config struct {
	ListenAddr string
	Env        string // development | production

	// BackendURL is the base URL of the academy backend API. All data
	// requests go through it; the portal itself owns no business data.
	BackendURL string

	// RequestTimeout bounds every outgoing backend request.
	RequestTimeout time.Duration

	// SessionTTL is used when a login result carries no expires_in.
	SessionTTL time.Duration

	// PaymentMethodsEnabled gates the payment-method wizard step.
	PaymentMethodsEnabled bool

	// AuthScheme and AuthToken override the default bearer scheme for
	// deployments that front the backend with a fixed key instead of
	// per-user tokens. AuthToken is only consulted when AuthScheme is set.
	AuthScheme string
	AuthToken  string

	// CookieSigningKey signs the portal session and wizard cookies.
	CookieSigningKey []byte

	// CSRFKey is the 32-byte gorilla/csrf secret.
	CSRFKey []byte

	DatabasePath string
}

// Load reads configuration from the environment (and an optional .env
// file) and validates it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	backendURL, err := resolveBackendURL()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ListenAddr:            getEnv("DOJO_ADDR", ":8080"),
		Env:                   getEnv("DOJO_ENV", "development"),
		BackendURL:            backendURL,
		RequestTimeout:        getDuration("DOJO_REQUEST_TIMEOUT", 15*time.Second),
		SessionTTL:            getDuration("DOJO_SESSION_TTL", 24*time.Hour),
		PaymentMethodsEnabled: getBool("DOJO_PAYMENT_METHODS_ENABLED", true),
		AuthScheme:            os.Getenv("DOJO_AUTH_TYPE"),
		AuthToken:             os.Getenv("DOJO_AUTH_TOKEN"),
		DatabasePath:          getEnv("DOJO_DB_PATH", "dojoportal.db"),
	}

	cfg.CookieSigningKey, err = loadKey("DOJO_COOKIE_KEY", cfg.Env)
	if err != nil {
		return nil, err
	}
	cfg.CSRFKey, err = loadKey("DOJO_CSRF_KEY", cfg.Env)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded configuration.
// PRE: Config struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BackendURL) == "" {
		return fmt.Errorf("DOJO_BACKEND_URL is required")
	}
	if !strings.HasPrefix(c.BackendURL, "http://") && !strings.HasPrefix(c.BackendURL, "https://") {
		return fmt.Errorf("DOJO_BACKEND_URL must be an absolute http(s) URL")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("DOJO_REQUEST_TIMEOUT must be positive")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("DOJO_SESSION_TTL must be positive")
	}
	switch c.AuthScheme {
	case "", AuthSchemeBearer, AuthSchemeAPIKey, AuthSchemeToken, AuthSchemeCustom:
	default:
		return fmt.Errorf("DOJO_AUTH_TYPE must be one of Bearer, API-Key, Token, Custom")
	}
	if c.AuthScheme != "" && c.AuthScheme != AuthSchemeBearer && strings.TrimSpace(c.AuthToken) == "" {
		return fmt.Errorf("DOJO_AUTH_TOKEN is required when DOJO_AUTH_TYPE is %s", c.AuthScheme)
	}
	return nil
}

// resolveBackendURL picks the backend base URL. DOJO_BACKEND_URL is
// authoritative; DOJO_API_BASE_URL is accepted as a legacy alias. Setting
// both to different values is a deployment error, not something to guess
// around.
func resolveBackendURL() (string, error) {
	primary := strings.TrimRight(strings.TrimSpace(os.Getenv("DOJO_BACKEND_URL")), "/")
	legacy := strings.TrimRight(strings.TrimSpace(os.Getenv("DOJO_API_BASE_URL")), "/")

	switch {
	case primary != "" && legacy != "" && primary != legacy:
		return "", fmt.Errorf("DOJO_BACKEND_URL and DOJO_API_BASE_URL are both set but differ; unset one")
	case primary != "":
		return primary, nil
	case legacy != "":
		slog.Warn("config_legacy_var", "var", "DOJO_API_BASE_URL", "hint", "use DOJO_BACKEND_URL")
		return legacy, nil
	default:
		return "", nil // caught by Validate
	}
}

// loadKey reads a hex-encoded 32-byte secret from the environment. In
// production the key must be set; in development a random per-startup key
// is generated.
func loadKey(envVar, env string) ([]byte, error) {
	if keyHex := os.Getenv(envVar); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			return nil, fmt.Errorf("%s must be 64 hex characters (32 bytes)", envVar)
		}
		return key, nil
	}
	if env == "production" {
		return nil, fmt.Errorf("%s is required in production", envVar)
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate %s: %w", envVar, err)
	}
	slog.Warn("config_random_key", "var", envVar, "hint", "sessions won't survive restart")
	return key, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
