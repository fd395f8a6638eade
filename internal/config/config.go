package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	defaultServiceName    = "auth-service"
	defaultPort           = "8080"
	defaultPrivateKeyPath = "certs/private.pem"
	defaultCookieDomain   = "localhost"
	defaultCookieSecure   = "false"
	defaultRefreshSecret  = "change-me-refresh-secret"
)

// Config carries everything the process needs at startup, including the
// access-token signing key material. The key is read once here and
// injected into the token service, never re-read per request.
type Config struct {
	AppEnv             string
	ServiceName        string
	Port               string
	DatabaseURL        string
	PrivateKey         []byte
	RefreshTokenSecret string
	CookieDomain       string
	CookieSecure       bool
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.ServiceName = strings.TrimSpace(getEnv("SERVICE_NAME", defaultServiceName))
	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.RefreshTokenSecret = strings.TrimSpace(getEnv("REFRESH_TOKEN_SECRET", defaultRefreshSecret))
	cfg.CookieDomain = strings.TrimSpace(getEnv("COOKIE_DOMAIN", defaultCookieDomain))
	cfg.CookieSecure = parseBoolEnv("COOKIE_SECURE", defaultCookieSecure)

	keyPath := strings.TrimSpace(getEnv("PRIVATE_KEY_PATH", defaultPrivateKeyPath))
	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("reading private key %s: %w", keyPath, err)
	}
	cfg.PrivateKey = key

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.ServiceName == "" {
		return fmt.Errorf("SERVICE_NAME must not be empty")
	}
	if cfg.CookieDomain == "" {
		return fmt.Errorf("COOKIE_DOMAIN must not be empty")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.RefreshTokenSecret, defaultRefreshSecret) {
			return fmt.Errorf("in prod/release REFRESH_TOKEN_SECRET must be set and not default")
		}
		if !cfg.CookieSecure {
			return fmt.Errorf("in prod/release COOKIE_SECURE must be true")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
