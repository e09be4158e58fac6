// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides HTTP server settings for the router.
type HTTPConfig interface {
	GetEnv() string
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// GeminiConfig provides settings for the generative search/detail clients.
type GeminiConfig interface {
	GetGeminiAPIKey() string
	GetGeminiModel() string
}

// CoversConfig provides settings for the cover metadata client.
type CoversConfig interface {
	GetCoversEnabled() bool
	GetIGDBClientID() string
	GetIGDBClientSecret() string
	GetIGDBAPIURL() string
	GetTwitchAuthURL() string
}

// RedisConfig provides the favorites store connection settings.
type RedisConfig interface {
	GetRedisURL() string
}

// Config holds all application configuration loaded from the environment.
type Config struct {
	Env      string
	HTTPAddr string

	CORSAllowAll bool
	CORSOrigins  []string

	GeminiAPIKey string
	GeminiModel  string

	// IGDB credentials are injected from the environment; cover resolution
	// is disabled entirely when they are absent.
	CoversEnabled    bool
	IGDBClientID     string
	IGDBClientSecret string
	IGDBAPIURL       string
	TwitchAuthURL    string

	RedisURL string

	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment, applying defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	igdbClientID := getEnv("IGDB_CLIENT_ID", "")
	igdbClientSecret := getEnv("IGDB_CLIENT_SECRET", "")
	coversEnabled := strings.EqualFold(getEnv("COVERS_ENABLED", "true"), "true")

	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:     corsAllowAll,
		CORSOrigins:      corsOrigins,
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-3-pro-preview"),
		CoversEnabled:    coversEnabled && igdbClientID != "" && igdbClientSecret != "",
		IGDBClientID:     igdbClientID,
		IGDBClientSecret: igdbClientSecret,
		IGDBAPIURL:       getEnv("IGDB_API_URL", "https://api.igdb.com/v4"),
		TwitchAuthURL:    getEnv("TWITCH_AUTH_URL", "https://id.twitch.tv/oauth2/token"),
		RedisURL:         getEnv("REDIS_URL", ""),
		ShutdownTimeout:  mustDuration(getEnv("SHUTDOWN_TIMEOUT", "10s")),
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}
	if coversEnabled && (igdbClientID == "") != (igdbClientSecret == "") {
		return nil, fmt.Errorf("IGDB_CLIENT_ID and IGDB_CLIENT_SECRET must be set together")
	}

	return cfg, nil
}

// Interface implementations.

func (c *Config) GetEnv() string              { return c.Env }
func (c *Config) GetHTTPAddr() string         { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool       { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string    { return c.CORSOrigins }
func (c *Config) GetGeminiAPIKey() string     { return c.GeminiAPIKey }
func (c *Config) GetGeminiModel() string      { return c.GeminiModel }
func (c *Config) GetCoversEnabled() bool      { return c.CoversEnabled }
func (c *Config) GetIGDBClientID() string     { return c.IGDBClientID }
func (c *Config) GetIGDBClientSecret() string { return c.IGDBClientSecret }
func (c *Config) GetIGDBAPIURL() string       { return c.IGDBAPIURL }
func (c *Config) GetTwitchAuthURL() string    { return c.TwitchAuthURL }
func (c *Config) GetRedisURL() string         { return c.RedisURL }

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
