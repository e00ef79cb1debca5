package config

import (
	"log"
	"os"
	"strconv"

	"github.com/Conceptual-Machines/magda-patterns/internal/clip"
)

const defaultMaxPatternLength = 1024

// Config holds the application configuration.
// The engine itself is stateless; the database only stores song documents
// and is optional.
type Config struct {
	// Environment
	Environment string
	Port        string

	// Song store (empty disables it)
	DatabaseURL string

	// Observability
	SentryDSN string // Sentry DSN for error tracking

	// Auth mode
	// - "none": No auth (self-hosted, local dev)
	// - "gateway": Trust X-User-* headers from the gateway
	AuthMode string

	// Engine defaults for zero clip fields
	DefaultSubdivUnit float64
	DefaultAmp        int
	DefaultAccentLow  int

	// Longest pattern string the API accepts
	MaxPatternLength int
}

func Load() *Config {
	return &Config{
		Environment:       getEnv("ENVIRONMENT", "development"),
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		AuthMode:          getEnv("AUTH_MODE", "none"), // Default to no auth for self-hosted
		DefaultSubdivUnit: getEnvFloat("DEFAULT_SUBDIV_UNIT", clip.DefaultSubdivUnit),
		DefaultAmp:        getEnvInt("DEFAULT_AMP", clip.DefaultAmp),
		DefaultAccentLow:  getEnvInt("DEFAULT_ACCENT_LOW", clip.DefaultAccentLow),
		MaxPatternLength:  getEnvInt("MAX_PATTERN_LENGTH", defaultMaxPatternLength),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("⚠️  Invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("⚠️  Invalid %s=%q, using %g", key, value, defaultValue)
		return defaultValue
	}
	return f
}

// IsGatewayMode returns true if running behind the gateway
func (c *Config) IsGatewayMode() bool {
	return c.AuthMode == "gateway"
}

// StoreEnabled reports whether song documents can be stored
func (c *Config) StoreEnabled() bool {
	return c.DatabaseURL != ""
}

// ClipDefaults returns the engine defaults for zero clip fields
func (c *Config) ClipDefaults() clip.Defaults {
	return clip.Defaults{
		SubdivUnit: c.DefaultSubdivUnit,
		Amp:        c.DefaultAmp,
		AccentLow:  c.DefaultAccentLow,
	}
}
