// Package config loads pipeline configuration from environment variables.
package config

import (
	"os"
	"strconv"

	// Load environment variables from .env files when present.
	_ "github.com/joho/godotenv/autoload"
)

// Config holds all application configuration.
type Config struct {
	Layout LayoutConfig
	OCR    OCRConfig
}

// LayoutConfig selects whether the external layout-analysis path is
// attempted. Both the endpoint and the credential must be present.
type LayoutConfig struct {
	Endpoint string
	APIKey   string
}

// Enabled reports whether the layout-analysis service path is configured.
func (c LayoutConfig) Enabled() bool {
	return c.Endpoint != "" && c.APIKey != ""
}

// OCRConfig bounds the OCR fallback.
type OCRConfig struct {
	DPI            int
	MaxPages       int
	TimeoutSeconds int
}

// Load reads configuration from environment variables. Every setting has a
// working default; the layout service is simply skipped when unset.
func Load() *Config {
	return &Config{
		Layout: LayoutConfig{
			Endpoint: getEnv("LAYOUT_ANALYSIS_ENDPOINT", ""),
			APIKey:   getEnv("LAYOUT_ANALYSIS_KEY", ""),
		},
		OCR: OCRConfig{
			DPI:            getEnvAsInt("OCR_DPI", 300),
			MaxPages:       getEnvAsInt("OCR_MAX_PAGES", 20),
			TimeoutSeconds: getEnvAsInt("OCR_TIMEOUT_SECONDS", 300),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}
