package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds everything the process needs. It is built once at
// startup and injected into constructors; nothing reads the environment
// after Load returns.
type AppConfig struct {
	// Upstream OpenWeatherMap access.
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string

	// Units passed through to the provider; temperatures arrive already
	// converted.
	Units string

	// Per-call timeout for outbound provider requests.
	HTTPTimeout time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OWM_API_KEY")
	if cfg.OpenWeatherAPIKey == "" {
		return nil, fmt.Errorf("OWM_API_KEY is required")
	}

	cfg.OpenWeatherBaseURL = getenvDefault("OWM_BASE_URL", "https://api.openweathermap.org/data/2.5")
	cfg.Units = getenvDefault("UNITS", "metric")

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
