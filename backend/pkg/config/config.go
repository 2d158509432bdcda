package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/ifatinha/ghost-following/backend/internal/constants"
	apperrors "github.com/ifatinha/ghost-following/backend/pkg/errors"
)

// Config holds all application configuration
type Config struct {
	// App
	Port string
	Env  string

	// GitHub
	GitHubToken    string // optional; requests go out unauthenticated when empty
	GitHubAPIURL   string
	RequestTimeout time.Duration

	// Export
	CSVPath string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		GitHubToken:    getEnv("GITHUB_TOKEN", ""),
		GitHubAPIURL:   getEnv("GITHUB_API_URL", constants.DefaultGitHubAPIURL),
		RequestTimeout: time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", int(constants.RequestTimeout/time.Second))) * time.Second,
		CSVPath:        getEnv("GHOST_CSV_PATH", constants.DefaultCSVPath),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.Port == "" {
		return apperrors.NewConfigMissingRequired("PORT")
	}
	if c.GitHubAPIURL == "" {
		return apperrors.NewConfigMissingRequired("GITHUB_API_URL")
	}
	u, err := url.Parse(c.GitHubAPIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return apperrors.NewConfigValidationFailed("GITHUB_API_URL", "must be an absolute URL")
	}
	if c.RequestTimeout <= 0 {
		return apperrors.NewConfigValidationFailed("HTTP_TIMEOUT_SECONDS", "must be positive")
	}
	if c.CSVPath == "" {
		return apperrors.NewConfigMissingRequired("GHOST_CSV_PATH")
	}
	// GitHub token is optional
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
