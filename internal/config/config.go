package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Port      int    // HTTP listen port
	DBPath    string // SQLite database file path
	UploadDir string // directory for uploaded part images
}

// Load reads configuration from a .env file (if present) and the environment,
// falling back to defaults.
func Load() (*Config, error) {
	// Missing .env is fine; real environment variables win either way.
	_ = godotenv.Load()

	port, err := getEnvInt("PORT", 3000)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:      port,
		DBPath:    getEnv("DB_PATH", "servis32.sqlite3"),
		UploadDir: getEnv("UPLOAD_DIR", "uploads"),
	}, nil
}

// Addr returns the listen address for the configured port.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}

// getEnvInt retrieves an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultVal int) (int, error) {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
		}
		return intVal, nil
	}
	return defaultVal, nil
}
