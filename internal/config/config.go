package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var DefaultEnvConfig *envConfig

type envConfig struct {
	// backend config
	API_BASE_URL string
	API_TIMEOUT  time.Duration
	// client state config
	STATE_DIR string
	// logger config
	LOG_FILE_PATH string
	LOG_LEVEL     string
}

// LoadEnvConfig reads .env when present and populates DefaultEnvConfig with
// typed fallbacks. A missing .env file is not an error for the console: every
// key has a usable default.
func LoadEnvConfig() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return err
	}

	DefaultEnvConfig = &envConfig{
		API_BASE_URL:  getEnvString("API_BASE_URL", "http://localhost:5000"),
		API_TIMEOUT:   getEnvDuration("API_TIMEOUT", 10*time.Second),
		STATE_DIR:     getEnvString("STATE_DIR", defaultStateDir()),
		LOG_FILE_PATH: getEnvString("LOG_FILE_PATH", ""),
		LOG_LEVEL:     getEnvString("LOG_LEVEL", "info"),
	}
	return nil
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".empadmin"
	}
	return filepath.Join(home, ".empadmin")
}

func getEnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if i, err := strconv.Atoi(val); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}
