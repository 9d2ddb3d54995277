package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var DefaultEnvConfig *envConfig

type envConfig struct {
	// server config
	APP_PORT         string
	MAX_UPLOAD_SIZE  string
	MAX_UPLOAD_FILES int
	SESSION_TTL      time.Duration
	// insight config
	SCAN_WORKERS int
	// view config
	VIEW_CONFIG_PATH string
	// logger config
	LOG_FILE_PATH string
	LOG_LEVEL     string
}

// LoadEnvConfig reads .env when present and fills DefaultEnvConfig from the
// environment.
func LoadEnvConfig() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	DefaultEnvConfig = &envConfig{
		APP_PORT:         getEnvString("APP_PORT", "8080"),
		MAX_UPLOAD_SIZE:  getEnvString("MAX_UPLOAD_SIZE", "32M"),
		MAX_UPLOAD_FILES: getEnvInt("MAX_UPLOAD_FILES", 20),
		SESSION_TTL:      getEnvDuration("SESSION_TTL", 2*time.Hour),
		SCAN_WORKERS:     getEnvInt("SCAN_WORKERS", 4),
		VIEW_CONFIG_PATH: getEnvString("VIEW_CONFIG_PATH", ""),
		LOG_FILE_PATH:    getEnvString("LOG_FILE_PATH", ""),
		LOG_LEVEL:        getEnvString("LOG_LEVEL", "info"),
	}
	return nil
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
