package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvServerURL      = "SHOPKEEPER_SERVER_URL"
	EnvStorageDriver  = "SHOPKEEPER_STORAGE_DRIVER"
	EnvStorageDSN     = "SHOPKEEPER_STORAGE_DSN"
	EnvRequestTimeout = "SHOPKEEPER_REQUEST_TIMEOUT"
	EnvLogLevel       = "SHOPKEEPER_LOG_LEVEL"
	EnvCheckInterval  = "SHOPKEEPER_ONLINE_CHECK_INTERVAL"
	EnvConfigPath     = "SHOPKEEPER_CONFIG"
)

// parseEnv loads dotenv (a missing file is fine) and overlays every
// SHOPKEEPER_* variable that is set. Variables already present in the
// process environment win over the file.
func parseEnv(config *Config, dotenv string) error {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", dotenv, err)
		}
	}

	if v, ok := os.LookupEnv(EnvServerURL); ok && v != "" {
		config.ServerBaseURL = v
	}
	if v, ok := os.LookupEnv(EnvStorageDriver); ok && v != "" {
		config.StorageDriver = v
	}
	if v, ok := os.LookupEnv(EnvStorageDSN); ok && v != "" {
		config.StorageDSN = v
	}
	if v, ok := os.LookupEnv(EnvRequestTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvRequestTimeout, err)
		}
		config.RequestTimeout = d
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		config.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvCheckInterval); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvCheckInterval, err)
		}
		config.OnlineCheckInterval = d
	}
	return nil
}
