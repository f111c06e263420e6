package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/shopkeeper/internal/flagx"
	"github.com/dmitrijs2005/shopkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the CLI config file. Durations use
// timex.Duration so both "10s" and integer nanoseconds are accepted.
type JsonConfig struct {
	ServerBaseURL  string         `json:"server_base_url"`
	StorageDriver  string         `json:"storage_driver"`
	StorageDSN     string         `json:"storage_dsn"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	LogLevel       string         `json:"log_level"`

	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
}

// parseJson overlays values from the file named by -c/-config (or
// SHOPKEEPER_CONFIG). Fields absent from the file keep their current value.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args, EnvConfigPath)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if jc.ServerBaseURL != "" {
		config.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.StorageDriver != "" {
		config.StorageDriver = jc.StorageDriver
	}
	if jc.StorageDSN != "" {
		config.StorageDSN = jc.StorageDSN
	}
	if jc.RequestTimeout.Duration > 0 {
		config.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.LogLevel != "" {
		config.LogLevel = jc.LogLevel
	}
	if jc.OnlineCheckInterval.Duration > 0 {
		config.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	return nil
}
