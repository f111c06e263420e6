package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the shopkeeper CLI.
type Config struct {
	ServerBaseURL  string
	StorageDriver  string
	StorageDSN     string
	RequestTimeout time.Duration
	LogLevel       string

	// OnlineCheckInterval is how often the REPL probes backend reachability.
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with defaults suitable for a local dev server.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.StorageDriver = "sqlite"
	c.StorageDSN = defaultStatePath()
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "warn"
	c.OnlineCheckInterval = 5 * time.Second
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "shopkeeper.db"
	}
	return filepath.Join(dir, "shopkeeper", "state.db")
}

// LoadConfig constructs a Config from defaults, the environment, an optional
// JSON file and the command-line args (without the program name). Later
// sources take precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseEnv(cfg, ".env"); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
