package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "SHOPKEEPER_SERVER_"

// EnvConfigPath names the JSON config file when -c is absent.
const EnvConfigPath = envPrefix + "CONFIG"

// parseEnv loads dotenv (a missing file is fine) and overlays every
// SHOPKEEPER_SERVER_* variable that is set.
func parseEnv(config *Config, dotenv string) error {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", dotenv, err)
		}
	}

	strs := map[string]*string{
		"ADDR":               &config.Addr,
		"SECRET_KEY":         &config.SecretKey,
		"PUBLIC_DOMAIN":      &config.PublicDomain,
		"S3_ROOT_USER":       &config.S3RootUser,
		"S3_ROOT_PASSWORD":   &config.S3RootPassword,
		"S3_BUCKET":          &config.S3Bucket,
		"S3_REGION":          &config.S3Region,
		"S3_BASE_ENDPOINT":   &config.S3BaseEndpoint,
		"S3_PUBLIC_BASE_URL": &config.S3PublicBaseURL,
		"LOG_LEVEL":          &config.LogLevel,
	}
	for name, dst := range strs {
		if v := os.Getenv(envPrefix + name); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv(envPrefix + "TOKEN_VALIDITY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sTOKEN_VALIDITY: %w", envPrefix, err)
		}
		config.TokenValidity = d
	}
	if v := os.Getenv(envPrefix + "RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %sRATE_LIMIT: %w", envPrefix, err)
		}
		config.RateLimit = f
	}
	if v := os.Getenv(envPrefix + "RATE_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sRATE_BURST: %w", envPrefix, err)
		}
		config.RateBurst = n
	}
	return nil
}
