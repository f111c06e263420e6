package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/shopkeeper/internal/flagx"
	"github.com/dmitrijs2005/shopkeeper/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for the token lifetime, which allows parsing both
// string values such as "1h" and integer nanoseconds.
type JsonConfig struct {
	Addr            string         `json:"addr"`
	SecretKey       string         `json:"secret_key"`
	TokenValidity   timex.Duration `json:"token_validity"`
	RateLimit       float64        `json:"rate_limit"`
	RateBurst       int            `json:"rate_burst"`
	PublicDomain    string         `json:"public_domain"`
	S3RootUser      string         `json:"s3_root_user"`
	S3RootPassword  string         `json:"s3_root_password"`
	S3Bucket        string         `json:"s3_bucket"`
	S3Region        string         `json:"s3_region"`
	S3BaseEndpoint  string         `json:"s3_base_endpoint"`
	S3PublicBaseURL string         `json:"s3_public_base_url"`
	LogLevel        string         `json:"log_level"`
}

// parseJson loads configuration values from the JSON file named by -c or
// -config (or SHOPKEEPER_SERVER_CONFIG). Absent fields keep their value.
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

	setString(&config.Addr, jc.Addr)
	setString(&config.SecretKey, jc.SecretKey)
	setString(&config.PublicDomain, jc.PublicDomain)
	setString(&config.S3RootUser, jc.S3RootUser)
	setString(&config.S3RootPassword, jc.S3RootPassword)
	setString(&config.S3Bucket, jc.S3Bucket)
	setString(&config.S3Region, jc.S3Region)
	setString(&config.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&config.S3PublicBaseURL, jc.S3PublicBaseURL)
	setString(&config.LogLevel, jc.LogLevel)

	if jc.TokenValidity.Duration > 0 {
		config.TokenValidity = jc.TokenValidity.Duration
	}
	if jc.RateLimit > 0 {
		config.RateLimit = jc.RateLimit
	}
	if jc.RateBurst > 0 {
		config.RateBurst = jc.RateBurst
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
