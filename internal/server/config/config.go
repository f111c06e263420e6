// Package config handles configuration for the development backend,
// including defaults, the environment, a JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the development backend.
//
// Fields:
//   - Addr: bind address of the HTTP API.
//   - SecretKey: HMAC secret for signing bearer tokens (HS256). Do not use test defaults in prod.
//   - TokenValidity: lifetime of issued tokens.
//   - RateLimit / RateBurst: per-client request budget (requests per second, burst).
//   - PublicDomain: domain under which tenant URLs are generated.
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: object storage settings for branding assets.
//   - S3PublicBaseURL: base URL under which uploaded assets are publicly readable.
type Config struct {
	Addr            string
	SecretKey       string
	TokenValidity   time.Duration
	RateLimit       float64
	RateBurst       int
	PublicDomain    string
	S3RootUser      string
	S3RootPassword  string
	S3Bucket        string
	S3Region        string
	S3BaseEndpoint  string
	S3PublicBaseURL string
	LogLevel        string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.SecretKey = "secretKey"
	c.TokenValidity = time.Hour
	c.RateLimit = 20
	c.RateBurst = 40
	c.PublicDomain = "poc-web-commerce.example"
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "branding"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.S3PublicBaseURL = "http://127.0.0.1:9000/branding/"
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the environment, an optional JSON file and finally the command-line
// args (without the program name).
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
