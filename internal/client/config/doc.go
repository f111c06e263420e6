// Package config loads runtime configuration for the shopkeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory, then SHOPKEEPER_* environment
//     variables (see parseEnv).
//  3. Optional JSON file selected via -c/-config or SHOPKEEPER_CONFIG.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string     base URL of the backend API
//	-s string     storage driver: sqlite, postgres, redis or memory
//	-d string     storage DSN (file path for sqlite, URL otherwise)
//	-t duration   per-request timeout, e.g. 10s
//	-l string     log level: debug, info, warn, error
//	-i duration   online status check interval, e.g. 5s
//
// # JSON schema
//
//	{
//	  "server_base_url": "http://127.0.0.1:8080",
//	  "storage_driver": "sqlite",
//	  "storage_dsn": "/home/me/.config/shopkeeper/state.db",
//	  "request_timeout": "10s",
//	  "log_level": "info",
//	  "online_check_interval": "5s"
//	}
package config
