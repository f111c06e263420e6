package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/shopkeeper/internal/flagx"
)

// parseFlags overlays the CLI flags. Arguments not owned by this package
// (REPL commands, -c) are filtered out first.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-s", "-d", "-t", "-l", "-i"})

	fs := flag.NewFlagSet("shopkeeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.ServerBaseURL, "a", config.ServerBaseURL, "backend API base URL")
	fs.StringVar(&config.StorageDriver, "s", config.StorageDriver, "storage driver (sqlite, postgres, redis, memory)")
	fs.StringVar(&config.StorageDSN, "d", config.StorageDSN, "storage DSN")
	fs.DurationVar(&config.RequestTimeout, "t", config.RequestTimeout, "per-request timeout")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.DurationVar(&config.OnlineCheckInterval, "i", config.OnlineCheckInterval, "online status check interval")

	return fs.Parse(args)
}
