package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/wombguard/wombguard-cli/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   backend API base URL
//	-i int      online check interval in seconds
//	-p int      dashboard poll interval in seconds
//	-s string   path of the local SQLite store
//	-l string   log level (debug, info, warn, error)
//
// args are filtered with flagx.FilterArgs first so flags owned by other
// loaders (-c, -e) never make parsing fail.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-i", "-p", "-s", "-l"})

	fs := flag.NewFlagSet("wombguard", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "backend API base URL")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	pollInterval := fs.Int("p", int(cfg.PollInterval.Seconds()), "dashboard poll interval (in seconds)")
	fs.StringVar(&cfg.StorePath, "s", cfg.StorePath, "path of the local store")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	// Only flags that were given replace the interval, so a sub-second value
	// from an earlier source survives.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "i":
			cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
		case "p":
			cfg.PollInterval = time.Duration(*pollInterval) * time.Second
		}
	})
	return nil
}
