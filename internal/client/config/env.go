package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/wombguard/wombguard-cli/internal/flagx"
)

// EnvPrefix prefixes every environment variable, e.g. WOMBGUARD_API_BASE_URL.
const EnvPrefix = "WOMBGUARD"

// parseEnv overlays cfg with WOMBGUARD_* variables. A dotenv file is read
// first: the one named by -e/-env, which must exist, or ./.env when present.
// Variables already set in the process environment win over the file.
// Unset variables leave the current values alone.
func parseEnv(cfg *Config, args []string) error {
	if file := flagx.EnvFile(args); file != "" {
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("load env file %s: %w", file, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	return nil
}
