package config

import (
	"fmt"
	"time"

	"github.com/wombguard/wombguard-cli/internal/validatex"
)

// Storage drivers for the local key/value store.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Config holds runtime settings for the WombGuard CLI.
//
// Units: all intervals are time.Duration. The json tags name the fields in
// validation messages and match the JSON file keys.
type Config struct {
	APIBaseURL          string        `json:"api_base_url" envconfig:"API_BASE_URL" validate:"required,url"`
	RequestTimeout      time.Duration `json:"request_timeout" envconfig:"REQUEST_TIMEOUT" validate:"gt=0"`
	OnlineCheckInterval time.Duration `json:"online_check_interval" envconfig:"ONLINE_CHECK_INTERVAL" validate:"gt=0"`
	PollInterval        time.Duration `json:"poll_interval" envconfig:"POLL_INTERVAL" validate:"gt=0"`

	StoreDriver       string `json:"store_driver" envconfig:"STORE_DRIVER" validate:"oneof=sqlite redis memory"`
	StorePath         string `json:"store_path" envconfig:"STORE_PATH" validate:"required_if=StoreDriver sqlite"`
	RedisURL          string `json:"redis_url" envconfig:"REDIS_URL" validate:"required_if=StoreDriver redis"`
	CredentialKeyFile string `json:"credential_key_file" envconfig:"CREDENTIAL_KEY_FILE"`

	AuthProvider       string `json:"auth_provider" envconfig:"AUTH_PROVIDER" validate:"oneof=kratos none"`
	KratosPublicURL    string `json:"kratos_public_url" envconfig:"KRATOS_PUBLIC_URL" validate:"required_if=AuthProvider kratos"`
	ProfileSource      string `json:"profile_source" envconfig:"PROFILE_SOURCE" validate:"oneof=postgres none"`
	ProfileDatabaseDSN string `json:"profile_database_dsn" envconfig:"PROFILE_DATABASE_DSN" validate:"required_if=ProfileSource postgres"`

	LogLevel  string `json:"log_level" envconfig:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	ColorMode string `json:"color_mode" envconfig:"COLOR_MODE" validate:"oneof=auto always never"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000"
	c.RequestTimeout = 30 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.PollInterval = 30 * time.Second
	c.StoreDriver = DriverSQLite
	c.StorePath = "wombguard.db"
	c.RedisURL = ""
	c.CredentialKeyFile = ""
	c.AuthProvider = "none"
	c.KratosPublicURL = ""
	c.ProfileSource = "none"
	c.ProfileDatabaseDSN = ""
	c.LogLevel = "info"
	c.ColorMode = "auto"
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	if err := validatex.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (and an optional .env file), a JSON file and command-line
// flags. Later sources take precedence over earlier ones. args excludes the
// program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseEnv(cfg, args); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
