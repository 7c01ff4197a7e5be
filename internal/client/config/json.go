package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/wombguard/wombguard-cli/internal/flagx"
	"github.com/wombguard/wombguard-cli/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Intervals use
// timex.Duration so they can be written as "3s" or as integer nanoseconds.
type JsonConfig struct {
	APIBaseURL          string         `json:"api_base_url"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	PollInterval        timex.Duration `json:"poll_interval"`
	StoreDriver         string         `json:"store_driver"`
	StorePath           string         `json:"store_path"`
	RedisURL            string         `json:"redis_url"`
	CredentialKeyFile   string         `json:"credential_key_file"`
	AuthProvider        string         `json:"auth_provider"`
	KratosPublicURL     string         `json:"kratos_public_url"`
	ProfileSource       string         `json:"profile_source"`
	ProfileDatabaseDSN  string         `json:"profile_database_dsn"`
	LogLevel            string         `json:"log_level"`
	ColorMode           string         `json:"color_mode"`
}

func fromConfig(c *Config) JsonConfig {
	return JsonConfig{
		APIBaseURL:          c.APIBaseURL,
		RequestTimeout:      timex.Duration{Duration: c.RequestTimeout},
		OnlineCheckInterval: timex.Duration{Duration: c.OnlineCheckInterval},
		PollInterval:        timex.Duration{Duration: c.PollInterval},
		StoreDriver:         c.StoreDriver,
		StorePath:           c.StorePath,
		RedisURL:            c.RedisURL,
		CredentialKeyFile:   c.CredentialKeyFile,
		AuthProvider:        c.AuthProvider,
		KratosPublicURL:     c.KratosPublicURL,
		ProfileSource:       c.ProfileSource,
		ProfileDatabaseDSN:  c.ProfileDatabaseDSN,
		LogLevel:            c.LogLevel,
		ColorMode:           c.ColorMode,
	}
}

func (jc JsonConfig) apply(c *Config) {
	c.APIBaseURL = jc.APIBaseURL
	c.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	c.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval.Duration)
	c.PollInterval = time.Duration(jc.PollInterval.Duration)
	c.StoreDriver = jc.StoreDriver
	c.StorePath = jc.StorePath
	c.RedisURL = jc.RedisURL
	c.CredentialKeyFile = jc.CredentialKeyFile
	c.AuthProvider = jc.AuthProvider
	c.KratosPublicURL = jc.KratosPublicURL
	c.ProfileSource = jc.ProfileSource
	c.ProfileDatabaseDSN = jc.ProfileDatabaseDSN
	c.LogLevel = jc.LogLevel
	c.ColorMode = jc.ColorMode
}

// parseJson overlays cfg with the JSON file given by -c or -config. Keys
// missing from the file keep their current values. No flag, no change.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	jc := fromConfig(cfg)
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	jc.apply(cfg)
	return nil
}
