// Package config loads runtime configuration for the WombGuard CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A dotenv file (-e/-env, or ./.env when present) and WOMBGUARD_*
//     environment variables (see parseEnv). Real environment variables win
//     over the file.
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   backend API base URL
//	-i int      online status check interval (seconds)
//	-p int      dashboard poll interval (seconds)
//	-s string   local store path
//	-l string   log level
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be either strings like "3s" or
// integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:8000",
//	  "request_timeout": "30s",
//	  "online_check_interval": "3s",
//	  "poll_interval": "30s",
//	  "store_driver": "sqlite",
//	  "store_path": "wombguard.db",
//	  "auth_provider": "kratos",
//	  "kratos_public_url": "http://127.0.0.1:4433",
//	  "profile_source": "postgres",
//	  "profile_database_dsn": "postgres://wombguard@localhost/wombguard"
//	}
//
// The environment uses the same names upper-cased with the WOMBGUARD_ prefix,
// e.g. WOMBGUARD_STORE_DRIVER=redis.
package config
