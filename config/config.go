package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system,
// such as the DART API client, output location, server settings and Postgres connection details.
//
// Example ENV equivalent:
//
//	DART_API_KEY=0123456789abcdef0123456789abcdef01234567
//	DART_BASE_URL=https://opendart.fss.or.kr/api
//	HTTP_TIMEOUT=30s
//	FETCH_PARALLEL=1
//	FETCH_RATE_PER_SEC=5
//	OUTPUT_DIR=.
//	SERVER_PORT=8080
//	POSTGRES_HOST=localhost
//	POSTGRES_DB=dartpulse
type Config struct {
	Dart     DartConfig     // DART API client settings
	Output   OutputConfig   // where CSV files are written
	Server   ServerConfig   // HTTP server configuration
	Postgres PostgresConfig // PostgreSQL connection settings
}

// DartConfig holds the DART API client settings.
//
// Fields:
//   - APIKey: the crtfc_key credential. May be empty; only the financial fetcher requires it.
//   - BaseURL: API root, without trailing slash.
//   - Timeout: per-request timeout. Zero disables the timeout.
//   - Parallel: how many yearly requests may be in flight at once (1 = sequential).
//   - RatePerSec: client-side request rate limit. Zero or negative disables throttling.
type DartConfig struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	Parallel   int
	RatePerSec float64
}

// OutputConfig controls where exported files are placed.
type OutputConfig struct {
	Dir string // Directory for dart_corp_codes.csv and financial exports
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port string // The TCP port the HTTP server will listen on (e.g., "8080")
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

const defaultEnvFile = ".env"

// LoadConfig reads configuration once at startup from the .env file (if present)
// and the process environment, and returns the resolved value.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// The DART credential is read from DART_API_KEY, falling back to the legacy
// dart_corp_api_key name. A missing credential is not an error here: commands
// that need it report it themselves, before any network activity.
func LoadConfig() (Config, error) {
	return load(viper.New(), defaultEnvFile)
}

func load(v *viper.Viper, envFile string) (Config, error) {
	v.SetDefault("DART_BASE_URL", "https://opendart.fss.or.kr/api")
	v.SetDefault("HTTP_TIMEOUT", "30s")
	v.SetDefault("FETCH_PARALLEL", 1)
	v.SetDefault("FETCH_RATE_PER_SEC", 5)
	v.SetDefault("OUTPUT_DIR", ".")

	v.SetDefault("SERVER_PORT", "8080")

	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", 5432)
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_PASSWORD", "postgres")
	v.SetDefault("POSTGRES_DB", "dartpulse")
	v.SetDefault("POSTGRES_SSLMODE", "disable")

	// Optionally read from .env if present (common in local dev)
	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		_ = v.ReadInConfig() // ignore error if no .env
	}

	v.AutomaticEnv()
	_ = v.BindEnv("dart_corp_api_key", "dart_corp_api_key", "DART_CORP_API_KEY")

	apiKey := strings.TrimSpace(v.GetString("DART_API_KEY"))
	if apiKey == "" {
		apiKey = strings.TrimSpace(v.GetString("dart_corp_api_key"))
	}

	cfg := Config{
		Dart: DartConfig{
			APIKey:     apiKey,
			BaseURL:    strings.TrimRight(v.GetString("DART_BASE_URL"), "/"),
			Timeout:    v.GetDuration("HTTP_TIMEOUT"),
			Parallel:   v.GetInt("FETCH_PARALLEL"),
			RatePerSec: v.GetFloat64("FETCH_RATE_PER_SEC"),
		},
		Output: OutputConfig{
			Dir: v.GetString("OUTPUT_DIR"),
		},
		Server: ServerConfig{
			Port: v.GetString("SERVER_PORT"),
		},
		Postgres: PostgresConfig{
			Host:     v.GetString("POSTGRES_HOST"),
			Port:     v.GetInt("POSTGRES_PORT"),
			User:     v.GetString("POSTGRES_USER"),
			Password: v.GetString("POSTGRES_PASSWORD"),
			DBName:   v.GetString("POSTGRES_DB"),
			SSLMode:  v.GetString("POSTGRES_SSLMODE"),
		},
	}

	// Construct Postgres DSN (used by database/sql)
	cfg.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.DBName,
		cfg.Postgres.SSLMode,
	)

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// validateConfig ensures required variables are present and well formed.
//
// Behavior:
//   - Checks each critical field of cfg.
//   - Collects missing or invalid ones in a slice.
//   - Returns a single error naming all of them.
func validateConfig(cfg Config) error {
	var missing []string

	if cfg.Dart.BaseURL == "" {
		missing = append(missing, "DART_BASE_URL")
	}
	if cfg.Dart.Timeout < 0 {
		missing = append(missing, "HTTP_TIMEOUT")
	}
	if cfg.Dart.Parallel < 1 {
		missing = append(missing, "FETCH_PARALLEL")
	}
	if cfg.Output.Dir == "" {
		missing = append(missing, "OUTPUT_DIR")
	}
	if cfg.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if cfg.Postgres.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if cfg.Postgres.Port == 0 {
		missing = append(missing, "POSTGRES_PORT")
	}
	if cfg.Postgres.DBName == "" {
		missing = append(missing, "POSTGRES_DB")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing or invalid configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}
