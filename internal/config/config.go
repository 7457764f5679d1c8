// Package config loads application configuration from a .env file and the environment.
package config

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Log formats understood by the logger.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

const envDev = "dev"

// Config holds application configuration sourced from environment variables.
type Config struct {
	AppEnv    string `envconfig:"APP_ENV" default:"dev"`
	Host      string `envconfig:"HOST" default:"0.0.0.0"`
	Port      int    `envconfig:"PORT" default:"8080"`
	DBPath    string `envconfig:"DB_PATH" default:"./gearrange.db"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"INFO"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	// PresetsFile is an optional YAML catalog seeded next to the built-in presets.
	PresetsFile string `envconfig:"PRESETS_FILE"`

	// CORSAllowedOrigins is a comma-separated list; empty allows any origin.
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS"`
}

// Load reads envPath (".env" when empty, skipped when missing) and then the
// process environment into a Config.
func Load(envPath string) (Config, error) {
	if err := loadDotEnv(envPath); err != nil {
		return Config{}, fmt.Errorf("load dotenv: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	switch strings.ToLower(c.LogFormat) {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("LOG_FORMAT must be %q or %q, got %q", LogFormatText, LogFormatJSON, c.LogFormat)
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("DB_PATH must not be empty")
	}
	return nil
}

// IsDev reports whether the app runs in the development environment.
func (c Config) IsDev() bool {
	return strings.EqualFold(c.AppEnv, envDev)
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// AllowedOrigins splits CORSAllowedOrigins, defaulting to any origin.
func (c Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// LogAttrs returns the settings worth logging at startup.
func (c Config) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("env", c.AppEnv),
		slog.String("addr", c.Addr()),
		slog.String("db_path", c.DBPath),
		slog.String("log_level", c.LogLevel),
		slog.String("presets_file", c.PresetsFile),
	}
}
