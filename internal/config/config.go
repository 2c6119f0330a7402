package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

// Dataset sources.
const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Config holds the full application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Dataset  DatasetConfig  `yaml:"dataset" mapstructure:"dataset"`
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	Client   ClientConfig   `yaml:"client" mapstructure:"client"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
	// Env is "production" or anything else; outside production error details are exposed.
	Env string `yaml:"env" mapstructure:"env"`
}

// IsProduction reports whether the server runs in production mode.
func (s ServerConfig) IsProduction() bool {
	return strings.EqualFold(s.Env, "production")
}

// DatasetConfig selects where the raw financials come from.
type DatasetConfig struct {
	Source string `yaml:"source" mapstructure:"source"`
	Path   string `yaml:"path" mapstructure:"path"`
}

// DatabaseConfig configures the optional Postgres backend.
type DatabaseConfig struct {
	URL string `yaml:"url" mapstructure:"url"`
}

// ClientConfig configures finctl's API client.
type ClientConfig struct {
	BaseURL        string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutMs      int    `yaml:"timeout_ms" mapstructure:"timeout_ms"`
	MaxAttempts    int    `yaml:"max_attempts" mapstructure:"max_attempts"`
	RetryDelayMs   int    `yaml:"retry_delay_ms" mapstructure:"retry_delay_ms"`
	MinLoadDelayMs int    `yaml:"min_load_delay_ms" mapstructure:"min_load_delay_ms"`
}

// Timeout returns the per-request timeout.
func (c ClientConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// RetryDelay returns the base retry delay.
func (c ClientConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMs) * time.Millisecond
}

// MinLoadDelay returns the minimum option-loading duration.
func (c ClientConfig) MinLoadDelay() time.Duration {
	return time.Duration(c.MinLoadDelayMs) * time.Millisecond
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from (in increasing priority) defaults, config.yaml,
// a .env file and FINMETRICS_* environment variables. PORT, DATABASE_URL and
// API_BASE_URL are honoured as well.
func Load() (*Config, error) {
	// Load .env file if it exists (local dev)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("FINMETRICS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.env", "development")
	v.SetDefault("dataset.source", SourceEmbedded)
	v.SetDefault("dataset.path", "")
	v.SetDefault("database.url", "")
	v.SetDefault("client.base_url", "")
	v.SetDefault("client.timeout_ms", 10000)
	v.SetDefault("client.max_attempts", 3)
	v.SetDefault("client.retry_delay_ms", 1000)
	v.SetDefault("client.min_load_delay_ms", 300)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Unprefixed variables used by hosting platforms.
	_ = v.BindEnv("server.port", "FINMETRICS_SERVER_PORT", "PORT")
	_ = v.BindEnv("database.url", "FINMETRICS_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("client.base_url", "FINMETRICS_CLIENT_BASE_URL", "API_BASE_URL")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.Dataset.Source {
	case SourceEmbedded:
	case SourceFile:
		if c.Dataset.Path == "" {
			return eris.New("config: dataset.path is required for the file source")
		}
	case SourcePostgres:
		if c.Database.URL == "" {
			return eris.New("config: database.url is required for the postgres source")
		}
	default:
		return eris.Errorf("config: unknown dataset.source %q", c.Dataset.Source)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return eris.Errorf("config: invalid server.port %d", c.Server.Port)
	}
	return nil
}

// APIBaseURL returns the base URL the client should call. Empty configuration
// means the local server.
func (c *Config) APIBaseURL() string {
	if c.Client.BaseURL != "" {
		return c.Client.BaseURL
	}
	return fmt.Sprintf("http://localhost:%d", c.Server.Port)
}
