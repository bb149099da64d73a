// Package config loads askdb settings from a YAML file, ASKDB_* environment
// variables, and defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/askdb/askdb/internal/query"
)

const (
	EnvPrefix  = "ASKDB"
	ConfigName = "askdb"
)

// SupportedDrivers are the database.driver values with a connector.
var SupportedDrivers = []string{"mssql", "postgres", "mysql", "sqlite", "snowflake"}

// Config is the complete runtime configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	OpenAI   OpenAIConfig   `yaml:"openai" mapstructure:"openai"`
	Query    QueryConfig    `yaml:"query" mapstructure:"query"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Auth     AuthConfig     `yaml:"auth" mapstructure:"auth"`
	Logging  LoggingConfig  `yaml:"logging" mapstructure:"logging"`
}

// DatabaseConfig selects the database the pipeline runs against.
type DatabaseConfig struct {
	Driver         string     `yaml:"driver" mapstructure:"driver"`
	DSN            string     `yaml:"dsn" mapstructure:"dsn"`
	Schema         string     `yaml:"schema,omitempty" mapstructure:"schema"`
	PrivateKeyPath string     `yaml:"private_key_path,omitempty" mapstructure:"private_key_path"`
	Pool           PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// PoolConfig controls the database connection pool. Zero values keep the
// database/sql defaults.
type PoolConfig struct {
	MaxOpenConns    int    `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime string `yaml:"conn_max_idle_time" mapstructure:"conn_max_idle_time"`
}

// OpenAIConfig points at an OpenAI-compatible completion endpoint.
type OpenAIConfig struct {
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	Timeout   string `yaml:"timeout" mapstructure:"timeout"`
}

// QueryConfig controls what the model is asked about.
type QueryConfig struct {
	Table            string `yaml:"table" mapstructure:"table"`
	MaxRequestLength int    `yaml:"max_request_length" mapstructure:"max_request_length"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host            string   `yaml:"host" mapstructure:"host"`
	Port            int      `yaml:"port" mapstructure:"port"`
	ShutdownTimeout string   `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	CORSOrigins     []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	RateLimit       int      `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// AuthConfig controls bearer-token auth. An empty secret disables it.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" mapstructure:"jwt_secret"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Default returns a Config with every default applied and no secrets.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Driver: "mssql"},
		OpenAI: OpenAIConfig{
			Model:     "gpt-3.5-turbo-instruct",
			MaxTokens: 100,
			Timeout:   "0s",
		},
		Query: QueryConfig{
			Table:            "Person",
			MaxRequestLength: query.DefaultMaxRequestLength,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ShutdownTimeout: "30s",
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// SetDefaults registers every key on v so environment variables bind even
// when no file sets them.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.schema", "")
	v.SetDefault("database.private_key_path", "")
	v.SetDefault("database.pool.max_open_conns", 0)
	v.SetDefault("database.pool.max_idle_conns", 0)
	v.SetDefault("database.pool.conn_max_lifetime", "0s")
	v.SetDefault("database.pool.conn_max_idle_time", "0s")
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.model", d.OpenAI.Model)
	v.SetDefault("openai.max_tokens", d.OpenAI.MaxTokens)
	v.SetDefault("openai.timeout", d.OpenAI.Timeout)
	v.SetDefault("query.table", d.Query.Table)
	v.SetDefault("query.max_request_length", d.Query.MaxRequestLength)
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)
	v.SetDefault("server.rate_limit", 0)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

// Configure prepares v to read askdb.yaml from ./ or $HOME/.askdb, or
// from path when given, with ASKDB_* environment overrides.
func Configure(v *viper.Viper, path string) {
	SetDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.askdb")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// ReadFile loads the config file v was configured with. ${VAR} references
// are expanded first. A missing file is only an error when path was given
// explicitly.
func ReadFile(v *viper.Viper, explicit bool) error {
	path := v.ConfigFileUsed()
	if path == "" {
		// Let viper resolve the search path, then re-read with expansion.
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if errors.As(err, &nf) {
				return nil
			}
			return fmt.Errorf("read config: %w", err)
		}
		path = v.ConfigFileUsed()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if explicit {
				return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
			}
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader([]byte(os.ExpandEnv(string(data))))); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Load reads the file at path (or searches the default locations when path
// is empty), applies environment overrides, and returns the decoded Config.
// It does not validate.
func Load(v *viper.Viper, path string) (*Config, error) {
	Configure(v, path)
	if err := ReadFile(v, path != ""); err != nil {
		return nil, err
	}
	return Decode(v)
}

// Decode unmarshals the current state of v.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Validate checks required keys and value formats. All missing required keys
// are reported together.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Database.DSN) == "" {
		missing = append(missing, "database.dsn")
	}
	if strings.TrimSpace(c.OpenAI.APIKey) == "" {
		missing = append(missing, "openai.api_key")
	}
	if strings.TrimSpace(c.OpenAI.BaseURL) == "" {
		missing = append(missing, "openai.base_url")
	}
	if len(missing) > 0 {
		return &MissingKeysError{Keys: missing}
	}
	return c.validateValues()
}

// ValidateDatabase checks only what is needed to open the database.
func (c *Config) ValidateDatabase() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return &MissingKeysError{Keys: []string{"database.dsn"}}
	}
	return c.validateValues()
}

func (c *Config) validateValues() error {
	if !slices.Contains(SupportedDrivers, c.Database.Driver) {
		return fmt.Errorf("database.driver %q is not supported (use one of %s)",
			c.Database.Driver, strings.Join(SupportedDrivers, ", "))
	}
	if err := query.ValidateTableName(c.Query.Table); err != nil {
		return fmt.Errorf("query.table: %w", err)
	}
	if c.OpenAI.MaxTokens < 0 {
		return fmt.Errorf("openai.max_tokens must not be negative")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	for key, val := range map[string]string{
		"openai.timeout":                   c.OpenAI.Timeout,
		"server.shutdown_timeout":          c.Server.ShutdownTimeout,
		"database.pool.conn_max_lifetime":  c.Database.Pool.ConnMaxLifetime,
		"database.pool.conn_max_idle_time": c.Database.Pool.ConnMaxIdleTime,
	} {
		if _, err := ParseDuration(val); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

// ParseDuration parses a Go duration string. Empty means zero.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("duration %q must not be negative", s)
	}
	return d, nil
}

// MustDuration parses a value already checked by Validate.
func MustDuration(s string) time.Duration {
	d, _ := ParseDuration(s)
	return d
}
