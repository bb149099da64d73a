package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/askdb/askdb/internal/completion"
	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/connector"
	"github.com/askdb/askdb/internal/connector/mssql"
	"github.com/askdb/askdb/internal/connector/mysql"
	"github.com/askdb/askdb/internal/connector/postgres"
	"github.com/askdb/askdb/internal/connector/snowflake"
	"github.com/askdb/askdb/internal/connector/sqlite"
	"github.com/askdb/askdb/internal/observability"
	"github.com/askdb/askdb/internal/query"
	"github.com/askdb/askdb/internal/service"
)

// connectionName is the registry key of the single database askdb queries.
const connectionName = "default"

// newRegistry creates a connector registry with all supported database drivers registered.
func newRegistry() *connector.Registry {
	registry := connector.NewRegistry()
	registry.RegisterDriver("postgres", func() connector.Connector { return postgres.New() })
	registry.RegisterDriver("mysql", func() connector.Connector { return mysql.New() })
	registry.RegisterDriver("mssql", func() connector.Connector { return mssql.New() })
	registry.RegisterDriver("snowflake", func() connector.Connector { return snowflake.New() })
	registry.RegisterDriver("sqlite", func() connector.Connector { return sqlite.New() })
	return registry
}

// loadConfig reads --config (or the default search path) plus ASKDB_*
// overrides into a fresh viper instance.
func loadConfig() (*config.Config, error) {
	return config.Load(viper.New(), cfgFile)
}

// newLogger builds the process logger. Logs go to stderr so stdout stays
// clean for command output and the MCP stdio transport.
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	return observability.NewLogger(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
}

// connectDatabase opens the configured database through the registry.
func connectDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*connector.Registry, connector.Connector, error) {
	registry := newRegistry()
	conn, err := registry.Connect(connectionName, connectionConfig(cfg))
	if err != nil {
		return nil, nil, err
	}
	if err := conn.Ping(ctx); err != nil {
		registry.CloseAll()
		return nil, nil, fmt.Errorf("ping %s database: %w", cfg.Database.Driver, err)
	}
	logger.Info("connected database", "driver", conn.DriverName(), "schema", conn.SchemaName())
	return registry, conn, nil
}

func connectionConfig(cfg *config.Config) connector.ConnectionConfig {
	db := cfg.Database
	return connector.ConnectionConfig{
		Driver:          db.Driver,
		DSN:             db.DSN,
		SchemaName:      db.Schema,
		PrivateKeyPath:  db.PrivateKeyPath,
		MaxOpenConns:    db.Pool.MaxOpenConns,
		MaxIdleConns:    db.Pool.MaxIdleConns,
		ConnMaxLifetime: config.MustDuration(db.Pool.ConnMaxLifetime),
		ConnMaxIdleTime: config.MustDuration(db.Pool.ConnMaxIdleTime),
	}
}

func newCompletionClient(cfg *config.Config) (*completion.OpenAIClient, error) {
	return completion.NewOpenAIClient(completion.Config{
		APIKey:    cfg.OpenAI.APIKey,
		BaseURL:   cfg.OpenAI.BaseURL,
		Model:     cfg.OpenAI.Model,
		MaxTokens: cfg.OpenAI.MaxTokens,
		Timeout:   config.MustDuration(cfg.OpenAI.Timeout),
	})
}

// pipeline is everything a command needs to run requests.
type pipeline struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *connector.Registry
	conn     connector.Connector
	querySvc *service.QueryService
}

func (p *pipeline) Close() {
	p.registry.CloseAll()
}

// openPipeline loads and validates the full configuration, connects the
// database, and builds the query service.
func openPipeline(ctx context.Context) (*pipeline, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	completer, err := newCompletionClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}

	registry, conn, err := connectDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	querySvc := service.NewQueryService(conn, completer, query.NewExecutor(conn.DB()), service.Options{
		Table:            cfg.Query.Table,
		MaxRequestLength: cfg.Query.MaxRequestLength,
	}, logger)

	return &pipeline{cfg: cfg, logger: logger, registry: registry, conn: conn, querySvc: querySvc}, nil
}

// versionString returns a display version string.
func versionString() string {
	if appVersion == "" || appVersion == "dev" {
		return "dev"
	}
	if strings.HasPrefix(appVersion, "v") {
		return appVersion
	}
	return "v" + appVersion
}

// mustDurationOr parses a validated duration, falling back to def for zero.
func mustDurationOr(s string, def time.Duration) time.Duration {
	if d := config.MustDuration(s); d > 0 {
		return d
	}
	return def
}
