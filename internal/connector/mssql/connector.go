package mssql

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/microsoft/go-mssqldb"

	"github.com/askdb/askdb/internal/connector"
)

// MSSQLConnector implements connector.Connector for SQL Server databases.
type MSSQLConnector struct {
	db         *sqlx.DB
	schemaName string
}

// New creates a new MSSQLConnector. With no schema configured, catalog
// lookups span every schema in the database (AdventureWorks keeps its
// tables in Person, Sales, HumanResources and so on, not dbo).
func New() connector.Connector {
	return &MSSQLConnector{}
}

// NewWithDB wraps an already-open handle. It is used by tests.
func NewWithDB(db *sqlx.DB, schemaName string) *MSSQLConnector {
	return &MSSQLConnector{db: db, schemaName: schemaName}
}

// Connect establishes a connection to the SQL Server database using the
// provided configuration and applies the pool settings.
func (c *MSSQLConnector) Connect(cfg connector.ConnectionConfig) error {
	db, err := sqlx.Connect("sqlserver", cfg.DSN)
	if err != nil {
		return fmt.Errorf("mssql connect: %w", err)
	}
	connector.Configure(db, cfg)

	if cfg.SchemaName != "" {
		c.schemaName = cfg.SchemaName
	}

	c.db = db
	return nil
}

// Disconnect closes the database connection pool.
func (c *MSSQLConnector) Disconnect() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Ping verifies the database connection is alive.
func (c *MSSQLConnector) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// DB returns the underlying sqlx.DB connection pool.
func (c *MSSQLConnector) DB() *sqlx.DB {
	return c.db
}

// DriverName returns the driver identifier for SQL Server.
func (c *MSSQLConnector) DriverName() string { return "mssql" }

// SchemaName returns the schema catalog lookups are restricted to, or ""
// when they span all schemas.
func (c *MSSQLConnector) SchemaName() string { return c.schemaName }
