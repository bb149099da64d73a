package mysql

import (
	"context"
	"fmt"

	"github.com/askdb/askdb/internal/model"
)

// In MySQL a schema is a database, so an empty schema name falls back to
// DATABASE().
const columnsQuery = `SELECT
		c.TABLE_NAME   AS TableName,
		c.COLUMN_NAME  AS ColumnName,
		c.DATA_TYPE    AS DataType,
		c.TABLE_SCHEMA AS SchemaName
	FROM information_schema.COLUMNS c
	JOIN information_schema.TABLES t
		ON t.TABLE_SCHEMA = c.TABLE_SCHEMA AND t.TABLE_NAME = c.TABLE_NAME
	WHERE t.TABLE_TYPE = 'BASE TABLE'
		AND c.TABLE_NAME LIKE ?
		AND c.TABLE_SCHEMA = COALESCE(NULLIF(?, ''), DATABASE())
	ORDER BY c.TABLE_NAME, c.ORDINAL_POSITION`

// IntrospectColumns returns the columns of every base table whose name
// matches tablePattern.
func (c *MySQLConnector) IntrospectColumns(ctx context.Context, tablePattern string) ([]model.SchemaColumn, error) {
	var rows []model.SchemaColumn
	if err := c.db.SelectContext(ctx, &rows, columnsQuery, tablePattern, c.schemaName); err != nil {
		return nil, fmt.Errorf("mysql introspect columns for %q: %w", tablePattern, err)
	}
	return rows, nil
}
