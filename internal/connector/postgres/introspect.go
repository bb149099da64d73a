package postgres

import (
	"context"
	"fmt"

	"github.com/askdb/askdb/internal/model"
)

const columnsQuery = `SELECT
		c.table_name   AS "TableName",
		c.column_name  AS "ColumnName",
		c.data_type    AS "DataType",
		c.table_schema AS "SchemaName"
	FROM information_schema.columns c
	JOIN information_schema.tables t
		ON t.table_schema = c.table_schema AND t.table_name = c.table_name
	WHERE t.table_type = 'BASE TABLE'
		AND c.table_name LIKE $1
		AND c.table_schema = $2
	ORDER BY c.table_name, c.ordinal_position`

// IntrospectColumns returns the columns of every base table in the configured
// schema whose name matches tablePattern.
func (c *PostgresConnector) IntrospectColumns(ctx context.Context, tablePattern string) ([]model.SchemaColumn, error) {
	var rows []model.SchemaColumn
	if err := c.db.SelectContext(ctx, &rows, columnsQuery, tablePattern, c.schemaName); err != nil {
		return nil, fmt.Errorf("postgres introspect columns for %q: %w", tablePattern, err)
	}
	return rows, nil
}
