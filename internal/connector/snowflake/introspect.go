package snowflake

import (
	"context"
	"fmt"

	"github.com/askdb/askdb/internal/model"
)

// Aliases are quoted because Snowflake upper-cases unquoted identifiers. For
// the same reason the table name is matched with ILIKE, so the pattern
// "Person" finds the stored PERSON.
const columnsQuery = `SELECT
		c.TABLE_NAME   AS "TableName",
		c.COLUMN_NAME  AS "ColumnName",
		c.DATA_TYPE    AS "DataType",
		c.TABLE_SCHEMA AS "SchemaName"
	FROM INFORMATION_SCHEMA.COLUMNS c
	JOIN INFORMATION_SCHEMA.TABLES t
		ON t.TABLE_SCHEMA = c.TABLE_SCHEMA AND t.TABLE_NAME = c.TABLE_NAME
	WHERE t.TABLE_TYPE = 'BASE TABLE'
		AND c.TABLE_SCHEMA = ?
		AND c.TABLE_NAME ILIKE ?
	ORDER BY c.TABLE_NAME, c.ORDINAL_POSITION`

// IntrospectColumns returns the columns of every base table in the configured
// schema whose name matches tablePattern.
func (c *SnowflakeConnector) IntrospectColumns(ctx context.Context, tablePattern string) ([]model.SchemaColumn, error) {
	var rows []model.SchemaColumn
	if err := c.db.SelectContext(ctx, &rows, columnsQuery, c.schemaName, tablePattern); err != nil {
		return nil, fmt.Errorf("snowflake introspect columns for %q: %w", tablePattern, err)
	}
	return rows, nil
}
