package sqlite

import (
	"context"
	"fmt"

	"github.com/askdb/askdb/internal/model"
)

// SQLite has no information_schema; pragma_table_info is joined against
// sqlite_master as a table-valued function instead.
const columnsQuery = `SELECT
		m.name AS TableName,
		p.name AS ColumnName,
		p.type AS DataType,
		'main' AS SchemaName
	FROM sqlite_master m
	JOIN pragma_table_info(m.name) p
	WHERE m.type = 'table'
		AND m.name NOT LIKE 'sqlite_%'
		AND m.name LIKE ?
	ORDER BY m.name, p.cid`

// IntrospectColumns returns the columns of every table whose name matches
// tablePattern. SQLite's LIKE is case-insensitive for ASCII.
func (c *SQLiteConnector) IntrospectColumns(ctx context.Context, tablePattern string) ([]model.SchemaColumn, error) {
	var rows []model.SchemaColumn
	if err := c.db.SelectContext(ctx, &rows, columnsQuery, tablePattern); err != nil {
		return nil, fmt.Errorf("sqlite introspect columns for %q: %w", tablePattern, err)
	}
	return rows, nil
}
