package mssql

import (
	"context"
	"fmt"

	"github.com/askdb/askdb/internal/model"
)

// columnsQuery reads table/column/type/schema tuples straight from the sys
// catalog views. Types are joined on user_type_id = system_type_id so alias
// types (AdventureWorks' Name, Flag, ...) report their base type once
// instead of fanning out into every type sharing the system type id.
const columnsQuery = `SELECT
		t.[name]  AS TableName,
		c.[name]  AS ColumnName,
		ty.[name] AS DataType,
		sc.[name] AS SchemaName
	FROM sys.tables t
	INNER JOIN sys.columns c ON c.object_id = t.object_id
	INNER JOIN sys.types ty ON ty.user_type_id = c.system_type_id
	INNER JOIN sys.schemas sc ON sc.schema_id = t.schema_id
	WHERE t.[name] LIKE @p1
		AND (@p2 = N'' OR sc.[name] = @p2)
	ORDER BY t.[name], c.column_id`

// IntrospectColumns returns the columns of every table whose name matches
// tablePattern.
func (c *MSSQLConnector) IntrospectColumns(ctx context.Context, tablePattern string) ([]model.SchemaColumn, error) {
	var rows []model.SchemaColumn
	if err := c.db.SelectContext(ctx, &rows, columnsQuery, tablePattern, c.schemaName); err != nil {
		return nil, fmt.Errorf("mssql introspect columns for %q: %w", tablePattern, err)
	}
	return rows, nil
}
