package model

// SchemaColumn is one row of catalog metadata: a single column of a table,
// with the database type name and the schema that owns the table. It is
// produced fresh for every request and never persisted.
type SchemaColumn struct {
	TableName  string `json:"table_name" db:"TableName"`
	ColumnName string `json:"column_name" db:"ColumnName"`
	DataType   string `json:"data_type" db:"DataType"`
	SchemaName string `json:"schema_name" db:"SchemaName"`
}
