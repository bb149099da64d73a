package openapi

import "strings"

// TypeMapping is an OpenAPI type/format pair.
type TypeMapping struct {
	Type   string
	Format string
}

// catalogTypes maps catalog data type names to OpenAPI types. Lookups are
// case-insensitive.
var catalogTypes = map[string]TypeMapping{
	"int":      {"integer", "int32"},
	"integer":  {"integer", "int32"},
	"smallint": {"integer", "int32"},
	"tinyint":  {"integer", "int32"},
	"bigint":   {"integer", "int64"},
	"int4":     {"integer", "int32"},
	"int8":     {"integer", "int64"},

	"float":   {"number", "double"},
	"real":    {"number", "float"},
	"decimal": {"number", "double"},
	"numeric": {"number", "double"},
	"money":   {"number", "double"},
	"number":  {"number", "double"},

	"bit":     {"boolean", ""},
	"bool":    {"boolean", ""},
	"boolean": {"boolean", ""},

	"date":           {"string", "date"},
	"time":           {"string", "time"},
	"datetime":       {"string", "date-time"},
	"datetime2":      {"string", "date-time"},
	"datetimeoffset": {"string", "date-time"},
	"smalldatetime":  {"string", "date-time"},
	"timestamp":      {"string", "date-time"},
	"timestamptz":    {"string", "date-time"},
	"timestamp_ntz":  {"string", "date-time"},
	"timestamp_ltz":  {"string", "date-time"},
	"timestamp_tz":   {"string", "date-time"},

	"uniqueidentifier": {"string", "uuid"},
	"uuid":             {"string", "uuid"},

	"binary":    {"string", "byte"},
	"varbinary": {"string", "byte"},
	"bytea":     {"string", "byte"},
	"blob":      {"string", "byte"},

	"xml": {"string", "xml"},
}

// MapDBType converts a catalog data type to an OpenAPI type. Unknown types,
// including every character type, map to a plain string.
func MapDBType(dbType string) TypeMapping {
	normalized := strings.ToLower(strings.TrimSpace(dbType))

	// "nvarchar(50)" -> "nvarchar", "int unsigned" -> "int"
	if idx := strings.IndexByte(normalized, '('); idx >= 0 {
		normalized = normalized[:idx]
	}
	normalized = strings.TrimSpace(strings.TrimSuffix(normalized, " unsigned"))

	if m, ok := catalogTypes[normalized]; ok {
		return m
	}
	return TypeMapping{"string", ""}
}
