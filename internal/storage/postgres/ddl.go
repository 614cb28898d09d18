package postgres

import (
	"strings"

	"footballetl/internal/ddl"
)

// MapType maps a logical kind into a Postgres column type.
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case ddl.KindInt, "integer", "bigint":
		return "BIGINT"
	case ddl.KindBool, "boolean":
		return "BOOLEAN"
	case ddl.KindDate:
		return "DATE"
	case ddl.KindDateTime, "timestamp":
		return "TIMESTAMP"
	case "timestamptz":
		return "TIMESTAMPTZ"
	default:
		return "TEXT"
	}
}

// Dialect is the Postgres DDL dialect: double-quoted identifiers,
// CREATE TABLE IF NOT EXISTS and ALTER TABLE ... ADD CONSTRAINT.
var Dialect ddl.Dialect = ddl.Style{
	Name:        "postgres ddl",
	Quote:       pgIdent,
	MapType:     MapType,
	IfNotExists: true,
}
