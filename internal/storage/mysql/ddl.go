package mysql

import (
	"strings"

	"footballetl/internal/ddl"
)

// MapType maps a logical kind into a MySQL column type.
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case ddl.KindInt, "integer", "bigint":
		return "BIGINT"
	case ddl.KindBool, "boolean":
		return "BOOLEAN"
	case ddl.KindDate:
		return "DATE"
	case ddl.KindDateTime, "timestamp":
		return "DATETIME"
	default:
		return "TEXT"
	}
}

// quoteIdent quotes an identifier with backticks, doubling embedded ones.
func quoteIdent(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" }

// Dialect is the MySQL DDL dialect.
var Dialect ddl.Dialect = ddl.Style{
	Name:        "mysql ddl",
	Quote:       quoteIdent,
	MapType:     MapType,
	IfNotExists: true,
}
