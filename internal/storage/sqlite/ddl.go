package sqlite

import (
	"strings"

	"footballetl/internal/ddl"
)

// MapType maps a logical kind into a SQLite column type.
//
// SQLite supports dynamic typing, so this mapping prefers canonical affinities:
//   - integer-ish types -> INTEGER
//   - boolean          -> INTEGER (0/1)
//   - date/time        -> TEXT (ISO-8601)
//   - others           -> TEXT
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case ddl.KindInt, "integer", "bigint":
		return "INTEGER"
	case ddl.KindBool, "boolean":
		return "INTEGER"
	case "float", "double", "real":
		return "REAL"
	case ddl.KindDate, ddl.KindDateTime, "timestamp":
		return "TEXT"
	default:
		return "TEXT"
	}
}

func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// dialect renders SQLite DDL. SQLite cannot add a constraint to an existing
// table, so the foreign-key pass renders nothing.
type dialect struct{ ddl.Style }

// Dialect is the SQLite DDL dialect.
var Dialect ddl.Dialect = dialect{ddl.Style{
	Name:        "sqlite ddl",
	Quote:       quoteIdent,
	MapType:     MapType,
	IfNotExists: true,
}}

func (dialect) AddForeignKey(ddl.TableDef, ddl.ForeignKeyDef) (string, error) { return "", nil }
