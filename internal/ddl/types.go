package ddl

import "strings"

// Logical column kinds. Dialects map these onto concrete SQL types.
const (
	KindInt      = "int"
	KindText     = "text"
	KindBool     = "bool"
	KindDate     = "date"
	KindDateTime = "datetime"
)

// ColumnDef describes a single column in a table definition produced or
// consumed by ddl. It intentionally uses simple, database-agnostic fields.
//
// Fields:
//   - Name: logical column name (unquoted; quoting/escaping happens at render time)
//   - Kind: logical type (KindInt, KindText, ...); resolved by a dialect
//   - SQLType: explicit SQL type; when set it wins over Kind
//   - Nullable: whether NULL is allowed
//   - PrimaryKey: whether the column is part of the primary key
//   - Default: raw default expression (e.g., 'anon', CURRENT_TIMESTAMP)
type ColumnDef struct {
	Name       string
	Kind       string
	SQLType    string
	Nullable   bool
	PrimaryKey bool
	Default    string
}

// ForeignKeyDef links Columns of the owning table to RefColumns of RefTable.
type ForeignKeyDef struct {
	Columns    []string
	RefTable   string
	RefColumns []string
}

// ConstraintName returns a deterministic constraint name such as
// "fk_Match_home_team_id".
func (fk ForeignKeyDef) ConstraintName(table string) string {
	base := table
	if i := strings.LastIndex(base, "."); i >= 0 {
		base = base[i+1:]
	}
	return "fk_" + base + "_" + strings.Join(fk.Columns, "_")
}

// TableDef holds the fully-qualified table name (FQN), an ordered list of
// columns and the table's foreign keys. The FQN is expected in dotted form
// (e.g., "schema.table") and will be quoted/escaped by renderers as needed.
type TableDef struct {
	FQN         string
	Columns     []ColumnDef
	ForeignKeys []ForeignKeyDef
}

// ColumnNames returns the table's column names in declaration order.
func (t TableDef) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}
