// Package ddl defines a small, backend-agnostic model for SQL DDL and helpers
// to render CREATE TABLE and foreign-key statements from that model.
//
// The package stays generic: identifier quoting, type mapping and the
// "create only if missing" guard are supplied by a Style. Backend packages
// (internal/storage/<kind>) build their Dialect from a Style, or wrap one
// when the dialect needs something a Style cannot express (e.g. T-SQL's
// IF OBJECT_ID guard, SQLite's lack of ALTER TABLE ... ADD CONSTRAINT).
package ddl

import (
	"fmt"
	"strings"
)

// Dialect renders the two DDL passes of a schema: table creation, then
// foreign-key creation once data is loaded.
type Dialect interface {
	// CreateTable returns a statement creating t if it does not exist.
	CreateTable(t TableDef) (string, error)

	// AddForeignKey returns a statement adding fk to t, or "" when the
	// dialect cannot add constraints to an existing table.
	AddForeignKey(t TableDef, fk ForeignKeyDef) (string, error)
}

// Style is a table-driven Dialect covering the common case.
type Style struct {
	// Name prefixes error messages, e.g. "postgres ddl".
	Name string

	// Quote quotes one identifier segment. Nil leaves identifiers verbatim.
	Quote func(string) string

	// MapType maps a logical kind to a SQL type. Nil requires SQLType on
	// every column.
	MapType func(kind string) string

	// IfNotExists emits CREATE TABLE IF NOT EXISTS.
	IfNotExists bool
}

// BuildCreateTableSQL renders a generic CREATE TABLE statement from a TableDef
// with identifiers emitted verbatim and SQLType required on every column.
func BuildCreateTableSQL(t TableDef) (string, error) {
	return Style{Name: "ddl"}.CreateTable(t)
}

// CreateTable renders:
//
//	CREATE TABLE [IF NOT EXISTS] <FQN> (
//	  <col> <TYPE> [NOT NULL] [DEFAULT expr],
//	  ...,
//	  PRIMARY KEY (<pk-cols>)
//	);
func (s Style) CreateTable(t TableDef) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("%s: table FQN must not be empty", s.name())
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("%s: at least one column is required", s.name())
	}

	cols := make([]string, 0, len(t.Columns)+1)
	pks := make([]string, 0, len(t.Columns))

	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("%s: column with empty name in table %s", s.name(), fqn)
		}
		typ := s.sqlType(c)
		if typ == "" {
			return "", fmt.Errorf("%s: column %s missing SQLType", s.name(), name)
		}

		var sb strings.Builder
		sb.WriteString(s.ident(name))
		sb.WriteByte(' ')
		sb.WriteString(typ)
		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		if def := strings.TrimSpace(c.Default); def != "" {
			sb.WriteString(" DEFAULT ")
			sb.WriteString(def)
		}
		cols = append(cols, sb.String())

		if c.PrimaryKey {
			pks = append(pks, s.ident(name))
		}
	}

	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	create := "CREATE TABLE "
	if s.IfNotExists {
		create += "IF NOT EXISTS "
	}
	return fmt.Sprintf("%s%s (\n  %s\n);", create, s.FQN(fqn), strings.Join(cols, ",\n  ")), nil
}

// AddForeignKey renders:
//
//	ALTER TABLE <FQN> ADD CONSTRAINT <name> FOREIGN KEY (<cols>) REFERENCES <ref> (<ref-cols>);
func (s Style) AddForeignKey(t TableDef, fk ForeignKeyDef) (string, error) {
	if len(fk.Columns) == 0 || len(fk.Columns) != len(fk.RefColumns) {
		return "", fmt.Errorf("%s: foreign key on %s: column count mismatch (%d vs %d)",
			s.name(), t.FQN, len(fk.Columns), len(fk.RefColumns))
	}
	if strings.TrimSpace(fk.RefTable) == "" {
		return "", fmt.Errorf("%s: foreign key on %s: empty referenced table", s.name(), t.FQN)
	}
	return fmt.Sprintf(
		"ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s);",
		s.FQN(t.FQN),
		s.ident(fk.ConstraintName(t.FQN)),
		strings.Join(s.idents(fk.Columns), ", "),
		s.FQN(fk.RefTable),
		strings.Join(s.idents(fk.RefColumns), ", "),
	), nil
}

// FQN quotes each dot-separated segment of name, skipping empty segments.
func (s Style) FQN(name string) string {
	parts := strings.Split(name, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, s.ident(p))
	}
	return strings.Join(out, ".")
}

func (s Style) ident(id string) string {
	if s.Quote == nil {
		return id
	}
	return s.Quote(id)
}

func (s Style) idents(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = s.ident(id)
	}
	return out
}

func (s Style) sqlType(c ColumnDef) string {
	if typ := strings.TrimSpace(c.SQLType); typ != "" {
		return typ
	}
	if s.MapType == nil || strings.TrimSpace(c.Kind) == "" {
		return ""
	}
	return s.MapType(c.Kind)
}

func (s Style) name() string {
	if s.Name == "" {
		return "ddl"
	}
	return s.Name
}

// CreateScript renders CreateTable for every definition, in order.
func CreateScript(d Dialect, defs []TableDef) ([]string, error) {
	out := make([]string, 0, len(defs))
	for _, t := range defs {
		stmt, err := d.CreateTable(t)
		if err != nil {
			return nil, err
		}
		out = append(out, stmt)
	}
	return out, nil
}

// ForeignKeyScript renders AddForeignKey for every foreign key of every
// definition. Statements the dialect cannot express are omitted.
func ForeignKeyScript(d Dialect, defs []TableDef) ([]string, error) {
	var out []string
	for _, t := range defs {
		for _, fk := range t.ForeignKeys {
			stmt, err := d.AddForeignKey(t, fk)
			if err != nil {
				return nil, err
			}
			if stmt != "" {
				out = append(out, stmt)
			}
		}
	}
	return out, nil
}
