package schema

import (
	"fmt"
	"log"
	"strings"

	"footballetl/internal/table"
)

// Conform projects t onto the declared columns of its table. Declared
// columns missing from t are null-filled; columns t carries that the schema
// does not know are dropped and logged. Projection can create duplicate or
// all-null rows, so the result is compacted again.
func Conform(t table.Table) (table.Table, error) {
	def, ok := Lookup(t.Name)
	if !ok {
		return table.Table{}, fmt.Errorf("schema: unknown table %q", t.Name)
	}
	want := def.ColumnNames()

	var extra []string
	for _, c := range t.Columns {
		if !contains(want, c) {
			extra = append(extra, c)
		}
	}
	if len(extra) > 0 {
		log.Printf("schema: table=%s dropping undeclared columns: %s", t.Name, strings.Join(extra, ", "))
	}
	return t.Project(want...).Compact(), nil
}

// ConformAll conforms every table, failing on the first unknown name.
func ConformAll(tables []table.Table) ([]table.Table, error) {
	out := make([]table.Table, 0, len(tables))
	for _, t := range tables {
		c, err := Conform(t)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func contains(xs []string, x string) bool {
	for _, s := range xs {
		if s == x {
			return true
		}
	}
	return false
}
