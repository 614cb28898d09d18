// Package table implements the in-memory row-set used by the normalization
// engine: an ordered column list plus a slice of records.
//
// Every operation here is value-in/value-out. Methods never mutate the
// receiver's rows; they return a new Table that owns freshly built records,
// so a row-set can be threaded through a sequence of extraction steps without
// any hidden aliasing between steps.
package table

import (
	"sort"

	"footballetl/pkg/records"
)

// Table is a named, uniformly shaped set of rows. A column listed in Columns
// but absent from a row's map is read as nil.
type Table struct {
	Name    string
	Columns []string
	Rows    []records.Record
}

// New returns a Table with copies of columns and rows restricted to columns.
func New(name string, columns []string, rows []records.Record) Table {
	cols := append([]string(nil), columns...)
	out := make([]records.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, project(r, cols, cols))
	}
	return Table{Name: name, Columns: cols, Rows: out}
}

// FromRecords builds a Table whose columns are the sorted union of every
// key seen in rows.
func FromRecords(name string, rows []records.Record) Table {
	seen := map[string]struct{}{}
	var cols []string
	for _, r := range rows {
		for k := range r {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			cols = append(cols, k)
		}
	}
	sort.Strings(cols)
	return New(name, cols, rows)
}

// Len reports the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// Has reports whether col is one of t's columns.
func (t Table) Has(col string) bool {
	return indexOf(t.Columns, col) >= 0
}

// WithName returns t renamed.
func (t Table) WithName(name string) Table {
	t.Name = name
	return t
}

// Values returns the rows as positional slices aligned to t.Columns, the
// shape expected by the storage backends.
func (t Table) Values() [][]any {
	out := make([][]any, len(t.Rows))
	for i, r := range t.Rows {
		row := make([]any, len(t.Columns))
		for j, c := range t.Columns {
			row[j] = r[c]
		}
		out[i] = row
	}
	return out
}

// Project returns a table holding only cols, in that order. Columns unknown
// to t are filled with nil.
func (t Table) Project(cols ...string) Table {
	return New(t.Name, cols, t.Rows)
}

// Drop returns t without the named columns.
func (t Table) Drop(cols ...string) Table {
	drop := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		drop[c] = struct{}{}
	}
	keep := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if _, ok := drop[c]; !ok {
			keep = append(keep, c)
		}
	}
	return t.Project(keep...)
}

// Rename returns t with column from renamed to to, keeping its position.
// Renaming a column that does not exist returns t unchanged.
func (t Table) Rename(from, to string) Table {
	i := indexOf(t.Columns, from)
	if i < 0 || from == to {
		return t
	}
	cols := append([]string(nil), t.Columns...)
	cols[i] = to
	rows := make([]records.Record, len(t.Rows))
	for n, r := range t.Rows {
		rows[n] = project(r, t.Columns, cols)
	}
	return Table{Name: t.Name, Columns: cols, Rows: rows}
}

// Map returns a table with the given columns whose rows are produced by fn.
// fn receives a copy of each row and may modify it freely.
func (t Table) Map(cols []string, fn func(records.Record) (records.Record, error)) (Table, error) {
	rows := make([]records.Record, 0, len(t.Rows))
	for _, r := range t.Rows {
		out, err := fn(r.Clone())
		if err != nil {
			return Table{}, err
		}
		rows = append(rows, out)
	}
	return New(t.Name, cols, rows), nil
}

// Concat appends the rows of every table into one table named name. The
// column list is the union of the inputs' columns in first-seen order.
// Rows are concatenated as-is; no de-duplication happens here.
func Concat(name string, tables ...Table) Table {
	var cols []string
	var rows []records.Record
	for _, t := range tables {
		for _, c := range t.Columns {
			if indexOf(cols, c) < 0 {
				cols = append(cols, c)
			}
		}
		rows = append(rows, t.Rows...)
	}
	return New(name, cols, rows)
}

// SortBy returns t with rows stably ordered by less.
func (t Table) SortBy(less func(a, b records.Record) bool) Table {
	rows := append([]records.Record(nil), t.Rows...)
	sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
	return Table{Name: t.Name, Columns: t.Columns, Rows: rows}
}

// DropEmpty removes rows whose every column is nil.
func (t Table) DropEmpty() Table {
	rows := make([]records.Record, 0, len(t.Rows))
	for _, r := range t.Rows {
		if !isEmpty(r, t.Columns) {
			rows = append(rows, r)
		}
	}
	return Table{Name: t.Name, Columns: t.Columns, Rows: rows}
}

// Compact drops all-null rows and then removes duplicate rows. Every table
// handed to a sink goes through Compact.
func (t Table) Compact() Table {
	return t.DropEmpty().Dedup()
}

func isEmpty(r records.Record, cols []string) bool {
	for _, c := range cols {
		if r[c] != nil {
			return false
		}
	}
	return true
}

// project copies the values of from[i] into a new record under to[i].
func project(r records.Record, from, to []string) records.Record {
	out := make(records.Record, len(to))
	for i, c := range from {
		out[to[i]] = r[c]
	}
	return out
}

func indexOf(cols []string, col string) int {
	for i, c := range cols {
		if c == col {
			return i
		}
	}
	return -1
}
