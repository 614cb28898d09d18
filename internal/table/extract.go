package table

import (
	"errors"
	"fmt"
	"strings"

	"footballetl/pkg/records"
)

// ErrInvalidRetentionSpec is matched by every *InvalidRetentionSpecError.
var ErrInvalidRetentionSpec = errors.New("invalid retention spec")

// InvalidRetentionSpecError reports retained columns that are not source
// columns of the extraction mapping. It always indicates a programming
// error in the caller.
type InvalidRetentionSpecError struct {
	Table   string
	Missing []string
}

func (e *InvalidRetentionSpecError) Error() string {
	return fmt.Sprintf("extract %q: retained columns not in mapping: %s",
		e.Table, strings.Join(e.Missing, ", "))
}

func (e *InvalidRetentionSpecError) Unwrap() error { return ErrInvalidRetentionSpec }

// Rename maps a source column to its name in the extracted table.
type Rename struct {
	From string
	To   string
}

// Col is shorthand for Rename{From: from, To: to}.
func Col(from, to string) Rename { return Rename{From: from, To: to} }

// Mapping is an ordered list of renames; its order fixes the column order of
// the extracted table.
type Mapping []Rename

// Same returns an identity mapping for cols.
func Same(cols ...string) Mapping {
	m := make(Mapping, len(cols))
	for i, c := range cols {
		m[i] = Rename{From: c, To: c}
	}
	return m
}

// Sources lists the mapping's source columns.
func (m Mapping) Sources() []string {
	out := make([]string, len(m))
	for i, r := range m {
		out[i] = r.From
	}
	return out
}

// Targets lists the mapping's renamed columns.
func (m Mapping) Targets() []string {
	out := make([]string, len(m))
	for i, r := range m {
		out[i] = r.To
	}
	return out
}

func (m Mapping) target(from string) (string, bool) {
	for _, r := range m {
		if r.From == from {
			return r.To, true
		}
	}
	return "", false
}

// Extract peels the mapped columns off rows.
//
// The extracted table holds the mapping's source columns renamed to their
// targets, with all-null rows dropped and duplicate rows removed. The rest
// table is rows without the mapped columns, except those listed in retain,
// which stay in place under their renamed name so later steps can join on
// them. retain must be a subset of the mapping's sources.
//
// rows is never modified.
func Extract(rows Table, name string, mapping Mapping, retain []string) (extracted, rest Table, err error) {
	var missing []string
	for _, c := range retain {
		if _, ok := mapping.target(c); !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return Table{}, Table{}, &InvalidRetentionSpecError{Table: name, Missing: missing}
	}

	extracted = New(name, mapping.Targets(), nil)
	for _, r := range rows.Rows {
		extracted.Rows = append(extracted.Rows, project(r, mapping.Sources(), extracted.Columns))
	}
	extracted = extracted.Compact()

	keep := make(map[string]struct{}, len(retain))
	for _, c := range retain {
		keep[c] = struct{}{}
	}
	var from, to []string
	for _, c := range rows.Columns {
		tgt, mapped := mapping.target(c)
		switch {
		case !mapped:
			from, to = append(from, c), append(to, c)
		case hasKey(keep, c):
			from, to = append(from, c), append(to, tgt)
			delete(keep, c)
		}
	}
	// Retained columns absent from rows still appear, null-filled.
	for _, c := range retain {
		if hasKey(keep, c) {
			tgt, _ := mapping.target(c)
			from, to = append(from, c), append(to, tgt)
			delete(keep, c)
		}
	}

	rest = Table{Name: rows.Name, Columns: to, Rows: make([]records.Record, len(rows.Rows))}
	for i, r := range rows.Rows {
		rest.Rows[i] = project(r, from, to)
	}
	return extracted, rest, nil
}

func hasKey(m map[string]struct{}, k string) bool {
	_, ok := m[k]
	return ok
}
