// Package records defines the loosely-typed record that flows between the
// parser, the normalization engine and the storage layer.
//
// A Record maps a column (or dotted document path) to a value. Values coming
// out of the normalizer are restricted to nil, int64, float64, string, bool,
// time.Time and, for not-yet-expanded document arrays, []any.
package records

import "sort"

// Record is a single row keyed by column name.
type Record map[string]any

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Keys returns the record's keys in lexical order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
