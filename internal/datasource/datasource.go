// Package datasource defines where raw match and competition documents come
// from. Implementations return complete in-memory document sets; the
// normalizer never sees a partial fetch.
package datasource

import (
	"context"

	"footballetl/pkg/records"
)

// Source yields the two document sets a run normalizes.
type Source interface {
	// Matches returns every match document.
	Matches(ctx context.Context) ([]records.Record, error)

	// Competitions returns every competition-season document.
	Competitions(ctx context.Context) ([]records.Record, error)
}
