package storage

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"footballetl/internal/table"
)

// ErrShortWrite is returned when a backend confirms fewer rows than it was
// handed. The table is then not considered loaded.
var ErrShortWrite = errors.New("short write")

// Sink accepts one complete, de-duplicated table per call.
type Sink interface {
	Load(ctx context.Context, t table.Table) error
}

// RepoSink loads tables into a Repository in batches.
type RepoSink struct {
	Repo      Repository
	BatchSize int
	Verbose   bool
}

var _ Sink = (*RepoSink)(nil)

// Load writes every row of t and verifies the backend confirmed all of them.
// On a Transactional backend all batches share one transaction, committed
// only when the whole table is confirmed.
func (s *RepoSink) Load(ctx context.Context, t table.Table) (err error) {
	if t.Len() == 0 {
		return nil
	}

	copyFn := s.Repo.CopyFrom
	if tr, ok := s.Repo.(Transactional); ok {
		tx, berr := tr.BeginLoad(ctx)
		if berr != nil {
			return fmt.Errorf("load %s: begin: %w", t.Name, berr)
		}
		defer func() {
			if err != nil {
				// The load context may already be canceled by a failing sibling.
				_ = tx.Rollback(context.WithoutCancel(ctx))
				return
			}
			if cerr := tx.Commit(ctx); cerr != nil {
				err = fmt.Errorf("load %s: commit: %w", t.Name, cerr)
			}
		}()
		copyFn = tx.CopyFrom
	}

	n, err := LoadBatches(ctx, t.Name, t.Columns, t.Values(), s.BatchSize, s.Verbose,
		func(ctx context.Context, columns []string, rows [][]any) (int64, error) {
			return copyFn(ctx, t.Name, columns, rows)
		})
	if err != nil {
		return fmt.Errorf("load %s: %w", t.Name, err)
	}
	if n != int64(t.Len()) {
		return fmt.Errorf("load %s: backend confirmed %d of %d rows: %w", t.Name, n, t.Len(), ErrShortWrite)
	}
	return nil
}

// LoadAll loads tables through sink with at most workers loads in flight.
// The first failure cancels the remaining loads. done, when non-nil, is
// called after each successful load; it may be called concurrently.
func LoadAll(ctx context.Context, sink Sink, tables []table.Table, workers int, done func(table.Table)) error {
	if workers <= 0 {
		workers = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, t := range tables {
		t := t
		g.Go(func() error {
			if err := sink.Load(ctx, t); err != nil {
				return err
			}
			if done != nil {
				done(t)
			}
			return nil
		})
	}
	return g.Wait()
}
