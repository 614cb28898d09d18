// Package storage contains storage-agnostic contracts and utilities: the
// Repository interface every backend implements, a factory keyed by backend
// kind, the per-kind DDL dialect registry, the batched loader and the Sink
// that hands normalized tables to a Repository.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"footballetl/internal/ddl"
)

// Repository is the minimal surface a relational backend must provide.
type Repository interface {
	// CopyFrom inserts rows aligned to columns into table and returns the
	// number of rows the backend reports as written.
	CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)

	// Exec runs one SQL statement, typically DDL.
	Exec(ctx context.Context, sql string) error

	Close()
}

// Transactional is implemented by backends that can load every batch of
// one table inside a single transaction. RepoSink uses it when present, so a
// table that fails part way leaves no rows behind.
type Transactional interface {
	BeginLoad(ctx context.Context) (LoadTx, error)
}

// LoadTx is an open load transaction for one table.
type LoadTx interface {
	CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Config selects and configures a backend.
type Config struct {
	Kind string // "mysql", "postgres", "sqlite", "mssql"
	DSN  string
}

// Factory opens a Repository for a registered kind.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
	dialects  = map[string]ddl.Dialect{}
)

// Register registers (or replaces) the factory and DDL dialect for kind.
// Backend packages call it from init.
func Register(kind string, f Factory, d ddl.Dialect) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
	dialects[kind] = d
}

// New opens a Repository for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// DialectFor returns the DDL dialect registered for kind.
func DialectFor(kind string) (ddl.Dialect, error) {
	mu.RLock()
	d, ok := dialects[kind]
	mu.RUnlock()
	if !ok || d == nil {
		return nil, fmt.Errorf("storage: no DDL dialect registered for kind %q", kind)
	}
	return d, nil
}

// ListKinds returns a sorted snapshot of the registered backend kinds.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
