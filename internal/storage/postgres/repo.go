// Package postgres implements a Postgres repository using pgx v5. Tables are
// loaded with the COPY protocol through a connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"footballetl/internal/storage"
)

// Config holds Postgres repository configuration.
type Config struct {
	DSN string // connection string for pgxpool
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres: ping: %w", err)
	}
	close := func() { pool.Close() }
	return &Repository{pool: pool}, close, nil
}

// CopyFrom streams rows into table with COPY. The table name is split on
// dots and each part is quoted by pgx, matching the quoted DDL.
func (r *Repository) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	n, err := r.pool.CopyFrom(ctx, splitFQN(table), columns, pgx.CopyFromRows(rows))
	if err != nil {
		return n, describe("copy into "+table, err)
	}
	return n, nil
}

// BeginLoad opens a transaction whose COPY batches commit together.
func (r *Repository) BeginLoad(ctx context.Context) (storage.LoadTx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, describe("begin", err)
	}
	return &loadTx{tx: tx}, nil
}

type loadTx struct{ tx pgx.Tx }

func (l *loadTx) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	n, err := l.tx.CopyFrom(ctx, splitFQN(table), columns, pgx.CopyFromRows(rows))
	if err != nil {
		return n, describe("copy into "+table, err)
	}
	return n, nil
}

func (l *loadTx) Commit(ctx context.Context) error {
	if err := l.tx.Commit(ctx); err != nil {
		return describe("commit", err)
	}
	return nil
}

func (l *loadTx) Rollback(ctx context.Context) error { return l.tx.Rollback(ctx) }

// Exec implements storage.Repository.Exec for Postgres.
func (r *Repository) Exec(ctx context.Context, sql string) error {
	if _, err := r.pool.Exec(ctx, sql); err != nil {
		return describe("exec", err)
	}
	return nil
}

// describe surfaces the server's detail line, which names the offending key
// for constraint violations.
func describe(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Detail != "" {
		return fmt.Errorf("postgres: %s: %w (%s)", op, err, pgErr.Detail)
	}
	return fmt.Errorf("postgres: %s: %w", op, err)
}

// splitFQN converts "schema.table" into a pgx.Identifier {"schema","table"}.
// If no dot is present, returns {"table"}.
func splitFQN(fqn string) pgx.Identifier {
	parts := strings.Split(fqn, ".")
	id := make(pgx.Identifier, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			id = append(id, p)
		}
	}
	return id
}

// pgIdent safely quotes a single identifier segment for Postgres.
func pgIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }
