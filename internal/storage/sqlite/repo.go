// Package sqlite implements a SQLite-backed storage.Repository using
// database/sql. It performs batched INSERTs inside a transaction; SQLite does
// not have a dedicated bulk-load API like Postgres COPY, but transactions keep
// performance acceptable for moderate volumes.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"footballetl/internal/storage"
)

// Config holds SQLite repository configuration derived from storage.Config.
type Config struct {
	// DSN is a SQLite connection string or file path, e.g.:
	//   "file:football.db?cache=shared"
	//   ":memory:"
	DSN string
}

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db *sql.DB
}

// NewRepository opens a SQLite connection using the provided DSN and returns
// a Repository plus a Close function for cleanup.
//
// The pool is limited to one connection: SQLite serializes writers anyway,
// and a ":memory:" database only exists on the connection that created it.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	closeFn := func() { db.Close() }
	return &Repository{db: db}, closeFn, nil
}

// CopyFrom inserts the given rows into table using a single transaction and
// a prepared INSERT statement.
//
// It returns the number of rows successfully inserted or an error. len(row)
// must equal len(columns) for every row.
func (r *Repository) CopyFrom(
	ctx context.Context,
	table string,
	columns []string,
	rows [][]any,
) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	n, err := insertRows(ctx, tx, table, columns, rows)
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: commit: %w", err)
	}
	return n, nil
}

// BeginLoad opens a transaction that spans every batch of one table.
func (r *Repository) BeginLoad(ctx context.Context) (storage.LoadTx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	return &loadTx{tx: tx}, nil
}

type loadTx struct{ tx *sql.Tx }

func (l *loadTx) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	return insertRows(ctx, l.tx, table, columns, rows)
}

func (l *loadTx) Commit(context.Context) error {
	if err := l.tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

func (l *loadTx) Rollback(context.Context) error { return l.tx.Rollback() }

func insertRows(ctx context.Context, tx *sql.Tx, table string, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("sqlite: CopyFrom: columns must not be empty")
	}
	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
		placeholders[i] = "?"
	}
	stmtSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "),
	)

	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		return 0, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	args := make([]any, len(columns))
	for _, row := range rows {
		if len(row) != len(columns) {
			return 0, fmt.Errorf("sqlite: CopyFrom: row length %d != columns length %d", len(row), len(columns))
		}
		for i, v := range row {
			args[i] = toCopyVal(v)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("sqlite: insert into %s: %w", table, err)
		}
		inserted++
	}
	return inserted, nil
}

// Exec executes an arbitrary SQL statement (typically DDL) using the underlying
// database/sql connection.
func (r *Repository) Exec(ctx context.Context, sql string) error {
	if strings.TrimSpace(sql) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, sql); err != nil {
		return fmt.Errorf("sqlite: exec: %w", err)
	}
	return nil
}

// toCopyVal stores timestamps as "YYYY-MM-DD HH:MM:SS" text in UTC.
func toCopyVal(v any) any {
	if t, ok := v.(time.Time); ok {
		return t.UTC().Format("2006-01-02 15:04:05")
	}
	return v
}
