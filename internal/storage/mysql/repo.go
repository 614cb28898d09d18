// Package mysql provides a MySQL-backed storage.Repository implementation.
// MySQL has no COPY equivalent reachable from database/sql, so rows are
// written as multi-row INSERT statements inside one transaction.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"footballetl/internal/storage"
)

// maxPlaceholders is the server's limit on bound parameters per statement.
const maxPlaceholders = 65535

// Config holds MySQL repository configuration.
type Config struct {
	DSN string // go-sql-driver DSN, e.g. "user:pass@tcp(host:3306)/football"
}

// Repository is a MySQL-backed implementation of storage.Repository.
type Repository struct {
	db *sql.DB
}

// NewRepository parses the DSN, forces UTC time handling and returns a
// Repository plus a Close function.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	mc, err := mysql.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql dsn: %w", err)
	}
	mc.ParseTime = true
	mc.Loc = time.UTC

	conn, err := mysql.NewConnector(mc)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql connector: %w", err)
	}
	db := sql.OpenDB(conn)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("mysql: ping: %w", err)
	}
	close := func() { _ = db.Close() }
	return &Repository{db: db}, close, nil
}

// CopyFrom inserts rows into table with multi-row INSERTs, splitting rows so
// that no statement exceeds the placeholder limit. All chunks share one
// transaction.
func (r *Repository) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("mysql: begin tx: %w", err)
	}
	n, err := insertRows(ctx, tx, table, columns, rows)
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("mysql: commit: %w", err)
	}
	return n, nil
}

// BeginLoad opens a transaction that spans every batch of one table.
func (r *Repository) BeginLoad(ctx context.Context) (storage.LoadTx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("mysql: begin tx: %w", err)
	}
	return &loadTx{tx: tx}, nil
}

type loadTx struct{ tx *sql.Tx }

func (l *loadTx) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	return insertRows(ctx, l.tx, table, columns, rows)
}

func (l *loadTx) Commit(context.Context) error {
	if err := l.tx.Commit(); err != nil {
		return fmt.Errorf("mysql: commit: %w", err)
	}
	return nil
}

func (l *loadTx) Rollback(context.Context) error { return l.tx.Rollback() }

func insertRows(ctx context.Context, tx *sql.Tx, table string, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("mysql: CopyFrom: columns must not be empty")
	}
	var inserted int64
	for _, chunk := range chunkRows(rows, rowsPerStatement(len(columns))) {
		query, args, err := insertStatement(table, columns, chunk)
		if err != nil {
			return 0, err
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("mysql: insert into %s: %w", table, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("mysql: rows affected: %w", err)
		}
		inserted += n
	}
	return inserted, nil
}

// Exec executes a SQL statement against the pool.
func (r *Repository) Exec(ctx context.Context, sqlText string) error {
	if _, err := r.db.ExecContext(ctx, sqlText); err != nil {
		return fmt.Errorf("mysql: exec: %w", err)
	}
	return nil
}

func rowsPerStatement(ncols int) int {
	n := maxPlaceholders / ncols
	if n < 1 {
		return 1
	}
	return n
}

func chunkRows(rows [][]any, size int) [][][]any {
	var out [][][]any
	for len(rows) > size {
		out = append(out, rows[:size])
		rows = rows[size:]
	}
	if len(rows) > 0 {
		out = append(out, rows)
	}
	return out
}

// insertStatement renders
//
//	INSERT INTO `t` (`a`, `b`) VALUES (?, ?), (?, ?)
//
// and the flattened argument list.
func insertStatement(table string, columns []string, rows [][]any) (string, []any, error) {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
	}
	tuple := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"

	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", fqn(table), strings.Join(quoted, ", "))
	args := make([]any, 0, len(rows)*len(columns))
	for i, row := range rows {
		if len(row) != len(columns) {
			return "", nil, fmt.Errorf("mysql: CopyFrom: row length %d != columns length %d", len(row), len(columns))
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(tuple)
		args = append(args, row...)
	}
	return sb.String(), args, nil
}

func fqn(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = quoteIdent(p)
	}
	return strings.Join(parts, ".")
}
