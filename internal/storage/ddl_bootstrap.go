package storage

import (
	"context"
	"fmt"
	"log"
	"strings"

	"footballetl/internal/ddl"
)

// ApplySchema executes statements in order and stops at the first failure.
func ApplySchema(ctx context.Context, repo Repository, statements []string) error {
	for i, stmt := range statements {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if err := repo.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: statement %d/%d: %w\n%s", i+1, len(statements), err, stmt)
		}
	}
	log.Printf("ddl: applied %d statements", len(statements))
	return nil
}

// CreateTables renders the create-table pass for kind and applies it.
func CreateTables(ctx context.Context, kind string, repo Repository, defs []ddl.TableDef) error {
	d, err := DialectFor(kind)
	if err != nil {
		return err
	}
	stmts, err := ddl.CreateScript(d, defs)
	if err != nil {
		return fmt.Errorf("render create tables: %w", err)
	}
	return ApplySchema(ctx, repo, stmts)
}

// CreateForeignKeys renders the foreign-key pass for kind and applies it.
// Dialects that cannot add constraints to existing tables yield no
// statements.
func CreateForeignKeys(ctx context.Context, kind string, repo Repository, defs []ddl.TableDef) error {
	d, err := DialectFor(kind)
	if err != nil {
		return err
	}
	stmts, err := ddl.ForeignKeyScript(d, defs)
	if err != nil {
		return fmt.Errorf("render foreign keys: %w", err)
	}
	if len(stmts) == 0 {
		log.Printf("ddl: storage.kind=%s adds no foreign keys after load", kind)
		return nil
	}
	return ApplySchema(ctx, repo, stmts)
}
