// Package file implements a local filesystem data source laid out like the
// StatsBomb open-data repository: one competitions.json array and a
// directory tree of per-competition-season match arrays.
package file

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	jsonparser "footballetl/internal/parser/json"
	"footballetl/pkg/records"
)

// Local opens a single file from the local disk.
type Local struct{ path string }

// NewLocal returns a new Local bound to path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Open opens the configured path for reading.
//
// A context that is already done short-circuits before touching the
// filesystem. Filesystem errors are wrapped with the path and still match
// errors.Is(err, os.ErrNotExist).
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	adviseSequential(f)
	return f, nil
}

// Source reads competitions from CompetitionsPath and matches from every
// *.json file below MatchesDir.
type Source struct {
	CompetitionsPath string
	MatchesDir       string
	Verbose          bool
}

// New returns a Source for the given layout.
func New(competitionsPath, matchesDir string) *Source {
	return &Source{CompetitionsPath: competitionsPath, MatchesDir: matchesDir}
}

// Competitions decodes the competitions file.
func (s *Source) Competitions(ctx context.Context) ([]records.Record, error) {
	docs, err := ReadDocuments(ctx, s.CompetitionsPath)
	if err != nil {
		return nil, fmt.Errorf("file source: competitions: %w", err)
	}
	return docs, nil
}

// Matches decodes every match file in lexical path order.
func (s *Source) Matches(ctx context.Context) ([]records.Record, error) {
	paths, err := ListJSON(s.MatchesDir)
	if err != nil {
		return nil, fmt.Errorf("file source: matches: %w", err)
	}
	var out []records.Record
	for _, p := range paths {
		docs, err := ReadDocuments(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("file source: matches: %w", err)
		}
		if s.Verbose {
			log.Printf("file source: %s: %d documents", p, len(docs))
		}
		out = append(out, docs...)
	}
	log.Printf("file source: dir=%s files=%d documents=%d", s.MatchesDir, len(paths), len(out))
	return out, nil
}

// ReadDocuments decodes one file holding a JSON array of documents (or
// NDJSON objects).
func ReadDocuments(ctx context.Context, path string) ([]records.Record, error) {
	rc, err := NewLocal(path).Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	docs, err := jsonparser.DecodeAll(rc, jsonparser.Options{AllowArrays: true})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return docs, nil
}

// ListJSON returns every regular *.json file below dir, in lexical order.
func ListJSON(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && strings.EqualFold(filepath.Ext(p), ".json") {
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
