// Package etl runs one end-to-end normalization: fetch match and
// competition documents from the configured source, decompose them into the
// relational tables, and load those tables into the configured backend.
package etl

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"footballetl/internal/config"
	"footballetl/internal/datasource"
	"footballetl/internal/datasource/file"
	"footballetl/internal/datasource/mongods"
	"footballetl/internal/metrics"
	"footballetl/internal/normalize"
	"footballetl/internal/schema"
	"footballetl/internal/storage"
	"footballetl/internal/table"
	"footballetl/pkg/records"
)

// Test seams.
var (
	openSourceFn     = openSource
	openStorageFn    = storage.New
	openSeedTargetFn = openSeedTarget
)

// TableSummary reports one loaded table.
type TableSummary struct {
	Name string
	Rows int
}

// Result summarizes a completed run.
type Result struct {
	RunID        string
	Matches      int
	Competitions int
	Tables       []TableSummary // in creation order
	Elapsed      time.Duration
}

// Run executes the pipeline described by p. It is all-or-nothing up to the
// load step: any fetch or normalization error aborts before the backend is
// written to.
func Run(ctx context.Context, p config.Pipeline, verbose bool) (Result, error) {
	res := Result{RunID: uuid.NewString()}
	start := time.Now()
	logger := log.New(log.Writer(), fmt.Sprintf("run=%s ", res.RunID[:8]), log.Flags())
	logger.Printf("pipeline: job=%s source=%s storage=%s", p.Job, p.Source.Kind, p.Storage.Kind)

	src, closeSrc, err := openSourceFn(ctx, p.Source, verbose)
	if err != nil {
		return res, fmt.Errorf("open source: %w", err)
	}
	defer closeSrc()

	repo, err := openStorageFn(ctx, storage.Config{Kind: p.Storage.Kind, DSN: p.Storage.DB.DSN})
	if err != nil {
		return res, fmt.Errorf("open storage: %w", err)
	}
	defer repo.Close()

	var matches, competitions []records.Record
	err = step(p.Job, "fetch", func() error {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			matches, err = src.Matches(gctx)
			if err != nil {
				return fmt.Errorf("fetch matches: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			var err error
			competitions, err = src.Competitions(gctx)
			if err != nil {
				return fmt.Errorf("fetch competitions: %w", err)
			}
			return nil
		})
		return g.Wait()
	})
	if err != nil {
		return res, err
	}
	res.Matches, res.Competitions = len(matches), len(competitions)
	metrics.RecordDocuments(p.Job, "match", len(matches))
	metrics.RecordDocuments(p.Job, "competition", len(competitions))
	logger.Printf("fetch: matches=%d competitions=%d", len(matches), len(competitions))

	var tables []table.Table
	err = step(p.Job, "normalize", func() error {
		var err error
		tables, err = Normalize(matches, competitions)
		return err
	})
	if err != nil {
		return res, err
	}

	defs := schema.Tables()
	if p.Storage.DB.CreateSchema {
		err = step(p.Job, "create_tables", func() error {
			return storage.CreateTables(ctx, p.Storage.Kind, repo, defs)
		})
		if err != nil {
			return res, err
		}
	}

	sink := &storage.RepoSink{Repo: repo, BatchSize: p.Runtime.BatchSize, Verbose: verbose}
	err = step(p.Job, "load", func() error {
		return storage.LoadAll(ctx, sink, tables, p.Runtime.LoaderWorkers, func(t table.Table) {
			metrics.RecordTableRows(p.Job, t.Name, t.Len())
			if verbose {
				logger.Printf("load: table=%s rows=%d", t.Name, t.Len())
			}
		})
	})
	if err != nil {
		return res, err
	}

	if p.Storage.DB.ForeignKeys {
		err = step(p.Job, "foreign_keys", func() error {
			return storage.CreateForeignKeys(ctx, p.Storage.Kind, repo, defs)
		})
		if err != nil {
			return res, err
		}
	}

	for _, t := range tables {
		res.Tables = append(res.Tables, TableSummary{Name: t.Name, Rows: t.Len()})
		logger.Printf("summary: table=%s rows=%d", t.Name, t.Len())
	}
	res.Elapsed = time.Since(start)
	logger.Printf("completed in %s", res.Elapsed.Truncate(time.Millisecond))
	return res, nil
}

// Normalize decomposes both document sets, links competition countries and
// conforms every table to its declared columns. Tables are returned in
// creation order.
func Normalize(matches, competitions []records.Record) ([]table.Table, error) {
	comps, err := normalize.DecomposeCompetitions(competitions)
	if err != nil {
		return nil, err
	}
	mt, err := normalize.DecomposeMatches(matches)
	if err != nil {
		return nil, err
	}
	comps.Competition, mt.Country, err = normalize.LinkCompetitionCountries(comps.Competition, mt.Country)
	if err != nil {
		return nil, err
	}

	byName := map[string]table.Table{}
	for _, t := range append(comps.All(), mt.All()...) {
		byName[t.Name] = t
	}
	ordered := make([]table.Table, 0, len(byName))
	for _, name := range schema.Names() {
		t, ok := byName[name]
		if !ok {
			t = table.New(name, nil, nil)
		}
		ordered = append(ordered, t)
	}
	return schema.ConformAll(ordered)
}

func step(job, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.RecordStep(job, name, err, time.Since(start))
	return err
}

// openSource builds the configured datasource. The returned function
// releases it.
func openSource(ctx context.Context, s config.Source, verbose bool) (datasource.Source, func(), error) {
	switch s.Kind {
	case "mongo":
		src, closeFn, err := mongods.Open(ctx, mongoConfig(s.Mongo))
		if err != nil {
			return nil, nil, err
		}
		return src, closeFn, nil
	case "file":
		src := file.New(s.File.CompetitionsPath, s.File.MatchesDir)
		src.Verbose = verbose
		return src, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported source.kind=%s", s.Kind)
	}
}

func mongoConfig(m config.SourceMongo) mongods.Config {
	return mongods.Config{
		URI:                    m.URI,
		Database:               m.Database,
		MatchesCollection:      m.MatchesCollection,
		CompetitionsCollection: m.CompetitionsCollection,
		Timeout:                time.Duration(m.TimeoutSeconds) * time.Second,
	}
}

type seedTarget interface {
	Seed(ctx context.Context, matches, competitions []records.Record) error
}

func openSeedTarget(ctx context.Context, m config.SourceMongo) (seedTarget, func(), error) {
	src, closeFn, err := mongods.Open(ctx, mongoConfig(m))
	if err != nil {
		return nil, nil, err
	}
	return src, closeFn, nil
}

// Seed copies the open-data file tree named by s.File into the Mongo
// collections named by s.Mongo, replacing their contents. It returns the
// number of match and competition documents written.
func Seed(ctx context.Context, s config.Source, verbose bool) (matches, competitions int, err error) {
	files := file.New(s.File.CompetitionsPath, s.File.MatchesDir)
	files.Verbose = verbose

	comps, err := files.Competitions(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("seed: %w", err)
	}
	docs, err := files.Matches(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("seed: %w", err)
	}

	dst, closeFn, err := openSeedTargetFn(ctx, s.Mongo)
	if err != nil {
		return 0, 0, fmt.Errorf("seed: open mongo: %w", err)
	}
	defer closeFn()

	if err := dst.Seed(ctx, docs, comps); err != nil {
		return 0, 0, fmt.Errorf("seed: %w", err)
	}
	log.Printf("seed: database=%s matches=%d competitions=%d", s.Mongo.Database, len(docs), len(comps))
	return len(docs), len(comps), nil
}
