package config

import (
	"strings"
	"testing"
)

// hasIssue reports whether issues contains an Issue with the given severity,
// path, and a Message containing msgSubstr.
func hasIssue(t *testing.T, issues []Issue, sev IssueSeverity, path, msgSubstr string) bool {
	t.Helper()
	for _, iss := range issues {
		if iss.Severity == sev && iss.Path == path && strings.Contains(iss.Message, msgSubstr) {
			return true
		}
	}
	return false
}

func validPipeline() Pipeline {
	return Pipeline{
		Job: "statsbomb",
		Source: Source{Kind: "mongo", Mongo: SourceMongo{
			URI:      "mongodb://localhost:27017",
			Database: "statsbomb",
		}},
		Storage: Storage{Kind: "postgres", DB: DBConfig{
			DSN:          "postgres://etl@localhost/football",
			CreateSchema: true,
			ForeignKeys:  true,
		}},
		Runtime: RuntimeConfig{LoaderWorkers: 4, BatchSize: 5000},
	}
}

/*
TestValidatePipeline_ValidMinimal verifies that a well-formed pipeline produces
no issues (errors or warnings).
*/
func TestValidatePipeline_ValidMinimal(t *testing.T) {
	t.Parallel()

	if issues := ValidatePipeline(validPipeline()); len(issues) != 0 {
		t.Fatalf("expected no issues; got %+v", issues)
	}
}

func TestValidatePipeline_Issues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(p *Pipeline)
		sev    IssueSeverity
		path   string
		msg    string
	}{
		{"missing_job", func(p *Pipeline) { p.Job = " " }, SeverityError, "job", "job must not be empty"},
		{"missing_source_kind", func(p *Pipeline) { p.Source.Kind = "" }, SeverityError, "source.kind", "must not be empty"},
		{"unknown_source_kind", func(p *Pipeline) { p.Source.Kind = "http" }, SeverityError, "source.kind", `unknown source kind "http"`},
		{"mongo_without_uri", func(p *Pipeline) { p.Source.Mongo.URI = "" }, SeverityError, "source.mongo.uri", EnvSourceURI},
		{"mongo_without_database", func(p *Pipeline) { p.Source.Mongo.Database = "" }, SeverityError, "source.mongo.database", "requires a database"},
		{"negative_timeout", func(p *Pipeline) { p.Source.Mongo.TimeoutSeconds = -1 }, SeverityError, "source.mongo.timeout_seconds", "negative"},
		{
			"file_without_paths",
			func(p *Pipeline) { p.Source = Source{Kind: "file", File: SourceFile{CompetitionsPath: "c.json"}} },
			SeverityError, "source.file.matches_dir", "matches_dir",
		},
		{"missing_storage_kind", func(p *Pipeline) { p.Storage.Kind = "" }, SeverityError, "storage.kind", "must not be empty"},
		{"unknown_storage_kind", func(p *Pipeline) { p.Storage.Kind = "oracle" }, SeverityWarning, "storage.kind", `unknown storage kind "oracle"`},
		{"missing_dsn", func(p *Pipeline) { p.Storage.DB.DSN = "" }, SeverityError, "storage.db.dsn", EnvStorageDSN},
		{"fk_without_schema", func(p *Pipeline) { p.Storage.DB.CreateSchema = false }, SeverityWarning, "storage.db.foreign_keys", "already exist"},
		{"sqlite_fk", func(p *Pipeline) { p.Storage.Kind = "sqlite" }, SeverityWarning, "storage.db.foreign_keys", "ignored"},
		{"zero_batch", func(p *Pipeline) { p.Runtime.BatchSize = 0 }, SeverityError, "runtime.batch_size", "must be positive"},
		{"negative_workers", func(p *Pipeline) { p.Runtime.LoaderWorkers = -2 }, SeverityError, "runtime.loader_workers", "negative"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := validPipeline()
			tt.mutate(&p)
			issues := ValidatePipeline(p)
			if !hasIssue(t, issues, tt.sev, tt.path, tt.msg) {
				t.Fatalf("expected %s at %s containing %q; got %+v", tt.sev, tt.path, tt.msg, issues)
			}
		})
	}
}

func TestHasErrors(t *testing.T) {
	t.Parallel()

	warn := Issue{Severity: SeverityWarning, Path: "storage.kind", Message: "x"}
	if HasErrors([]Issue{warn}) {
		t.Fatal("warnings reported as errors")
	}
	if !HasErrors([]Issue{warn, {Severity: SeverityError, Path: "job", Message: "y"}}) {
		t.Fatal("error not detected")
	}
	if got := warn.Error(); got != "warning at storage.kind: x" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestValidateSeed(t *testing.T) {
	t.Parallel()

	p := validPipeline()
	issues := ValidateSeed(p)
	if !hasIssue(t, issues, SeverityError, "source.file.competitions_path", "competitions_path") ||
		!hasIssue(t, issues, SeverityError, "source.file.matches_dir", "matches_dir") {
		t.Fatalf("missing file-tree errors: %+v", issues)
	}

	p.Source.Kind = "file"
	p.Source.File = SourceFile{CompetitionsPath: "data/competitions.json", MatchesDir: "data/matches"}
	p.Source.Mongo.Database = ""
	issues = ValidateSeed(p)
	if len(issues) != 1 || !hasIssue(t, issues, SeverityError, "source.mongo.database", "database") {
		t.Fatalf("issues = %+v; want only the mongo database error", issues)
	}
}
