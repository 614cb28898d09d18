package config

// This file holds a lightweight linter for Pipeline values. It performs static
// checks over a decoded Pipeline and returns a list of issues (errors and
// warnings) that callers can surface in a CLI or tests.

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced to users but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Path is a dotted path into
// the config (e.g. "source.mongo.uri").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue has SeverityError.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ValidatePipeline lints p without mutating it.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}
	issues = append(issues, validateSource(p.Source)...)
	issues = append(issues, validateStorage(p.Storage)...)
	issues = append(issues, validateRuntime(p.Runtime)...)
	return issues
}

// ValidateSeed lints the settings a seed run needs: the file tree to read
// and the Mongo collections to write, regardless of source.kind.
func ValidateSeed(p Pipeline) []Issue {
	from, to := p.Source, p.Source
	from.Kind, to.Kind = "file", "mongo"
	return append(validateSource(from), validateSource(to)...)
}

func required(path, value, msg string) []Issue {
	if strings.TrimSpace(value) != "" {
		return nil
	}
	return []Issue{{Severity: SeverityError, Path: path, Message: msg}}
}

func validateSource(s Source) []Issue {
	var issues []Issue

	switch s.Kind {
	case "":
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.kind",
			Message:  "source.kind must not be empty",
		})
	case "mongo":
		issues = append(issues, required("source.mongo.uri", s.Mongo.URI, "mongo source requires a uri (or "+EnvSourceURI+")")...)
		issues = append(issues, required("source.mongo.database", s.Mongo.Database, "mongo source requires a database")...)
		if s.Mongo.TimeoutSeconds < 0 {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.mongo.timeout_seconds",
				Message:  "timeout_seconds must not be negative",
			})
		}
	case "file":
		issues = append(issues, required("source.file.competitions_path", s.File.CompetitionsPath, "file source requires competitions_path")...)
		issues = append(issues, required("source.file.matches_dir", s.File.MatchesDir, "file source requires matches_dir")...)
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.kind",
			Message:  fmt.Sprintf("unknown source kind %q; want mongo or file", s.Kind),
		})
	}
	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  "storage.kind must not be empty",
		})
	}

	known := map[string]struct{}{
		"postgres": {},
		"mysql":    {},
		"mssql":    {},
		"sqlite":   {},
	}
	if _, ok := known[s.Kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q; ensure a matching backend is registered", s.Kind),
		})
	}

	issues = append(issues, required("storage.db.dsn", s.DB.DSN, "storage.db.dsn must not be empty (or set "+EnvStorageDSN+")")...)
	if s.DB.ForeignKeys && !s.DB.CreateSchema {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.db.foreign_keys",
			Message:  "foreign_keys without create_schema assumes the tables already exist",
		})
	}
	if s.Kind == "sqlite" && s.DB.ForeignKeys {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.db.foreign_keys",
			Message:  "sqlite cannot add constraints to existing tables; foreign_keys is ignored",
		})
	}
	return issues
}

func validateRuntime(r RuntimeConfig) []Issue {
	var issues []Issue

	if r.BatchSize <= 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "runtime.batch_size",
			Message:  fmt.Sprintf("batch_size=%d; must be positive", r.BatchSize),
		})
	}
	if r.LoaderWorkers < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "runtime.loader_workers",
			Message:  "loader_workers must not be negative",
		})
	}
	return issues
}
