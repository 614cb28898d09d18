// Package config defines the configuration model for the match-data ETL.
// Pipelines are decoded from JSON or YAML files and passed through the
// program without additional glue code.
//
// Example (YAML):
//
//	job: statsbomb
//	source:
//	  kind: mongo
//	  mongo:
//	    uri: mongodb://localhost:27017
//	    database: statsbomb
//	    matches_collection: matches
//	    competitions_collection: competitions
//	storage:
//	  kind: mysql
//	  db:
//	    dsn: etl:etl@tcp(localhost:3306)/football
//	    create_schema: true
//	    foreign_keys: true
//	runtime:
//	  loader_workers: 4
//	  batch_size: 5000
package config

// Pipeline is the top-level object decoded from a pipeline file.
type Pipeline struct {
	// Job names the run in logs and metrics.
	Job string `json:"job" yaml:"job"`

	Source  Source        `json:"source" yaml:"source"`
	Storage Storage       `json:"storage" yaml:"storage"`
	Runtime RuntimeConfig `json:"runtime" yaml:"runtime"`
}

// RuntimeConfig controls load concurrency and batching.
type RuntimeConfig struct {
	LoaderWorkers int `json:"loader_workers" yaml:"loader_workers"`
	BatchSize     int `json:"batch_size" yaml:"batch_size"`
}

// Source identifies where raw documents come from.
type Source struct {
	// Kind selects the source implementation: "mongo" or "file".
	Kind string `json:"kind" yaml:"kind"`

	Mongo SourceMongo `json:"mongo" yaml:"mongo"`
	File  SourceFile  `json:"file" yaml:"file"`
}

// SourceMongo configures the "mongo" source kind.
type SourceMongo struct {
	URI                    string `json:"uri" yaml:"uri"`
	Database               string `json:"database" yaml:"database"`
	MatchesCollection      string `json:"matches_collection" yaml:"matches_collection"`
	CompetitionsCollection string `json:"competitions_collection" yaml:"competitions_collection"`
	TimeoutSeconds         int    `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// SourceFile configures the "file" source kind.
type SourceFile struct {
	// CompetitionsPath is a JSON array of competition-season documents.
	CompetitionsPath string `json:"competitions_path" yaml:"competitions_path"`

	// MatchesDir is walked recursively for *.json match arrays.
	MatchesDir string `json:"matches_dir" yaml:"matches_dir"`
}

// Storage selects the relational backend.
type Storage struct {
	// Kind selects the backend: "mysql", "postgres", "sqlite" or "mssql".
	Kind string   `json:"kind" yaml:"kind"`
	DB   DBConfig `json:"db" yaml:"db"`
}

// DBConfig configures the relational sink.
type DBConfig struct {
	// DSN is the backend-specific connection string.
	DSN string `json:"dsn" yaml:"dsn"`

	// CreateSchema runs the CREATE TABLE script before loading.
	CreateSchema bool `json:"create_schema" yaml:"create_schema"`

	// ForeignKeys adds foreign-key constraints after loading.
	ForeignKeys bool `json:"foreign_keys" yaml:"foreign_keys"`
}
