package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables that override file values.
const (
	EnvSourceURI  = "ETL_SOURCE_URI"
	EnvStorageDSN = "ETL_STORAGE_DSN"
)

// Defaults applied to zero-valued fields.
const (
	DefaultLoaderWorkers          = 4
	DefaultBatchSize              = 5000
	DefaultMatchesCollection      = "matches"
	DefaultCompetitionsCollection = "competitions"
)

// Load reads a pipeline file, decoding YAML for .yaml/.yml and JSON
// otherwise, then applies environment overrides and defaults.
func Load(path string) (Pipeline, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("read config: %w", err)
	}
	var p Pipeline
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		p, err = DecodeYAML(b)
	default:
		p, err = DecodeJSON(b)
	}
	if err != nil {
		return Pipeline{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	ApplyEnv(&p, os.LookupEnv)
	ApplyDefaults(&p)
	return p, nil
}

// DecodeJSON decodes a JSON pipeline, rejecting unknown fields.
func DecodeJSON(b []byte) (Pipeline, error) {
	var p Pipeline
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return Pipeline{}, err
	}
	return p, nil
}

// DecodeYAML decodes a YAML pipeline, rejecting unknown fields.
func DecodeYAML(b []byte) (Pipeline, error) {
	var p Pipeline
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return Pipeline{}, err
	}
	return p, nil
}

// ApplyEnv overrides the source URI and storage DSN from the environment.
// lookup is os.LookupEnv outside tests.
func ApplyEnv(p *Pipeline, lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvSourceURI); ok && v != "" {
		p.Source.Mongo.URI = v
	}
	if v, ok := lookup(EnvStorageDSN); ok && v != "" {
		p.Storage.DB.DSN = v
	}
}

// ApplyDefaults fills zero-valued runtime and collection settings.
func ApplyDefaults(p *Pipeline) {
	if p.Runtime.LoaderWorkers == 0 {
		p.Runtime.LoaderWorkers = DefaultLoaderWorkers
	}
	if p.Runtime.BatchSize == 0 {
		p.Runtime.BatchSize = DefaultBatchSize
	}
	if p.Source.Mongo.MatchesCollection == "" {
		p.Source.Mongo.MatchesCollection = DefaultMatchesCollection
	}
	if p.Source.Mongo.CompetitionsCollection == "" {
		p.Source.Mongo.CompetitionsCollection = DefaultCompetitionsCollection
	}
}
