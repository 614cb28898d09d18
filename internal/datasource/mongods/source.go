// Package mongods reads match and competition documents from MongoDB.
//
// Every document is re-encoded as relaxed Extended JSON and decoded through
// the JSON parser, so documents from Mongo and from files share one value
// model (json.Number for numbers, map[string]any for subdocuments).
package mongods

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	jsonparser "footballetl/internal/parser/json"
	"footballetl/pkg/records"
)

// Config holds the connection and collection names.
type Config struct {
	URI                    string
	Database               string
	MatchesCollection      string
	CompetitionsCollection string
	Timeout                time.Duration // per Find; 0 means no timeout
}

// Source is a MongoDB-backed datasource.Source.
type Source struct {
	client *mongo.Client
	cfg    Config
}

// Open connects to cfg.URI and verifies the server is reachable. The
// returned function disconnects the client.
func Open(ctx context.Context, cfg Config) (*Source, func(), error) {
	if strings.TrimSpace(cfg.URI) == "" {
		return nil, nil, fmt.Errorf("mongo: uri must not be empty")
	}
	if cfg.Database == "" {
		return nil, nil, fmt.Errorf("mongo: database must not be empty")
	}
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo: connect: %w", err)
	}
	pingCtx, cancel := withTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo: ping: %w", err)
	}
	closeFn := func() { _ = client.Disconnect(context.Background()) }
	return &Source{client: client, cfg: cfg}, closeFn, nil
}

// Matches returns every document of the matches collection.
func (s *Source) Matches(ctx context.Context) ([]records.Record, error) {
	return s.findAll(ctx, s.cfg.MatchesCollection)
}

// Competitions returns every document of the competitions collection.
func (s *Source) Competitions(ctx context.Context) ([]records.Record, error) {
	return s.findAll(ctx, s.cfg.CompetitionsCollection)
}

func (s *Source) findAll(ctx context.Context, collection string) ([]records.Record, error) {
	ctx, cancel := withTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	coll := s.client.Database(s.cfg.Database).Collection(collection)
	opts := options.Find().SetProjection(bson.D{{Key: "_id", Value: 0}})
	cur, err := coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: find %s: %w", collection, err)
	}
	defer cur.Close(ctx)

	var out []records.Record
	for cur.Next(ctx) {
		rec, err := decodeDocument(cur.Current)
		if err != nil {
			return nil, fmt.Errorf("mongo: %s document %d: %w", collection, len(out), err)
		}
		out = append(out, rec)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("mongo: cursor %s: %w", collection, err)
	}
	log.Printf("mongo source: collection=%s documents=%d", collection, len(out))
	return out, nil
}

// decodeDocument converts one BSON document into a record.
func decodeDocument(raw bson.Raw) (records.Record, error) {
	js, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return nil, fmt.Errorf("extjson: %w", err)
	}
	recs, err := jsonparser.DecodeAll(bytes.NewReader(js), jsonparser.Options{})
	if err != nil {
		return nil, err
	}
	if len(recs) != 1 {
		return nil, fmt.Errorf("expected one object, got %d", len(recs))
	}
	return recs[0], nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
