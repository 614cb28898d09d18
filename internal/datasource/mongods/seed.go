package mongods

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/v2/bson"

	"footballetl/pkg/records"
)

// seedBatch bounds the documents sent per InsertMany.
const seedBatch = 500

// Seed replaces the matches and competitions collections with the given
// documents, typically read from the open-data file tree.
func (s *Source) Seed(ctx context.Context, matches, competitions []records.Record) error {
	if err := s.replace(ctx, s.cfg.CompetitionsCollection, competitions); err != nil {
		return err
	}
	return s.replace(ctx, s.cfg.MatchesCollection, matches)
}

func (s *Source) replace(ctx context.Context, collection string, docs []records.Record) error {
	coll := s.client.Database(s.cfg.Database).Collection(collection)

	dropCtx, cancel := withTimeout(ctx, s.cfg.Timeout)
	err := coll.Drop(dropCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("mongo: drop %s: %w", collection, err)
	}

	for lo := 0; lo < len(docs); lo += seedBatch {
		hi := min(lo+seedBatch, len(docs))
		batch := make([]bson.D, 0, hi-lo)
		for i := lo; i < hi; i++ {
			d, err := encodeDocument(docs[i])
			if err != nil {
				return fmt.Errorf("mongo: %s document %d: %w", collection, i, err)
			}
			batch = append(batch, d)
		}

		insCtx, cancel := withTimeout(ctx, s.cfg.Timeout)
		_, err := coll.InsertMany(insCtx, batch)
		cancel()
		if err != nil {
			return fmt.Errorf("mongo: insert %s: %w", collection, err)
		}
	}
	log.Printf("mongo seed: collection=%s documents=%d", collection, len(docs))
	return nil
}

// encodeDocument converts a record into an ordered BSON document. Integral
// json.Number values become int32/int64 and the rest doubles.
func encodeDocument(r records.Record) (bson.D, error) {
	js, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	var d bson.D
	if err := bson.UnmarshalExtJSON(js, false, &d); err != nil {
		return nil, fmt.Errorf("extjson: %w", err)
	}
	return d, nil
}
