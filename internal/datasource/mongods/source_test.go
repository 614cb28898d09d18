package mongods

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"

	"footballetl/pkg/records"
)

/*
TestDecodeDocument verifies that BSON documents decode into the same value
model as the file source: integers and doubles become json.Number,
subdocuments become maps and arrays stay slices.
*/
func TestDecodeDocument(t *testing.T) {
	t.Parallel()

	raw, err := bson.Marshal(bson.D{
		{Key: "match_id", Value: int32(3788741)},
		{Key: "home_score", Value: int64(2)},
		{Key: "kick_off", Value: "15:00:00.000"},
		{Key: "match_week", Value: nil},
		{Key: "home_team", Value: bson.D{
			{Key: "home_team_id", Value: int32(1)},
			{Key: "managers", Value: bson.A{bson.D{{Key: "id", Value: int32(10)}}}},
		}},
		{Key: "competition", Value: bson.D{{Key: "competition_is_youth", Value: false}}},
	})
	if err != nil {
		t.Fatalf("bson.Marshal: %v", err)
	}

	got, err := decodeDocument(raw)
	if err != nil {
		t.Fatalf("decodeDocument: %v", err)
	}
	want := records.Record{
		"match_id":   json.Number("3788741"),
		"home_score": json.Number("2"),
		"kick_off":   "15:00:00.000",
		"match_week": nil,
		"home_team": map[string]any{
			"home_team_id": json.Number("1"),
			"managers":     []any{map[string]any{"id": json.Number("10")}},
		},
		"competition": map[string]any{"competition_is_youth": false},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("decodeDocument mismatch:\n got: %#v\nwant: %#v", got, want)
	}
}

func TestOpenValidatesConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "empty_uri", cfg: Config{Database: "statsbomb"}},
		{name: "empty_database", cfg: Config{URI: "mongodb://localhost:27017"}},
		{name: "bad_scheme", cfg: Config{URI: "http://localhost", Database: "statsbomb"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, _, err := Open(context.Background(), tt.cfg); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

// TestSeededDocumentsReadBack checks that a file-tree record written by the
// seeder decodes back to the same record through the read path.
func TestSeededDocumentsReadBack(t *testing.T) {
	t.Parallel()

	rec := records.Record{
		"match_id":   json.Number("3788741"),
		"match_date": "2021-05-01",
		"home_score": json.Number("2"),
		"referee":    nil,
		"home_team": map[string]any{
			"home_team_id": json.Number("1"),
			"managers": []any{map[string]any{
				"id":  json.Number("10"),
				"dob": "1967-06-16",
			}},
		},
		"metadata": map[string]any{"xy_fidelity_version": "2"},
	}

	doc, err := encodeDocument(rec)
	if err != nil {
		t.Fatalf("encodeDocument: %v", err)
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("bson.Marshal: %v", err)
	}
	got, err := decodeDocument(raw)
	if err != nil {
		t.Fatalf("decodeDocument: %v", err)
	}
	if !reflect.DeepEqual(got, rec) {
		t.Fatalf("read back mismatch:\n got: %#v\nwant: %#v", got, rec)
	}
}
