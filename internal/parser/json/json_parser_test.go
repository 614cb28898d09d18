package json

import (
	"encoding/json"
	"io"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"footballetl/pkg/records"
)

/*
TestDecoderNext_NDJSONObjectsAndPrimitives verifies Decoder.Next on a mixed
NDJSON stream:

  - primitive top-level values (e.g. 42) are skipped,
  - object top-level values are converted into records.Record,
  - EOF is returned when the stream is exhausted.
*/
func TestDecoderNext_NDJSONObjectsAndPrimitives(t *testing.T) {
	const ndjson = `{"id":1,"name":"a"}
42
{"id":2,"name":"b"}
`

	d := NewDecoder(strings.NewReader(ndjson), Options{})

	// First object
	rec1, err := d.Next()
	if err != nil {
		t.Fatalf("Next() 1 returned error: %v", err)
	}
	if got, ok := rec1["id"].(json.Number); !ok || got.String() != "1" {
		t.Fatalf("rec1[\"id\"] = %#v (type %T); want json.Number(\"1\")", rec1["id"], rec1["id"])
	}
	if got, ok := rec1["name"].(string); !ok || got != "a" {
		t.Fatalf("rec1[\"name\"] = %#v (type %T); want \"a\"", rec1["name"], rec1["name"])
	}

	// Second object (after skipping primitive 42)
	rec2, err := d.Next()
	if err != nil {
		t.Fatalf("Next() 2 returned error: %v", err)
	}
	if got, ok := rec2["id"].(json.Number); !ok || got.String() != "2" {
		t.Fatalf("rec2[\"id\"] = %#v (type %T); want json.Number(\"2\")", rec2["id"], rec2["id"])
	}

	// EOF on next call
	rec3, err := d.Next()
	if err != io.EOF {
		t.Fatalf("Next() 3 = (%#v, %v); want (nil, io.EOF)", rec3, err)
	}
}

/*
TestDecoderNext_RejectsNonObjectOnlyStream ensures that when the stream
contains only non-object top-level values, Decoder.Next eventually returns
EOF without yielding any records.
*/
func TestDecoderNext_RejectsNonObjectOnlyStream(t *testing.T) {
	const data = `1
"two"
[3]
`

	d := NewDecoder(strings.NewReader(data), Options{})

	rec, err := d.Next()
	if err != io.EOF {
		t.Fatalf("Next() on non-object-only stream = (%#v, %v); want (nil, io.EOF)", rec, err)
	}
}

/*
TestDecodeAll_EmptyInput verifies that DecodeAll returns (nil, nil) for an
empty reader.
*/
func TestDecodeAll_EmptyInput(t *testing.T) {
	recs, err := DecodeAll(strings.NewReader(""), Options{})
	if err != nil {
		t.Fatalf("DecodeAll on empty input returned error: %v", err)
	}
	if recs != nil {
		t.Fatalf("DecodeAll on empty input = %#v; want nil slice", recs)
	}
}

/*
TestDecodeAll_ObjectRoot verifies that a single top-level JSON object is
decoded into one records.Record with matching fields.
*/
func TestDecodeAll_ObjectRoot(t *testing.T) {
	const data = `{"id":1,"name":"a"}`

	recs, err := DecodeAll(strings.NewReader(data), Options{})
	if err != nil {
		t.Fatalf("DecodeAll returned error: %v", err)
	}
	if got, want := len(recs), 1; got != want {
		t.Fatalf("len(recs)=%d; want %d", got, want)
	}

	want := records.Record{
		"id":   json.Number("1"),
		"name": "a",
	}
	if !reflect.DeepEqual(recs[0], want) {
		t.Fatalf("DecodeAll object root mismatch:\n got: %#v\nwant: %#v", recs[0], want)
	}
}

/*
TestDecodeAll_ArrayRootAllowArrays verifies that a single top-level JSON array
of objects is expanded into records when Options.AllowArrays is true:

  - each array element must be an object,
  - DecodeAll returns one records.Record per element.
*/
func TestDecodeAll_ArrayRootAllowArrays(t *testing.T) {
	const data = `[{"id":1},{"id":2}]`

	recs, err := DecodeAll(strings.NewReader(data), Options{AllowArrays: true})
	if err != nil {
		t.Fatalf("DecodeAll returned error: %v", err)
	}
	if got, want := len(recs), 2; got != want {
		t.Fatalf("len(recs)=%d; want %d", got, want)
	}
	if got := recs[0]["id"].(json.Number).String(); got != "1" {
		t.Fatalf("recs[0][\"id\"] = %q; want \"1\"", got)
	}
	if got := recs[1]["id"].(json.Number).String(); got != "2" {
		t.Fatalf("recs[1][\"id\"] = %q; want \"2\"", got)
	}
}

/*
TestDecodeAll_ArrayRootDisallowed verifies that when the top-level value is an
array and Options.AllowArrays is false, DecodeAll returns an error.
*/
func TestDecodeAll_ArrayRootDisallowed(t *testing.T) {
	const data = `[{"id":1},{"id":2}]`

	recs, err := DecodeAll(strings.NewReader(data), Options{AllowArrays: false})
	if err == nil {
		t.Fatalf("DecodeAll with allow_arrays=false on array root = %#v, nil; want non-nil error", recs)
	}
}

/*
TestDecodeAll_ArrayRootNonObjectElement ensures that a top-level array with
a non-object element causes DecodeAll to fail with a descriptive error.
*/
func TestDecodeAll_ArrayRootNonObjectElement(t *testing.T) {
	const data = `[{"id":1}, 2]`

	recs, err := DecodeAll(strings.NewReader(data), Options{AllowArrays: true})
	if err == nil {
		t.Fatalf("DecodeAll on array with non-object element = %#v, nil; want error", recs)
	}
}

/*
TestDecodeAll_UnsupportedRootType verifies that unsupported top-level JSON
types (such as a primitive) produce an error.
*/
func TestDecodeAll_UnsupportedRootType(t *testing.T) {
	const data = `42`

	recs, err := DecodeAll(strings.NewReader(data), Options{})
	if err == nil {
		t.Fatalf("DecodeAll on primitive root = %#v, nil; want error", recs)
	}
}

/*
TestDecodeAll_IncludesTrailingNDJSON verifies that objects following the
root value are decoded as NDJSON.
*/
func TestDecodeAll_IncludesTrailingNDJSON(t *testing.T) {
	const data = `{"id":1}
{"id":2}
`

	recs, err := DecodeAll(strings.NewReader(data), Options{})
	if err != nil {
		t.Fatalf("DecodeAll returned error: %v", err)
	}

	if got, want := len(recs), 2; got != want {
		t.Fatalf("len(recs)=%d; want %d (root plus trailing object)", got, want)
	}

	if got := recs[0]["id"].(json.Number).String(); got != "1" {
		t.Fatalf("recs[0][\"id\"] = %q; want \"1\"", got)
	}
	if got := recs[1]["id"].(json.Number).String(); got != "2" {
		t.Fatalf("recs[1][\"id\"] = %q; want \"2\"", got)
	}
}

// chunkReader returns at most n bytes per Read, so the json.Decoder cannot
// buffer the whole input on its first fill.
type chunkReader struct {
	s string
	n int
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if c.s == "" {
		return 0, io.EOF
	}
	k := c.n
	if k > len(p) {
		k = len(p)
	}
	if k > len(c.s) {
		k = len(c.s)
	}
	copy(p, c.s[:k])
	c.s = c.s[k:]
	return k, nil
}

/*
TestDecodeAll_TrailingBeyondBuffer verifies that trailing objects the decoder
had not yet buffered when the root value finished are still read.
*/
func TestDecodeAll_TrailingBeyondBuffer(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	sb.WriteString(`[{"match_id":0}]` + "\n")
	for i := 1; i <= 200; i++ {
		sb.WriteString(`{"match_id":` + strconv.Itoa(i) + `,"pad":"` + strings.Repeat("x", 64) + `"}` + "\n")
	}

	recs, err := DecodeAll(&chunkReader{s: sb.String(), n: 16}, Options{AllowArrays: true})
	if err != nil {
		t.Fatalf("DecodeAll returned error: %v", err)
	}
	if got, want := len(recs), 201; got != want {
		t.Fatalf("len(recs)=%d; want %d", got, want)
	}
	if got := recs[200]["match_id"].(json.Number).String(); got != "200" {
		t.Fatalf("last match_id = %q; want \"200\"", got)
	}
}

func TestDecodeAll_NestedDocuments(t *testing.T) {
	t.Parallel()

	const data = `[{"match_id":7,"home_team":{"home_team_id":1,"managers":[{"id":10}]},"home_score":1.5}]`
	recs, err := DecodeAll(strings.NewReader(data), Options{AllowArrays: true})
	if err != nil {
		t.Fatalf("DecodeAll returned error: %v", err)
	}
	want := records.Record{
		"match_id": json.Number("7"),
		"home_team": map[string]any{
			"home_team_id": json.Number("1"),
			"managers":     []any{map[string]any{"id": json.Number("10")}},
		},
		"home_score": json.Number("1.5"),
	}
	if !reflect.DeepEqual(recs[0], want) {
		t.Fatalf("DecodeAll nested mismatch:\n got: %#v\nwant: %#v", recs[0], want)
	}
}

func TestDecodeAll_SyntaxError(t *testing.T) {
	t.Parallel()

	if _, err := DecodeAll(strings.NewReader(`[{"match_id":1},`), Options{AllowArrays: true}); err == nil {
		t.Fatal("DecodeAll on truncated input returned nil error")
	}
}
