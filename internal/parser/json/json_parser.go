// Package json turns JSON documents into records.Record maps.
//
// Accepted shapes:
//
//   - a single object: {"match_id":1}
//   - a top-level array of objects (StatsBomb open-data files), when
//     Options.AllowArrays is set: [{"match_id":1},{"match_id":2}]
//   - newline-delimited objects, after either of the above.
//
// Numbers are kept as json.Number; callers decide how to map them.
package json

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"footballetl/pkg/records"
)

// Options controls which top-level shapes DecodeAll accepts.
type Options struct {
	AllowArrays bool
}

// Decoder wraps encoding/json.Decoder to provide a simple record-oriented
// API.
type Decoder struct {
	dec *json.Decoder
	opt Options
}

// NewDecoder constructs a Decoder from an io.Reader and JSON Options.
func NewDecoder(r io.Reader, opt Options) *Decoder {
	d := json.NewDecoder(r)
	d.UseNumber()
	return &Decoder{dec: d, opt: opt}
}

// Next reads the next JSON object and converts it into a records.Record.
// Non-object top-level values are skipped. io.EOF is returned when the
// stream is exhausted.
func (d *Decoder) Next() (records.Record, error) {
	for {
		var raw any
		if err := d.dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("json parser: decode: %w", err)
		}
		if m, ok := raw.(map[string]any); ok {
			return records.Record(m), nil
		}
	}
}

// DecodeAll reads every object from r.
//
// If opt.AllowArrays is true and the first top-level value is an array of
// objects, it is expanded into records. Anything after the first value is
// read as NDJSON objects.
func DecodeAll(r io.Reader, opt Options) ([]records.Record, error) {
	d := json.NewDecoder(r)
	d.UseNumber()

	var root any
	if err := d.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("json parser: decode root: %w", err)
	}

	var out []records.Record
	switch v := root.(type) {
	case map[string]any:
		out = append(out, records.Record(v))

	case []any:
		if !opt.AllowArrays {
			return nil, fmt.Errorf("json parser: top-level array encountered but allow_arrays=false")
		}
		out = make([]records.Record, 0, len(v))
		for i, elem := range v {
			obj, ok := elem.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("json parser: element %d in array is not an object", i)
			}
			out = append(out, records.Record(obj))
		}

	default:
		return nil, fmt.Errorf("json parser: unsupported top-level JSON type %T", v)
	}

	// Trailing content: what the decoder already buffered, then the rest of r.
	dec := NewDecoder(io.MultiReader(d.Buffered(), r), opt)
	for {
		rec, err := dec.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
