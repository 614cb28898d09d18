package normalize

import (
	"sort"

	"footballetl/pkg/records"
)

// Flatten turns a nested document into a single-level record keyed by the
// dot-joined path of every leaf, e.g. "stadium.country.id". Arrays are kept
// whole under their path for explicit expansion later; an empty object
// contributes no keys. Leaves are canonicalized (see canonical).
//
// Two distinct paths that flatten to the same key, such as a literal "a.b"
// next to {"a": {"b": ...}}, are reported as a *MalformedDocumentError.
func Flatten(doc map[string]any) (records.Record, error) {
	out := make(records.Record, len(doc))
	if err := flattenInto(out, "", doc); err != nil {
		return nil, err
	}
	return out, nil
}

func flattenInto(out records.Record, prefix string, m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if child, ok := asObject(m[k]); ok {
			if err := flattenInto(out, path, child); err != nil {
				return err
			}
			continue
		}
		if _, dup := out[path]; dup {
			return malformed(path, "ambiguous flattened key")
		}
		v, err := canonical(path, m[k])
		if err != nil {
			return err
		}
		out[path] = v
	}
	return nil
}

func asObject(v any) (map[string]any, bool) {
	switch x := v.(type) {
	case map[string]any:
		return x, true
	case records.Record:
		return x, true
	}
	return nil, false
}
