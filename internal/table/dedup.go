package table

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/zeebo/xxh3"

	"footballetl/pkg/records"
)

// Dedup removes rows that are equal to an earlier row on every column.
// The first occurrence wins and input order is preserved.
//
// Each row is encoded into a canonical byte key; keys are bucketed by their
// xxh3 hash and compared byte-for-byte inside a bucket, so hash collisions
// never merge distinct rows.
func (t Table) Dedup() Table {
	if len(t.Rows) < 2 {
		return t
	}
	seen := make(map[uint64][]string, len(t.Rows))
	rows := make([]records.Record, 0, len(t.Rows))
	var buf []byte

rowLoop:
	for _, r := range t.Rows {
		buf = rowKey(buf[:0], r, t.Columns)
		h := xxh3.Hash(buf)
		for _, k := range seen[h] {
			if k == string(buf) {
				continue rowLoop
			}
		}
		seen[h] = append(seen[h], string(buf))
		rows = append(rows, r)
	}
	return Table{Name: t.Name, Columns: t.Columns, Rows: rows}
}

// Value tags. Integer widths collapse onto tagInt so that int(1) and
// int64(1) compare equal.
const (
	tagNil byte = iota
	tagInt
	tagFloat
	tagString
	tagBool
	tagTime
	tagList
	tagMap
	tagOther
)

func rowKey(buf []byte, r records.Record, cols []string) []byte {
	for _, c := range cols {
		buf = appendValue(buf, r[c])
	}
	return buf
}

func appendValue(buf []byte, v any) []byte {
	switch t := v.(type) {
	case nil:
		return append(buf, tagNil)
	case int:
		return appendInt(buf, int64(t))
	case int8:
		return appendInt(buf, int64(t))
	case int16:
		return appendInt(buf, int64(t))
	case int32:
		return appendInt(buf, int64(t))
	case int64:
		return appendInt(buf, t)
	case float32:
		return appendFloat(buf, float64(t))
	case float64:
		return appendFloat(buf, t)
	case string:
		return appendString(append(buf, tagString), t)
	case bool:
		if t {
			return append(buf, tagBool, 1)
		}
		return append(buf, tagBool, 0)
	case time.Time:
		return appendString(append(buf, tagTime), t.UTC().Format(time.RFC3339Nano))
	case []any:
		buf = binary.AppendUvarint(append(buf, tagList), uint64(len(t)))
		for _, e := range t {
			buf = appendValue(buf, e)
		}
		return buf
	case map[string]any:
		return appendMap(buf, t)
	case records.Record:
		return appendMap(buf, t)
	default:
		return appendString(append(buf, tagOther), fmt.Sprintf("%T:%v", t, t))
	}
}

func appendInt(buf []byte, n int64) []byte {
	return binary.LittleEndian.AppendUint64(append(buf, tagInt), uint64(n))
}

func appendFloat(buf []byte, f float64) []byte {
	return binary.LittleEndian.AppendUint64(append(buf, tagFloat), math.Float64bits(f))
}

func appendString(buf []byte, s string) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}

func appendMap(buf []byte, m map[string]any) []byte {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	buf = binary.AppendUvarint(append(buf, tagMap), uint64(len(keys)))
	for _, k := range keys {
		buf = appendString(buf, k)
		buf = appendValue(buf, m[k])
	}
	return buf
}
