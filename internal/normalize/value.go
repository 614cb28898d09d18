package normalize

import (
	"encoding/json"
	"math"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// canonical maps a decoded leaf onto the value set the engine works with:
// nil, int64, float64, string, bool, time.Time and []any for arrays. Two
// documents that spell the same value differently (json.Number vs int,
// decomposed vs composed accents) end up equal, which keeps de-duplication
// honest.
func canonical(path string, v any) (any, error) {
	switch x := v.(type) {
	case nil, bool, int64, []any:
		return x, nil
	case string:
		return cleanString(x), nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i, nil
		}
		f, err := x.Float64()
		if err != nil {
			return nil, malformed(path, "invalid number %q", x.String())
		}
		return floatValue(f), nil
	case float64:
		return floatValue(x), nil
	case float32:
		return floatValue(float64(x)), nil
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case time.Time:
		return x.UTC(), nil
	default:
		return nil, malformed(path, "unsupported value type %T", v)
	}
}

// floatValue turns integral floats into int64 so 3 and 3.0 compare equal.
func floatValue(f float64) any {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f)
	}
	return f
}

// cleanString NFC-normalizes s and strips control characters.
func cleanString(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 || s[i] < 0x20 || s[i] == 0x7f {
			t := transform.Chain(norm.NFC, runes.Remove(runes.In(unicode.Cc)))
			out, _, err := transform.String(t, s)
			if err != nil {
				return s
			}
			return out
		}
	}
	return s
}
