// Package dict reads loosely-typed document maps, the shape yaml.v3 and
// encoding/json produce when decoding into any. Scenario files are tolerant
// by contract: a missing or mistyped key falls back to the caller's default
// instead of failing, so every accessor takes the default alongside the key.
//
// Numeric accessors coerce across the decoder split: YAML decodes whole
// numbers as int, JSON decodes every number as float64.
package dict

// Str returns m[key] as a string, or def when the key is missing or holds a
// non-string value.
func Str(m map[string]any, key, def string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return def
}

// Float returns m[key] as a float64, or def.
func Float(m map[string]any, key string, def float64) float64 {
	if f, ok := AsFloat(m[key]); ok {
		return f
	}
	return def
}

// Int returns m[key] as an int, or def. Fractional values truncate.
func Int(m map[string]any, key string, def int) int {
	if n, ok := AsInt(m[key]); ok {
		return n
	}
	return def
}

// Bool returns m[key] as a bool, or def.
func Bool(m map[string]any, key string, def bool) bool {
	if b, ok := m[key].(bool); ok {
		return b
	}
	return def
}

// Map returns m[key] as a nested map, or nil.
func Map(m map[string]any, key string) map[string]any {
	v, _ := m[key].(map[string]any)
	return v
}

// Slice returns m[key] as a list, or nil.
func Slice(m map[string]any, key string) []any {
	v, _ := m[key].([]any)
	return v
}

// StrSlice returns m[key] as a list of strings, skipping non-string entries.
func StrSlice(m map[string]any, key string) []string {
	items := Slice(m, key)
	if items == nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// AsFloat coerces a decoded scalar to float64.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// AsInt coerces a decoded scalar to int.
func AsInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		return int(n), true
	case float32:
		return int(n), true
	}
	return 0, false
}

// Clone deep-copies a document map. Scalar values are shared, nested maps and
// lists are copied.
func Clone(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return Clone(t)
	case []any:
		out := make([]any, len(t))
		for i, it := range t {
			out[i] = cloneValue(it)
		}
		return out
	default:
		return v
	}
}
