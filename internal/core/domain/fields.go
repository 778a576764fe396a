package domain

import "maps"

// Fields is an opaque request or response payload. Stores and services
// pass it through verbatim; keys follow the server's JSON field names.
type Fields map[string]any

// With returns a copy of f with key set to value.
func (f Fields) With(key string, value any) Fields {
	out := make(Fields, len(f)+1)
	maps.Copy(out, f)
	out[key] = value
	return out
}

// Int returns the integer stored under key. JSON numbers decode as
// float64, so both representations are accepted.
func (f Fields) Int(key string) (int, bool) {
	switch v := f[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
