package fne

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// reader pulls loosely typed values out of a decoded JSON object. Every key
// is looked up in camelCase first and snake_case second. Missing keys and
// values of the wrong type fall back to the zero value.
type reader map[string]any

func (r reader) lookup(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func (r reader) str(keys ...string) string {
	v, ok := r.lookup(keys...)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case json.Number:
		return s.String()
	default:
		return fmt.Sprint(s)
	}
}

func (r reader) float(keys ...string) float64 {
	v, ok := r.lookup(keys...)
	if !ok {
		return 0
	}
	return toFloat(v)
}

func (r reader) int(keys ...string) int64 {
	f := r.float(keys...)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int64(f)
}

func (r reader) bool(keys ...string) bool {
	v, ok := r.lookup(keys...)
	if !ok {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "", "0", "false", "no", "off":
			return false
		}
		return true
	default:
		return toFloat(v) != 0
	}
}

func (r reader) object(keys ...string) (reader, bool) {
	v, ok := r.lookup(keys...)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return reader(m), ok
}

func (r reader) list(keys ...string) []any {
	v, ok := r.lookup(keys...)
	if !ok {
		return nil
	}
	l, _ := v.([]any)
	return l
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	case bool:
		if n {
			return 1
		}
		return 0
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}
