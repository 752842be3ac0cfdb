package dotpath

import "strings"

// CamelKeys returns a copy of v in which every snake_case map key has been
// rewritten to camelCase. Maps and lists are walked recursively; other values
// are returned unchanged.
func CamelKeys(v any) any {
	switch node := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(node))
		for k, child := range node {
			out[Camel(k)] = CamelKeys(child)
		}
		return out
	case []any:
		out := make([]any, len(node))
		for i, child := range node {
			out[i] = CamelKeys(child)
		}
		return out
	default:
		return v
	}
}

// Camel converts "client_company_name" to "clientCompanyName". Keys without
// an underscore are returned as is.
func Camel(key string) string {
	if !strings.Contains(key, "_") {
		return key
	}
	parts := strings.Split(key, "_")
	var b strings.Builder
	b.Grow(len(key))
	first := true
	for _, p := range parts {
		if p == "" {
			continue
		}
		if first {
			b.WriteString(strings.ToLower(p[:1]) + p[1:])
			first = false
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	if b.Len() == 0 {
		return key
	}
	return b.String()
}
