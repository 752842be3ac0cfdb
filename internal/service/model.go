package service

// Serializable is implemented by application types that can describe
// themselves as an ERP document, e.g. an invoice entity with its lines.
type Serializable interface {
	ToCanonicalMap() map[string]any
}

// modelData extracts m's document, expanding nested Serializable values and
// typed lists so the mapper only sees maps and []any.
func modelData(m Serializable) map[string]any {
	out, _ := flatten(m.ToCanonicalMap()).(map[string]any)
	return out
}

func flatten(v any) any {
	switch t := v.(type) {
	case Serializable:
		return flatten(t.ToCanonicalMap())
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, el := range t {
			out[k] = flatten(el)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, el := range t {
			out[i] = flatten(el)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, el := range t {
			out[i] = flatten(el)
		}
		return out
	case []Serializable:
		out := make([]any, len(t))
		for i, el := range t {
			out[i] = flatten(el)
		}
		return out
	}
	return v
}
