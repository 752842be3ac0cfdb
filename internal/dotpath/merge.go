package dotpath

// Merge overlays src onto dst and returns dst. Maps are merged key by key and
// lists element by element, so keys of dst that src does not mention survive.
// Scalars in src win.
func Merge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = map[string]any{}
	}
	for k, sv := range src {
		dst[k] = mergeValue(dst[k], sv)
	}
	return dst
}

func mergeValue(dv, sv any) any {
	switch s := sv.(type) {
	case map[string]any:
		if d, ok := dv.(map[string]any); ok {
			return Merge(d, s)
		}
		return s
	case []any:
		d, ok := dv.([]any)
		if !ok {
			return s
		}
		out := make([]any, max(len(d), len(s)))
		copy(out, d)
		for i, item := range s {
			if item == nil {
				continue
			}
			out[i] = mergeValue(out[i], item)
		}
		return out
	default:
		return sv
	}
}
