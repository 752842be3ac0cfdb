// Package dotpath reads and writes nested documents addressed by dotted paths
// such as "client.name" or "items.0.description".
//
// A document is a map[string]any whose values may themselves be maps or
// []any lists. Numeric segments index into lists.
package dotpath

import (
	"strconv"
	"strings"
)

// Get walks doc along path and returns the value found there. The boolean is
// false as soon as a segment is absent or the current value cannot be
// descended into, which lets callers tell a missing field apart from a field
// that is present with a nil value.
func Get(doc map[string]any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	var current any = doc
	for _, seg := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			current = v
		case []any:
			idx, ok := index(seg)
			if !ok || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// Exists reports whether path resolves in doc.
func Exists(doc map[string]any, path string) bool {
	_, ok := Get(doc, path)
	return ok
}

// Set writes value at path, creating intermediate containers as needed and
// overwriting whatever sits at the leaf. doc is modified in place. A numeric
// segment creates (or extends) a list; any other segment creates a map.
func Set(doc map[string]any, path string, value any) {
	if doc == nil || path == "" {
		return
	}
	segs := strings.Split(path, ".")
	setIn(doc, segs, value)
}

func setIn(container any, segs []string, value any) any {
	seg := segs[0]
	last := len(segs) == 1

	switch node := container.(type) {
	case map[string]any:
		if last {
			node[seg] = value
			return node
		}
		node[seg] = setIn(ensureContainer(node[seg], segs[1]), segs[1:], value)
		return node
	case []any:
		idx, ok := index(seg)
		if !ok {
			// a non-numeric key cannot address a list; replace it by a map
			m := map[string]any{}
			return setIn(m, segs, value)
		}
		for len(node) <= idx {
			node = append(node, nil)
		}
		if last {
			node[idx] = value
			return node
		}
		node[idx] = setIn(ensureContainer(node[idx], segs[1]), segs[1:], value)
		return node
	default:
		return setIn(newContainer(seg), segs, value)
	}
}

// ensureContainer returns existing when it can hold the next segment,
// otherwise a fresh container suited to it.
func ensureContainer(existing any, next string) any {
	switch existing.(type) {
	case map[string]any:
		return existing
	case []any:
		if _, ok := index(next); ok {
			return existing
		}
	}
	return newContainer(next)
}

func newContainer(seg string) any {
	if _, ok := index(seg); ok {
		return []any{}
	}
	return map[string]any{}
}

func index(seg string) (int, bool) {
	n, err := strconv.Atoi(seg)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
