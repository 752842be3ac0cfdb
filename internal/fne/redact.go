package fne

import "strings"

const redacted = "***"

var sensitiveKeys = map[string]bool{
	"api_key":       true,
	"apikey":        true,
	"password":      true,
	"token":         true,
	"authorization": true,
	"secret":        true,
}

// IsSensitiveKey reports whether values stored under key must be masked.
func IsSensitiveKey(key string) bool {
	return sensitiveKeys[strings.ToLower(key)]
}

// Redact returns a deep copy of doc with sensitive values masked.
func Redact(doc map[string]any) map[string]any {
	if doc == nil {
		return nil
	}
	return redactValue(doc).(map[string]any)
}

func redactValue(v any) any {
	switch node := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(node))
		for k, child := range node {
			if IsSensitiveKey(k) {
				out[k] = redacted
				continue
			}
			out[k] = redactValue(child)
		}
		return out
	case []any:
		out := make([]any, len(node))
		for i, child := range node {
			out[i] = redactValue(child)
		}
		return out
	default:
		return v
	}
}
