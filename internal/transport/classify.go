package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/imrishuroy/fne-certify/internal/fne"
)

// Classify returns nil for a 2xx response and the matching typed error
// otherwise.
func Classify(resp *Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body := resp.Decoded
	if body == nil {
		raw, _ := resp.payload()
		_ = json.Unmarshal(raw, &body)
	}
	msg := messageOf(body, resp.StatusCode)

	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &fne.BadRequestError{Message: msg, Fields: fieldErrorsOf(body)}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &fne.AuthenticationError{Message: msg, Status: resp.StatusCode}
	case http.StatusNotFound:
		return &fne.NotFoundError{Message: msg}
	default:
		return &fne.ServerError{Message: msg, Status: resp.StatusCode}
	}
}

// NetworkError wraps a failure that produced no response. It is retryable.
func NetworkError(err error) error {
	return &fne.ServerError{Message: "Network error: " + err.Error(), Err: err}
}

func messageOf(body map[string]any, status int) string {
	if m, ok := body["message"].(string); ok && m != "" {
		return m
	}
	switch status {
	case http.StatusBadRequest:
		return "Bad Request"
	case http.StatusUnauthorized:
		return "Unauthorized"
	case http.StatusNotFound:
		return "Not Found"
	case http.StatusInternalServerError:
		return "Internal Server Error"
	}
	return fmt.Sprintf("HTTP Error %d", status)
}

// fieldErrorsOf reads the "errors" member of an API error body. The API sends
// either {field: [messages]}, {field: message} or a bare list of messages.
func fieldErrorsOf(body map[string]any) map[string][]string {
	switch errs := body["errors"].(type) {
	case map[string]any:
		out := make(map[string][]string, len(errs))
		for field, v := range errs {
			out[field] = messages(v)
		}
		return out
	case []any:
		return map[string][]string{"_": messages(errs)}
	}
	return nil
}

func messages(v any) []string {
	switch m := v.(type) {
	case string:
		return []string{m}
	case []any:
		out := make([]string, 0, len(m))
		for _, el := range m {
			out = append(out, fmt.Sprint(el))
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]string, 0, len(keys))
		for _, k := range keys {
			out = append(out, strings.Join(messages(m[k]), " "))
		}
		return out
	}
	return []string{fmt.Sprint(v)}
}
