package mapping

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/imrishuroy/fne-certify/internal/fne"
)

// text renders a normalized scalar back to a string. Empty strings were
// normalized to false, so false maps back to "". Maps and lists are returned
// unchanged for the validator to reject.
func text(v any) any {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case bool:
		if s {
			return "1"
		}
		return ""
	case int64:
		return strconv.FormatInt(s, 10)
	case int:
		return strconv.Itoa(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return v
}

func isBlank(v any) bool {
	switch s := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(s) == ""
	case bool:
		return !s
	case []any:
		return len(s) == 0
	case map[string]any:
		return len(s) == 0
	}
	return false
}

// number converts v to float64. def is used when v is absent. Values that
// cannot be read as a number are returned unchanged.
func number(v any, def float64) any {
	switch n := v.(type) {
	case nil:
		return def
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	case bool:
		if n {
			return 1.0
		}
		return 0.0
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return v
		}
		return f
	}
	return v
}

// discount is a percentage clamped to [0, 100].
func discount(v any) any {
	f, ok := number(v, 0).(float64)
	if !ok {
		return v
	}
	return max(0, min(100, f))
}

func mapPaymentMethod(v any) (string, error) {
	return mapEnum("paymentMethod", v, func(s string) (string, error) {
		pm, err := fne.ParsePaymentMethod(s)
		return string(pm), err
	})
}

func mapTemplate(v any) (string, error) {
	return mapEnum("template", v, func(s string) (string, error) {
		t, err := fne.ParseInvoiceTemplate(s)
		return string(t), err
	})
}

// mapEnum resolves an enumerated field. Blank values map to "" so that the
// validator reports the field as required.
func mapEnum(field string, v any, parse func(string) (string, error)) (string, error) {
	switch v.(type) {
	case map[string]any, []any:
		return "", &fne.MappingError{
			Kind:    fne.MappingInvalidType,
			Field:   field,
			Value:   v,
			Message: fmt.Sprintf("%s must be a scalar value, got %T", field, v),
		}
	}
	if isBlank(v) {
		return "", nil
	}
	s, _ := text(v).(string)
	out, err := parse(s)
	if err != nil {
		return "", &fne.MappingError{
			Kind:    fne.MappingInvalidEnum,
			Field:   field,
			Value:   v,
			Message: err.Error(),
			Err:     err,
		}
	}
	return out, nil
}

// records reads a list of objects. A blank value is an empty list.
func records(field string, v any) ([]map[string]any, error) {
	if isBlank(v) {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s must be a list, got %T", field, v)
	}
	out := make([]map[string]any, 0, len(list))
	for i, el := range list {
		m, ok := el.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s.%d must be an object, got %T", field, i, el)
		}
		out = append(out, m)
	}
	return out, nil
}
