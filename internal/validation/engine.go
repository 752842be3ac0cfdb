// Package validation checks canonical documents against per-document rule
// sets, and validates inbound request payloads with go-playground/validator.
package validation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/fne-certify/internal/dotpath"
	"github.com/imrishuroy/fne-certify/internal/fne"
)

// Outcome collects messages and failed rule names per resolved field path.
type Outcome struct {
	Errors      map[string][]string
	FailedRules map[string][]string
}

func newOutcome() *Outcome {
	return &Outcome{Errors: map[string][]string{}, FailedRules: map[string][]string{}}
}

// Add records one failure of rule on field.
func (o *Outcome) Add(field, rule, message string) {
	o.Errors[field] = append(o.Errors[field], message)
	o.FailedRules[field] = append(o.FailedRules[field], rule)
}

// Valid reports whether nothing failed.
func (o *Outcome) Valid() bool { return len(o.Errors) == 0 }

type conditionalFunc func(doc map[string]any, o *Outcome)

// Validator applies a fixed rule set and document-specific conditional
// checks to canonical documents.
type Validator struct {
	kind        string
	rules       RuleSet
	conditional conditionalFunc
}

// Kind names the document type v checks.
func (v *Validator) Kind() string { return v.kind }

// Rules returns the base rule set.
func (v *Validator) Rules() RuleSet { return v.rules }

// Check runs every rule and conditional check and returns the outcome.
func (v *Validator) Check(doc map[string]any, extra RuleSet) *Outcome {
	o := newOutcome()
	for _, fr := range v.rules.Merge(extra) {
		applyTarget(doc, fr, o)
	}
	if v.conditional != nil {
		v.conditional(doc, o)
	}
	return o
}

// Validate returns a *fne.ValidationError when doc breaks at least one rule.
func (v *Validator) Validate(doc map[string]any, extra RuleSet) error {
	o := v.Check(doc, extra)
	if o.Valid() {
		return nil
	}
	return &fne.ValidationError{
		Errors:      o.Errors,
		FailedRules: o.FailedRules,
		Data:        fne.Redact(doc),
	}
}

func applyTarget(doc map[string]any, fr FieldRules, o *Outcome) {
	switch t := ParseTarget(fr.Path).(type) {
	case Field:
		v, _ := dotpath.Get(doc, t.Path)
		applyRules(t.Path, v, fr.Rules, o)
	case Each:
		for i, el := range listAt(doc, t.Parent) {
			field := fmt.Sprintf("%s.%d.%s", t.Parent, i, t.Child)
			var v any
			if m, ok := el.(map[string]any); ok {
				v, _ = dotpath.Get(m, t.Child)
			}
			applyRules(field, v, fr.Rules, o)
		}
	case EachEach:
		for i, el := range listAt(doc, t.Parent) {
			m, ok := el.(map[string]any)
			if !ok {
				continue
			}
			for j, leaf := range listAt(m, t.Child) {
				field := fmt.Sprintf("%s.%d.%s.%d", t.Parent, i, t.Child, j)
				applyRules(field, leaf, fr.Rules, o)
			}
		}
	}
}

func listAt(doc map[string]any, path string) []any {
	v, _ := dotpath.Get(doc, path)
	l, _ := v.([]any)
	return l
}

// applyRules evaluates every rule; a failure does not stop the others.
func applyRules(field string, value any, rules []Rule, o *Outcome) {
	for _, r := range rules {
		if msg, failed := check(field, value, r); failed {
			o.Add(field, r.Name, msg)
		}
	}
}

func check(field string, value any, r Rule) (string, bool) {
	switch r.Name {
	case "required":
		if isEmpty(value) {
			return fmt.Sprintf("The %s field is required.", field), true
		}
	case "string":
		if _, ok := value.(string); value != nil && !ok {
			return fmt.Sprintf("The %s field must be a string.", field), true
		}
	case "numeric":
		if value != nil && !isNumeric(value) {
			return fmt.Sprintf("The %s field must be numeric.", field), true
		}
	case "email":
		if value != nil && !isEmail(value) {
			return fmt.Sprintf("The %s field must be a valid email address.", field), true
		}
	case "boolean":
		if _, ok := value.(bool); value != nil && !ok {
			return fmt.Sprintf("The %s field must be a boolean.", field), true
		}
	case "array":
		if value != nil && !isArray(value) {
			return fmt.Sprintf("The %s field must be an array.", field), true
		}
	case "min":
		bound := parseBound(r.Arg)
		if value != nil && isNumeric(value) && toFloat(value) < bound {
			return fmt.Sprintf("The %s field must be at least %s.", field, formatBound(bound)), true
		}
	case "max":
		bound := parseBound(r.Arg)
		if value != nil && isNumeric(value) && toFloat(value) > bound {
			return fmt.Sprintf("The %s field must not exceed %s.", field, formatBound(bound)), true
		}
	case "in":
		if value == nil || r.Arg == "" {
			return "", false
		}
		allowed := strings.Split(r.Arg, ",")
		s := scalarString(value)
		for _, a := range allowed {
			if a == s {
				return "", false
			}
		}
		return fmt.Sprintf("The %s field must be one of: %s.", field, strings.Join(allowed, ", ")), true
	case "uuid":
		if value != nil && !fne.IsUUID(scalarString(value)) {
			return fmt.Sprintf("The %s field must be a valid UUID.", field), true
		}
	}
	return "", false
}

func isEmpty(v any) bool {
	switch s := v.(type) {
	case nil:
		return true
	case string:
		return s == ""
	case []any:
		return len(s) == 0
	case map[string]any:
		return len(s) == 0
	}
	return false
}

func isArray(v any) bool {
	switch v.(type) {
	case []any, map[string]any:
		return true
	}
	return false
}

var numericString = regexp.MustCompile(`^\s*[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?\s*$`)

func isNumeric(v any) bool {
	switch n := v.(type) {
	case float64, float32, int, int64, int32:
		return true
	case json.Number:
		return true
	case string:
		return numericString.MatchString(n)
	}
	return false
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
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f
	}
	return 0
}

func parseBound(arg string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(arg), 64)
	return f
}

func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// scalarString renders v the way it is compared against "in" lists: true is
// "1", false is "" and whole floats drop their fraction.
func scalarString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case bool:
		if s {
			return "1"
		}
		return ""
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	}
	return fmt.Sprint(v)
}

var fieldValidator = validatorv10.New()

func isEmail(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	return fieldValidator.Var(s, "required,email") == nil
}
