// Package mapping turns ERP-shaped documents into the canonical documents
// expected by the FNE API.
//
// Every mapper runs the same stages: snake_case keys are rewritten to
// camelCase, the configured custom mapping is overlaid, scalar values are
// normalized, and finally a document-specific shape is emitted.
package mapping

import (
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/imrishuroy/fne-certify/internal/dotpath"
)

// Config maps canonical field names (possibly dotted) to dot-paths in the ERP
// document.
type Config map[string]string

// Kind names the document type a Mapper produces.
type Kind string

const (
	KindInvoice  Kind = "invoice"
	KindPurchase Kind = "purchase"
	KindRefund   Kind = "refund"
)

type shapeFunc func(doc map[string]any) (map[string]any, error)

// Mapper is a pure transform from ERP documents to canonical documents. It
// holds no mutable state and is safe for concurrent use.
type Mapper struct {
	kind   Kind
	custom Config
	shape  shapeFunc
}

// NewInvoiceMapper returns the mapper for sales invoices.
func NewInvoiceMapper(custom Config) *Mapper {
	return &Mapper{kind: KindInvoice, custom: custom, shape: shapeInvoice}
}

// NewPurchaseMapper returns the mapper for purchase vouchers.
func NewPurchaseMapper(custom Config) *Mapper {
	return &Mapper{kind: KindPurchase, custom: custom, shape: shapePurchase}
}

// NewRefundMapper returns the mapper for refunds.
func NewRefundMapper(custom Config) *Mapper {
	return &Mapper{kind: KindRefund, custom: custom, shape: shapeRefund}
}

// Kind returns the document type produced by m.
func (m *Mapper) Kind() Kind { return m.kind }

// Map transforms src. src is never modified.
func (m *Mapper) Map(src map[string]any) (map[string]any, error) {
	doc, _ := dotpath.CamelKeys(src).(map[string]any)
	if doc == nil {
		doc = map[string]any{}
	}
	if len(m.custom) > 0 {
		doc = applyCustom(doc, m.custom)
	}
	doc, _ = normalize(doc).(map[string]any)
	return m.shape(doc)
}

func applyCustom(doc map[string]any, custom Config) map[string]any {
	fields := make([]string, 0, len(custom))
	for f := range custom {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	mapped := map[string]any{}
	for _, field := range fields {
		src := custom[field]
		v, ok := dotpath.Get(doc, src)
		if !ok {
			// keys were camelized, so accept paths written against the raw ERP names
			v, ok = dotpath.Get(doc, camelPath(src))
		}
		if !ok {
			continue
		}
		dotpath.Set(mapped, field, v)
	}
	return dotpath.Merge(doc, mapped)
}

func camelPath(path string) string {
	segs := strings.Split(path, ".")
	for i, s := range segs {
		segs[i] = dotpath.Camel(s)
	}
	return strings.Join(segs, ".")
}

var (
	numericPattern = regexp.MustCompile(`^\s*[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?\s*$`)
	// digit strings with a leading zero are identifiers (phone numbers,
	// point-of-sale codes), not quantities
	zeroPrefixed = regexp.MustCompile(`^\s*[+-]?0\d`)
)

// normalize unwraps named scalar types, then coerces boolean-like and
// numeric-looking strings.
func normalize(v any) any {
	switch node := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(node))
		for k, child := range node {
			out[k] = normalize(child)
		}
		return out
	case []any:
		out := make([]any, len(node))
		for i, child := range node {
			out[i] = normalize(child)
		}
		return out
	case nil, bool, float64, int, int64:
		return v
	case string:
		return normalizeString(node)
	default:
		p := primitive(v)
		if s, ok := p.(string); ok {
			return normalizeString(s)
		}
		return p
	}
}

// primitive converts values of named types such as fne.PaymentMethod to the
// underlying primitive.
func primitive(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	}
	return v
}

func normalizeString(s string) any {
	switch strings.ToLower(s) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off", "":
		return false
	}
	if !numericPattern.MatchString(s) || zeroPrefixed.MatchString(s) {
		return s
	}
	t := strings.TrimSpace(s)
	if !strings.Contains(t, ".") {
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return s
	}
	return f
}
