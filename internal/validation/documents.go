package validation

import (
	"fmt"
	"strings"

	"github.com/imrishuroy/fne-certify/internal/fne"
)

const itemsHint = "Hint: make sure the items relation is loaded before certifying the invoice."

func inList[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return "in:" + strings.Join(parts, ",")
}

func headerRules(invoiceTypes string) RuleSet {
	return RuleSet{
		{"invoiceType", Rules("required", invoiceTypes)},
		{"paymentMethod", Rules("required", inList(fne.PaymentMethods))},
		{"template", Rules("required", inList(fne.Templates))},
		{"isRne", Rules("required", "boolean")},
		{"clientCompanyName", Rules("required", "string")},
		{"clientPhone", Rules("required")},
		{"clientEmail", Rules("required", "email")},
		{"pointOfSale", Rules("required", "string")},
		{"establishment", Rules("required", "string")},
		{"items", Rules("required", "array", "min:1")},
		{"items.*.description", Rules("required", "string")},
		{"items.*.quantity", Rules("required", "numeric", "min:0.01")},
		{"items.*.amount", Rules("required", "numeric", "min:0")},
	}
}

// NewInvoiceValidator validates sales invoices.
func NewInvoiceValidator() *Validator {
	rules := append(headerRules(inList([]fne.InvoiceType{fne.InvoiceTypeSale, fne.InvoiceTypePurchase})),
		FieldRules{"items.*.taxes", Rules("required", "array", "min:1")},
		FieldRules{"items.*.taxes.*", Rules("required", inList(fne.TaxTypes))},
	)
	return &Validator{kind: "invoice", rules: rules, conditional: invoiceConditional}
}

// NewPurchaseValidator validates purchase vouchers. Items must not carry
// taxes.
func NewPurchaseValidator() *Validator {
	rules := headerRules(inList([]fne.InvoiceType{fne.InvoiceTypePurchase}))
	return &Validator{kind: "purchase", rules: rules, conditional: purchaseConditional}
}

// NewRefundValidator validates refund requests.
func NewRefundValidator() *Validator {
	rules := RuleSet{
		{"items", Rules("required", "array", "min:1")},
		{"items.*.id", Rules("required", "uuid")},
		{"items.*.quantity", Rules("required", "numeric", "min:0.01")},
	}
	return &Validator{kind: "refund", rules: rules, conditional: refundConditional}
}

func invoiceConditional(doc map[string]any, o *Outcome) {
	if doc["template"] == string(fne.TemplateB2B) && isBlank(doc["clientNcc"]) {
		o.Add("clientNcc", "required_if:template,B2B", "The client ncc field is required when template is B2B.")
	}
	rneAndCurrency(doc, o)

	if doc["invoiceType"] == string(fne.InvoiceTypeSale) {
		items, _ := doc["items"].([]any)
		if isBlank(doc["items"]) {
			o.Add("items", "required_for_sale", "Items are required for sale invoices.")
			o.Add("items", "required_for_sale", itemsHint)
		}
		for i, el := range items {
			item, _ := el.(map[string]any)
			if isBlank(item["taxes"]) {
				o.Add(fmt.Sprintf("items.%d.taxes", i), "required_for_sale", "Taxes are required for sale invoice items.")
			}
		}
	}

	if items, ok := doc["items"].([]any); ok {
		for i, el := range items {
			item, _ := el.(map[string]any)
			checkCustomTaxes(fmt.Sprintf("items.%d.customTaxes", i), item["customTaxes"], o)
		}
	}
	checkCustomTaxes("customTaxes", doc["customTaxes"], o)
}

func purchaseConditional(doc map[string]any, o *Outcome) {
	rneAndCurrency(doc, o)
	items, _ := doc["items"].([]any)
	for i, el := range items {
		item, _ := el.(map[string]any)
		if !isBlank(item["taxes"]) {
			o.Add(fmt.Sprintf("items.%d.taxes", i), "prohibited", "Taxes are not allowed for purchase invoices.")
		}
	}
}

func refundConditional(doc map[string]any, o *Outcome) {
	items, _ := doc["items"].([]any)
	for i, el := range items {
		item, _ := el.(map[string]any)
		q, ok := item["quantity"]
		if !ok || q == nil {
			q = 0
		}
		if !isNumeric(q) || toFloat(q) <= 0 {
			o.Add(fmt.Sprintf("items.%d.quantity", i), "gt:0", "The quantity must be greater than 0.")
		}
	}
}

func rneAndCurrency(doc map[string]any, o *Outcome) {
	if doc["isRne"] == true && isBlank(doc["rne"]) {
		o.Add("rne", "required_if:isRne,true", "The rne field is required when isRne is true.")
	}
	if !isBlank(doc["foreignCurrency"]) {
		if rate, ok := doc["foreignCurrencyRate"]; !ok || rate == nil || rate == "" {
			o.Add("foreignCurrencyRate", "required_with:foreignCurrency",
				"The foreign currency rate field is required when foreign currency is provided.")
		}
	}
}

func checkCustomTaxes(prefix string, v any, o *Outcome) {
	list, _ := v.([]any)
	for j, el := range list {
		ct, _ := el.(map[string]any)
		if isBlank(ct["name"]) {
			o.Add(fmt.Sprintf("%s.%d.name", prefix, j), "required", "The name field is required for custom taxes.")
		}
		if amount, ok := ct["amount"]; !ok || amount == nil || !isNumeric(amount) {
			o.Add(fmt.Sprintf("%s.%d.amount", prefix, j), "numeric", "The amount field is required and must be numeric for custom taxes.")
		}
	}
}

// isBlank follows the loose emptiness used by conditional checks: nil, "",
// "0", false, 0 and empty collections are blank.
func isBlank(v any) bool {
	switch s := v.(type) {
	case nil:
		return true
	case string:
		return s == "" || s == "0"
	case bool:
		return !s
	case float64:
		return s == 0
	case int:
		return s == 0
	case int64:
		return s == 0
	case []any:
		return len(s) == 0
	case map[string]any:
		return len(s) == 0
	}
	return false
}

// CheckPurchaseSource rejects a raw purchase document whose items carry a
// taxes key, before any mapping happens.
func CheckPurchaseSource(raw map[string]any) error {
	o := newOutcome()
	var items []map[string]any
	switch list := raw["items"].(type) {
	case []any:
		for _, el := range list {
			item, _ := el.(map[string]any)
			items = append(items, item)
		}
	case []map[string]any:
		items = list
	}
	for i, item := range items {
		if _, ok := item["taxes"]; ok {
			o.Add(fmt.Sprintf("items.%d.taxes", i), "prohibited", "Taxes are not allowed for purchase invoices.")
		}
	}
	if o.Valid() {
		return nil
	}
	return &fne.ValidationError{Errors: o.Errors, FailedRules: o.FailedRules, Data: fne.Redact(raw)}
}
