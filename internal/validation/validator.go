package validation

import (
	"reflect"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a request validator with the struct-level checks registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// report json names so field errors match the payload keys
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterStructValidation(refundStructValidation, RefundRequest{})
	v.RegisterStructValidation(documentMessageStructValidation, DocumentMessage{})

	return v
}

// refundStructValidation rejects a request that refunds the same item twice.
func refundStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(RefundRequest)

	seen := make(map[string]bool, len(req.Items))
	for _, it := range req.Items {
		id := strings.ToLower(it.ID)
		if seen[id] {
			sl.ReportError(req.Items, "items", "Items", "unique_ids", it.ID)
			return
		}
		seen[id] = true
	}
}

// documentMessageStructValidation requires the target invoice of a refund.
func documentMessageStructValidation(sl validatorv10.StructLevel) {
	msg := sl.Current().Interface().(DocumentMessage)
	if msg.DocumentType == "refund" && msg.InvoiceID == "" {
		sl.ReportError(msg.InvoiceID, "invoice_id", "InvoiceID", "required_for_refund", "")
	}
}
