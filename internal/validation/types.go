package validation

// RefundItem is one line of a refund request.
type RefundItem struct {
	ID       string  `json:"id" validate:"required,uuid"`       // certified item id
	Quantity float64 `json:"quantity" validate:"required,gt=0"` // quantity to refund
}

// RefundRequest is the payload for POST /invoices/:id/refund
type RefundRequest struct {
	Items []RefundItem `json:"items" validate:"required,min=1,dive"` // at least one item
}

// Document converts the request into the map handed to the refund pipeline.
func (r RefundRequest) Document() map[string]any {
	items := make([]any, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, map[string]any{"id": it.ID, "quantity": it.Quantity})
	}
	return map[string]any{"items": items}
}

// CertifyRequest is the payload for POST /invoices/certify and
// POST /purchases/submit. Document is the ERP-shaped invoice.
type CertifyRequest struct {
	Document  map[string]any `json:"document" validate:"required"`
	RequestID string         `json:"request_id,omitempty" validate:"omitempty,max=128"`
}

// DocumentMessage is a certification job read from the work queue.
type DocumentMessage struct {
	DocumentType  string         `json:"document_type" validate:"required,oneof=invoice purchase refund"`
	InvoiceID     string         `json:"invoice_id,omitempty" validate:"omitempty,uuid"`
	Data          map[string]any `json:"data" validate:"required"`
	CorrelationID string         `json:"correlation_id,omitempty"`
}
