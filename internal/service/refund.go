package service

import (
	"context"

	"github.com/imrishuroy/fne-certify/internal/fne"
	"github.com/imrishuroy/fne-certify/internal/mapping"
	"github.com/imrishuroy/fne-certify/internal/transport"
	"github.com/imrishuroy/fne-certify/internal/validation"
)

// RefundService issues refunds against certified invoices. Refunds are
// never served from the cache.
type RefundService struct {
	p *pipeline
}

// NewRefundService returns a RefundService. custom may be nil.
func NewRefundService(deps Dependencies, custom mapping.Config) *RefundService {
	return &RefundService{p: newPipeline(
		mapping.NewRefundMapper(custom),
		validation.NewRefundValidator(),
		deps,
		hooks{},
	)}
}

// SetData sets the document used when Issue is called without items.
func (s *RefundService) SetData(data map[string]any) *RefundService {
	s.p.setData(data)
	return s
}

// SetModel sets the source object used when neither items nor SetData are
// given.
func (s *RefundService) SetModel(m Serializable) *RefundService {
	s.p.setModel(m)
	return s
}

// Issue refunds items of the invoice invoiceID. Each item is
// {"id": <item uuid>, "quantity": n}.
func (s *RefundService) Issue(ctx context.Context, invoiceID string, items []any, opts ...CallOption) (*fne.Response, error) {
	var doc map[string]any
	if len(items) > 0 {
		doc = map[string]any{"items": items}
	}
	return s.IssueDocument(ctx, invoiceID, doc, opts...)
}

// IssueDocument is Issue for a document of the form {"items": [...]}.
func (s *RefundService) IssueDocument(ctx context.Context, invoiceID string, doc map[string]any, opts ...CallOption) (*fne.Response, error) {
	s.p.logger.Info("issuing refund", "invoice_id", invoiceID)
	if !fne.IsUUID(invoiceID) {
		return nil, fne.NewInvalidUUIDError("invoiceId", invoiceID)
	}
	opts = append(opts[:len(opts):len(opts)], func(c *call) { c.invoiceID = invoiceID })
	return s.p.execute(ctx, doc, transport.RefundPath(invoiceID), opts)
}
