package service

import (
	"context"

	"github.com/imrishuroy/fne-certify/internal/fne"
	"github.com/imrishuroy/fne-certify/internal/mapping"
	"github.com/imrishuroy/fne-certify/internal/transport"
	"github.com/imrishuroy/fne-certify/internal/validation"
)

// InvoiceService certifies sales invoices.
type InvoiceService struct {
	p *pipeline
}

// NewInvoiceService returns an InvoiceService. custom may be nil.
func NewInvoiceService(deps Dependencies, custom mapping.Config) *InvoiceService {
	return &InvoiceService{p: newPipeline(
		mapping.NewInvoiceMapper(custom),
		validation.NewInvoiceValidator(),
		deps,
		hooks{cacheKey: invoiceCacheKey, record: true},
	)}
}

// SetData sets the document used when Sign is called without data.
func (s *InvoiceService) SetData(data map[string]any) *InvoiceService {
	s.p.setData(data)
	return s
}

// SetModel sets the source object used when neither Sign's data nor SetData
// provide a document.
func (s *InvoiceService) SetModel(m Serializable) *InvoiceService {
	s.p.setModel(m)
	return s
}

// Sign certifies an invoice. data may be nil to fall back on SetData or
// SetModel.
func (s *InvoiceService) Sign(ctx context.Context, data map[string]any, opts ...CallOption) (*fne.Response, error) {
	s.p.logger.Info("signing invoice")
	return s.p.execute(ctx, data, transport.SignPath, opts)
}

// PurchaseService submits purchase vouchers. Their items never carry taxes.
type PurchaseService struct {
	p *pipeline
}

// NewPurchaseService returns a PurchaseService. custom may be nil.
func NewPurchaseService(deps Dependencies, custom mapping.Config) *PurchaseService {
	return &PurchaseService{p: newPipeline(
		mapping.NewPurchaseMapper(custom),
		validation.NewPurchaseValidator(),
		deps,
		hooks{
			preValidate: validation.CheckPurchaseSource,
			cacheKey:    purchaseCacheKey,
			record:      true,
		},
	)}
}

// SetData sets the document used when Submit is called without data.
func (s *PurchaseService) SetData(data map[string]any) *PurchaseService {
	s.p.setData(data)
	return s
}

// SetModel sets the source object used when neither Submit's data nor
// SetData provide a document.
func (s *PurchaseService) SetModel(m Serializable) *PurchaseService {
	s.p.setModel(m)
	return s
}

// Submit certifies a purchase voucher.
func (s *PurchaseService) Submit(ctx context.Context, data map[string]any, opts ...CallOption) (*fne.Response, error) {
	s.p.logger.Info("submitting purchase")
	return s.p.execute(ctx, data, transport.SignPath, opts)
}
