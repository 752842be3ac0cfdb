// Package service runs ERP documents through mapping, validation, the
// response cache and the FNE API, one document type per service.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/imrishuroy/fne-certify/internal/aws"
	"github.com/imrishuroy/fne-certify/internal/cache"
	"github.com/imrishuroy/fne-certify/internal/certifications"
	"github.com/imrishuroy/fne-certify/internal/fne"
	"github.com/imrishuroy/fne-certify/internal/mapping"
	"github.com/imrishuroy/fne-certify/internal/validation"
)

// Poster sends a canonical document to an FNE endpoint. *transport.Client
// implements it.
type Poster interface {
	PostWithTimeout(ctx context.Context, path string, body any, timeout time.Duration) (map[string]any, error)
}

// EventPublisher announces certifications. *aws.Publisher implements it.
type EventPublisher interface {
	PublishCertification(ctx context.Context, ev aws.CertificationEvent) error
}

// MetricsRecorder receives certification metrics. *aws.Metrics implements it.
type MetricsRecorder interface {
	CertificationCount(ctx context.Context, documentType string) error
	CacheHit(ctx context.Context, documentType string) error
	StickerBalance(ctx context.Context, balance int64) error
}

// Dependencies groups what a service needs. Only Client is required.
type Dependencies struct {
	Client       Poster
	Cache        cache.Cache
	CacheEnabled bool
	CacheTTL     time.Duration
	Timeout      time.Duration

	// Recorder stores an audit row per certified invoice or purchase.
	Recorder certifications.Recorder
	Events   EventPublisher
	Metrics  MetricsRecorder
	Logger   *slog.Logger
}

// CallOption adjusts a single certification call.
type CallOption func(*call)

type call struct {
	timeout       time.Duration
	correlationID string
	invoiceID     string
}

// WithCallTimeout overrides the configured request timeout for one call.
func WithCallTimeout(d time.Duration) CallOption { return func(c *call) { c.timeout = d } }

// WithCorrelationID tags the published event of one call.
func WithCorrelationID(id string) CallOption { return func(c *call) { c.correlationID = id } }

// hooks are the per-document-type parts of the pipeline.
type hooks struct {
	preValidate func(raw map[string]any) error
	extraRules  func() validation.RuleSet
	cacheKey    func(doc map[string]any) string
	record      bool
}

// pipeline is shared by the three services. The context data and model set
// through SetData and SetModel are guarded by mu; everything else is
// read-only after construction.
type pipeline struct {
	kind      string
	mapper    *mapping.Mapper
	validator *validation.Validator
	deps      Dependencies
	hooks     hooks
	logger    *slog.Logger

	mu    sync.Mutex
	data  map[string]any
	model Serializable
}

func newPipeline(mapper *mapping.Mapper, validator *validation.Validator, deps Dependencies, h hooks) *pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if h.preValidate == nil {
		h.preValidate = func(map[string]any) error { return nil }
	}
	if h.extraRules == nil {
		h.extraRules = func() validation.RuleSet { return nil }
	}
	if h.cacheKey == nil {
		h.cacheKey = func(map[string]any) string { return "" }
	}
	kind := string(mapper.Kind())
	return &pipeline{
		kind:      kind,
		mapper:    mapper,
		validator: validator,
		deps:      deps,
		hooks:     h,
		logger:    logger.With("document_type", kind),
	}
}

func (p *pipeline) setData(data map[string]any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data = data
}

func (p *pipeline) setModel(m Serializable) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.model = m
}

// resolve picks the document to certify: explicit data first, then the
// data set with SetData, then the model set with SetModel.
func (p *pipeline) resolve(explicit map[string]any) (map[string]any, error) {
	if len(explicit) > 0 {
		return explicit, nil
	}
	p.mu.Lock()
	data, model := p.data, p.model
	p.mu.Unlock()

	if len(data) > 0 {
		return data, nil
	}
	if model != nil {
		if m := modelData(model); len(m) > 0 {
			return m, nil
		}
	}
	return nil, &fne.BadRequestError{
		Message: "no " + p.kind + " data available: pass it to the call, or use SetData or SetModel first",
		Err:     fne.ErrNoData,
	}
}

// execute maps, validates and sends the document, serving it from the cache
// when an identical one was certified within the TTL.
func (p *pipeline) execute(ctx context.Context, explicit map[string]any, path string, opts []CallOption) (*fne.Response, error) {
	c := call{timeout: p.deps.Timeout}
	for _, o := range opts {
		o(&c)
	}

	raw, err := p.resolve(explicit)
	if err != nil {
		return nil, err
	}
	if err := p.hooks.preValidate(raw); err != nil {
		return nil, err
	}

	doc, err := p.mapper.Map(raw)
	if err != nil {
		return nil, fne.WrapMappingError(err)
	}
	if err := p.validator.Validate(doc, p.hooks.extraRules()); err != nil {
		return nil, err
	}

	key := p.hooks.cacheKey(doc)
	useCache := p.deps.CacheEnabled && p.deps.Cache != nil && key != ""
	if useCache {
		if hit, ok := p.cached(ctx, key); ok {
			return fne.ResponseFromMap(hit), nil
		}
	}

	p.logger.Debug("fne request", "method", "POST", "path", path)
	result, err := p.deps.Client.PostWithTimeout(ctx, path, doc, c.timeout)
	if err != nil {
		return nil, err
	}

	if useCache && result != nil {
		if err := p.deps.Cache.Set(ctx, key, result, p.deps.CacheTTL); err != nil {
			p.logger.Warn("cache store failed", "key", key, "error", err)
		} else {
			p.logger.Debug("cached response", "key", key, "ttl", p.deps.CacheTTL)
		}
	}

	resp := fne.ResponseFromMap(result)
	p.certified(ctx, resp, doc, c)
	return resp, nil
}

// cached returns the stored result for key. Backend failures are logged and
// treated as a miss.
func (p *pipeline) cached(ctx context.Context, key string) (map[string]any, bool) {
	ok, err := p.deps.Cache.Has(ctx, key)
	if err != nil {
		p.logger.Warn("cache lookup failed", "key", key, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	hit, err := p.deps.Cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			p.logger.Warn("cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	p.logger.Debug("cache hit", "key", key)
	if p.deps.Metrics != nil {
		if err := p.deps.Metrics.CacheHit(ctx, p.kind); err != nil {
			p.logger.Warn("metrics failed", "error", err)
		}
	}
	return hit, true
}

// certified runs the best-effort side effects of a new certification.
// None of them can fail the call.
func (p *pipeline) certified(ctx context.Context, resp *fne.Response, doc map[string]any, c call) {
	if p.hooks.record && p.deps.Recorder != nil && resp.IsInvoice() {
		if err := p.deps.Recorder.Save(ctx, resp, doc); err != nil {
			p.logger.Warn("failed to save certification", "reference", resp.Reference, "error", err)
		}
	}

	if p.deps.Events != nil {
		ev := aws.CertificationEvent{
			DocumentType:   p.kind,
			Reference:      resp.Reference,
			NCC:            resp.NCC,
			BalanceSticker: resp.BalanceSticker,
			Warning:        resp.Warning,
			CorrelationID:  c.correlationID,
		}
		if resp.Invoice != nil {
			ev.InvoiceID = resp.Invoice.ID
		} else {
			ev.InvoiceID = c.invoiceID
		}
		if err := p.deps.Events.PublishCertification(ctx, ev); err != nil {
			p.logger.Warn("failed to publish certification event", "reference", resp.Reference, "error", err)
		}
	}

	if p.deps.Metrics != nil {
		if err := p.deps.Metrics.CertificationCount(ctx, p.kind); err != nil {
			p.logger.Warn("metrics failed", "error", err)
		}
		if err := p.deps.Metrics.StickerBalance(ctx, resp.BalanceSticker); err != nil {
			p.logger.Warn("metrics failed", "error", err)
		}
	}

	if resp.Warning {
		p.logger.Warn("sticker balance is low", "balance_sticker", resp.BalanceSticker)
	}
}
