// Package app assembles the certification services described by a Config.
// cmd/api, cmd/worker and cmd/fnectl all start from New.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/imrishuroy/fne-certify/internal/aws"
	"github.com/imrishuroy/fne-certify/internal/cache"
	"github.com/imrishuroy/fne-certify/internal/certifications"
	"github.com/imrishuroy/fne-certify/internal/config"
	"github.com/imrishuroy/fne-certify/internal/idempotency"
	"github.com/imrishuroy/fne-certify/internal/service"
	"github.com/imrishuroy/fne-certify/internal/transport"
)

// App holds the wired services.
type App struct {
	Config    *config.Config
	Invoices  *service.InvoiceService
	Purchases *service.PurchaseService
	Refunds   *service.RefundService

	// Finder is nil when storage.driver is none.
	Finder certifications.Finder
	// Jobs is nil unless worker.jobs_table is set.
	Jobs *idempotency.Store

	closers []func() error
}

// New builds the App, creating AWS clients only when the config needs them.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	var clients *aws.AWSClients
	if cfg.NeedsAWS() {
		var err error
		clients, err = aws.NewAWSClients(ctx)
		if err != nil {
			return nil, fmt.Errorf("init aws clients: %w", err)
		}
	}
	return NewWithClients(ctx, cfg, logger, clients, nil)
}

// NewWithClients builds the App on existing clients. A nil sender uses the
// default HTTP sender.
func NewWithClients(ctx context.Context, cfg *config.Config, logger *slog.Logger, clients *aws.AWSClients, sender transport.Sender) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if clients == nil && cfg.NeedsAWS() {
		return nil, errors.New("aws clients are required by this configuration")
	}

	a := &App{Config: cfg}
	client := transport.NewClient(sender, cfg.BaseURL, cfg.APIKey,
		transport.WithTimeout(cfg.RequestTimeout()),
		transport.WithRetry(cfg.RetryPolicy()),
		transport.WithLogger(logger))

	deps := service.Dependencies{
		Client:       client,
		CacheEnabled: cfg.Cache.Enabled,
		CacheTTL:     cfg.CacheTTL(),
		Timeout:      cfg.RequestTimeout(),
		Logger:       logger,
	}

	if cfg.Cache.Backend == "dynamodb" {
		deps.Cache = cache.NewDynamo(clients.DynamoDB, cfg.Cache.Table)
	} else {
		deps.Cache = cache.NewMemory()
	}

	switch cfg.Storage.Driver {
	case "dynamodb":
		r := certifications.NewDynamoRecorder(clients.DynamoDB, cfg.Storage.Table)
		deps.Recorder, a.Finder = r, r
	case "postgres":
		db, err := certifications.OpenPostgres(ctx, cfg.Storage.DSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		r := certifications.NewPostgresRecorder(db)
		deps.Recorder, a.Finder = r, r
	}

	if cfg.Events.QueueURL != "" {
		deps.Events = aws.NewPublisher(clients.SQS, cfg.Events.QueueURL)
	}
	if cfg.Metrics.Namespace != "" {
		deps.Metrics = aws.NewMetrics(clients.CloudWatch, cfg.Metrics.Namespace)
	}
	if cfg.Worker.JobsTable != "" {
		a.Jobs = idempotency.NewStore(clients.DynamoDB, cfg.Worker.JobsTable, cfg.JobTTL())
	}

	a.Invoices = service.NewInvoiceService(deps, cfg.Mapping.Invoice)
	a.Purchases = service.NewPurchaseService(deps, cfg.Mapping.Purchase)
	a.Refunds = service.NewRefundService(deps, cfg.Mapping.Refund)
	return a, nil
}

// Close releases database connections.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
