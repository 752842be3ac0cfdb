package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/events"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/fne-certify/internal/app"
	"github.com/imrishuroy/fne-certify/internal/fne"
	"github.com/imrishuroy/fne-certify/internal/service"
	"github.com/imrishuroy/fne-certify/internal/validation"
)

// Processor certifies documents read from SQS.
type Processor struct {
	invoices  invoiceSigner
	purchases purchaseSubmitter
	refunds   refundIssuer
	jobs      JobLedger // optional
	validate  *validatorv10.Validate
}

// NewProcessor creates a worker processor on the services of a.
func NewProcessor(a *app.App) *Processor {
	p := &Processor{
		invoices:  a.Invoices,
		purchases: a.Purchases,
		refunds:   a.Refunds,
		validate:  validation.New(),
	}
	if a.Jobs != nil {
		p.jobs = a.Jobs
	}
	return p
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Return error: Lambda will retry. If failed too many times, message goes to DLQ.
			log.Printf("[worker] error: %v", err)
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg validation.DocumentMessage
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		log.Printf("[worker] dropping malformed message id=%s: %v", rec.MessageId, err)
		return nil
	}
	if err := p.validate.Struct(msg); err != nil {
		log.Printf("[worker] dropping invalid message id=%s: %v", rec.MessageId, validation.FieldErrors(err))
		return nil
	}

	key := jobKey(msg, rec)
	log.Printf("[worker] received job=%s type=%s corr=%s", key, msg.DocumentType, msg.CorrelationID)

	if p.jobs != nil {
		claimed, err := p.jobs.Claim(ctx, key, msg.DocumentType)
		if err != nil {
			return fmt.Errorf("claim job=%s: %w", key, err)
		}
		if !claimed {
			log.Printf("[worker] duplicate job=%s, skipping", key)
			return nil
		}
	}

	resp, err := p.certify(ctx, msg)
	if err != nil {
		if p.jobs != nil {
			if merr := p.jobs.MarkFailed(ctx, key, err.Error()); merr != nil {
				log.Printf("[worker] failed to mark job=%s failed: %v", key, merr)
			}
		}
		if fne.IsRetryable(err) {
			return fmt.Errorf("certify job=%s: %w", key, err)
		}
		// retrying cannot fix mapping, validation or client errors
		log.Printf("[worker] dropping job=%s: %v %v", key, err, fne.FieldErrors(err))
		return nil
	}

	if p.jobs != nil {
		if err := p.jobs.MarkDone(ctx, key, resp.Reference); err != nil {
			log.Printf("[worker] failed to mark job=%s done: %v", key, err)
		}
	}
	log.Printf("[worker] certified job=%s reference=%s balance_sticker=%d", key, resp.Reference, resp.BalanceSticker)
	return nil
}

func (p *Processor) certify(ctx context.Context, msg validation.DocumentMessage) (*fne.Response, error) {
	opts := []service.CallOption{service.WithCorrelationID(msg.CorrelationID)}
	switch msg.DocumentType {
	case "invoice":
		return p.invoices.Sign(ctx, msg.Data, opts...)
	case "purchase":
		return p.purchases.Submit(ctx, msg.Data, opts...)
	case "refund":
		return p.refunds.IssueDocument(ctx, msg.InvoiceID, msg.Data, opts...)
	}
	return nil, &fne.BadRequestError{Message: "unknown document type " + msg.DocumentType}
}

// jobKey identifies a job across redeliveries. Producers that set a
// correlation id get deduplication across distinct messages too.
func jobKey(msg validation.DocumentMessage, rec events.SQSMessage) string {
	if msg.CorrelationID != "" {
		return msg.CorrelationID
	}
	return rec.MessageId
}
