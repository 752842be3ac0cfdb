package main

import (
	"context"

	"github.com/imrishuroy/fne-certify/internal/fne"
	"github.com/imrishuroy/fne-certify/internal/service"
)

type invoiceSigner interface {
	Sign(ctx context.Context, data map[string]any, opts ...service.CallOption) (*fne.Response, error)
}

type purchaseSubmitter interface {
	Submit(ctx context.Context, data map[string]any, opts ...service.CallOption) (*fne.Response, error)
}

type refundIssuer interface {
	IssueDocument(ctx context.Context, invoiceID string, doc map[string]any, opts ...service.CallOption) (*fne.Response, error)
}

// JobLedger tracks which jobs were handled. *idempotency.Store implements it.
type JobLedger interface {
	Claim(ctx context.Context, key, documentType string) (bool, error)
	MarkDone(ctx context.Context, key, reference string) error
	MarkFailed(ctx context.Context, key, note string) error
}
