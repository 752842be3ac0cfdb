package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"

	"github.com/imrishuroy/fne-certify/internal/fne"
	"github.com/imrishuroy/fne-certify/internal/service"
	"github.com/imrishuroy/fne-certify/internal/validation"
)

// --- mock implementations ---

type mockServices struct {
	resp  *fne.Response
	err   error
	calls []string
	ids   []string
}

func (m *mockServices) Sign(_ context.Context, _ map[string]any, _ ...service.CallOption) (*fne.Response, error) {
	m.calls = append(m.calls, "invoice")
	return m.resp, m.err
}

func (m *mockServices) Submit(_ context.Context, _ map[string]any, _ ...service.CallOption) (*fne.Response, error) {
	m.calls = append(m.calls, "purchase")
	return m.resp, m.err
}

func (m *mockServices) IssueDocument(_ context.Context, id string, _ map[string]any, _ ...service.CallOption) (*fne.Response, error) {
	m.calls = append(m.calls, "refund")
	m.ids = append(m.ids, id)
	return m.resp, m.err
}

type mockLedger struct {
	status   map[string]string
	claimErr error
}

func newMockLedger() *mockLedger { return &mockLedger{status: map[string]string{}} }

func (l *mockLedger) Claim(_ context.Context, key, _ string) (bool, error) {
	if l.claimErr != nil {
		return false, l.claimErr
	}
	if st, ok := l.status[key]; ok && st != "FAILED" {
		return false, nil
	}
	l.status[key] = "IN_PROGRESS"
	return true, nil
}

func (l *mockLedger) MarkDone(_ context.Context, key, _ string) error {
	l.status[key] = "DONE"
	return nil
}

func (l *mockLedger) MarkFailed(_ context.Context, key, _ string) error {
	l.status[key] = "FAILED"
	return nil
}

func newTestProcessor(svc *mockServices, jobs JobLedger) *Processor {
	return &Processor{
		invoices:  svc,
		purchases: svc,
		refunds:   svc,
		jobs:      jobs,
		validate:  validation.New(),
	}
}

func event(t *testing.T, msgs ...validation.DocumentMessage) events.SQSEvent {
	t.Helper()
	ev := events.SQSEvent{}
	for i, m := range msgs {
		body, err := json.Marshal(m)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		ev.Records = append(ev.Records, events.SQSMessage{MessageId: "m" + string(rune('0'+i)), Body: string(body)})
	}
	return ev
}

// --- test cases ---

func TestWorkerProcess_DispatchesByDocumentType(t *testing.T) {
	svc := &mockServices{resp: &fne.Response{Reference: "R1"}}
	p := newTestProcessor(svc, nil)

	ev := event(t,
		validation.DocumentMessage{DocumentType: "invoice", Data: map[string]any{"a": 1}},
		validation.DocumentMessage{DocumentType: "purchase", Data: map[string]any{"a": 1}},
		validation.DocumentMessage{DocumentType: "refund", InvoiceID: "e2b2d8da-a532-4c08-9182-f5b428ca468d", Data: map[string]any{"items": []any{}}},
	)
	if err := p.Handle(context.Background(), ev); err != nil {
		t.Fatalf("unexpected worker error: %v", err)
	}
	want := []string{"invoice", "purchase", "refund"}
	if len(svc.calls) != len(want) {
		t.Fatalf("expected calls %v, got %v", want, svc.calls)
	}
	for i := range want {
		if svc.calls[i] != want[i] {
			t.Fatalf("expected calls %v, got %v", want, svc.calls)
		}
	}
	if svc.ids[0] != "e2b2d8da-a532-4c08-9182-f5b428ca468d" {
		t.Fatalf("refund invoice id not forwarded: %v", svc.ids)
	}
}

func TestWorkerProcess_DropsBadMessages(t *testing.T) {
	svc := &mockServices{resp: &fne.Response{Reference: "R1"}}
	p := newTestProcessor(svc, nil)

	ev := events.SQSEvent{Records: []events.SQSMessage{
		{MessageId: "bad-json", Body: "{"},
		{MessageId: "bad-type", Body: `{"document_type":"quote","data":{}}`},
		{MessageId: "refund-without-invoice", Body: `{"document_type":"refund","data":{}}`},
	}}
	if err := p.Handle(context.Background(), ev); err != nil {
		t.Fatalf("bad messages should be dropped, got %v", err)
	}
	if len(svc.calls) != 0 {
		t.Fatalf("no service call expected, got %v", svc.calls)
	}
}

func TestWorkerProcess_DropsValidationErrors(t *testing.T) {
	svc := &mockServices{err: &fne.ValidationError{Errors: map[string][]string{"items": {"required"}}}}
	jobs := newMockLedger()
	p := newTestProcessor(svc, jobs)

	ev := event(t, validation.DocumentMessage{DocumentType: "invoice", CorrelationID: "c1", Data: map[string]any{}})
	if err := p.Handle(context.Background(), ev); err != nil {
		t.Fatalf("validation errors should be dropped, got %v", err)
	}
	if jobs.status["c1"] != "FAILED" {
		t.Fatalf("expected job marked FAILED, got %q", jobs.status["c1"])
	}
}

func TestWorkerProcess_ReturnsServerErrors(t *testing.T) {
	svc := &mockServices{err: &fne.ServerError{Message: "HTTP Error 503", Status: 503}}
	jobs := newMockLedger()
	p := newTestProcessor(svc, jobs)

	ev := event(t, validation.DocumentMessage{DocumentType: "invoice", CorrelationID: "c2", Data: map[string]any{}})
	err := p.Handle(context.Background(), ev)
	var se *fne.ServerError
	if !errors.As(err, &se) {
		t.Fatalf("expected server error to be returned, got %v", err)
	}

	// the redelivery may claim the job again
	svc.err = nil
	svc.resp = &fne.Response{Reference: "R2"}
	if err := p.Handle(context.Background(), ev); err != nil {
		t.Fatalf("redelivery failed: %v", err)
	}
	if jobs.status["c2"] != "DONE" {
		t.Fatalf("expected DONE after redelivery, got %q", jobs.status["c2"])
	}
}

func TestWorkerProcess_SkipsDuplicateJobs(t *testing.T) {
	svc := &mockServices{resp: &fne.Response{Reference: "R1"}}
	jobs := newMockLedger()
	p := newTestProcessor(svc, jobs)

	ev := event(t, validation.DocumentMessage{DocumentType: "invoice", CorrelationID: "c3", Data: map[string]any{}})
	for range 2 {
		if err := p.Handle(context.Background(), ev); err != nil {
			t.Fatalf("unexpected worker error: %v", err)
		}
	}
	if len(svc.calls) != 1 {
		t.Fatalf("expected one certification, got %d", len(svc.calls))
	}
}

func TestWorkerProcess_ClaimErrorIsReturned(t *testing.T) {
	jobs := newMockLedger()
	jobs.claimErr = errors.New("throttled")
	p := newTestProcessor(&mockServices{}, jobs)

	ev := event(t, validation.DocumentMessage{DocumentType: "invoice", Data: map[string]any{}})
	if err := p.Handle(context.Background(), ev); err == nil {
		t.Fatalf("expected claim error")
	}
}

func TestJobKey(t *testing.T) {
	rec := events.SQSMessage{MessageId: "mid"}
	if got := jobKey(validation.DocumentMessage{CorrelationID: "corr"}, rec); got != "corr" {
		t.Fatalf("expected correlation id, got %s", got)
	}
	if got := jobKey(validation.DocumentMessage{}, rec); got != "mid" {
		t.Fatalf("expected message id, got %s", got)
	}
}
