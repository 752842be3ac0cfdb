package aws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// CertificationEvent is published after the API certified a document.
type CertificationEvent struct {
	DocumentType   string `json:"document_type"`
	Reference      string `json:"reference"`
	NCC            string `json:"ncc,omitempty"`
	InvoiceID      string `json:"invoice_id,omitempty"`
	BalanceSticker int64  `json:"balance_sticker"`
	Warning        bool   `json:"warning"`
	CorrelationID  string `json:"correlation_id,omitempty"`
}

// Publisher wraps an SQS client and a queue URL.
type Publisher struct {
	SQS      SQSAPI
	QueueURL string
}

// NewPublisher returns a Publisher bound to a queue URL.
func NewPublisher(sqsClient SQSAPI, queueURL string) *Publisher {
	return &Publisher{
		SQS:      sqsClient,
		QueueURL: queueURL,
	}
}

// PublishCertification sends ev as JSON. The document type and reference are
// duplicated as message attributes for subscription filters.
func (p *Publisher) PublishCertification(ctx context.Context, ev CertificationEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	attrs := map[string]string{
		"document_type": ev.DocumentType,
		"reference":     ev.Reference,
	}
	if ev.CorrelationID != "" {
		attrs["correlation_id"] = ev.CorrelationID
	}
	return p.SendMessage(ctx, string(body), attrs)
}

// SendMessage sends messageBody to the queue. attributes are sent as String
// MessageAttributes.
func (p *Publisher) SendMessage(ctx context.Context, messageBody string, attributes map[string]string) error {
	input := &sqs.SendMessageInput{
		QueueUrl:    &p.QueueURL,
		MessageBody: &messageBody,
	}
	if len(attributes) > 0 {
		msgAttrs := map[string]sqstypes.MessageAttributeValue{}
		for k, v := range attributes {
			if v == "" {
				continue
			}
			msgAttrs[k] = sqstypes.MessageAttributeValue{
				DataType:    awsString("String"),
				StringValue: awsString(v),
			}
		}
		input.MessageAttributes = msgAttrs
	}

	_, err := p.SQS.SendMessage(ctx, input)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// awsString helper
func awsString(s string) *string { return &s }
