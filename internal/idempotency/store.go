// Package idempotency records which queued certification jobs were already
// handled, so a redelivered SQS message does not certify a document twice.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/imrishuroy/fne-certify/internal/aws"
)

// claimCondition lets a job be claimed when it is new or its last attempt
// failed.
const claimCondition = "attribute_not_exists(job_key) OR #s = :failed"

// Store encapsulates job claims against DynamoDB.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	ttlWindow time.Duration // how long a record blocks duplicates
	nowFunc   func() time.Time
}

// NewStore returns a configured Store.
// ttlWindow should cover the queue's retention period (e.g. 48*time.Hour).
func NewStore(client aws.DynamoDBAPI, tableName string, ttlWindow time.Duration) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		ttlWindow: ttlWindow,
		nowFunc:   time.Now,
	}
}

// Claim creates an IN_PROGRESS record for key.
// Returns (true, nil) when the caller owns the job.
// Returns (false, nil) when the job is in progress elsewhere or already done.
func (s *Store) Claim(ctx context.Context, key, documentType string) (bool, error) {
	now := s.nowFunc().UTC()
	rec := JobRecord{
		JobKey:       key,
		Status:       StatusInProgress,
		DocumentType: documentType,
		CreatedAt:    now,
		UpdatedAt:    now,
		ExpiresAt:    now.Add(s.ttlWindow).Unix(),
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return false, fmt.Errorf("marshal record: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:                &s.tableName,
		Item:                     item,
		ConditionExpression:      awsString(claimCondition),
		ExpressionAttributeNames: map[string]string{"#s": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":failed": &types.AttributeValueMemberS{Value: StatusFailed},
		},
	})
	if err != nil {
		if isConditionFailed(err) {
			return false, nil
		}
		return false, fmt.Errorf("put item: %w", err)
	}
	return true, nil
}

func isConditionFailed(err error) bool {
	var ae smithy.APIError
	return errors.As(err, &ae) && ae.ErrorCode() == "ConditionalCheckFailedException"
}

// Get retrieves a job record by key. If not found, returns (nil, nil).
func (s *Store) Get(ctx context.Context, key string) (*JobRecord, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName:      &s.tableName,
		Key:            s.keyOf(key),
		ConsistentRead: awsBool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var rec JobRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	return &rec, nil
}

// MarkDone sets status to DONE and stores the FNE reference of the job.
func (s *Store) MarkDone(ctx context.Context, key, reference string) error {
	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName:        &s.tableName,
		Key:              s.keyOf(key),
		UpdateExpression: awsString("SET #s = :done, reference = :ref, updated_at = :ua"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":done": &types.AttributeValueMemberS{Value: StatusDone},
			":ref":  &types.AttributeValueMemberS{Value: reference},
			":ua":   &types.AttributeValueMemberS{Value: s.nowFunc().UTC().Format(time.RFC3339Nano)},
		},
	})
	if err != nil {
		return fmt.Errorf("update item (mark done): %w", err)
	}
	return nil
}

// MarkFailed marks the job FAILED so a redelivery may claim it again.
func (s *Store) MarkFailed(ctx context.Context, key, note string) error {
	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName:        &s.tableName,
		Key:              s.keyOf(key),
		UpdateExpression: awsString("SET #s = :failed, note = :n, updated_at = :ua"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":failed": &types.AttributeValueMemberS{Value: StatusFailed},
			":n":      &types.AttributeValueMemberS{Value: note},
			":ua":     &types.AttributeValueMemberS{Value: s.nowFunc().UTC().Format(time.RFC3339Nano)},
		},
	})
	if err != nil {
		return fmt.Errorf("update item (mark failed): %w", err)
	}
	return nil
}

func (s *Store) keyOf(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"job_key": &types.AttributeValueMemberS{Value: key},
	}
}

func awsString(s string) *string { return &s }
func awsBool(b bool) *bool       { return &b }
