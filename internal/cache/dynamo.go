package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/imrishuroy/fne-certify/internal/aws"
)

// batchGetLimit is the BatchGetItem key limit.
const batchGetLimit = 100

// Record is the shape persisted in the cache table. Value holds the decoded
// API result as JSON.
type Record struct {
	CacheKey  string    `dynamodbav:"cache_key"` // PK
	Value     string    `dynamodbav:"value"`
	CreatedAt time.Time `dynamodbav:"created_at"`
	ExpiresAt int64     `dynamodbav:"expires_at,omitempty"` // TTL epoch seconds, 0 = forever
}

// Dynamo is a Cache backed by a DynamoDB table with TTL enabled on
// expires_at. DynamoDB removes expired items lazily, so reads check the
// expiry themselves.
type Dynamo struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewDynamo returns a Dynamo cache on tableName.
func NewDynamo(client aws.DynamoDBAPI, tableName string) *Dynamo {
	return &Dynamo{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

func (d *Dynamo) keyOf(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"cache_key": &types.AttributeValueMemberS{Value: key},
	}
}

func (d *Dynamo) Has(ctx context.Context, key string) (bool, error) {
	_, err := d.Get(ctx, key)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (d *Dynamo) Get(ctx context.Context, key string) (map[string]any, error) {
	out, err := d.client.GetItem(ctx, &dyn.GetItemInput{
		TableName:      &d.tableName,
		Key:            d.keyOf(key),
		ConsistentRead: awsBool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}
	return d.decode(out.Item)
}

func (d *Dynamo) decode(item map[string]types.AttributeValue) (map[string]any, error) {
	var rec Record
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	if rec.ExpiresAt > 0 && d.nowFunc().Unix() >= rec.ExpiresAt {
		return nil, ErrNotFound
	}
	var value map[string]any
	if err := json.Unmarshal([]byte(rec.Value), &value); err != nil {
		return nil, fmt.Errorf("decode cached value: %w", err)
	}
	return value, nil
}

func (d *Dynamo) Set(ctx context.Context, key string, value map[string]any, ttl time.Duration) error {
	body, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cached value: %w", err)
	}
	now := d.nowFunc()
	rec := Record{
		CacheKey:  key,
		Value:     string(body),
		CreatedAt: now,
	}
	if exp := expiry(now, ttl); !exp.IsZero() {
		rec.ExpiresAt = exp.Unix()
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if _, err := d.client.PutItem(ctx, &dyn.PutItemInput{TableName: &d.tableName, Item: item}); err != nil {
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

func (d *Dynamo) Delete(ctx context.Context, key string) error {
	_, err := d.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName: &d.tableName,
		Key:       d.keyOf(key),
	})
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// Clear scans the table and deletes every key.
func (d *Dynamo) Clear(ctx context.Context) error {
	var start map[string]types.AttributeValue
	for {
		out, err := d.client.Scan(ctx, &dyn.ScanInput{
			TableName:            &d.tableName,
			ProjectionExpression: awsString("cache_key"),
			ExclusiveStartKey:    start,
		})
		if err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		for _, item := range out.Items {
			k, ok := item["cache_key"].(*types.AttributeValueMemberS)
			if !ok {
				continue
			}
			if err := d.Delete(ctx, k.Value); err != nil {
				return err
			}
		}
		if len(out.LastEvaluatedKey) == 0 {
			return nil
		}
		start = out.LastEvaluatedKey
	}
}

func (d *Dynamo) GetMultiple(ctx context.Context, keys []string) (map[string]map[string]any, error) {
	out := make(map[string]map[string]any, len(keys))
	for begin := 0; begin < len(keys); begin += batchGetLimit {
		end := min(begin+batchGetLimit, len(keys))
		req := map[string]types.KeysAndAttributes{}
		ka := types.KeysAndAttributes{ConsistentRead: awsBool(true)}
		for _, k := range keys[begin:end] {
			ka.Keys = append(ka.Keys, d.keyOf(k))
		}
		req[d.tableName] = ka

		for len(req) > 0 {
			res, err := d.client.BatchGetItem(ctx, &dyn.BatchGetItemInput{RequestItems: req})
			if err != nil {
				return nil, fmt.Errorf("batch get item: %w", err)
			}
			for _, item := range res.Responses[d.tableName] {
				k, ok := item["cache_key"].(*types.AttributeValueMemberS)
				if !ok {
					continue
				}
				v, err := d.decode(item)
				if err == ErrNotFound {
					continue
				}
				if err != nil {
					return nil, err
				}
				out[k.Value] = v
			}
			req = res.UnprocessedKeys
		}
	}
	return out, nil
}

func (d *Dynamo) SetMultiple(ctx context.Context, values map[string]map[string]any, ttl time.Duration) error {
	for k, v := range values {
		if err := d.Set(ctx, k, v, ttl); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dynamo) DeleteMultiple(ctx context.Context, keys []string) error {
	for _, k := range keys {
		if err := d.Delete(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

// Helpers
func awsString(s string) *string { return &s }
func awsBool(b bool) *bool       { return &b }
