package idempotency

import (
	"context"
	"errors"
	"strings"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// simpleMock is a small in-memory jobs table. It understands the claim
// condition and SET expressions of the form "name = :value".
type simpleMock struct {
	mu          sync.Mutex
	table       map[string]map[string]types.AttributeValue
	putCalls    int
	updateCalls int
	putErr      error
}

func newSimpleMock() *simpleMock {
	return &simpleMock{
		table: map[string]map[string]types.AttributeValue{},
	}
}

func keyOf(key map[string]types.AttributeValue) (string, error) {
	attr, ok := key["job_key"].(*types.AttributeValueMemberS)
	if !ok {
		return "", errors.New("missing key")
	}
	return attr.Value, nil
}

func (m *simpleMock) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putCalls++
	if m.putErr != nil {
		return nil, m.putErr
	}
	k, err := keyOf(params.Item)
	if err != nil {
		return nil, err
	}
	if params.ConditionExpression != nil && *params.ConditionExpression == claimCondition {
		if existing, ok := m.table[k]; ok {
			st, _ := existing["status"].(*types.AttributeValueMemberS)
			failed := params.ExpressionAttributeValues[":failed"].(*types.AttributeValueMemberS)
			if st == nil || st.Value != failed.Value {
				return nil, &types.ConditionalCheckFailedException{}
			}
		}
	}
	m.table[k] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *simpleMock) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, err := keyOf(params.Key)
	if err != nil {
		return nil, err
	}
	return &dyn.GetItemOutput{Item: m.table[k]}, nil
}

func (m *simpleMock) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++
	k, err := keyOf(params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := m.table[k]
	if !ok {
		item = map[string]types.AttributeValue{"job_key": params.Key["job_key"]}
		m.table[k] = item
	}
	expr := strings.TrimPrefix(*params.UpdateExpression, "SET ")
	for _, part := range strings.Split(expr, ", ") {
		name, value, found := strings.Cut(part, " = ")
		if !found {
			return nil, errors.New("unsupported update expression: " + part)
		}
		if alias, ok := params.ExpressionAttributeNames[name]; ok {
			name = alias
		}
		item[name] = params.ExpressionAttributeValues[value]
	}
	return &dyn.UpdateItemOutput{}, nil
}

func (m *simpleMock) DeleteItem(ctx context.Context, params *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, err := keyOf(params.Key)
	if err != nil {
		return nil, err
	}
	delete(m.table, k)
	return &dyn.DeleteItemOutput{}, nil
}

func (m *simpleMock) BatchGetItem(ctx context.Context, params *dyn.BatchGetItemInput, optFns ...func(*dyn.Options)) (*dyn.BatchGetItemOutput, error) {
	return nil, errors.New("BatchGetItem not supported")
}

func (m *simpleMock) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	return nil, errors.New("Scan not supported")
}
