package cache

import (
	"context"
	"errors"
	"sort"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// simpleMock is a small in-memory table keyed by cache_key.
type simpleMock struct {
	mu          sync.Mutex
	table       map[string]map[string]types.AttributeValue
	putCalls    int
	getCalls    int
	deleteCalls int
	batchCalls  int
	// unprocessOnce makes the first BatchGetItem call return every key as
	// unprocessed.
	unprocessOnce bool
}

func newSimpleMock() *simpleMock {
	return &simpleMock{
		table: map[string]map[string]types.AttributeValue{},
	}
}

func keyValue(key map[string]types.AttributeValue) (string, error) {
	attr, ok := key["cache_key"].(*types.AttributeValueMemberS)
	if !ok {
		return "", errors.New("missing key")
	}
	return attr.Value, nil
}

func (m *simpleMock) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putCalls++
	k, err := keyValue(params.Item)
	if err != nil {
		return nil, err
	}
	m.table[k] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *simpleMock) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	k, err := keyValue(params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := m.table[k]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *simpleMock) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	return nil, errors.New("not used by cache")
}

func (m *simpleMock) DeleteItem(ctx context.Context, params *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls++
	k, err := keyValue(params.Key)
	if err != nil {
		return nil, err
	}
	delete(m.table, k)
	return &dyn.DeleteItemOutput{}, nil
}

func (m *simpleMock) BatchGetItem(ctx context.Context, params *dyn.BatchGetItemInput, optFns ...func(*dyn.Options)) (*dyn.BatchGetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchCalls++
	if m.unprocessOnce {
		m.unprocessOnce = false
		return &dyn.BatchGetItemOutput{UnprocessedKeys: params.RequestItems}, nil
	}
	out := &dyn.BatchGetItemOutput{Responses: map[string][]map[string]types.AttributeValue{}}
	for table, ka := range params.RequestItems {
		for _, key := range ka.Keys {
			k, err := keyValue(key)
			if err != nil {
				return nil, err
			}
			if item, ok := m.table[k]; ok {
				out.Responses[table] = append(out.Responses[table], item)
			}
		}
	}
	return out, nil
}

// Scan returns one key per page to exercise pagination.
func (m *simpleMock) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.table))
	for k := range m.table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return &dyn.ScanOutput{}, nil
	}
	key := map[string]types.AttributeValue{"cache_key": &types.AttributeValueMemberS{Value: keys[0]}}
	out := &dyn.ScanOutput{Items: []map[string]types.AttributeValue{key}}
	if len(keys) > 1 {
		out.LastEvaluatedKey = key
	}
	return out, nil
}
