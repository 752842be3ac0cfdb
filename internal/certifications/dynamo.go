package certifications

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/imrishuroy/fne-certify/internal/aws"
	"github.com/imrishuroy/fne-certify/internal/fne"
)

// DynamoRecorder writes certifications to a DynamoDB table keyed by
// reference.
type DynamoRecorder struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewDynamoRecorder returns a recorder on tableName.
func NewDynamoRecorder(client aws.DynamoDBAPI, tableName string) *DynamoRecorder {
	return &DynamoRecorder{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Save upserts the row for resp. created_at is only set on first write.
func (r *DynamoRecorder) Save(ctx context.Context, resp *fne.Response, data map[string]any) error {
	c := NewCertification(resp, data, r.nowFunc().UTC())
	if c.Reference == "" {
		return fmt.Errorf("save certification: empty reference")
	}

	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal certification: %w", err)
	}
	delete(item, "reference")

	names := make([]string, 0, len(item))
	for name := range item {
		names = append(names, name)
	}
	sort.Strings(names)

	attrNames := map[string]string{}
	attrValues := map[string]types.AttributeValue{}
	sets := make([]string, 0, len(names))
	for i, name := range names {
		n, v := "#a"+strconv.Itoa(i), ":v"+strconv.Itoa(i)
		attrNames[n] = name
		attrValues[v] = item[name]
		if name == "created_at" {
			sets = append(sets, fmt.Sprintf("%s = if_not_exists(%s, %s)", n, n, v))
			continue
		}
		sets = append(sets, n+" = "+v)
	}

	_, err = r.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &r.tableName,
		Key: map[string]types.AttributeValue{
			"reference": &types.AttributeValueMemberS{Value: c.Reference},
		},
		UpdateExpression:          awsString("SET " + strings.Join(sets, ", ")),
		ExpressionAttributeNames:  attrNames,
		ExpressionAttributeValues: attrValues,
	})
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// FindByReference fetches a certification. Returns (nil, nil) if not found.
func (r *DynamoRecorder) FindByReference(ctx context.Context, reference string) (*Certification, error) {
	out, err := r.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &r.tableName,
		Key: map[string]types.AttributeValue{
			"reference": &types.AttributeValueMemberS{Value: reference},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var c Certification
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, fmt.Errorf("unmarshal certification: %w", err)
	}
	return &c, nil
}

func awsString(s string) *string { return &s }
