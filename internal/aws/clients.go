package aws

import (
	"context"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// AWSClients bundles the clients behind the DynamoDB cache, the DynamoDB
// recorder, the worker job ledger, the event publisher and the metrics.
type AWSClients struct {
	DynamoDB   DynamoDBAPI
	SQS        SQSAPI
	CloudWatch CloudWatchAPI
}

// NewAWSClients loads the AWS config and returns concrete service clients.
func NewAWSClients(ctx context.Context) (*AWSClients, error) {
	cfg, err := LoadAWSConfig(ctx)
	if err != nil {
		return nil, err
	}
	return NewAWSClientsFromConfig(cfg), nil
}

// NewAWSClientsFromConfig builds the clients from an already loaded config.
// SDK retries are capped at 3 attempts; FNE calls retry on their own policy.
func NewAWSClientsFromConfig(cfg sdkaws.Config) *AWSClients {
	if cfg.RetryMaxAttempts == 0 {
		cfg.RetryMaxAttempts = 3
	}
	return &AWSClients{
		DynamoDB:   dynamodb.NewFromConfig(cfg),
		SQS:        sqs.NewFromConfig(cfg),
		CloudWatch: cloudwatch.NewFromConfig(cfg),
	}
}
