// Package dynamo provides the DynamoDB-backed event store.
package dynamo

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Config contains DynamoDB connection configuration.
type Config struct {
	// Region is the AWS region.
	Region string

	// Endpoint overrides the DynamoDB endpoint (useful for local development).
	Endpoint string

	// TableName is the table holding event records.
	TableName string

	// QueryTimeout bounds every store call.
	QueryTimeout time.Duration
}

// Connect loads AWS configuration and returns a DynamoDB client.
func Connect(ctx context.Context, cfg Config) (*dynamodb.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	log.Printf("Connected to DynamoDB (region=%s table=%s)", cfg.Region, cfg.TableName)
	return client, nil
}
