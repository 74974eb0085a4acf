package dynamo

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/cgrycki/workflow-test-backend/pkg/models"
)

// EventStore is a DynamoDB-backed store for event records.
//
// Update and delete are issued as single conditional writes keyed on
// attribute_exists(id), so "not found" is decided atomically by DynamoDB and
// there is no check-then-act window between an existence check and the write.
type EventStore struct {
	client       *dynamodb.Client
	tableName    string
	queryTimeout time.Duration
}

// NewEventStore creates an event store over an existing client.
func NewEventStore(client *dynamodb.Client, cfg Config) *EventStore {
	return &EventStore{
		client:       client,
		tableName:    cfg.TableName,
		queryTimeout: cfg.QueryTimeout,
	}
}

// Create persists a new event. The store owns the lifecycle timestamps.
func (s *EventStore) Create(ctx context.Context, event *models.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now

	av, err := attributevalue.MarshalMap(event)
	if err != nil {
		return s.wrapError(err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		// A fresh UUID colliding with an existing item is a store-level
		// anomaly, not a missing record.
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return errors.Join(models.ErrStore, err)
		}
		return s.wrapError(err)
	}

	return nil
}

// GetByID retrieves an event by id.
func (s *EventStore) GetByID(ctx context.Context, id string) (*models.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, s.wrapError(err)
	}

	if result.Item == nil {
		return nil, models.ErrNotFound
	}

	var event models.Event
	if err := attributevalue.UnmarshalMap(result.Item, &event); err != nil {
		return nil, s.wrapError(err)
	}

	return &event, nil
}

// List returns all events ordered by creation time.
func (s *EventStore) List(ctx context.Context) ([]models.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	var events []models.Event
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName: aws.String(s.tableName),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, s.wrapError(err)
		}

		for _, item := range page.Items {
			var event models.Event
			if err := attributevalue.UnmarshalMap(item, &event); err != nil {
				return nil, s.wrapError(err)
			}
			events = append(events, event)
		}
	}

	// Scans are unordered; give callers a stable, insertion-like order.
	sort.Slice(events, func(i, j int) bool {
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})

	return events, nil
}

// UpdatePackage sets the event's packageId and returns the full post-update
// record (ALL_NEW semantics). Returns ErrNotFound if the event does not exist.
func (s *EventStore) UpdatePackage(ctx context.Context, id, packageID string) (*models.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	update := expression.
		Set(expression.Name("package_id"), expression.Value(packageID)).
		Set(expression.Name("updated_at"), expression.Value(time.Now().UTC()))
	cond := expression.AttributeExists(expression.Name("id"))

	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return nil, s.wrapError(err)
	}

	result, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.tableName),
		Key:                       map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: id}},
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, s.wrapError(err)
	}

	var event models.Event
	if err := attributevalue.UnmarshalMap(result.Attributes, &event); err != nil {
		return nil, s.wrapError(err)
	}

	return &event, nil
}

// Delete removes an event by id. Returns ErrNotFound if it is already gone,
// which idempotent callers must treat as "already deleted".
func (s *EventStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		return s.wrapError(err)
	}

	return nil
}

// wrapError maps DynamoDB failures onto the store error taxonomy.
func (s *EventStore) wrapError(err error) error {
	if err == nil {
		return nil
	}

	var conditionFailed *types.ConditionalCheckFailedException
	if errors.As(err, &conditionFailed) {
		return models.ErrNotFound
	}

	return errors.Join(models.ErrStore, err)
}
