// Package workflow processes event lifecycle messages published by the API.
package workflow

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/cgrycki/workflow-test-backend/pkg/models"
)

// Log is the dedupe and metrics contract consumed by the consumer.
type Log interface {
	Processed(ctx context.Context, eventID string) (bool, error)
	MarkProcessed(ctx context.Context, eventID string) error
	Record(ctx context.Context, eventType string, day time.Time) error
}

// Consumer handles event lifecycle messages.
type Consumer struct {
	Log Log
}

// NewConsumer creates a new workflow consumer.
func NewConsumer(l Log) *Consumer {
	return &Consumer{Log: l}
}

// HandleMessage processes a lifecycle message for workflow metrics.
func (c *Consumer) HandleMessage(delivery amqp.Delivery) error {
	var msg models.WorkflowEvent
	if err := json.Unmarshal(delivery.Body, &msg); err != nil {
		log.Printf("[Workflow] Failed to unmarshal message: %v correlation_id=%s", err, delivery.CorrelationId)
		return err
	}

	log.Printf("[Workflow] Processing message: type=%s event_id=%s correlation_id=%s event=%s",
		msg.EventType, msg.EventID, msg.CorrelationID, msg.Data.ID)

	ctx := context.Background()

	// Idempotency check
	seen, err := c.Log.Processed(ctx, msg.EventID)
	if err != nil {
		log.Printf("[Workflow] Error checking idempotency: %v correlation_id=%s", err, msg.CorrelationID)
		return err
	}
	if seen {
		log.Printf("[Workflow] Duplicate message ignored: event_id=%s correlation_id=%s", msg.EventID, msg.CorrelationID)
		return nil // Already processed — ack it
	}

	if err := c.Log.Record(ctx, string(msg.EventType), msg.Timestamp); err != nil {
		log.Printf("[Workflow] Error recording metric: %v correlation_id=%s", err, msg.CorrelationID)
		return err
	}

	// Record idempotency key
	if err := c.Log.MarkProcessed(ctx, msg.EventID); err != nil {
		log.Printf("[Workflow] Error marking message processed: %v correlation_id=%s", err, msg.CorrelationID)
	}

	log.Printf("[Workflow] Recorded: event_id=%s type=%s event=%s correlation_id=%s",
		msg.EventID, msg.EventType, msg.Data.ID, msg.CorrelationID)

	return nil
}
