package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const processedTTL = 7 * 24 * time.Hour

// WorkflowLog tracks processed lifecycle messages and per-day metrics for
// the workflow consumer.
type WorkflowLog struct {
	client *redis.Client
}

// NewWorkflowLog creates a workflow log from an existing Redis client.
func NewWorkflowLog(client *redis.Client) *WorkflowLog {
	return &WorkflowLog{client: client}
}

func processedKey(eventID string) string {
	return "workflow:processed:" + eventID
}

// Processed reports whether a message id has already been handled.
func (l *WorkflowLog) Processed(ctx context.Context, eventID string) (bool, error) {
	n, err := l.client.Exists(ctx, processedKey(eventID)).Result()
	if err != nil {
		return false, fmt.Errorf("idempotency check: %w", err)
	}
	return n > 0, nil
}

// MarkProcessed records a handled message id.
func (l *WorkflowLog) MarkProcessed(ctx context.Context, eventID string) error {
	if err := l.client.Set(ctx, processedKey(eventID), 1, processedTTL).Err(); err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}
	return nil
}

// Record increments the daily counter for an event type.
func (l *WorkflowLog) Record(ctx context.Context, eventType string, day time.Time) error {
	key := fmt.Sprintf("workflow:metrics:%s:%s", day.Format("2006-01-02"), eventType)
	if err := l.client.Incr(ctx, key).Err(); err != nil {
		return fmt.Errorf("record metric: %w", err)
	}
	return nil
}
