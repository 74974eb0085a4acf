package models

import "time"

// EventType represents the type of lifecycle message published for an event.
type EventType string

const (
	EventCreated  EventType = "event.created"
	EventPackaged EventType = "event.packaged"
	EventDeleted  EventType = "event.deleted"
)

// WorkflowEvent is the message published to the workflow exchange whenever an
// event is created, packaged, or deleted.
type WorkflowEvent struct {
	EventID       string    `json:"event_id"`
	CorrelationID string    `json:"correlation_id"`
	EventType     EventType `json:"event_type"`
	Timestamp     time.Time `json:"timestamp"`
	Data          Event     `json:"data"`
}
