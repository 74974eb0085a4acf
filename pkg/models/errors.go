package models

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no event exists for the requested id. Callers
// retrying a delete must treat it as "already deleted".
var ErrNotFound = errors.New("event not found")

// ErrStore wraps infrastructure failures from the event store. The cause is
// logged server-side and never leaked to clients.
var ErrStore = errors.New("event store failure")

// ValidationError reports the first request parameter that failed validation.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Field, e.Reason)
}
