package models

import "time"

// Event represents a user-submitted item that may later be associated with a
// downstream workflow package. PackageID is absent until a PATCH sets it.
type Event struct {
	ID        string    `json:"id" dynamodbav:"id"`
	UserEmail string    `json:"userEmail" dynamodbav:"user_email"`
	TextField string    `json:"textField" dynamodbav:"text_field"`
	PackageID string    `json:"packageId,omitempty" dynamodbav:"package_id,omitempty"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// CreateEventRequest is the request body for creating an event.
type CreateEventRequest struct {
	UserEmail string `json:"userEmail" example:"jane@uiowa.edu"`
	TextField string `json:"textField" example:"CS retreat planning"`
}
