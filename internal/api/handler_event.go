package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"

	"github.com/cgrycki/workflow-test-backend/pkg/middleware"
	"github.com/cgrycki/workflow-test-backend/pkg/models"
	"github.com/cgrycki/workflow-test-backend/pkg/session"
)

// EventStore is the persistence contract consumed by the handlers.
type EventStore interface {
	List(ctx context.Context) ([]models.Event, error)
	GetByID(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	UpdatePackage(ctx context.Context, id, packageID string) (*models.Event, error)
	Delete(ctx context.Context, id string) error
}

// EventPublisher defines the interface for publishing lifecycle messages.
type EventPublisher interface {
	Publish(routingKey string, body []byte, correlationID string) error
}

// EventHandler handles event-related HTTP requests.
type EventHandler struct {
	Store       EventStore
	Publisher   EventPublisher
	Sessions    session.Store
	FrontendURI string
	FormID      string
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(store EventStore, pub EventPublisher, sessions session.Store, frontendURI, formID string) *EventHandler {
	return &EventHandler{
		Store:       store,
		Publisher:   pub,
		Sessions:    sessions,
		FrontendURI: frontendURI,
		FormID:      formID,
	}
}

// ListEvents godoc
// @Summary      List all events
// @Description  Returns all events in creation order
// @Tags         events
// @Produce      json
// @Success      200  {array}   models.Event
// @Failure      500  {object}  map[string]string
// @Router       /events [get]
func (h *EventHandler) ListEvents(c *gin.Context) {
	events, err := h.Store.List(c.Request.Context())
	if err != nil {
		log.Printf("[API] Error listing events: %v correlation_id=%s", err, middleware.GetCorrelationID(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list events"})
		return
	}

	if events == nil {
		events = []models.Event{}
	}

	c.JSON(http.StatusOK, events)
}

// GetEvent godoc
// @Summary      Get an event by ID
// @Description  Returns a single event
// @Tags         events
// @Produce      json
// @Param        id   path      string  true  "Event ID"
// @Success      200  {object}  models.Event
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /events/{id} [get]
func (h *EventHandler) GetEvent(c *gin.Context) {
	event, err := h.Store.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	if err != nil {
		log.Printf("[API] Error fetching event: %v correlation_id=%s", err, middleware.GetCorrelationID(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch event"})
		return
	}

	c.JSON(http.StatusOK, event)
}

// CreateEvent godoc
// @Summary      Create a new event
// @Description  Creates an event and publishes an event.created lifecycle message
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request  body      models.CreateEventRequest  true  "Create event request"
// @Success      201      {object}  map[string]interface{}
// @Failure      400      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /events [post]
func (h *EventHandler) CreateEvent(c *gin.Context) {
	correlationID := middleware.GetCorrelationID(c)
	log.Printf("[API] CreateEvent correlation_id=%s", correlationID)

	// The validation gate already checked shape; rebind the cached body.
	var req models.CreateEventRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event := models.Event{
		ID:        uuid.New().String(),
		UserEmail: req.UserEmail,
		TextField: req.TextField,
	}

	if err := h.Store.Create(c.Request.Context(), &event); err != nil {
		log.Printf("[API] Error creating event: %v correlation_id=%s", err, correlationID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create event"})
		return
	}

	h.publishLifecycle(models.EventCreated, event, correlationID)

	log.Printf("[API] Event created: id=%s email=%s correlation_id=%s", event.ID, event.UserEmail, correlationID)

	// Echo the request context the downstream workflow correlates on.
	c.JSON(http.StatusCreated, gin.H{
		"message": "Success",
		"form_id": h.FormID,
		"token":   session.Token(c),
		"session": session.ID(c),
		"ip":      c.ClientIP(),
		"body":    req,
		"headers": c.Request.Header,
		"event":   event,
	})
}

// UpdateEvent godoc
// @Summary      Attach a package to an event
// @Description  Sets the event's packageId and publishes an event.packaged lifecycle message
// @Tags         events
// @Param        id         path  string  true  "Event ID"
// @Param        packageId  path  string  true  "Package ID"
// @Success      200
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /events/{id}/{packageId} [patch]
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	correlationID := middleware.GetCorrelationID(c)
	id := c.Param("id")
	log.Printf("[API] UpdateEvent id=%s correlation_id=%s", id, correlationID)

	event, err := h.Store.UpdatePackage(c.Request.Context(), id, c.Param("packageId"))
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	if err != nil {
		log.Printf("[API] Error updating event: %v correlation_id=%s", err, correlationID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update event"})
		return
	}

	h.publishLifecycle(models.EventPackaged, *event, correlationID)

	log.Printf("[API] Event packaged: id=%s package_id=%s correlation_id=%s", event.ID, event.PackageID, correlationID)
	c.Status(http.StatusOK)
}

// DeleteEvent godoc
// @Summary      Delete an event
// @Description  Removes an event and publishes an event.deleted lifecycle message
// @Tags         events
// @Param        id   path  string  true  "Event ID"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /events/{id} [delete]
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	correlationID := middleware.GetCorrelationID(c)
	id := c.Param("id")

	err := h.Store.Delete(c.Request.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		// Already gone. Callers retrying a delete treat this as done.
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	if err != nil {
		log.Printf("[API] Error deleting event: %v correlation_id=%s", err, correlationID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete event"})
		return
	}

	h.publishLifecycle(models.EventDeleted, models.Event{ID: id}, correlationID)

	log.Printf("[API] Event deleted: id=%s correlation_id=%s", id, correlationID)
	c.Status(http.StatusNoContent)
}

// Landing godoc
// @Summary      Landing redirect
// @Description  Sends authenticated visitors to the frontend, everyone else to /auth
// @Tags         auth
// @Success      302
// @Router       / [get]
func (h *EventHandler) Landing(c *gin.Context) {
	sid := session.EnsureID(c)

	token, err := h.Sessions.Token(c.Request.Context(), sid)
	if err != nil {
		// Treat a failed lookup as no session; the visitor lands on /auth.
		log.Printf("[API] Session lookup failed on landing: %v", err)
	}

	c.Redirect(http.StatusFound, RedirectTarget(h.FrontendURI, token, c.Request.URL.Query()))
}

// publishLifecycle publishes a workflow message for a mutation. Publish
// failures are logged and never fail the request.
func (h *EventHandler) publishLifecycle(eventType models.EventType, data models.Event, correlationID string) {
	msg := models.WorkflowEvent{
		EventID:       uuid.New().String(),
		CorrelationID: correlationID,
		EventType:     eventType,
		Timestamp:     time.Now(),
		Data:          data,
	}

	body, _ := json.Marshal(msg)
	if err := h.Publisher.Publish(string(eventType), body, correlationID); err != nil {
		log.Printf("[API] Error publishing lifecycle message: %v correlation_id=%s", err, correlationID)
	}
}
