package handlers

import (
	"net/http"
	"time"

	"github.com/commonsforge/pagecraft-go/internal/application/services"
	"github.com/gin-gonic/gin"
)

// EventHandler serves the events dashboard.
type EventHandler struct {
	events *services.EventService
}

func NewEventHandler(events *services.EventService) *EventHandler {
	return &EventHandler{events: events}
}

// List returns every event; ?upcoming=true filters to future events.
func (h *EventHandler) List(c *gin.Context) {
	var (
		events any
		err    error
	)
	if c.Query("upcoming") == "true" {
		events, err = h.events.Upcoming(c.Request.Context())
	} else {
		events, err = h.events.List(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list events"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// Get returns one event.
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load event"})
		return
	}
	if event == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	c.JSON(http.StatusOK, event)
}

type eventRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    *string    `json:"location"`
	StartsAt    time.Time  `json:"startsAt"`
	EndsAt      *time.Time `json:"endsAt"`
}

// Create stores a new calendar entry.
func (h *EventHandler) Create(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	event, err := h.events.Create(c.Request.Context(), req.Title, req.Description, req.Location, req.StartsAt, req.EndsAt)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, event)
}

// Update replaces an event's editable fields.
func (h *EventHandler) Update(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	event, err := h.events.Update(c.Request.Context(), c.Param("id"), req.Title, req.Description, req.Location, req.StartsAt, req.EndsAt)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, event)
}

// Delete removes an event. Admin only.
func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.events.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
