package handlers

import (
	"github.com/Abhishek40905/ancome-backend/internal/middleware"
	"github.com/Abhishek40905/ancome-backend/internal/services"
	"github.com/Abhishek40905/ancome-backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	eventService *services.EventService
}

func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// List returns all events, latest first
// GET /api/events
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.eventService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, events)
}

// Create publishes an event
// POST /api/events
func (h *EventHandler) Create(c *gin.Context) {
	var req services.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	e, err := h.eventService.Create(c.Request.Context(), middleware.GetUser(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, e)
}
