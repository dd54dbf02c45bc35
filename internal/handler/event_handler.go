package handler

import (
	"errors"
	"net/http"

	"go-event-ticketing/internal/model"
	"go-event-ticketing/internal/service"
	apperrors "go-event-ticketing/pkg/app_errors"
	"go-event-ticketing/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventHandler struct {
	service service.EventService
}

func NewEventHandler(service service.EventService) *EventHandler {
	return &EventHandler{service: service}
}

func (h *EventHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("events", h.ListEvents)
		router.GET("events/:event_id", h.GetEvent)
		router.POST("events", h.CreateEvent)
		router.PUT("events/:event_id", h.UpdateEvent)
		router.POST("events/:event_id/open-sale", h.OpenForSale)
	}
}

func (h *EventHandler) ListEvents(c *gin.Context) {
	var filter model.EventFilter
	if err := BindQuery(c, &filter); err != nil {
		return
	}

	events, err := h.service.List(c, filter)
	if err != nil {
		h.handleEventError(c, err, "ListEvents")
		return
	}

	responses := make([]*model.EventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, model.NewEventResponse(event))
	}

	c.JSON(http.StatusOK, responses)
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("event_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid event id",
		})
		return
	}

	event, err := h.service.GetByEventID(c, eventID)
	if err != nil {
		h.handleEventError(c, err, "GetEvent")
		return
	}

	c.JSON(http.StatusOK, model.NewEventResponse(event))
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req model.CreateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	event, err := h.service.Create(c, req)
	if err != nil {
		h.handleEventError(c, err, "CreateEvent")
		return
	}

	c.JSON(http.StatusCreated, model.NewEventResponse(event))
}

func (h *EventHandler) UpdateEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("event_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid event id",
		})
		return
	}

	var body struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Category    *string `json:"category"`
		Venue       *string `json:"venue"`
	}
	if err := BindJson(c, &body); err != nil {
		return
	}

	event, err := h.service.UpdateByEventID(c, eventID, model.UpdateEventParams{
		Name:        body.Name,
		Description: body.Description,
		Category:    body.Category,
		Venue:       body.Venue,
	})
	if err != nil {
		h.handleEventError(c, err, "UpdateEvent")
		return
	}

	c.JSON(http.StatusOK, model.NewEventResponse(event))
}

func (h *EventHandler) OpenForSale(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("event_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid event id",
		})
		return
	}

	if err := h.service.OpenForSale(c, eventID); err != nil {
		h.handleEventError(c, err, "OpenForSale")
		return
	}

	c.Status(http.StatusOK)
}

// Helper functions

func (h *EventHandler) handleEventError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Event not found",
		})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid input",
		})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
