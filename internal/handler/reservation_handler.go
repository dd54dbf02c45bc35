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

type ReservationHandler struct {
	service service.ReservationService
}

func NewReservationHandler(service service.ReservationService) *ReservationHandler {
	return &ReservationHandler{service: service}
}

func (h *ReservationHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.POST("events/:event_id/reservations", h.CreateReservation)
		router.GET("events/:event_id/availability", h.GetAvailability)
	}
}

func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("event_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid event id",
		})
		return
	}

	var req model.ReserveTicketsRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	reservation, err := h.service.Reserve(c, eventID, req)
	if err != nil {
		h.handleReservationError(c, err, "CreateReservation")
		return
	}

	c.JSON(http.StatusCreated, model.NewReservationResponse(reservation))
}

func (h *ReservationHandler) GetAvailability(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("event_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid event id",
		})
		return
	}

	available, err := h.service.GetAvailability(c, eventID)
	if err != nil {
		h.handleReservationError(c, err, "GetAvailability")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"event_id":          eventID,
		"available_tickets": available,
	})
}

// Helper functions

func (h *ReservationHandler) handleReservationError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrInsufficientInventory):
		log.Warn("Insufficient inventory")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Insufficient inventory",
		})
	case errors.Is(err, apperrors.ErrInvalidQuantity):
		log.Warn("Invalid quantity")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Quantity must be between 1 and 10",
		})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid input",
		})
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Event not found",
		})
	case errors.Is(err, apperrors.ErrReservationConflict):
		log.Warn("Reservation conflict")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Reservation conflict, please retry",
		})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
