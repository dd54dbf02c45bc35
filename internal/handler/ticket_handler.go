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

type TicketHandler struct {
	service service.TicketService
}

func NewTicketHandler(service service.TicketService) *TicketHandler {
	return &TicketHandler{service: service}
}

func (h *TicketHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("tickets/:ticket_number", h.GetTicket)
		router.GET("purchasers/:purchaser_id/tickets", h.ListPurchaserTickets)
		router.PUT("tickets/:ticket_number/use", h.UseTicket)
		router.PUT("tickets/:ticket_number/cancel", h.CancelTicket)
	}
}

func (h *TicketHandler) GetTicket(c *gin.Context) {
	ticket, err := h.service.GetByTicketNumber(c, c.Param("ticket_number"))
	if err != nil {
		h.handleTicketError(c, err, "GetTicket")
		return
	}

	c.JSON(http.StatusOK, model.NewTicketResponse(ticket))
}

func (h *TicketHandler) ListPurchaserTickets(c *gin.Context) {
	purchaserID, err := uuid.Parse(c.Param("purchaser_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid purchaser id",
		})
		return
	}

	tickets, err := h.service.ListByPurchaserID(c, purchaserID)
	if err != nil {
		h.handleTicketError(c, err, "ListPurchaserTickets")
		return
	}

	responses := make([]*model.TicketResponse, 0, len(tickets))
	for _, ticket := range tickets {
		responses = append(responses, model.NewTicketResponse(ticket))
	}

	c.JSON(http.StatusOK, responses)
}

func (h *TicketHandler) UseTicket(c *gin.Context) {
	ticket, err := h.service.Use(c, c.Param("ticket_number"))
	if err != nil {
		h.handleTicketError(c, err, "UseTicket")
		return
	}

	c.JSON(http.StatusOK, model.NewTicketResponse(ticket))
}

func (h *TicketHandler) CancelTicket(c *gin.Context) {
	ticket, err := h.service.Cancel(c, c.Param("ticket_number"))
	if err != nil {
		h.handleTicketError(c, err, "CancelTicket")
		return
	}

	c.JSON(http.StatusOK, model.NewTicketResponse(ticket))
}

// Helper functions

func (h *TicketHandler) handleTicketError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrTicketNotFound):
		log.Warn("Ticket not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Ticket not found",
		})
	case errors.Is(err, apperrors.ErrInvalidTicketStatus):
		log.Warn("Invalid ticket status")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Invalid ticket status transition",
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
