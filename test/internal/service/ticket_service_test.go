package service

import (
	"context"
	"testing"

	"go-event-ticketing/internal/model"
	apperrors "go-event-ticketing/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reserveOne(t *testing.T, eventID uuid.UUID) *model.Ticket {
	t.Helper()

	reservation, err := newReservationService().Reserve(context.Background(), eventID, model.ReserveTicketsRequest{
		PurchaserID: uuid.New(),
		Quantity:    1,
	})
	require.NoError(t, err)
	return reservation.Tickets[0]
}

func TestTicketService_Use(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		svc := newTicketService()
		event := createTestEvent(t, "Concert", 10.0, 5)
		ticket := reserveOne(t, event.EventID)

		used, err := svc.Use(ctx, ticket.TicketNumber)

		require.NoError(t, err)
		assert.Equal(t, model.TicketStatusUsed, used.Status)
	})

	t.Run("CannotUseTwice", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		svc := newTicketService()
		event := createTestEvent(t, "Concert", 10.0, 5)
		ticket := reserveOne(t, event.EventID)

		_, err := svc.Use(ctx, ticket.TicketNumber)
		require.NoError(t, err)

		_, err = svc.Use(ctx, ticket.TicketNumber)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTicketStatus)
	})

	t.Run("NotFound", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		svc := newTicketService()

		_, err := svc.Use(ctx, "TKT-MISSING000")

		assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
	})
}

func TestTicketService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("ReturnsInventory", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		svc := newTicketService()
		event := createTestEvent(t, "Concert", 10.0, 5)
		ticket := reserveOne(t, event.EventID)

		found := findEvent(t, event.ID)
		require.Equal(t, 4, found.AvailableTickets)

		cancelled, err := svc.Cancel(ctx, ticket.TicketNumber)

		require.NoError(t, err)
		assert.Equal(t, model.TicketStatusCancelled, cancelled.Status)

		found = findEvent(t, event.ID)
		assert.Equal(t, 5, found.AvailableTickets)
	})

	t.Run("CannotCancelUsedTicket", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		svc := newTicketService()
		event := createTestEvent(t, "Concert", 10.0, 5)
		ticket := reserveOne(t, event.EventID)

		_, err := svc.Use(ctx, ticket.TicketNumber)
		require.NoError(t, err)

		_, err = svc.Cancel(ctx, ticket.TicketNumber)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTicketStatus)

		// inventory untouched by the rejected cancellation
		found := findEvent(t, event.ID)
		assert.Equal(t, 4, found.AvailableTickets)
	})

	t.Run("CannotCancelTwice", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		svc := newTicketService()
		event := createTestEvent(t, "Concert", 10.0, 5)
		ticket := reserveOne(t, event.EventID)

		_, err := svc.Cancel(ctx, ticket.TicketNumber)
		require.NoError(t, err)

		_, err = svc.Cancel(ctx, ticket.TicketNumber)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTicketStatus)

		// double cancel must not inflate availability past total
		found := findEvent(t, event.ID)
		assert.Equal(t, 5, found.AvailableTickets)
	})
}
