package services

import (
	"context"
	"go-event-ticketing/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type ReservationServiceMock struct {
	mock.Mock
}

func NewReservationServiceMock() *ReservationServiceMock {
	return &ReservationServiceMock{}
}

func (m *ReservationServiceMock) Reserve(ctx context.Context, eventID uuid.UUID, req model.ReserveTicketsRequest) (*model.Reservation, error) {
	args := m.Called(ctx, eventID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reservation), args.Error(1)
}

func (m *ReservationServiceMock) GetAvailability(ctx context.Context, eventID uuid.UUID) (int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Error(1)
}
