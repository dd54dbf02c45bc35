package services

import (
	"context"
	"go-event-ticketing/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type TicketServiceMock struct {
	mock.Mock
}

func NewTicketServiceMock() *TicketServiceMock {
	return &TicketServiceMock{}
}

func (m *TicketServiceMock) GetByTicketNumber(ctx context.Context, ticketNumber string) (*model.Ticket, error) {
	args := m.Called(ctx, ticketNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *TicketServiceMock) ListByPurchaserID(ctx context.Context, purchaserID uuid.UUID) ([]*model.Ticket, error) {
	args := m.Called(ctx, purchaserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Ticket), args.Error(1)
}

func (m *TicketServiceMock) Use(ctx context.Context, ticketNumber string) (*model.Ticket, error) {
	args := m.Called(ctx, ticketNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *TicketServiceMock) Cancel(ctx context.Context, ticketNumber string) (*model.Ticket, error) {
	args := m.Called(ctx, ticketNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}
