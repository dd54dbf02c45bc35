package service

import (
	"context"

	"go-event-ticketing/internal/cache"
	"go-event-ticketing/internal/model"
	"go-event-ticketing/internal/repository"
	apperrors "go-event-ticketing/pkg/app_errors"

	"github.com/google/uuid"
)

type EventService interface {
	List(ctx context.Context, filter model.EventFilter) ([]*model.Event, error)
	GetByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error)
	Create(ctx context.Context, req model.CreateEventRequest) (*model.Event, error)
	UpdateByEventID(ctx context.Context, eventID uuid.UUID, params model.UpdateEventParams) (*model.Event, error)
	// OpenForSale 活動開賣：預熱該活動的 Redis 庫存快取
	OpenForSale(ctx context.Context, eventID uuid.UUID) error
}

type EventServiceImpl struct {
	repo      repository.EventRepository
	available cache.EventAvailabilityCache
}

func NewEventService(repo repository.EventRepository, available cache.EventAvailabilityCache) EventService {
	return &EventServiceImpl{repo: repo, available: available}
}

func (s *EventServiceImpl) List(ctx context.Context, filter model.EventFilter) ([]*model.Event, error) {
	return s.repo.List(ctx, filter)
}

func (s *EventServiceImpl) GetByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	return s.repo.FindByEventID(ctx, eventID)
}

func (s *EventServiceImpl) Create(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	if req.TotalTickets <= 0 || req.Price < 0 {
		return nil, apperrors.ErrInvalidInput
	}

	event := &model.Event{
		EventID:          uuid.New(),
		Name:             req.Name,
		Description:      req.Description,
		Category:         req.Category,
		Venue:            req.Venue,
		StartsAt:         req.StartsAt,
		Price:            req.Price,
		TotalTickets:     req.TotalTickets,
		AvailableTickets: req.TotalTickets, // 建立時全數可售
	}

	return s.repo.Create(ctx, event)
}

func (s *EventServiceImpl) UpdateByEventID(ctx context.Context, eventID uuid.UUID, params model.UpdateEventParams) (*model.Event, error) {
	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, event.ID, params)
}

func (s *EventServiceImpl) OpenForSale(ctx context.Context, eventID uuid.UUID) error {
	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return err
	}
	return s.available.WarmUp(ctx, event.ID, event.AvailableTickets, event.TotalTickets, event.Price)
}
