package service

import (
	"context"
	"time"

	"go-event-ticketing/internal/model"
	"go-event-ticketing/internal/queue"
	"go-event-ticketing/internal/repository"
	apperrors "go-event-ticketing/pkg/app_errors"
	"go-event-ticketing/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type TicketService interface {
	GetByTicketNumber(ctx context.Context, ticketNumber string) (*model.Ticket, error)
	ListByPurchaserID(ctx context.Context, purchaserID uuid.UUID) ([]*model.Ticket, error)
	// Use 將票券標記為已使用（入場核銷），只有 active 的票能使用
	Use(ctx context.Context, ticketNumber string) (*model.Ticket, error)
	// Cancel 取消票券並歸還庫存，同一筆交易內完成
	Cancel(ctx context.Context, ticketNumber string) (*model.Ticket, error)
}

type TicketServiceImpl struct {
	pool       *pgxpool.Pool
	repo       repository.TicketRepository
	eventRepo  repository.EventRepository
	feed       queue.ReservationQueue
}

func NewTicketService(
	pool *pgxpool.Pool,
	repo repository.TicketRepository,
	eventRepo repository.EventRepository,
	feed queue.ReservationQueue,
) TicketService {
	return &TicketServiceImpl{
		pool:      pool,
		repo:      repo,
		eventRepo: eventRepo,
		feed:      feed,
	}
}

func (s *TicketServiceImpl) GetByTicketNumber(ctx context.Context, ticketNumber string) (*model.Ticket, error) {
	return s.repo.FindByTicketNumber(ctx, ticketNumber)
}

func (s *TicketServiceImpl) ListByPurchaserID(ctx context.Context, purchaserID uuid.UUID) ([]*model.Ticket, error) {
	return s.repo.ListByPurchaserID(ctx, purchaserID)
}

func (s *TicketServiceImpl) Use(ctx context.Context, ticketNumber string) (*model.Ticket, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ticket, err := s.repo.FindByTicketNumberWithLock(ctx, tx, ticketNumber)
	if err != nil {
		return nil, err
	}

	if !ticket.Status.CanTransitionTo(model.TicketStatusUsed) {
		return nil, apperrors.ErrInvalidTicketStatus
	}

	updated, err := s.repo.UpdateStatus(ctx, tx, ticket.ID, model.TicketStatusUsed)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *TicketServiceImpl) Cancel(ctx context.Context, ticketNumber string) (*model.Ticket, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// 1. 鎖住票券列，驗證狀態轉換
	ticket, err := s.repo.FindByTicketNumberWithLock(ctx, tx, ticketNumber)
	if err != nil {
		return nil, err
	}

	if !ticket.Status.CanTransitionTo(model.TicketStatusCancelled) {
		return nil, apperrors.ErrInvalidTicketStatus
	}

	// 2. 鎖住活動列再歸還庫存，與預訂引擎走同一把鎖
	locked, err := s.eventRepo.FindByIDWithLock(ctx, tx, ticket.EventID)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, tx, ticket.ID, model.TicketStatusCancelled)
	if err != nil {
		return nil, err
	}

	if err := s.eventRepo.IncrementAvailable(ctx, tx, locked.ID, 1); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.publishCancelled(updated, locked)

	return updated, nil
}

func (s *TicketServiceImpl) publishCancelled(t *model.Ticket, event *model.Event) {
	msg := &model.ReservationMessage{
		Kind:           model.ReservationKindCancelled,
		EventID:        event.ID,
		EventUUID:      event.EventID,
		PurchaserID:    t.PurchaserID,
		Quantity:       1,
		TotalPrice:     t.Price,
		TicketNumbers:  []string{t.TicketNumber},
		AvailableAfter: event.AvailableTickets + 1,
		OccurredAt:     time.Now().UTC(),
	}

	if err := s.feed.Publish(context.Background(), msg); err != nil {
		logger.WithComponent("ticket").Warn("publish cancellation failed",
			zap.String("ticket_number", t.TicketNumber), zap.Error(err))
	}
}
