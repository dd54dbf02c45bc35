package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"go-event-ticketing/internal/cache"
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

const (
	// MaxTicketsPerReservation 單次預訂上限（原 UI 只開放選到 10，這裡在服務端強制）
	MaxTicketsPerReservation = 10

	// 票號撞到唯一索引時整筆交易重試的上限
	maxNumberingRetries = 3

	ticketNumberLength = 10
)

// 排除易混淆字元 (I, L, O, U)
const ticketNumberAlphabet = "ABCDEFGHJKMNPQRSTVWXYZ0123456789"

type ReservationService interface {
	// Reserve 預訂引擎：檢查庫存、扣減、發票券，全部在同一筆交易內完成。
	// 同一活動的併發呼叫由活動列的 row lock 序列化；不同活動互不阻塞。
	Reserve(ctx context.Context, eventID uuid.UUID, req model.ReserveTicketsRequest) (*model.Reservation, error)
	// GetAvailability 讀剩餘庫存：先查快取，未預熱時回源 DB
	GetAvailability(ctx context.Context, eventID uuid.UUID) (int, error)
}

type ReservationServiceImpl struct {
	pool       *pgxpool.Pool
	eventRepo  repository.EventRepository
	ticketRepo repository.TicketRepository
	available  cache.EventAvailabilityCache
	feed       queue.ReservationQueue
}

func NewReservationService(
	pool *pgxpool.Pool,
	eventRepo repository.EventRepository,
	ticketRepo repository.TicketRepository,
	available cache.EventAvailabilityCache,
	feed queue.ReservationQueue,
) ReservationService {
	return &ReservationServiceImpl{
		pool:       pool,
		eventRepo:  eventRepo,
		ticketRepo: ticketRepo,
		available:  available,
		feed:       feed,
	}
}

func (s *ReservationServiceImpl) Reserve(ctx context.Context, eventID uuid.UUID, req model.ReserveTicketsRequest) (*model.Reservation, error) {
	if req.Quantity <= 0 || req.Quantity > MaxTicketsPerReservation {
		return nil, apperrors.ErrInvalidQuantity
	}
	if req.PurchaserID == uuid.Nil {
		return nil, apperrors.ErrInvalidInput
	}

	// 票號碰撞時整筆交易已回滾，重新再跑一次即可；其他錯誤直接回傳
	var reservation *model.Reservation
	var err error
	for attempt := 0; attempt < maxNumberingRetries; attempt++ {
		reservation, err = s.reserveOnce(ctx, eventID, req)
		if err == nil {
			break
		}
		if !errors.Is(err, apperrors.ErrReservationConflict) {
			return nil, err
		}
		logger.WithComponent("reservation").Warn("ticket number collision, retrying",
			zap.String("event_id", eventID.String()), zap.Int("attempt", attempt+1))
	}
	if err != nil {
		return nil, err
	}

	s.publishReserved(reservation)

	return reservation, nil
}

// reserveOnce 一次完整的預訂交易。任何錯誤路徑都會 rollback：
// 不會留下孤兒票券，也不會留下被扣掉的庫存。
func (s *ReservationServiceImpl) reserveOnce(ctx context.Context, eventID uuid.UUID, req model.ReserveTicketsRequest) (*model.Reservation, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// 1. 鎖住活動列：檢查-扣減-發券期間其他預訂在此等待
	event, err := s.eventRepo.FindByEventIDWithLock(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}

	// 2. 檢查庫存
	if event.AvailableTickets < req.Quantity {
		return nil, apperrors.ErrInsufficientInventory
	}

	// 3. 整批發券，價格取活動當下售價的快照
	tickets := make([]*model.Ticket, 0, req.Quantity)
	for i := 0; i < req.Quantity; i++ {
		number, err := newTicketNumber()
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, &model.Ticket{
			TicketID:     uuid.New(),
			TicketNumber: number,
			EventID:      event.ID,
			PurchaserID:  req.PurchaserID,
			Status:       model.TicketStatusActive,
			Price:        event.Price,
		})
	}

	created, err := s.ticketRepo.CreateBatch(ctx, tx, tickets)
	if err != nil {
		return nil, err
	}

	// 4. 扣減庫存（步驟 1 已鎖住，這裡的 guard 只是最後一道防線）
	if err := s.eventRepo.DecrementAvailable(ctx, tx, event.ID, req.Quantity); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &model.Reservation{
		EventID:        event.EventID,
		PurchaserID:    req.PurchaserID,
		Quantity:       req.Quantity,
		TotalPrice:     event.Price * float64(req.Quantity),
		Tickets:        created,
		AvailableAfter: event.AvailableTickets - req.Quantity,
		ReservedAt:     time.Now().UTC(),
	}, nil
}

// publishReserved commit 後才發佈；feed 只影響快取新鮮度，失敗時記 log 不影響預訂結果
func (s *ReservationServiceImpl) publishReserved(r *model.Reservation) {
	numbers := make([]string, 0, len(r.Tickets))
	var eventRowID int
	for _, t := range r.Tickets {
		numbers = append(numbers, t.TicketNumber)
		eventRowID = t.EventID
	}

	msg := &model.ReservationMessage{
		Kind:           model.ReservationKindReserved,
		EventID:        eventRowID,
		EventUUID:      r.EventID,
		PurchaserID:    r.PurchaserID,
		Quantity:       r.Quantity,
		TotalPrice:     r.TotalPrice,
		TicketNumbers:  numbers,
		AvailableAfter: r.AvailableAfter,
		OccurredAt:     r.ReservedAt,
	}

	// 使用 context.Background()：請求結束也要把已 commit 的事件送出去
	if err := s.feed.Publish(context.Background(), msg); err != nil {
		logger.WithComponent("reservation").Warn("publish reservation failed",
			zap.String("event_id", r.EventID.String()), zap.Error(err))
	}
}

func (s *ReservationServiceImpl) GetAvailability(ctx context.Context, eventID uuid.UUID) (int, error) {
	event, err := s.eventRepo.FindByEventID(ctx, eventID)
	if err != nil {
		return 0, err
	}

	available, err := s.available.GetAvailable(ctx, event.ID)
	if err == nil {
		return available, nil
	}
	if !errors.Is(err, apperrors.ErrAvailabilityNotCached) {
		logger.WithComponent("reservation").Warn("availability cache read failed",
			zap.String("event_id", eventID.String()), zap.Error(err))
	}

	// 回源 DB；FindByEventID 已經讀到最新 committed 的值
	return event.AvailableTickets, nil
}

func newTicketNumber() (string, error) {
	buf := make([]byte, ticketNumberLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate ticket number: %w", err)
	}
	for i, b := range buf {
		buf[i] = ticketNumberAlphabet[int(b)%len(ticketNumberAlphabet)]
	}
	return "TKT-" + string(buf), nil
}
