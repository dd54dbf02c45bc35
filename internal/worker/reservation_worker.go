package worker

import (
	"context"

	"go-event-ticketing/internal/cache"
	"go-event-ticketing/internal/model"
	"go-event-ticketing/internal/queue"
	"go-event-ticketing/pkg/logger"

	"go.uber.org/zap"
)

type ReservationWorker interface {
	// 訂閱預訂 feed
	Start(ctx context.Context) error
}

// ReservationWorkerImpl 消費預訂 feed：刷新庫存快取並留下售票紀錄 log。
// 庫存的正確性在 Postgres 交易內已經保證，這裡只負責讓查詢面跟上。
type ReservationWorkerImpl struct {
	available cache.EventAvailabilityCache
	feed      queue.ReservationQueue
}

func NewReservationWorker(available cache.EventAvailabilityCache, feed queue.ReservationQueue) ReservationWorker {
	return &ReservationWorkerImpl{
		available: available,
		feed:      feed,
	}
}

func (w *ReservationWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.feed.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			if err := w.handle(ctx, msg.Data); err != nil {
				// 快取刷不動就留在隊列裡延遲重試
				msg.Nack(true)
			} else {
				msg.Ack()
			}
		}
	}()
	return nil
}

func (w *ReservationWorkerImpl) handle(ctx context.Context, msg *model.ReservationMessage) error {
	log := logger.WithComponent("worker").With(
		zap.String("kind", msg.Kind),
		zap.String("event_id", msg.EventUUID.String()),
		zap.Int("quantity", msg.Quantity),
		zap.Int("available_after", msg.AvailableAfter),
	)

	if err := w.available.Refresh(ctx, msg.EventID, msg.AvailableAfter); err != nil {
		log.Error("refresh availability cache failed", zap.Error(err))
		return err
	}

	log.Info("reservation processed",
		zap.Float64("total_price", msg.TotalPrice),
		zap.Strings("ticket_numbers", msg.TicketNumbers))
	return nil
}
