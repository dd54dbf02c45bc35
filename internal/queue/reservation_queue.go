package queue

import (
	"context"
	"go-event-ticketing/internal/model"
)

type Delivery struct {
	Data *model.ReservationMessage
	Ack  func()
	Nack func(requeue bool)
}

// ReservationQueue 預訂完成事件的 feed：引擎 commit 後發佈，worker 消費
type ReservationQueue interface {
	// 發送預訂事件到隊列
	Publish(ctx context.Context, msg *model.ReservationMessage) error
	// 訂閱預訂事件隊列
	Subscribe(ctx context.Context) (<-chan Delivery, error)
}

type MemoryReservationQueue struct {
	// 使用 Go channel 模擬 MQ 隊列，測試及單機部署用
	ch chan *model.ReservationMessage
}

func NewMemoryReservationQueue(bufferSize int) *MemoryReservationQueue {
	return &MemoryReservationQueue{
		ch: make(chan *model.ReservationMessage, bufferSize),
	}
}

func (q *MemoryReservationQueue) Publish(ctx context.Context, msg *model.ReservationMessage) error {
	select {
	case q.ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryReservationQueue) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-q.ch:
				if !ok {
					return
				}

				out <- Delivery{
					Data: msg,
					Ack:  func() { /* 記憶體版不用做特別動作 */ },
					Nack: func(requeue bool) {
						if requeue {
							q.ch <- msg // 簡單模擬重回隊列
						}
					},
				}
			}
		}
	}()

	return out, nil
}
