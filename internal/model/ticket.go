package model

import (
	"time"

	"github.com/google/uuid"
)

// TicketStatus 票券狀態類型
type TicketStatus string

const (
	TicketStatusActive    TicketStatus = "active"
	TicketStatusUsed      TicketStatus = "used"
	TicketStatusCancelled TicketStatus = "cancelled"
)

// IsValid 驗證狀態是否有效
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusActive, TicketStatusUsed, TicketStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo 檢查是否可以轉換到目標狀態
func (s TicketStatus) CanTransitionTo(target TicketStatus) bool {
	transitions := map[TicketStatus][]TicketStatus{
		TicketStatusActive:    {TicketStatusUsed, TicketStatusCancelled},
		TicketStatusUsed:      {},
		TicketStatusCancelled: {}, // 不能轉換到任何狀態
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}

// Ticket 票券模型：price 為購買當下的快照，與活動後續改價無關
type Ticket struct {
	ID           int          `json:"id" db:"id"`
	TicketID     uuid.UUID    `json:"ticket_id" db:"ticket_id"`
	TicketNumber string       `json:"ticket_number" db:"ticket_number"`
	EventID      int          `json:"event_id" db:"event_id"`
	PurchaserID  uuid.UUID    `json:"purchaser_id" db:"purchaser_id"`
	Status       TicketStatus `json:"status" db:"status"`
	Price        float64      `json:"price" db:"price"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

// IsActive 檢查票券是否可使用
func (t *Ticket) IsActive() bool {
	return t.Status == TicketStatusActive
}

// TicketResponse 票券響應
type TicketResponse struct {
	TicketID     uuid.UUID `json:"ticket_id"`
	TicketNumber string    `json:"ticket_number"`
	PurchaserID  uuid.UUID `json:"purchaser_id"`
	Status       string    `json:"status"`
	Price        float64   `json:"price"`
}

func NewTicketResponse(t *Ticket) *TicketResponse {
	return &TicketResponse{
		TicketID:     t.TicketID,
		TicketNumber: t.TicketNumber,
		PurchaserID:  t.PurchaserID,
		Status:       string(t.Status),
		Price:        t.Price,
	}
}
