package model

import (
	"time"

	"github.com/google/uuid"
)

// ReserveTicketsRequest 預訂票券請求
type ReserveTicketsRequest struct {
	PurchaserID uuid.UUID `json:"purchaser_id" binding:"required"`
	Quantity    int       `json:"quantity" binding:"required,min=1"`
}

// Reservation 一次成功預訂的結果：整批票券與扣減後的剩餘庫存
type Reservation struct {
	EventID        uuid.UUID `json:"event_id"`
	PurchaserID    uuid.UUID `json:"purchaser_id"`
	Quantity       int       `json:"quantity"`
	TotalPrice     float64   `json:"total_price"`
	Tickets        []*Ticket `json:"tickets"`
	AvailableAfter int       `json:"available_after"`
	ReservedAt     time.Time `json:"reserved_at"`
}

// ReservationResponse 預訂響應
type ReservationResponse struct {
	EventID        uuid.UUID         `json:"event_id"`
	PurchaserID    uuid.UUID         `json:"purchaser_id"`
	Quantity       int               `json:"quantity"`
	TotalPrice     float64           `json:"total_price"`
	Tickets        []*TicketResponse `json:"tickets"`
	AvailableAfter int               `json:"available_after"`
}

func NewReservationResponse(r *Reservation) *ReservationResponse {
	tickets := make([]*TicketResponse, 0, len(r.Tickets))
	for _, t := range r.Tickets {
		tickets = append(tickets, NewTicketResponse(t))
	}
	return &ReservationResponse{
		EventID:        r.EventID,
		PurchaserID:    r.PurchaserID,
		Quantity:       r.Quantity,
		TotalPrice:     r.TotalPrice,
		Tickets:        tickets,
		AvailableAfter: r.AvailableAfter,
	}
}

// 預訂事件種類：餵給下游 feed 的訊息
const (
	ReservationKindReserved  = "reserved"
	ReservationKindCancelled = "cancelled"
)

// ReservationMessage 預訂完成後發佈到 feed 的訊息（commit 後才發佈）
type ReservationMessage struct {
	Kind           string    `json:"kind"`
	EventID        int       `json:"event_id"`
	EventUUID      uuid.UUID `json:"event_uuid"`
	PurchaserID    uuid.UUID `json:"purchaser_id"`
	Quantity       int       `json:"quantity"`
	TotalPrice     float64   `json:"total_price"`
	TicketNumbers  []string  `json:"ticket_numbers"`
	AvailableAfter int       `json:"available_after"`
	OccurredAt     time.Time `json:"occurred_at"`
}
