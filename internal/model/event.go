package model

import (
	"time"

	"github.com/google/uuid"
)

// Event 活動模型：total_tickets 建立後固定，available_tickets 只由預訂引擎扣減
type Event struct {
	ID               int       `json:"id" db:"id"`
	EventID          uuid.UUID `json:"event_id" db:"event_id"`
	Name             string    `json:"name" db:"name"`
	Description      *string   `json:"description,omitempty" db:"description"`
	Category         string    `json:"category" db:"category"`
	Venue            string    `json:"venue" db:"venue"`
	StartsAt         time.Time `json:"starts_at" db:"starts_at"`
	Price            float64   `json:"price" db:"price"`
	TotalTickets     int       `json:"total_tickets" db:"total_tickets"`
	AvailableTickets int       `json:"available_tickets" db:"available_tickets"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// IsSoldOut 檢查活動是否已售罄
func (e *Event) IsSoldOut() bool {
	return e.AvailableTickets <= 0
}

// CreateEventRequest 創建活動請求
type CreateEventRequest struct {
	Name         string    `json:"name" binding:"required"`
	Description  *string   `json:"description"`
	Category     string    `json:"category"`
	Venue        string    `json:"venue"`
	StartsAt     time.Time `json:"starts_at" binding:"required"`
	Price        float64   `json:"price" binding:"min=0"`
	TotalTickets int       `json:"total_tickets" binding:"required,min=1"`
}

type UpdateEventParams struct {
	Name        *string
	Description *string
	Category    *string
	Venue       *string
}

// EventFilter 活動查詢條件：分類、關鍵字與日期區間
type EventFilter struct {
	Category *string    `form:"category"`
	Query    *string    `form:"q"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
}

// EventResponse 活動響應
type EventResponse struct {
	EventID          uuid.UUID `json:"event_id"`
	Name             string    `json:"name"`
	Description      *string   `json:"description,omitempty"`
	Category         string    `json:"category"`
	Venue            string    `json:"venue"`
	StartsAt         string    `json:"starts_at"`
	Price            float64   `json:"price"`
	TotalTickets     int       `json:"total_tickets"`
	AvailableTickets int       `json:"available_tickets"`
	SoldOut          bool      `json:"sold_out"`
}

func NewEventResponse(e *Event) *EventResponse {
	return &EventResponse{
		EventID:          e.EventID,
		Name:             e.Name,
		Description:      e.Description,
		Category:         e.Category,
		Venue:            e.Venue,
		StartsAt:         e.StartsAt.UTC().Format(time.RFC3339),
		Price:            e.Price,
		TotalTickets:     e.TotalTickets,
		AvailableTickets: e.AvailableTickets,
		SoldOut:          e.IsSoldOut(),
	}
}
