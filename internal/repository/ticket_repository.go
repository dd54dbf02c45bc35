package repository

import (
	"context"
	"errors"
	"time"

	"go-event-ticketing/internal/model"
	apperrors "go-event-ticketing/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// postgres unique_violation
const pgUniqueViolation = "23505"

type TicketRepository interface {
	FindByID(ctx context.Context, id int) (*model.Ticket, error)
	FindByTicketNumber(ctx context.Context, ticketNumber string) (*model.Ticket, error)
	ListByEventID(ctx context.Context, eventID int) ([]*model.Ticket, error)
	ListByPurchaserID(ctx context.Context, purchaserID uuid.UUID) ([]*model.Ticket, error)
	CountByEventID(ctx context.Context, eventID int) (int, error)

	// Transaction methods
	CreateBatch(ctx context.Context, tx pgx.Tx, tickets []*model.Ticket) ([]*model.Ticket, error)
	FindByTicketNumberWithLock(ctx context.Context, tx pgx.Tx, ticketNumber string) (*model.Ticket, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id int, status model.TicketStatus) (*model.Ticket, error)
}

type TicketRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &TicketRepositoryImpl{
		pool: pool,
	}
}

// CreateBatch 在同一交易內整批寫入票券；ticket_number 撞到唯一索引時回傳
// ErrReservationConflict，由上層決定是否重試
func (r *TicketRepositoryImpl) CreateBatch(ctx context.Context, tx pgx.Tx, tickets []*model.Ticket) ([]*model.Ticket, error) {
	query := `
		INSERT INTO tickets (
			ticket_id, ticket_number, event_id, purchaser_id, status, price
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, ticket_id, ticket_number, event_id, purchaser_id, status, price, created_at, updated_at
	`

	for _, ticket := range tickets {
		err := tx.QueryRow(ctx, query,
			ticket.TicketID, ticket.TicketNumber, ticket.EventID,
			ticket.PurchaserID, ticket.Status, ticket.Price,
		).Scan(
			&ticket.ID,
			&ticket.TicketID,
			&ticket.TicketNumber,
			&ticket.EventID,
			&ticket.PurchaserID,
			&ticket.Status,
			&ticket.Price,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		)

		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
				return nil, apperrors.ErrReservationConflict
			}
			return nil, err
		}
	}

	return tickets, nil
}

func (r *TicketRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Ticket, error) {
	query := `
		SELECT id, ticket_id, ticket_number, event_id, purchaser_id, status, price,
		       created_at, updated_at
		FROM tickets
		WHERE id = $1
	`

	var ticket model.Ticket
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.TicketID,
		&ticket.TicketNumber,
		&ticket.EventID,
		&ticket.PurchaserID,
		&ticket.Status,
		&ticket.Price,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}

	return &ticket, nil
}

func (r *TicketRepositoryImpl) FindByTicketNumber(ctx context.Context, ticketNumber string) (*model.Ticket, error) {
	query := `
		SELECT id, ticket_id, ticket_number, event_id, purchaser_id, status, price,
		       created_at, updated_at
		FROM tickets
		WHERE ticket_number = $1
	`

	var ticket model.Ticket
	err := r.pool.QueryRow(ctx, query, ticketNumber).Scan(
		&ticket.ID,
		&ticket.TicketID,
		&ticket.TicketNumber,
		&ticket.EventID,
		&ticket.PurchaserID,
		&ticket.Status,
		&ticket.Price,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}

	return &ticket, nil
}

func (r *TicketRepositoryImpl) FindByTicketNumberWithLock(ctx context.Context, tx pgx.Tx, ticketNumber string) (*model.Ticket, error) {
	query := `
		SELECT id, ticket_id, ticket_number, event_id, purchaser_id, status, price,
		       created_at, updated_at
		FROM tickets
		WHERE ticket_number = $1
		FOR UPDATE
	`

	var ticket model.Ticket
	err := tx.QueryRow(ctx, query, ticketNumber).Scan(
		&ticket.ID,
		&ticket.TicketID,
		&ticket.TicketNumber,
		&ticket.EventID,
		&ticket.PurchaserID,
		&ticket.Status,
		&ticket.Price,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}

	return &ticket, nil
}

func (r *TicketRepositoryImpl) ListByEventID(ctx context.Context, eventID int) ([]*model.Ticket, error) {
	query := `
		SELECT id, ticket_id, ticket_number, event_id, purchaser_id, status, price,
		       created_at, updated_at
		FROM tickets
		WHERE event_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTickets(rows)
}

func (r *TicketRepositoryImpl) ListByPurchaserID(ctx context.Context, purchaserID uuid.UUID) ([]*model.Ticket, error) {
	query := `
		SELECT id, ticket_id, ticket_number, event_id, purchaser_id, status, price,
		       created_at, updated_at
		FROM tickets
		WHERE purchaser_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, purchaserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTickets(rows)
}

func (r *TicketRepositoryImpl) CountByEventID(ctx context.Context, eventID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM tickets
		WHERE event_id = $1
	`

	var count int
	if err := r.pool.QueryRow(ctx, query, eventID).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *TicketRepositoryImpl) UpdateStatus(ctx context.Context, tx pgx.Tx, id int, status model.TicketStatus) (*model.Ticket, error) {
	query := `
		UPDATE tickets
		SET status = $1, updated_at = $2
		WHERE id = $3
		RETURNING id, ticket_id, ticket_number, event_id, purchaser_id, status, price, created_at, updated_at
	`

	var ticket model.Ticket
	err := tx.QueryRow(ctx, query, status, time.Now().UTC(), id).Scan(
		&ticket.ID,
		&ticket.TicketID,
		&ticket.TicketNumber,
		&ticket.EventID,
		&ticket.PurchaserID,
		&ticket.Status,
		&ticket.Price,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}

	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]*model.Ticket, error) {
	tickets := make([]*model.Ticket, 0)

	for rows.Next() {
		var ticket model.Ticket
		err := rows.Scan(
			&ticket.ID,
			&ticket.TicketID,
			&ticket.TicketNumber,
			&ticket.EventID,
			&ticket.PurchaserID,
			&ticket.Status,
			&ticket.Price,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, &ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tickets, nil
}
