package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-event-ticketing/internal/model"
	apperrors "go-event-ticketing/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	List(ctx context.Context, filter model.EventFilter) ([]*model.Event, error)
	FindByID(ctx context.Context, id int) (*model.Event, error)
	FindByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error)
	Update(ctx context.Context, id int, params model.UpdateEventParams) (*model.Event, error)

	// Transaction methods
	FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Event, error)
	FindByEventIDWithLock(ctx context.Context, tx pgx.Tx, eventID uuid.UUID) (*model.Event, error)
	DecrementAvailable(ctx context.Context, tx pgx.Tx, id int, quantity int) error
	IncrementAvailable(ctx context.Context, tx pgx.Tx, id int, quantity int) error
}

type EventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &EventRepositoryImpl{
		pool: pool,
	}
}

const eventColumns = `id, event_id, name, description, category, venue, starts_at,
		price, total_tickets, available_tickets, created_at, updated_at`

func scanEvent(row pgx.Row, event *model.Event) error {
	return row.Scan(
		&event.ID,
		&event.EventID,
		&event.Name,
		&event.Description,
		&event.Category,
		&event.Venue,
		&event.StartsAt,
		&event.Price,
		&event.TotalTickets,
		&event.AvailableTickets,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	query := fmt.Sprintf(`
		INSERT INTO events (
			event_id, name, description, category, venue, starts_at,
			price, total_tickets, available_tickets
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s
	`, eventColumns)

	row := r.pool.QueryRow(ctx, query,
		event.EventID, event.Name, event.Description, event.Category,
		event.Venue, event.StartsAt, event.Price,
		event.TotalTickets, event.AvailableTickets,
	)
	if err := scanEvent(row, event); err != nil {
		return nil, err
	}

	return event, nil
}

func (r *EventRepositoryImpl) List(ctx context.Context, filter model.EventFilter) ([]*model.Event, error) {
	wheres := []string{}
	args := []interface{}{}
	argPos := 1

	if filter.Category != nil {
		wheres = append(wheres, fmt.Sprintf("category = $%d", argPos))
		args = append(args, *filter.Category)
		argPos++
	}

	if filter.Query != nil {
		wheres = append(wheres, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+*filter.Query+"%")
		argPos++
	}

	if filter.From != nil {
		wheres = append(wheres, fmt.Sprintf("starts_at >= $%d", argPos))
		args = append(args, *filter.From)
		argPos++
	}

	if filter.To != nil {
		wheres = append(wheres, fmt.Sprintf("starts_at <= $%d", argPos))
		args = append(args, *filter.To)
		argPos++
	}

	whereClause := ""
	if len(wheres) > 0 {
		whereClause = "WHERE " + strings.Join(wheres, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		%s
		ORDER BY starts_at ASC
	`, eventColumns, whereClause)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*model.Event, 0)
	for rows.Next() {
		var event model.Event
		if err := scanEvent(rows, &event); err != nil {
			return nil, err
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		WHERE id = $1
	`, eventColumns)

	var event model.Event
	err := scanEvent(r.pool.QueryRow(ctx, query, id), &event)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return &event, nil
}

func (r *EventRepositoryImpl) FindByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		WHERE event_id = $1
	`, eventColumns)

	var event model.Event
	err := scanEvent(r.pool.QueryRow(ctx, query, eventID), &event)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return &event, nil
}

func (r *EventRepositoryImpl) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		WHERE id = $1
		FOR UPDATE
	`, eventColumns)

	var event model.Event
	err := scanEvent(tx.QueryRow(ctx, query, id), &event)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return &event, nil
}

// FindByEventIDWithLock 以 FOR UPDATE 鎖住活動列，序列化同一活動的併發預訂
func (r *EventRepositoryImpl) FindByEventIDWithLock(ctx context.Context, tx pgx.Tx, eventID uuid.UUID) (*model.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		WHERE event_id = $1
		FOR UPDATE
	`, eventColumns)

	var event model.Event
	err := scanEvent(tx.QueryRow(ctx, query, eventID), &event)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return &event, nil
}

func (r *EventRepositoryImpl) Update(ctx context.Context, id int, params model.UpdateEventParams) (*model.Event, error) {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	if params.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", argPos))
		args = append(args, *params.Name)
		argPos++
	}

	if params.Description != nil {
		sets = append(sets, fmt.Sprintf("description = $%d", argPos))
		args = append(args, *params.Description)
		argPos++
	}

	if params.Category != nil {
		sets = append(sets, fmt.Sprintf("category = $%d", argPos))
		args = append(args, *params.Category)
		argPos++
	}

	if params.Venue != nil {
		sets = append(sets, fmt.Sprintf("venue = $%d", argPos))
		args = append(args, *params.Venue)
		argPos++
	}

	if len(sets) == 0 {
		return nil, apperrors.ErrInvalidInput
	}

	// add updated_at
	sets = append(sets, fmt.Sprintf("updated_at = $%d", argPos))
	args = append(args, time.Now().UTC())
	argPos++

	// add id
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE events
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(sets, ", "), argPos, eventColumns)

	var event model.Event
	err := scanEvent(r.pool.QueryRow(ctx, query, args...), &event)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return &event, nil
}

// DecrementAvailable 扣減庫存，WHERE 條件保證不會扣到負數
func (r *EventRepositoryImpl) DecrementAvailable(ctx context.Context, tx pgx.Tx, id int, quantity int) error {
	query := `
		UPDATE events
		SET available_tickets = available_tickets - $1, updated_at = $2
		WHERE id = $3 AND available_tickets >= $1
	`

	result, err := tx.Exec(ctx, query, quantity, time.Now().UTC(), id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrInsufficientInventory
	}

	return nil
}

// IncrementAvailable 取消票券時歸還庫存，不會超過 total_tickets
func (r *EventRepositoryImpl) IncrementAvailable(ctx context.Context, tx pgx.Tx, id int, quantity int) error {
	query := `
		UPDATE events
		SET available_tickets = available_tickets + $1, updated_at = $2
		WHERE id = $3 AND available_tickets + $1 <= total_tickets
	`

	result, err := tx.Exec(ctx, query, quantity, time.Now().UTC(), id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrInvalidInput
	}

	return nil
}
