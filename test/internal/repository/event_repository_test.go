package repository

import (
	"context"
	"testing"
	"time"

	"go-event-ticketing/internal/model"
	"go-event-ticketing/internal/repository"
	apperrors "go-event-ticketing/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRepository_Create(t *testing.T) {
	repo := repository.NewEventRepository(getTestDB())
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		desc := "A night of classics"
		event, err := repo.Create(ctx, &model.Event{
			EventID:          uuid.New(),
			Name:             "Symphony Night",
			Description:      &desc,
			Category:         "concert",
			Venue:            "City Hall",
			StartsAt:         time.Now().UTC().Add(24 * time.Hour),
			Price:            45.50,
			TotalTickets:     200,
			AvailableTickets: 200,
		})

		require.NoError(t, err)
		assert.NotZero(t, event.ID)
		assert.Equal(t, 200, event.TotalTickets)
		assert.Equal(t, 200, event.AvailableTickets)
		assert.Equal(t, 45.50, event.Price)
	})
}

func TestEventRepository_FindByEventID(t *testing.T) {
	repo := repository.NewEventRepository(getTestDB())
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		created := createTestEvent(t, "Jazz Evening", 30.0, 50)

		found, err := repo.FindByEventID(ctx, created.EventID)

		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, "Jazz Evening", found.Name)
	})

	t.Run("NotFound", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		_, err := repo.FindByEventID(ctx, uuid.New())

		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	})
}

func TestEventRepository_List(t *testing.T) {
	repo := repository.NewEventRepository(getTestDB())
	ctx := context.Background()

	t.Run("FilterByCategory", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		createTestEvent(t, "Rock Fest", 80.0, 500)
		theatre, err := repo.Create(ctx, &model.Event{
			EventID:          uuid.New(),
			Name:             "Hamlet",
			Category:         "theatre",
			Venue:            "Old Stage",
			StartsAt:         time.Now().UTC().Add(48 * time.Hour),
			Price:            25.0,
			TotalTickets:     80,
			AvailableTickets: 80,
		})
		require.NoError(t, err)

		category := "theatre"
		events, err := repo.List(ctx, model.EventFilter{Category: &category})

		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, theatre.ID, events[0].ID)
	})

	t.Run("FilterByQuery", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		createTestEvent(t, "Summer Jazz Festival", 30.0, 100)
		createTestEvent(t, "Winter Gala", 60.0, 100)

		q := "jazz"
		events, err := repo.List(ctx, model.EventFilter{Query: &q})

		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "Summer Jazz Festival", events[0].Name)
	})

	t.Run("FilterByDateRange", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		near := createTestEvent(t, "Soon Show", 10.0, 10)

		_, err := repo.Create(ctx, &model.Event{
			EventID:          uuid.New(),
			Name:             "Far Show",
			Category:         "concert",
			Venue:            "Main Hall",
			StartsAt:         time.Now().UTC().Add(30 * 24 * time.Hour),
			Price:            10.0,
			TotalTickets:     10,
			AvailableTickets: 10,
		})
		require.NoError(t, err)

		from := time.Now().UTC()
		to := time.Now().UTC().Add(7 * 24 * time.Hour)
		events, err := repo.List(ctx, model.EventFilter{From: &from, To: &to})

		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, near.ID, events[0].ID)
	})

	t.Run("Empty", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		events, err := repo.List(ctx, model.EventFilter{})

		require.NoError(t, err)
		assert.Empty(t, events)
	})
}

func TestEventRepository_Update(t *testing.T) {
	repo := repository.NewEventRepository(getTestDB())
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		event := createTestEvent(t, "Original", 20.0, 100)
		name := "Renamed"
		venue := "New Venue"

		updated, err := repo.Update(ctx, event.ID, model.UpdateEventParams{
			Name:  &name,
			Venue: &venue,
		})

		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
		assert.Equal(t, "New Venue", updated.Venue)
		// capacity is fixed at creation
		assert.Equal(t, 100, updated.TotalTickets)
		assert.Equal(t, 100, updated.AvailableTickets)
	})

	t.Run("NoFields", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		event := createTestEvent(t, "Original", 20.0, 100)

		_, err := repo.Update(ctx, event.ID, model.UpdateEventParams{})

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestEventRepository_DecrementAvailable(t *testing.T) {
	repo := repository.NewEventRepository(getTestDB())
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		event := createTestEvent(t, "Concert", 50.0, 10)

		tx, err := getTestDB().Begin(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		err = repo.DecrementAvailable(ctx, tx, event.ID, 4)
		require.NoError(t, err)
		require.NoError(t, tx.Commit(ctx))

		found, err := repo.FindByID(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, 6, found.AvailableTickets)
	})

	t.Run("InsufficientInventory", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		event := createTestEvent(t, "Concert", 50.0, 3)

		tx, err := getTestDB().Begin(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		err = repo.DecrementAvailable(ctx, tx, event.ID, 4)

		assert.ErrorIs(t, err, apperrors.ErrInsufficientInventory)
	})

	t.Run("NeverGoesNegative", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		event := createTestEvent(t, "Concert", 50.0, 5)

		tx, err := getTestDB().Begin(ctx)
		require.NoError(t, err)
		err = repo.DecrementAvailable(ctx, tx, event.ID, 5)
		require.NoError(t, err)
		require.NoError(t, tx.Commit(ctx))

		tx2, err := getTestDB().Begin(ctx)
		require.NoError(t, err)
		defer tx2.Rollback(ctx)
		err = repo.DecrementAvailable(ctx, tx2, event.ID, 1)
		assert.ErrorIs(t, err, apperrors.ErrInsufficientInventory)

		found, err := repo.FindByID(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, found.AvailableTickets)
	})
}

func TestEventRepository_IncrementAvailable(t *testing.T) {
	repo := repository.NewEventRepository(getTestDB())
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		event := createTestEvent(t, "Concert", 50.0, 10)

		tx, err := getTestDB().Begin(ctx)
		require.NoError(t, err)
		err = repo.DecrementAvailable(ctx, tx, event.ID, 5)
		require.NoError(t, err)
		require.NoError(t, tx.Commit(ctx))

		tx2, err := getTestDB().Begin(ctx)
		require.NoError(t, err)
		err = repo.IncrementAvailable(ctx, tx2, event.ID, 2)
		require.NoError(t, err)
		require.NoError(t, tx2.Commit(ctx))

		found, err := repo.FindByID(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, 7, found.AvailableTickets)
	})

	t.Run("CannotExceedTotal", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		event := createTestEvent(t, "Concert", 50.0, 10)

		tx, err := getTestDB().Begin(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		err = repo.IncrementAvailable(ctx, tx, event.ID, 1)

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}
