package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-event-ticketing/internal/handler"
	"go-event-ticketing/internal/model"
	mocks "go-event-ticketing/test/internal/mocks/services"

	apperrors "go-event-ticketing/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupEventTestRouter(mockService *mocks.EventServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	eventHandler := handler.NewEventHandler(mockService)
	eventHandler.RegisterRoutes(router)

	return router
}

func sampleEvent(eventID uuid.UUID) *model.Event {
	return &model.Event{
		ID:               1,
		EventID:          eventID,
		Name:             "Summer Concert",
		Category:         "music",
		Venue:            "Main Arena",
		StartsAt:         time.Now().Add(72 * time.Hour).UTC(),
		Price:            150.0,
		TotalTickets:     500,
		AvailableTickets: 500,
	}
}

func TestListEvents(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		events := []*model.Event{sampleEvent(uuid.New()), sampleEvent(uuid.New())}
		mockService.On("List", mock.Anything, mock.Anything).Return(events, nil).Once()

		req, _ := http.NewRequest("GET", "/api/v1/events?category=music", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Summer Concert")
		mockService.AssertExpectations(t)
	})

	t.Run("Success - Empty", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		mockService.On("List", mock.Anything, mock.Anything).Return([]*model.Event{}, nil).Once()

		req, _ := http.NewRequest("GET", "/api/v1/events", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
		mockService.AssertExpectations(t)
	})
}

func TestGetEvent(t *testing.T) {
	eventID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		mockService.On("GetByEventID", mock.Anything, eventID).Return(sampleEvent(eventID), nil).Once()

		req, _ := http.NewRequest("GET", "/api/v1/events/"+eventID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - ErrEventNotFound", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		mockService.On("GetByEventID", mock.Anything, eventID).
			Return(nil, apperrors.ErrEventNotFound).Once()

		req, _ := http.NewRequest("GET", "/api/v1/events/"+eventID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - InvalidEventID", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		req, _ := http.NewRequest("GET", "/api/v1/events/not-a-uuid", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "GetByEventID")
	})
}

func TestCreateEvent(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		eventID := uuid.New()
		mockService.On("Create", mock.Anything, mock.Anything).Return(sampleEvent(eventID), nil).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/events", model.CreateEventRequest{
			Name:         "Summer Concert",
			Category:     "music",
			Venue:        "Main Arena",
			StartsAt:     time.Now().Add(72 * time.Hour).UTC(),
			Price:        150.0,
			TotalTickets: 500,
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - ErrInvalidInput", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		mockService.On("Create", mock.Anything, mock.Anything).
			Return(nil, apperrors.ErrInvalidInput).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/events", model.CreateEventRequest{
			Name:         "Summer Concert",
			StartsAt:     time.Now().Add(72 * time.Hour).UTC(),
			TotalTickets: 1,
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - BindingError", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		req := createJSONHTTPRequest("POST", "/api/v1/events", InvalidJSON)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Create")
	})
}

func TestUpdateEvent(t *testing.T) {
	eventID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		updated := sampleEvent(eventID)
		updated.Venue = "Riverside Stage"
		mockService.On("UpdateByEventID", mock.Anything, eventID, mock.Anything).
			Return(updated, nil).Once()

		req := createJSONHTTPRequest("PUT", "/api/v1/events/"+eventID.String(), map[string]string{
			"venue": "Riverside Stage",
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Riverside Stage")
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - ErrEventNotFound", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		mockService.On("UpdateByEventID", mock.Anything, eventID, mock.Anything).
			Return(nil, apperrors.ErrEventNotFound).Once()

		req := createJSONHTTPRequest("PUT", "/api/v1/events/"+eventID.String(), map[string]string{
			"name": "Renamed",
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockService.AssertExpectations(t)
	})
}

func TestOpenForSale(t *testing.T) {
	eventID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		mockService.On("OpenForSale", mock.Anything, eventID).Return(nil).Once()

		req, _ := http.NewRequest("POST", "/api/v1/events/"+eventID.String()+"/open-sale", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - ErrEventNotFound", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		mockService.On("OpenForSale", mock.Anything, eventID).
			Return(apperrors.ErrEventNotFound).Once()

		req, _ := http.NewRequest("POST", "/api/v1/events/"+eventID.String()+"/open-sale", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockService.AssertExpectations(t)
	})
}
