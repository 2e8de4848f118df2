package history

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-wander/internal/app/models"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Save(ctx context.Context, entry models.HistoryEntry, keep int) error {
	return m.Called(ctx, entry, keep).Error(0)
}

func (m *mockRepository) List(ctx context.Context, clientID uuid.UUID, limit int) ([]models.HistoryEntry, error) {
	args := m.Called(ctx, clientID, limit)
	entries, _ := args.Get(0).([]models.HistoryEntry)
	return entries, args.Error(1)
}

func (m *mockRepository) Clear(ctx context.Context, clientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(int64), args.Error(1)
}

func TestService_RecordBuildsEntry(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo, 5, zap.NewNop())
	fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	clientID := uuid.New()

	itinerary := models.TripItinerary{
		TripName:    "Kyoto Calm",
		Destination: "Kyoto",
		Days:        []models.DayPlan{{Day: 1}, {Day: 2}},
	}
	repo.On("Save", mock.Anything, mock.MatchedBy(func(e models.HistoryEntry) bool {
		return e.ClientID == clientID && e.Days == 2 && e.CreatedAt.Equal(fixed) && e.ID != uuid.Nil
	}), 5).Return(nil).Once()

	entry, err := svc.Record(context.Background(), clientID, itinerary)

	require.NoError(t, err)
	assert.Equal(t, "Kyoto", entry.Destination)
	repo.AssertExpectations(t)
}

func TestService_RecordValidates(t *testing.T) {
	svc := NewService(new(mockRepository), 5, zap.NewNop())

	_, err := svc.Record(context.Background(), uuid.Nil, models.TripItinerary{Destination: "Kyoto"})
	assert.ErrorIs(t, err, models.ErrBadRequest)

	_, err = svc.Record(context.Background(), uuid.New(), models.TripItinerary{Destination: " "})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestService_ListUsesLimit(t *testing.T) {
	repo := new(mockRepository)
	clientID := uuid.New()
	repo.On("List", mock.Anything, clientID, 3).Return([]models.HistoryEntry{{Destination: "Oslo"}}, nil).Once()

	got, err := NewService(repo, 3, zap.NewNop()).List(context.Background(), clientID)

	require.NoError(t, err)
	assert.Len(t, got, 1)
	repo.AssertExpectations(t)
}

func TestService_ListWrapsErrors(t *testing.T) {
	repo := new(mockRepository)
	repo.On("List", mock.Anything, mock.Anything, 5).Return(nil, errors.New("conn reset")).Once()

	_, err := NewService(repo, 5, zap.NewNop()).List(context.Background(), uuid.New())
	assert.ErrorContains(t, err, "failed to list trip history")
}

func TestHandler_ListAndClear(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := new(mockRepository)
	repo.On("List", mock.Anything, uuid.Nil, 5).Return([]models.HistoryEntry{{Destination: "Oslo"}}, nil)
	repo.On("Clear", mock.Anything, uuid.Nil).Return(int64(1), nil)

	h := NewHandler(NewService(repo, 5, zap.NewNop()), zap.NewNop())
	r := gin.New()
	r.GET("/api/history", h.List)
	r.DELETE("/api/history", h.Clear)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/history", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Entries []models.HistoryEntry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Oslo", body.Entries[0].Destination)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/history", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted":1}`, w.Body.String())
}
