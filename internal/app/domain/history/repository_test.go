package history

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-wander/internal/app/models"
)

func newMockRepo(t *testing.T) (*RepositoryImpl, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewRepositoryImpl(mock, zap.NewNop()), mock
}

func sampleEntry(clientID uuid.UUID) models.HistoryEntry {
	return models.HistoryEntry{
		ID:          uuid.New(),
		ClientID:    clientID,
		Destination: "Lisbon",
		TripName:    "Lisbon Light",
		Days:        3,
		Itinerary:   models.TripItinerary{TripName: "Lisbon Light", Destination: "Lisbon"},
		CreatedAt:   time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestRepository_SaveInsertsAndTrims(t *testing.T) {
	repo, mock := newMockRepo(t)
	clientID := uuid.New()
	entry := sampleEntry(clientID)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO trip_history \(id,client_id,destination,trip_name,days,itinerary,created_at\)`).
		WithArgs(entry.ID, clientID, "Lisbon", "Lisbon Light", 3, pgxmock.AnyArg(), entry.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`DELETE FROM trip_history WHERE client_id = \$1 AND id NOT IN \(SELECT id FROM trip_history WHERE client_id = \$2 ORDER BY created_at DESC LIMIT \$3\)`).
		WithArgs(clientID, clientID, 5).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Save(context.Background(), entry, 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SaveRollsBackOnTrimFailure(t *testing.T) {
	repo, mock := newMockRepo(t)
	entry := sampleEntry(uuid.New())

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO trip_history`).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`DELETE FROM trip_history`).WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	err := repo.Save(context.Background(), entry, 5)
	assert.ErrorContains(t, err, "trim history")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListNewestFirst(t *testing.T) {
	repo, mock := newMockRepo(t)
	clientID := uuid.New()
	entry := sampleEntry(clientID)
	payload, err := json.Marshal(entry.Itinerary)
	require.NoError(t, err)

	rows := pgxmock.NewRows(columns).
		AddRow(entry.ID, clientID, entry.Destination, entry.TripName, entry.Days, payload, entry.CreatedAt)
	mock.ExpectQuery(`SELECT id, client_id, destination, trip_name, days, itinerary, created_at FROM trip_history WHERE client_id = \$1 ORDER BY created_at DESC LIMIT 5`).
		WithArgs(clientID).
		WillReturnRows(rows)

	got, err := repo.List(context.Background(), clientID, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, entry.ID, got[0].ID)
	assert.Equal(t, "Lisbon Light", got[0].Itinerary.TripName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListRejectsCorruptPayload(t *testing.T) {
	repo, mock := newMockRepo(t)
	clientID := uuid.New()
	entry := sampleEntry(clientID)

	rows := pgxmock.NewRows(columns).
		AddRow(entry.ID, clientID, entry.Destination, entry.TripName, entry.Days, []byte("{not json"), entry.CreatedAt)
	mock.ExpectQuery(`SELECT .* FROM trip_history`).WithArgs(clientID).WillReturnRows(rows)

	_, err := repo.List(context.Background(), clientID, 5)
	assert.ErrorContains(t, err, "decode itinerary")
}

func TestRepository_Clear(t *testing.T) {
	repo, mock := newMockRepo(t)
	clientID := uuid.New()

	mock.ExpectExec(`DELETE FROM trip_history WHERE client_id = \$1`).
		WithArgs(clientID).
		WillReturnResult(pgxmock.NewResult("DELETE", 4))

	n, err := repo.Clear(context.Background(), clientID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
