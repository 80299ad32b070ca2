package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/medsense/medsense/internal/vitals"
)

func setupAlertRepo(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *AlertRepository) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewAlertRepository(db, zap.NewNop())
}

func TestInsertAlert(t *testing.T) {
	db, mock, repo := setupAlertRepo(t)
	defer db.Close()

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a := vitals.Alert{
		ID:        uuid.NewString(),
		PatientID: "patient_001",
		Type:      vitals.ChannelHeartRate,
		Details:   vitals.AlertDetails{Value: 160, Alert: vitals.LevelHigh},
		TS:        ts,
	}

	mock.ExpectExec(`INSERT INTO alerts`).
		WithArgs(a.ID, "patient_001", "heartRate", 160.0, "High", ts, false).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.InsertAlert(context.Background(), a))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertAlert_PersistenceError(t *testing.T) {
	db, mock, repo := setupAlertRepo(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO alerts`).
		WillReturnError(sql.ErrConnDone)

	err := repo.InsertAlert(context.Background(), vitals.Alert{ID: uuid.NewString(), PatientID: "p"})
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrConnDone)
}

func TestListAlerts_NewestFirst(t *testing.T) {
	db, mock, repo := setupAlertRepo(t)
	defer db.Close()

	newer := time.Date(2025, 6, 1, 12, 5, 0, 0, time.UTC)
	older := newer.Add(-5 * time.Minute)

	rows := sqlmock.NewRows([]string{"alert_id", "patient_id", "type", "value", "level", "ts", "acknowledged"}).
		AddRow("a2", "patient_001", "airQuality", 200.0, "Poor", newer, false).
		AddRow("a1", "patient_001", "heartRate", 160.0, "High", older, true)

	mock.ExpectQuery(`SELECT (.+) FROM alerts WHERE patient_id = \$1 ORDER BY ts DESC, id`).
		WithArgs("patient_001").
		WillReturnRows(rows)

	got, err := repo.ListAlerts(context.Background(), "patient_001")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "a2", got[0].ID)
	assert.Equal(t, vitals.ChannelAirQuality, got[0].Type)
	assert.Equal(t, vitals.LevelPoor, got[0].Details.Alert)
	assert.Equal(t, 200.0, got[0].Details.Value)
	assert.False(t, got[0].Acknowledged)

	assert.Equal(t, "a1", got[1].ID)
	assert.Equal(t, vitals.ChannelHeartRate, got[1].Type)
	assert.True(t, got[1].Acknowledged)
}

func TestListAlerts_Empty(t *testing.T) {
	db, mock, repo := setupAlertRepo(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM alerts`).
		WithArgs("patient_009").
		WillReturnRows(sqlmock.NewRows([]string{"alert_id", "patient_id", "type", "value", "level", "ts", "acknowledged"}))

	got, err := repo.ListAlerts(context.Background(), "patient_009")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListAlerts_QueryError(t *testing.T) {
	db, mock, repo := setupAlertRepo(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM alerts`).
		WillReturnError(sql.ErrConnDone)

	_, err := repo.ListAlerts(context.Background(), "patient_001")
	require.Error(t, err)
}
