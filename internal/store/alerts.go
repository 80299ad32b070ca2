package store

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/medsense/medsense/internal/vitals"
)

// AlertRepository persists and queries Alert rows.
type AlertRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAlertRepository creates an alert repository over the shared handle.
func NewAlertRepository(db *sql.DB, logger *zap.Logger) *AlertRepository {
	return &AlertRepository{db: db, logger: logger}
}

// InsertAlert appends one alert record.
func (r *AlertRepository) InsertAlert(ctx context.Context, a vitals.Alert) error {
	const q = `
		INSERT INTO alerts (alert_id, patient_id, type, value, level, ts, acknowledged)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if _, err := r.db.ExecContext(ctx, q,
		a.ID, a.PatientID, string(a.Type), a.Details.Value, string(a.Details.Alert), a.TS, a.Acknowledged,
	); err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// ListAlerts returns every alert for the patient, newest first, timestamp
// ties broken by insertion order.
func (r *AlertRepository) ListAlerts(ctx context.Context, patientID string) ([]vitals.Alert, error) {
	const q = `
		SELECT alert_id, patient_id, type, value, level, ts, acknowledged
		FROM alerts
		WHERE patient_id = $1
		ORDER BY ts DESC, id`

	rows, err := r.db.QueryContext(ctx, q, patientID)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	out := make([]vitals.Alert, 0)
	for rows.Next() {
		var (
			a          vitals.Alert
			typ, level string
		)
		if err := rows.Scan(&a.ID, &a.PatientID, &typ, &a.Details.Value, &level, &a.TS, &a.Acknowledged); err != nil {
			return nil, fmt.Errorf("list alerts: scan: %w", err)
		}
		a.Type = vitals.Channel(typ)
		a.Details.Alert = vitals.Level(level)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list alerts: rows: %w", err)
	}
	return out, nil
}
