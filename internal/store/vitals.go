package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/medsense/medsense/internal/vitals"
)

// VitalRepository persists and queries Sample rows.
type VitalRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewVitalRepository creates a vital repository over the shared handle.
func NewVitalRepository(db *sql.DB, logger *zap.Logger) *VitalRepository {
	return &VitalRepository{db: db, logger: logger}
}

// InsertVital appends one sample. Nil channel pointers are stored as NULL so
// an absent reading round-trips as absent, never as zero.
func (r *VitalRepository) InsertVital(ctx context.Context, s vitals.Sample) error {
	const q = `
		INSERT INTO vitals (patient_id, ts, heart_rate, spo2, temp_c, air_quality)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := r.db.ExecContext(ctx, q,
		s.PatientID, s.TS, s.HeartRate, s.SpO2, s.TempC, s.AirQuality,
	); err != nil {
		return fmt.Errorf("insert vital: %w", err)
	}
	return nil
}

// ListVitals returns samples with from <= ts <= to in ascending time order,
// timestamp ties broken by insertion order. An empty patientID matches all
// patients.
func (r *VitalRepository) ListVitals(ctx context.Context, patientID string, from, to time.Time) ([]vitals.Sample, error) {
	q := `
		SELECT patient_id, ts, heart_rate, spo2, temp_c, air_quality
		FROM vitals
		WHERE ts >= $1 AND ts <= $2`
	args := []interface{}{from, to}

	if patientID != "" {
		q += ` AND patient_id = $3`
		args = append(args, patientID)
	}
	q += ` ORDER BY ts, id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list vitals: %w", err)
	}
	defer rows.Close()

	out := make([]vitals.Sample, 0)
	for rows.Next() {
		var (
			s              vitals.Sample
			hr, o2, tc, aq sql.NullFloat64
		)
		if err := rows.Scan(&s.PatientID, &s.TS, &hr, &o2, &tc, &aq); err != nil {
			return nil, fmt.Errorf("list vitals: scan: %w", err)
		}
		s.HeartRate = nullableFloat(hr)
		s.SpO2 = nullableFloat(o2)
		s.TempC = nullableFloat(tc)
		s.AirQuality = nullableFloat(aq)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vitals: rows: %w", err)
	}
	return out, nil
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}
