package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Open creates the shared Postgres handle and verifies connectivity.
// maxConns/maxIdle of zero leave the driver defaults in place.
func Open(dsn string, maxConns, maxIdle int) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
	}
	if maxIdle > 0 {
		db.SetMaxIdleConns(maxIdle)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping database: %w", err)
	}
	return db, nil
}

// schema bootstraps the two append-only tables. The bigserial id records
// insertion order and breaks timestamp ties in range queries.
const schema = `
CREATE TABLE IF NOT EXISTS vitals (
	id          BIGSERIAL PRIMARY KEY,
	patient_id  TEXT NOT NULL,
	ts          TIMESTAMPTZ NOT NULL,
	heart_rate  DOUBLE PRECISION,
	spo2        DOUBLE PRECISION,
	temp_c      DOUBLE PRECISION,
	air_quality DOUBLE PRECISION
);

CREATE INDEX IF NOT EXISTS idx_vitals_patient_ts ON vitals (patient_id, ts);
CREATE INDEX IF NOT EXISTS idx_vitals_ts ON vitals (ts);

CREATE TABLE IF NOT EXISTS alerts (
	id           BIGSERIAL PRIMARY KEY,
	alert_id     TEXT NOT NULL UNIQUE,
	patient_id   TEXT NOT NULL,
	type         TEXT NOT NULL,
	value        DOUBLE PRECISION NOT NULL,
	level        TEXT NOT NULL,
	ts           TIMESTAMPTZ NOT NULL,
	acknowledged BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_alerts_patient_ts ON alerts (patient_id, ts DESC);
`

// EnsureSchema creates the vitals and alerts tables if they do not exist.
// Safe to call on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("store: ensure schema: %w", err)
	}
	return nil
}
