package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medsense/medsense/internal/rules"
	"github.com/medsense/medsense/internal/vitals"
)

// Topics published to the broadcaster.
const (
	TopicVital = "vital"
	TopicAlert = "alert"
)

// VitalWriter persists samples.
type VitalWriter interface {
	InsertVital(ctx context.Context, s vitals.Sample) error
}

// AlertWriter persists alerts.
type AlertWriter interface {
	InsertAlert(ctx context.Context, a vitals.Alert) error
}

// Broadcaster fans records out to live observers. Publish is fire-and-forget.
type Broadcaster interface {
	Publish(topic string, payload interface{})
}

// LatestSetter caches the newest sample per patient. Optional collaborator.
type LatestSetter interface {
	SetLatest(ctx context.Context, s vitals.Sample) error
}

// RawSample is the wire payload accepted by the ingest endpoint. TS is
// decoded loosely: an RFC 3339 string or an epoch number, both optional.
type RawSample struct {
	PatientID  string      `json:"patientId"`
	TS         interface{} `json:"ts"`
	HeartRate  *float64    `json:"heartRate"`
	SpO2       *float64    `json:"spo2"`
	TempC      *float64    `json:"tempC"`
	AirQuality *float64    `json:"airQuality"`
}

// Pipeline orchestrates ingestion. Construct with New; safe for concurrent
// use as long as its collaborators are.
type Pipeline struct {
	vitalsW VitalWriter
	alertsW AlertWriter
	bus     Broadcaster
	latest  LatestSetter // nil disables the cache
	logger  *zap.Logger

	now   func() time.Time // injectable for deterministic tests
	newID func() string
}

// New wires the pipeline to its collaborators. latest may be nil.
func New(vw VitalWriter, aw AlertWriter, bus Broadcaster, latest LatestSetter, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		vitalsW: vw,
		alertsW: aw,
		bus:     bus,
		latest:  latest,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Ingest runs the full pipeline for one payload and returns the normalized
// sample that was persisted. The only fatal failure is the sample write;
// alert persistence and cache updates are best-effort.
func (p *Pipeline) Ingest(ctx context.Context, raw RawSample) (vitals.Sample, error) {
	s := p.normalize(raw)

	if err := p.vitalsW.InsertVital(ctx, s); err != nil {
		return vitals.Sample{}, fmt.Errorf("ingest: persist sample: %w", err)
	}

	if p.latest != nil {
		if err := p.latest.SetLatest(ctx, s); err != nil {
			p.logger.Warn("ingest: latest cache update failed",
				zap.String("patient_id", s.PatientID),
				zap.Error(err),
			)
		}
	}

	for _, c := range rules.Evaluate(s) {
		a := vitals.Alert{
			ID:        p.newID(),
			PatientID: s.PatientID,
			Type:      c.Type,
			Details:   vitals.AlertDetails{Value: c.Value, Alert: c.Level},
			TS:        p.now(),
		}
		if err := p.alertsW.InsertAlert(ctx, a); err != nil {
			// One failed alert must not block the remaining candidates or
			// the final sample broadcast.
			p.logger.Error("ingest: persist alert failed",
				zap.String("patient_id", a.PatientID),
				zap.String("type", string(a.Type)),
				zap.Error(err),
			)
		}
		p.bus.Publish(TopicAlert, a)
		p.logger.Info("alert created",
			zap.String("patient_id", a.PatientID),
			zap.String("type", string(a.Type)),
			zap.String("level", string(a.Details.Alert)),
			zap.Float64("value", a.Details.Value),
		)
	}

	p.bus.Publish(TopicVital, s)
	return s, nil
}

// normalize fills the defaults: missing patient id becomes "unknown",
// missing or unparseable ts becomes the ingestion time.
func (p *Pipeline) normalize(raw RawSample) vitals.Sample {
	s := vitals.Sample{
		PatientID:  raw.PatientID,
		TS:         p.parseTS(raw.TS),
		HeartRate:  raw.HeartRate,
		SpO2:       raw.SpO2,
		TempC:      raw.TempC,
		AirQuality: raw.AirQuality,
	}
	if s.PatientID == "" {
		s.PatientID = vitals.DefaultPatientID
	}
	return s
}

// parseTS interprets the loosely typed ts field. Unparseable values fall
// back to the ingestion time — the rest of the path is permissive, so a bad
// clock on a sensor must not reject its readings.
func (p *Pipeline) parseTS(v interface{}) time.Time {
	switch t := v.(type) {
	case nil:
		return p.now()
	case string:
		if t == "" {
			return p.now()
		}
		if ts, err := time.Parse(time.RFC3339, t); err == nil {
			return ts
		}
		p.logger.Warn("ingest: unparseable ts, using ingestion time", zap.String("ts", t))
		return p.now()
	case float64:
		return fromEpoch(t)
	default:
		p.logger.Warn("ingest: unsupported ts type, using ingestion time")
		return p.now()
	}
}

// fromEpoch converts a numeric timestamp. Producers send epoch milliseconds;
// anything below 1e12 is small enough that it can only be epoch seconds.
func fromEpoch(v float64) time.Time {
	if v < 1e12 {
		return time.Unix(int64(v), 0).UTC()
	}
	return time.UnixMilli(int64(v)).UTC()
}
