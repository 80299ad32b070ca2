package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/medsense/medsense/internal/ingest"
	"github.com/medsense/medsense/internal/vitals"
)

// defaultQueryWindow is the vitals range when no from/to is given.
const defaultQueryWindow = 24 * time.Hour

// Ingestor runs the ingestion pipeline for one payload.
type Ingestor interface {
	Ingest(ctx context.Context, raw ingest.RawSample) (vitals.Sample, error)
}

// VitalReader serves historical sample queries.
type VitalReader interface {
	ListVitals(ctx context.Context, patientID string, from, to time.Time) ([]vitals.Sample, error)
}

// AlertReader serves historical alert queries.
type AlertReader interface {
	ListAlerts(ctx context.Context, patientID string) ([]vitals.Alert, error)
}

// LatestReader serves the cached newest reading per patient.
type LatestReader interface {
	GetLatest(ctx context.Context, patientID string) (vitals.Sample, bool, error)
}

// ObserverCounter reports how many live observers are connected.
type ObserverCounter interface {
	Count() int
}

// Handler is the HTTP handler for all medsense routes.
type Handler struct {
	pipeline Ingestor
	vitals   VitalReader
	alerts   AlertReader
	latest   LatestReader // nil when the cache is disabled
	hub      ObserverCounter
	logger   *zap.Logger
}

// New creates a Handler and registers all routes. latest may be nil.
func New(pipeline Ingestor, vr VitalReader, ar AlertReader, latest LatestReader, hub ObserverCounter, logger *zap.Logger) http.Handler {
	h := &Handler{
		pipeline: pipeline,
		vitals:   vr,
		alerts:   ar,
		latest:   latest,
		hub:      hub,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", h.root)
	r.Get("/api/v1/health", h.health)
	r.Post("/api/v1/vitals", h.ingestVital)
	r.Get("/api/v1/vitals", h.allVitals)
	r.Get("/api/v1/patients/{id}/vitals", h.patientVitals)
	r.Get("/api/v1/patients/{id}/alerts", h.patientAlerts)
	r.Get("/api/v1/patients/{id}/latest", h.patientLatest)

	return r
}

// --- route handlers ---------------------------------------------------------

// root returns GET / — a plain banner so probes see a live service.
func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("MedSense API")) //nolint:errcheck
}

// health returns GET /api/v1/health — liveness plus observer count.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	if h.hub != nil {
		resp.Observers = h.hub.Count()
	}
	jsonResp(w, http.StatusOK, resp)
}

// ingestVital handles POST /api/v1/vitals — the sensor ingest endpoint.
// Accepted samples return 201 {ok:true}; pipeline failures return 500 with
// the underlying message.
func (h *Handler) ingestVital(w http.ResponseWriter, r *http.Request) {
	var raw ingest.RawSample
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		jsonErr(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	if _, err := h.pipeline.Ingest(r.Context(), raw); err != nil {
		h.logger.Error("ingest failed", zap.Error(err))
		jsonErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	jsonResp(w, http.StatusCreated, ingestResponse{OK: true})
}

// patientVitals handles GET /api/v1/patients/{id}/vitals?from=&to=.
// Range is inclusive; defaults to the last 24 hours; ascending time order.
func (h *Handler) patientVitals(w http.ResponseWriter, r *http.Request) {
	h.serveVitals(w, r, chi.URLParam(r, "id"))
}

// allVitals handles GET /api/v1/vitals?from=&to= across all patients.
func (h *Handler) allVitals(w http.ResponseWriter, r *http.Request) {
	h.serveVitals(w, r, "")
}

func (h *Handler) serveVitals(w http.ResponseWriter, r *http.Request, patientID string) {
	now := time.Now()
	from, err := parseTimeParam(r.URL.Query().Get("from"), now.Add(-defaultQueryWindow))
	if err != nil {
		jsonErr(w, http.StatusBadRequest, "invalid from timestamp")
		return
	}
	to, err := parseTimeParam(r.URL.Query().Get("to"), now)
	if err != nil {
		jsonErr(w, http.StatusBadRequest, "invalid to timestamp")
		return
	}

	samples, err := h.vitals.ListVitals(r.Context(), patientID, from, to)
	if err != nil {
		h.logger.Error("vitals query failed", zap.String("patient_id", patientID), zap.Error(err))
		jsonErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	jsonResp(w, http.StatusOK, samples)
}

// patientAlerts handles GET /api/v1/patients/{id}/alerts — newest first.
func (h *Handler) patientAlerts(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "id")

	alerts, err := h.alerts.ListAlerts(r.Context(), patientID)
	if err != nil {
		h.logger.Error("alerts query failed", zap.String("patient_id", patientID), zap.Error(err))
		jsonErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	jsonResp(w, http.StatusOK, alerts)
}

// patientLatest handles GET /api/v1/patients/{id}/latest — the cached
// newest reading. 404 when nothing is cached or the cache is disabled.
func (h *Handler) patientLatest(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "id")

	if h.latest == nil {
		jsonErr(w, http.StatusNotFound, "no recent reading for "+patientID)
		return
	}
	s, ok, err := h.latest.GetLatest(r.Context(), patientID)
	if err != nil {
		h.logger.Error("latest query failed", zap.String("patient_id", patientID), zap.Error(err))
		jsonErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		jsonErr(w, http.StatusNotFound, "no recent reading for "+patientID)
		return
	}
	jsonResp(w, http.StatusOK, s)
}

// --- helpers ----------------------------------------------------------------

// parseTimeParam parses a from/to query value: RFC 3339 or epoch
// milliseconds. Empty values take the fallback.
func parseTimeParam(v string, fallback time.Time) (time.Time, error) {
	if v == "" {
		return fallback, nil
	}
	if ts, err := time.Parse(time.RFC3339, v); err == nil {
		return ts, nil
	}
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms).UTC(), nil
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, ingestResponse{OK: false, Message: msg})
}
