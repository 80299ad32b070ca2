package sim

import (
	"context"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const sendTimeout = 10 * time.Second

// Runner posts one sample per patient every interval. Endpoint, patient set
// and interval are hot-swappable via SetConfig; the next round picks the new
// values up.
type Runner struct {
	client *resty.Client
	gen    *Generator
	logger *zap.Logger

	mu       sync.RWMutex
	endpoint string
	patients []string
	interval time.Duration
}

// NewRunner creates a runner with its own HTTP client.
func NewRunner(gen *Generator, endpoint string, patients []string, interval time.Duration, logger *zap.Logger) *Runner {
	return &Runner{
		client:   resty.New().SetTimeout(sendTimeout),
		gen:      gen,
		logger:   logger,
		endpoint: endpoint,
		patients: patients,
		interval: interval,
	}
}

// SetConfig swaps the emission parameters. Takes effect on the next round.
func (r *Runner) SetConfig(endpoint string, patients []string, interval time.Duration) {
	r.mu.Lock()
	r.endpoint = endpoint
	r.patients = append([]string(nil), patients...)
	r.interval = interval
	r.mu.Unlock()
	r.logger.Info("simulator: config updated",
		zap.String("endpoint", endpoint),
		zap.Int("patients", len(patients)),
		zap.Duration("interval", interval),
	)
}

// Run emits rounds until ctx is cancelled. Ingest failures are non-fatal:
// they are logged and the loop continues with the next patient.
func (r *Runner) Run(ctx context.Context) {
	for {
		r.emitRound(ctx)

		r.mu.RLock()
		interval := r.interval
		r.mu.RUnlock()

		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}

func (r *Runner) emitRound(ctx context.Context) {
	r.mu.RLock()
	endpoint := r.endpoint
	patients := r.patients
	r.mu.RUnlock()

	for _, p := range patients {
		if ctx.Err() != nil {
			return
		}
		s := r.gen.Sample(p, time.Now().UTC())

		resp, err := r.client.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(s).
			Post(endpoint)
		if err != nil {
			r.logger.Warn("simulator: send failed",
				zap.String("patient_id", p), zap.Error(err))
			continue
		}
		if resp.IsError() {
			r.logger.Warn("simulator: ingest rejected",
				zap.String("patient_id", p),
				zap.Int("status", resp.StatusCode()),
				zap.ByteString("body", resp.Body()),
			)
			continue
		}
		r.logger.Debug("simulator: sent",
			zap.String("patient_id", p),
			zap.Float64p("heart_rate", s.HeartRate),
			zap.Float64p("spo2", s.SpO2),
			zap.Float64p("temp_c", s.TempC),
		)
	}
}
