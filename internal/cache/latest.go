package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/medsense/medsense/internal/vitals"
)

const (
	keyPrefix = "medsense:patient:"
	keySuffix = ":latest"
)

// Latest caches the newest sample per patient.
type Latest struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewLatest creates the cache. ttl bounds how long a reading is served after
// the sensor goes quiet.
func NewLatest(client *redis.Client, ttl time.Duration, logger *zap.Logger) *Latest {
	return &Latest{client: client, ttl: ttl, logger: logger}
}

func key(patientID string) string {
	return keyPrefix + patientID + keySuffix
}

// SetLatest stores s as the current reading for its patient.
func (c *Latest) SetLatest(ctx context.Context, s vitals.Sample) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("cache: marshal sample: %w", err)
	}
	if err := c.client.Set(ctx, key(s.PatientID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: set latest: %w", err)
	}
	return nil
}

// GetLatest returns the cached reading for the patient. The second return is
// false when no reading is cached (expired or never seen).
func (c *Latest) GetLatest(ctx context.Context, patientID string) (vitals.Sample, bool, error) {
	data, err := c.client.Get(ctx, key(patientID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return vitals.Sample{}, false, nil
	}
	if err != nil {
		return vitals.Sample{}, false, fmt.Errorf("cache: get latest: %w", err)
	}

	var s vitals.Sample
	if err := json.Unmarshal(data, &s); err != nil {
		return vitals.Sample{}, false, fmt.Errorf("cache: unmarshal sample: %w", err)
	}
	return s, true, nil
}
