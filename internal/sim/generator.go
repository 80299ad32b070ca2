package sim

import (
	"math"
	"math/rand"
	"time"

	"github.com/medsense/medsense/internal/vitals"
)

// Normal emission ranges, matching what ward sensors report at rest.
const (
	heartRateMin, heartRateMax   = 58, 95
	spo2Min, spo2Max             = 93, 99
	tempBase                     = 36.0
	airQualityMin, airQualityMax = 45, 110

	anomalyHeartRateMin, anomalyHeartRateMax = 130, 160
)

// Generator produces synthetic samples. Not safe for concurrent use — the
// runner calls it from a single loop.
type Generator struct {
	rnd         *rand.Rand
	anomalyRate float64
}

// NewGenerator seeds a generator. anomalyRate is the probability [0,1] that
// a sample carries a breaching heart rate.
func NewGenerator(seed int64, anomalyRate float64) *Generator {
	return &Generator{
		rnd:         rand.New(rand.NewSource(seed)),
		anomalyRate: anomalyRate,
	}
}

// Sample produces one reading for the patient, timestamped now.
func (g *Generator) Sample(patientID string, now time.Time) vitals.Sample {
	hr := float64(g.intn(heartRateMin, heartRateMax))
	if g.rnd.Float64() < g.anomalyRate {
		// Rare anomaly injection so downstream alerting gets exercised.
		hr = float64(g.intn(anomalyHeartRateMin, anomalyHeartRateMax))
	}
	temp := math.Round((tempBase+g.rnd.Float64())*100) / 100

	return vitals.Sample{
		PatientID:  patientID,
		TS:         now,
		HeartRate:  vitals.Float(hr),
		SpO2:       vitals.Float(float64(g.intn(spo2Min, spo2Max))),
		TempC:      vitals.Float(temp),
		AirQuality: vitals.Float(float64(g.intn(airQualityMin, airQualityMax))),
	}
}

// intn returns a uniform integer in [lo, hi] inclusive.
func (g *Generator) intn(lo, hi int) int {
	return lo + g.rnd.Intn(hi-lo+1)
}
