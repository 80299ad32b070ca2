package vitals

import "time"

// DefaultPatientID is substituted when an incoming sample carries no
// patient identifier. Samples are never stored with an empty patient id.
const DefaultPatientID = "unknown"

// Channel identifies one vital-sign or environmental reading.
// The temperature alert channel is "temp" while the sample field is "tempC";
// this asymmetry is part of the wire contract.
type Channel string

const (
	ChannelHeartRate  Channel = "heartRate"
	ChannelSpO2       Channel = "spo2"
	ChannelTemp       Channel = "temp"
	ChannelAirQuality Channel = "airQuality"
)

// Level classifies how a reading breached its clinical bound.
type Level string

const (
	LevelLow  Level = "Low"
	LevelHigh Level = "High"
	LevelPoor Level = "Poor"
)

// Sample is one timestamped set of readings for a patient. Channel fields are
// pointers: an absent channel stays nil and is skipped during evaluation —
// it is never coerced to zero. Samples are immutable once stored.
type Sample struct {
	PatientID  string    `json:"patientId"`
	TS         time.Time `json:"ts"`
	HeartRate  *float64  `json:"heartRate,omitempty"`
	SpO2       *float64  `json:"spo2,omitempty"`
	TempC      *float64  `json:"tempC,omitempty"`
	AirQuality *float64  `json:"airQuality,omitempty"`
}

// AlertDetails carries the breaching value and its classification.
type AlertDetails struct {
	Value float64 `json:"value"`
	Alert Level   `json:"alert"`
}

// Alert records that one channel of one Sample breached its bound. TS is the
// alert creation time, not the sample timestamp. Acknowledged starts false
// and is the only field an external actor may later mutate.
type Alert struct {
	ID           string       `json:"id"`
	PatientID    string       `json:"patientId"`
	Type         Channel      `json:"type"`
	Details      AlertDetails `json:"details"`
	TS           time.Time    `json:"ts"`
	Acknowledged bool         `json:"acknowledged"`
}

// Float returns a pointer to v. Convenience for building samples in callers
// and tests.
func Float(v float64) *float64 { return &v }
