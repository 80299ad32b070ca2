package rules

import "github.com/medsense/medsense/internal/vitals"

// Clinical bounds. Exactly these six checks and no others — spo2 has no
// upper bound, airQuality no lower bound.
const (
	HeartRateMin  = 50.0
	HeartRateMax  = 110.0
	SpO2Min       = 90.0
	TempCMin      = 35.0
	TempCMax      = 38.0
	AirQualityMax = 100.0
)

// Candidate is one rule firing: the channel, the breaching value and its
// classification. The pipeline turns candidates into persisted Alerts.
type Candidate struct {
	Type  vitals.Channel
	Value float64
	Level vitals.Level
}

// rule binds a channel accessor to a breach predicate.
type rule struct {
	channel vitals.Channel
	level   vitals.Level
	value   func(vitals.Sample) *float64
	breach  func(float64) bool
}

// table lists the rules in evaluation order: heartRate low, heartRate high,
// spo2 low, temp low, temp high, airQuality high. Alerts fire in this order.
var table = []rule{
	{vitals.ChannelHeartRate, vitals.LevelLow, heartRate, func(v float64) bool { return v < HeartRateMin }},
	{vitals.ChannelHeartRate, vitals.LevelHigh, heartRate, func(v float64) bool { return v > HeartRateMax }},
	{vitals.ChannelSpO2, vitals.LevelLow, spo2, func(v float64) bool { return v < SpO2Min }},
	{vitals.ChannelTemp, vitals.LevelLow, tempC, func(v float64) bool { return v < TempCMin }},
	{vitals.ChannelTemp, vitals.LevelHigh, tempC, func(v float64) bool { return v > TempCMax }},
	{vitals.ChannelAirQuality, vitals.LevelPoor, airQuality, func(v float64) bool { return v > AirQualityMax }},
}

func heartRate(s vitals.Sample) *float64  { return s.HeartRate }
func spo2(s vitals.Sample) *float64       { return s.SpO2 }
func tempC(s vitals.Sample) *float64      { return s.TempC }
func airQuality(s vitals.Sample) *float64 { return s.AirQuality }

// Evaluate checks s against every rule in table order and returns the
// candidates that fired. Absent channels are skipped — no alert, no error.
// Rules are independent: one sample can fire several at once, and a sample
// that breaches on consecutive ingestions fires fresh candidates each time.
func Evaluate(s vitals.Sample) []Candidate {
	var out []Candidate
	for _, r := range table {
		v := r.value(s)
		if v == nil {
			continue
		}
		if r.breach(*v) {
			out = append(out, Candidate{Type: r.channel, Value: *v, Level: r.level})
		}
	}
	return out
}
