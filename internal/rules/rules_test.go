package rules

import (
	"testing"

	"github.com/medsense/medsense/internal/vitals"
)

func sample(hr, spo2, temp, aq *float64) vitals.Sample {
	return vitals.Sample{
		PatientID:  "patient_001",
		HeartRate:  hr,
		SpO2:       spo2,
		TempC:      temp,
		AirQuality: aq,
	}
}

func TestEvaluate_AllInRange(t *testing.T) {
	s := sample(vitals.Float(72), vitals.Float(97), vitals.Float(36.5), vitals.Float(50))
	if got := Evaluate(s); len(got) != 0 {
		t.Errorf("Evaluate: got %d candidates, want 0", len(got))
	}
}

func TestEvaluate_HeartRateBoundariesInclusive(t *testing.T) {
	// 50 and 110 are in range; only strict breaches fire.
	for _, v := range []float64{50, 110} {
		s := sample(vitals.Float(v), nil, nil, nil)
		if got := Evaluate(s); len(got) != 0 {
			t.Errorf("heartRate=%v: got %d candidates, want 0", v, len(got))
		}
	}
}

func TestEvaluate_HeartRateHigh(t *testing.T) {
	s := sample(vitals.Float(160), nil, nil, nil)
	got := Evaluate(s)
	if len(got) != 1 {
		t.Fatalf("Evaluate: got %d candidates, want 1", len(got))
	}
	c := got[0]
	if c.Type != vitals.ChannelHeartRate {
		t.Errorf("Type: got %q, want heartRate", c.Type)
	}
	if c.Level != vitals.LevelHigh {
		t.Errorf("Level: got %q, want High", c.Level)
	}
	if c.Value != 160 {
		t.Errorf("Value: got %v, want 160", c.Value)
	}
}

func TestEvaluate_HeartRateLow(t *testing.T) {
	s := sample(vitals.Float(45), vitals.Float(99), vitals.Float(36.5), vitals.Float(50))
	got := Evaluate(s)
	if len(got) != 1 {
		t.Fatalf("Evaluate: got %d candidates, want 1", len(got))
	}
	if got[0].Type != vitals.ChannelHeartRate || got[0].Level != vitals.LevelLow {
		t.Errorf("candidate: got %s/%s, want heartRate/Low", got[0].Type, got[0].Level)
	}
}

func TestEvaluate_MultipleRulesFireInOrder(t *testing.T) {
	s := sample(vitals.Float(160), nil, nil, vitals.Float(200))
	got := Evaluate(s)
	if len(got) != 2 {
		t.Fatalf("Evaluate: got %d candidates, want 2", len(got))
	}
	if got[0].Type != vitals.ChannelHeartRate || got[0].Level != vitals.LevelHigh {
		t.Errorf("candidate[0]: got %s/%s, want heartRate/High", got[0].Type, got[0].Level)
	}
	if got[1].Type != vitals.ChannelAirQuality || got[1].Level != vitals.LevelPoor {
		t.Errorf("candidate[1]: got %s/%s, want airQuality/Poor", got[1].Type, got[1].Level)
	}
}

func TestEvaluate_AbsentChannelsSkipped(t *testing.T) {
	// No channels present at all — nothing to evaluate, nothing fires.
	if got := Evaluate(vitals.Sample{PatientID: "p"}); len(got) != 0 {
		t.Errorf("empty sample: got %d candidates, want 0", len(got))
	}
}

func TestEvaluate_TempUsesAlertChannelTemp(t *testing.T) {
	s := sample(nil, nil, vitals.Float(39.2), nil)
	got := Evaluate(s)
	if len(got) != 1 {
		t.Fatalf("Evaluate: got %d candidates, want 1", len(got))
	}
	// The alert channel is "temp", not "tempC".
	if got[0].Type != vitals.ChannelTemp {
		t.Errorf("Type: got %q, want temp", got[0].Type)
	}
	if got[0].Level != vitals.LevelHigh {
		t.Errorf("Level: got %q, want High", got[0].Level)
	}
}

func TestEvaluate_SpO2HasNoUpperBound(t *testing.T) {
	s := sample(nil, vitals.Float(100), nil, nil)
	if got := Evaluate(s); len(got) != 0 {
		t.Errorf("spo2=100: got %d candidates, want 0", len(got))
	}
}

func TestEvaluate_Table(t *testing.T) {
	tests := []struct {
		name   string
		sample vitals.Sample
		want   []Candidate
	}{
		{
			name:   "spo2 low",
			sample: sample(nil, vitals.Float(85), nil, nil),
			want:   []Candidate{{vitals.ChannelSpO2, 85, vitals.LevelLow}},
		},
		{
			name:   "temp low",
			sample: sample(nil, nil, vitals.Float(34.2), nil),
			want:   []Candidate{{vitals.ChannelTemp, 34.2, vitals.LevelLow}},
		},
		{
			name:   "air quality poor",
			sample: sample(nil, nil, nil, vitals.Float(150)),
			want:   []Candidate{{vitals.ChannelAirQuality, 150, vitals.LevelPoor}},
		},
		{
			name:   "everything breaching at once",
			sample: sample(vitals.Float(40), vitals.Float(80), vitals.Float(34), vitals.Float(300)),
			want: []Candidate{
				{vitals.ChannelHeartRate, 40, vitals.LevelLow},
				{vitals.ChannelSpO2, 80, vitals.LevelLow},
				{vitals.ChannelTemp, 34, vitals.LevelLow},
				{vitals.ChannelAirQuality, 300, vitals.LevelPoor},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.sample)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d candidates, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("candidate[%d]: got %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	s := sample(vitals.Float(160), vitals.Float(85), nil, vitals.Float(200))
	first := Evaluate(s)
	for i := 0; i < 10; i++ {
		got := Evaluate(s)
		if len(got) != len(first) {
			t.Fatalf("run %d: got %d candidates, want %d", i, len(got), len(first))
		}
		for j := range got {
			if got[j] != first[j] {
				t.Errorf("run %d candidate[%d]: got %+v, want %+v", i, j, got[j], first[j])
			}
		}
	}
}
