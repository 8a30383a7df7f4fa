package insight

import (
	"math"
	"testing"

	"github.com/theirongolddev/capflow/internal/model"
)

func TestComputeRunway(t *testing.T) {
	tests := []struct {
		name    string
		capital float64
		net     float64
		want    Runway
	}{
		{"burning", 1000, -100, Runway{Ticks: 10}},
		{"partial tick floors", 1050, -100, Runway{Ticks: 10}},
		{"positive net", 1000, 50, Runway{Unbounded: true}},
		{"zero net", 1000, 0, Runway{Unbounded: true}},
		{"broke and burning", 0, -100, Runway{}},
		{"broke but earning", 0, 100, Runway{}},
		{"negative capital", -10, 5, Runway{}},
		{"tiny burn saturates", 12000, -1e-22, Runway{Ticks: math.MaxInt}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeRunway(tt.capital, tt.net); got != tt.want {
				t.Errorf("ComputeRunway(%v, %v) = %+v, want %+v", tt.capital, tt.net, got, tt.want)
			}
		})
	}
	if s := (Runway{Unbounded: true}).String(); s != "∞" {
		t.Errorf("unbounded String = %q, want ∞", s)
	}
	if s := (Runway{Ticks: 10}).String(); s != "10 ticks" {
		t.Errorf("String = %q, want 10 ticks", s)
	}
}

func TestCoverage(t *testing.T) {
	if got := Coverage(200, 0); !math.IsInf(got, 1) {
		t.Errorf("Coverage(200, 0) = %v, want +Inf", got)
	}
	if got := Coverage(0, 0); got != 0 {
		t.Errorf("Coverage(0, 0) = %v, want 0", got)
	}
	if got := Coverage(300, 150); got != 2 {
		t.Errorf("Coverage(300, 150) = %v, want 2", got)
	}
}

func TestTrend(t *testing.T) {
	if got := Trend([]float64{5}); got != 0 {
		t.Errorf("Trend of one point = %v, want 0", got)
	}
	history := []float64{100, 1, 2, 3, 4, 5, 6, 7, 8}
	if got := Trend(history); got != 7 {
		t.Errorf("Trend = %v, want 7 (8 - 1 over last 8 points)", got)
	}
}

func TestLastDelta(t *testing.T) {
	if got := LastDelta([]float64{10, 25, 20}); got != -5 {
		t.Errorf("LastDelta = %v, want -5", got)
	}
	if got := LastDelta(nil); got != 0 {
		t.Errorf("LastDelta(nil) = %v, want 0", got)
	}
}

func TestSummarizeAppliesModifiers(t *testing.T) {
	s := model.NewState()
	s.Incomes = []model.BudgetItem{{ID: "a", Amount: 200, Multiplier: 1, Cadence: 2, Type: model.Income}}
	s.Variables.GrowthBoost = 100
	r := Summarize(s)
	if r.Totals.Income != 200 {
		t.Errorf("income = %v, want 200 (100 per cycle x2 boost)", r.Totals.Income)
	}
	if !math.IsInf(r.Coverage, 1) {
		t.Errorf("coverage = %v, want +Inf", r.Coverage)
	}
	if !r.Runway.Unbounded {
		t.Errorf("runway = %+v, want unbounded", r.Runway)
	}
}
