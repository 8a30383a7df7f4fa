package money

import (
	"math"
	"testing"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1100.0000000000002, 1100},
		{0.125, 0.13},
		{-0.125, -0.13},
		{12000.004, 12000},
		{3.14159, 3.14},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if !math.IsInf(Round2(math.Inf(1)), 1) {
		t.Error("Round2(+Inf) should pass through")
	}
}

func TestAddDoesNotDrift(t *testing.T) {
	v := 0.0
	for i := 0; i < 1000; i++ {
		v = Add(v, 0.1)
	}
	if v != 100 {
		t.Fatalf("1000 x 0.1 = %v, want 100", v)
	}
}

func TestScale(t *testing.T) {
	if got := Scale(100, 0.92); got != 92 {
		t.Fatalf("Scale(100, 0.92) = %v, want 92", got)
	}
	if got := Scale(33.33, 1.15); got != 38.33 {
		t.Fatalf("Scale(33.33, 1.15) = %v, want 38.33", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1,250", 1250},
		{"$12.5", 12.5},
		{" -300 ", -300},
		{"-$1,000.25", -1000.25},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := Parse("lots"); err == nil {
		t.Error("Parse(\"lots\") should fail")
	}
}

func TestClampSaturates(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{12.5, 12.5},
		{math.Inf(1), MaxAmount},
		{-1e300, -MaxAmount},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if got := Add(MaxAmount, MaxAmount); got != MaxAmount {
		t.Errorf("Add at the bound = %v, want %v", got, MaxAmount)
	}
	if got := Scale(1e308, 1.25); got != MaxAmount {
		t.Errorf("Scale(1e308, 1.25) = %v, want %v", got, MaxAmount)
	}
}
