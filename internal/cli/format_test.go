package cli

import (
	"math"
	"testing"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{12000, "$12,000.00"},
		{13100.5, "$13,100.50"},
		{0.999, "$1.00"},
		{-1234.56, "-$1,234.56"},
		{0, "$0.00"},
		{math.Inf(1), "∞"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.in); got != tt.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatSigned(t *testing.T) {
	if got := FormatSigned(1100); got != "+$1,100.00" {
		t.Errorf("FormatSigned(1100) = %q", got)
	}
	if got := FormatSigned(-80); got != "-$80.00" {
		t.Errorf("FormatSigned(-80) = %q", got)
	}
}

func TestFormatCompact(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{999, "$999"},
		{12000, "$12.0K"},
		{1_500_000, "$1.5M"},
		{-2500, "-$2.5K"},
	}
	for _, tt := range tests {
		if got := FormatCompact(tt.in); got != tt.want {
			t.Errorf("FormatCompact(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatRatio(t *testing.T) {
	if got := FormatRatio(math.Inf(1)); got != "∞" {
		t.Errorf("FormatRatio(+Inf) = %q", got)
	}
	if got := FormatRatio(1.5); got != "1.50x" {
		t.Errorf("FormatRatio(1.5) = %q", got)
	}
}

func TestFormatSmallPieces(t *testing.T) {
	if got := FormatPercent(12.5); got != "12.5%" {
		t.Errorf("FormatPercent = %q", got)
	}
	if got := FormatMultiplier(1); got != "x1" {
		t.Errorf("FormatMultiplier = %q", got)
	}
	if got := FormatCadence(1); got != "every tick" {
		t.Errorf("FormatCadence(1) = %q", got)
	}
	if got := FormatCadence(4); got != "every 4 ticks" {
		t.Errorf("FormatCadence(4) = %q", got)
	}
	if got := FormatInterval(2000); got != "2.0s" {
		t.Errorf("FormatInterval(2000) = %q", got)
	}
	if got := FormatInterval(250); got != "0.25s" {
		t.Errorf("FormatInterval(250) = %q", got)
	}
	if got := FormatNumber(1234567); got != "1,234,567" {
		t.Errorf("FormatNumber = %q", got)
	}
}
