// Package money keeps capital arithmetic at cent precision.
package money

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxAmount bounds capital, item amounts and per-tick deltas in either
// direction. Figures beyond it saturate rather than overflow to infinity.
const MaxAmount = 1e15

// Clamp saturates v to [-MaxAmount, MaxAmount]. NaN becomes 0.
func Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v > MaxAmount:
		return MaxAmount
	case v < -MaxAmount:
		return -MaxAmount
	}
	return v
}

// Round2 rounds v half away from zero to two decimal places.
// Non-finite values are returned unchanged.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Add returns a+b rounded to cents and clamped to MaxAmount. Both operands
// are treated as decimals so repeated additions do not accumulate binary
// drift.
func Add(a, b float64) float64 {
	sum := decimal.NewFromFloat(Clamp(a)).Add(decimal.NewFromFloat(Clamp(b)))
	return Clamp(sum.Round(2).InexactFloat64())
}

// Scale returns v*factor rounded to cents and clamped to MaxAmount.
func Scale(v, factor float64) float64 {
	product := decimal.NewFromFloat(Clamp(v)).Mul(decimal.NewFromFloat(Clamp(factor)))
	return Clamp(product.Round(2).InexactFloat64())
}

// FormatPlain renders v with at most two decimals and no trailing zeros.
func FormatPlain(v float64) string {
	if !Finite(v) {
		return "∞"
	}
	return decimal.NewFromFloat(v).Round(2).String()
}

// Finite reports whether v is neither NaN nor infinite.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

var amountCleaner = strings.NewReplacer("$", "", ",", "", "_", "")

// Parse reads a user-typed amount such as "1,250", "$12.5" or "-300".
func Parse(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amountCleaner.Replace(s)))
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d.InexactFloat64(), nil
}
