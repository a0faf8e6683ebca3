package service

import (
	"math"

	"github.com/shopspring/decimal"
)

// roundMoney rounds to cents, half away from zero.
func roundMoney(value float64) float64 {
	if !isFinite(value) {
		return 0
	}
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// finiteOrZero replaces NaN and ±Inf with 0.
func finiteOrZero(v float64) float64 {
	if !isFinite(v) {
		return 0
	}
	return v
}

func nonNegative(v float64) float64 {
	v = finiteOrZero(v)
	if v < 0 {
		return 0
	}
	return v
}
