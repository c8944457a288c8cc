package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

func Float(v float64) *float64 { return &v }

func CopyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func FloatEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Round2 rounds half away from zero to cents. NaN and infinities are
// returned unchanged.
func Round2(v float64) float64 {
	if !IsFinite(v) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Cents is Round2 for computed money values: a non-finite value, or one that
// stops being finite once rounded, is null.
func Cents(v float64) *float64 {
	if !IsFinite(v) {
		return nil
	}
	r := Round2(v)
	if !IsFinite(r) {
		return nil
	}
	return &r
}
