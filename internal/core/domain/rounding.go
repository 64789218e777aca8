package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RoundingMode names a decimal rounding strategy for ledger figures.
type RoundingMode string

const (
	RoundHalfUp   RoundingMode = "half_up"
	RoundHalfEven RoundingMode = "half_even"
	RoundUp       RoundingMode = "up"
	RoundDown     RoundingMode = "down"
)

// RoundingPolicy is the ledger decimal precision and rounding mode. It is
// threaded explicitly into the balance calculator and statement aggregators
// so tests can exercise multiple regimes deterministically.
type RoundingPolicy struct {
	Decimals int32
	Mode     RoundingMode
}

// DefaultRounding matches the common two-decimal currency ledger.
var DefaultRounding = RoundingPolicy{Decimals: 2, Mode: RoundHalfUp}

// Apply rounds the amount per the policy.
func (p RoundingPolicy) Apply(d decimal.Decimal) decimal.Decimal {
	switch p.Mode {
	case RoundHalfEven:
		return d.RoundBank(p.Decimals)
	case RoundUp:
		return d.RoundUp(p.Decimals)
	case RoundDown:
		return d.RoundDown(p.Decimals)
	default:
		return d.Round(p.Decimals)
	}
}

// ParseRoundingMode validates a configured mode string.
func ParseRoundingMode(s string) (RoundingMode, error) {
	switch RoundingMode(s) {
	case RoundHalfUp, RoundHalfEven, RoundUp, RoundDown:
		return RoundingMode(s), nil
	}
	return "", fmt.Errorf("unknown rounding mode %q", s)
}
