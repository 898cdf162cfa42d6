package shared

import (
	"errors"
	"fmt"
)

// MarketContext represents the instantaneous quote and symbol metadata needed
// to price spread for a market.
type MarketContext struct {
	Bid       float64
	Ask       float64
	PointSize float64
	Digits    int
}

// Validate asserts the market context has sane inputs.
func (m *MarketContext) Validate() error {
	var errs error

	if m.Bid <= 0 {
		errs = errors.Join(errs, fmt.Errorf("bid must be positive, got %f", m.Bid))
	}
	if m.Ask <= 0 {
		errs = errors.Join(errs, fmt.Errorf("ask must be positive, got %f", m.Ask))
	}
	if m.Ask < m.Bid {
		errs = errors.Join(errs, fmt.Errorf("ask (%f) cannot be below bid (%f)", m.Ask, m.Bid))
	}
	if m.PointSize <= 0 {
		errs = errors.Join(errs, fmt.Errorf("point size must be positive, got %f", m.PointSize))
	}

	return errs
}

// SpreadPips returns the current spread in pips. A pip is ten points for the
// tracked instrument class.
func (m *MarketContext) SpreadPips() float64 {
	return (m.Ask - m.Bid) / m.PointSize / 10
}
