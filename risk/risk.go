package risk

import (
	"errors"
	"fmt"
)

// ModelConfig represents the configuration for the risk model.
type ModelConfig struct {
	// ATRStopMultiplier scales the atr to derive the volatility stop candidate.
	ATRStopMultiplier float64
	// RiskRewardRatio is the multiple applied to the risk distance to derive
	// the target distance.
	RiskRewardRatio float64
	// PointSize is the smallest price increment for the tracked market.
	PointSize float64
}

// Validate asserts the config has sane inputs.
func (cfg *ModelConfig) Validate() error {
	var errs error

	if cfg.ATRStopMultiplier <= 0 {
		errs = errors.Join(errs, fmt.Errorf("atr stop multiplier must be positive, got %f", cfg.ATRStopMultiplier))
	}
	if cfg.RiskRewardRatio <= 0 {
		errs = errors.Join(errs, fmt.Errorf("risk reward ratio must be positive, got %f", cfg.RiskRewardRatio))
	}
	if cfg.PointSize <= 0 {
		errs = errors.Join(errs, fmt.Errorf("point size must be positive, got %f", cfg.PointSize))
	}

	return errs
}

// ExitPlan represents the derived stop, target and risk size for a long entry.
type ExitPlan struct {
	StopLoss   float64
	TakeProfit float64
	RiskPips   float64
}

// Model derives stops, targets and risk sizes for long entries.
type Model struct {
	cfg *ModelConfig
}

// NewModel initializes a new risk model.
func NewModel(cfg *ModelConfig) (*Model, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating risk model config: %w", err)
	}

	return &Model{cfg: cfg}, nil
}

// Plan derives the exit plan for a long entry at the provided price. The stop
// is the higher of the structural swing low and the volatility stop, risk is
// never widened beyond the structural anchor.
func (m *Model) Plan(entry float64, atr float64, swingLow float64) (*ExitPlan, error) {
	atrStop := entry - atr*m.cfg.ATRStopMultiplier

	stopLoss := swingLow
	if atrStop > stopLoss {
		stopLoss = atrStop
	}

	riskDistance := entry - stopLoss
	if riskDistance <= 0 {
		return nil, fmt.Errorf("non-positive risk distance: entry %.5f, stop %.5f", entry, stopLoss)
	}

	plan := &ExitPlan{
		StopLoss:   stopLoss,
		TakeProfit: entry + riskDistance*m.cfg.RiskRewardRatio,
		RiskPips:   riskDistance / m.cfg.PointSize / 10,
	}

	return plan, nil
}
