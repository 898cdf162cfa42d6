package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/dnldd/signal/indicator"
	"github.com/dnldd/signal/priceaction"
	"github.com/dnldd/signal/risk"
	"github.com/dnldd/signal/shared"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// Gate failure reasons. Evaluation halts at the first failing gate, a no-trade
// decision carries exactly one of these.
const (
	CooldownActive         = "cooldown active"
	SpreadExceedsMaximum   = "spread exceeds maximum"
	OutsideTradingSessions = "outside trading sessions"
	NoConfirmedUptrend     = "no confirmed uptrend"
	MomentumOutOfRange     = "momentum out of range"
	PriceBelowVWAP         = "price below vwap"
	VolatilityBelowMinimum = "volatility below minimum"
	NoConfirmedStructure   = "no confirmed structure"
)

// EngineConfig represents the configuration for the signal engine.
type EngineConfig struct {
	// Symbol is the tracked market.
	Symbol string
	// RSILower is the exclusive lower bound for acceptable momentum.
	RSILower float64
	// RSIUpper is the exclusive upper bound for acceptable momentum.
	RSIUpper float64
	// MinATR is the volatility floor below which no entries are suggested.
	MinATR float64
	// MaxSpreadPips is the maximum acceptable spread in pips.
	MaxSpreadPips float64
	// Cooldown is the minimum interval between long decisions.
	Cooldown time.Duration
	// SwingLookback is the trailing bar window scanned for swing lows.
	SwingLookback int
	// NewsFilterEnabled appends a news reminder to the reasoning trail. It
	// never blocks an entry, vetoing news risk periods stays with the operator.
	NewsFilterEnabled bool
	// SessionClock classifies evaluation instants into trading sessions.
	SessionClock *shared.SessionClock
	// RiskModel derives stops, targets and risk sizes for long entries.
	RiskModel *risk.Model
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config has sane inputs.
func (cfg *EngineConfig) Validate() error {
	var errs error

	if cfg.Symbol == "" {
		errs = errors.Join(errs, fmt.Errorf("symbol cannot be an empty string"))
	}
	if cfg.RSILower >= cfg.RSIUpper {
		errs = errors.Join(errs, fmt.Errorf("rsi lower bound (%f) must be below the upper bound (%f)",
			cfg.RSILower, cfg.RSIUpper))
	}
	if cfg.RSILower < 0 || cfg.RSIUpper > 100 {
		errs = errors.Join(errs, fmt.Errorf("rsi bounds must stay within [0, 100], got %f and %f",
			cfg.RSILower, cfg.RSIUpper))
	}
	if cfg.MinATR <= 0 {
		errs = errors.Join(errs, fmt.Errorf("minimum atr must be positive, got %f", cfg.MinATR))
	}
	if cfg.MaxSpreadPips <= 0 {
		errs = errors.Join(errs, fmt.Errorf("maximum spread must be positive, got %f", cfg.MaxSpreadPips))
	}
	if cfg.Cooldown < 0 {
		errs = errors.Join(errs, fmt.Errorf("cooldown cannot be negative, got %s", cfg.Cooldown))
	}
	if cfg.SwingLookback <= 0 {
		errs = errors.Join(errs, fmt.Errorf("swing lookback must be positive, got %d", cfg.SwingLookback))
	}
	if cfg.SessionClock == nil {
		errs = errors.Join(errs, fmt.Errorf("session clock cannot be nil"))
	}
	if cfg.RiskModel == nil {
		errs = errors.Join(errs, fmt.Errorf("risk model cannot be nil"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("logger cannot be nil"))
	}

	return errs
}

// Engine runs the ordered gate waterfall fusing indicators, market structure,
// session time and spread into a single risk bounded decision per evaluation.
//
// The only mutable state is the last signal time, owned exclusively by one
// engine instance and updated only when a long decision is produced. Callers
// are expected to keep at most one evaluation in flight per instance.
type Engine struct {
	cfg        *EngineConfig
	lastSignal atomic.Pointer[time.Time]
}

// NewEngine initializes a new signal engine.
func NewEngine(cfg *EngineConfig) (*Engine, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating engine config: %w", err)
	}

	return &Engine{cfg: cfg}, nil
}

// Evaluate runs the gate waterfall over the provided indicator snapshot and
// market context and emits a decision. Gate order is load bearing, cheaper
// filters run before the structure scan and a failing gate halts evaluation.
func (e *Engine) Evaluate(snapshot *indicator.Snapshot, mktCtx *shared.MarketContext) (*shared.Decision, error) {
	if snapshot == nil {
		return nil, fmt.Errorf("indicator snapshot cannot be nil")
	}
	if mktCtx == nil {
		return nil, fmt.Errorf("%w: no market context provided", shared.ErrMarketContextUnavailable)
	}
	err := mktCtx.Validate()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMarketContextUnavailable, err)
	}

	decision := shared.NewDecision(e.cfg.Symbol, snapshot.Timestamp)

	// Cooldown gate.
	last := e.lastSignal.Load()
	if last != nil && snapshot.Timestamp.Sub(*last) < e.cfg.Cooldown {
		decision.FailedConditions = append(decision.FailedConditions, CooldownActive)
		return decision, nil
	}
	decision.Reasoning = append(decision.Reasoning, "cooldown clear")

	// Spread gate.
	spreadPips := mktCtx.SpreadPips()
	if spreadPips > e.cfg.MaxSpreadPips {
		decision.FailedConditions = append(decision.FailedConditions, SpreadExceedsMaximum)
		return decision, nil
	}
	decision.Reasoning = append(decision.Reasoning,
		fmt.Sprintf("spread acceptable at %.1f pips", spreadPips))

	// Session gate.
	open, session := e.cfg.SessionClock.IsMarketOpen(snapshot.Timestamp)
	if !open {
		decision.FailedConditions = append(decision.FailedConditions, OutsideTradingSessions)
		return decision, nil
	}
	decision.Session = session
	decision.Reasoning = append(decision.Reasoning,
		fmt.Sprintf("trading during %s session (high liquidity)", session))

	// The news filter is informational only, it reminds the operator to
	// manually veto news risk periods.
	if e.cfg.NewsFilterEnabled {
		decision.Reasoning = append(decision.Reasoning,
			"news filter enabled, manually confirm no high impact releases")
	}

	// Trend gate.
	if !priceaction.IsUptrend(snapshot.EMAFast, snapshot.EMASlow, snapshot.Price) {
		decision.FailedConditions = append(decision.FailedConditions, NoConfirmedUptrend)
		return decision, nil
	}
	decision.Reasoning = append(decision.Reasoning,
		fmt.Sprintf("uptrend confirmed (ema %.5f > %.5f, price above both)",
			snapshot.EMAFast, snapshot.EMASlow))

	// Momentum gate, both weak and overbought momentum are avoided.
	if snapshot.RSI <= e.cfg.RSILower || snapshot.RSI >= e.cfg.RSIUpper {
		decision.FailedConditions = append(decision.FailedConditions, MomentumOutOfRange)
		return decision, nil
	}
	decision.Reasoning = append(decision.Reasoning,
		fmt.Sprintf("rsi healthy at %.1f (momentum without overbought)", snapshot.RSI))

	// Anchor gate, price above the rolling vwap signals institutional support.
	if snapshot.Price <= snapshot.VWAP {
		decision.FailedConditions = append(decision.FailedConditions, PriceBelowVWAP)
		return decision, nil
	}
	decision.Reasoning = append(decision.Reasoning, "price above vwap (institutional support)")

	// Volatility gate.
	if snapshot.ATR <= e.cfg.MinATR {
		decision.FailedConditions = append(decision.FailedConditions, VolatilityBelowMinimum)
		return decision, nil
	}
	decision.Reasoning = append(decision.Reasoning,
		fmt.Sprintf("atr shows sufficient volatility (%.5f)", snapshot.ATR))

	// Structure gate, the most expensive check runs last.
	swingLow, ok := priceaction.FindSwingLow(snapshot.High, snapshot.Low, e.cfg.SwingLookback)
	if !ok {
		decision.FailedConditions = append(decision.FailedConditions, NoConfirmedStructure)
		return decision, nil
	}
	decision.Reasoning = append(decision.Reasoning,
		fmt.Sprintf("higher low pattern confirmed at %.5f", swingLow))

	plan, err := e.cfg.RiskModel.Plan(snapshot.Price, snapshot.ATR, swingLow)
	if err != nil {
		return nil, fmt.Errorf("deriving exit plan: %w", err)
	}

	decision.Kind = shared.Long
	decision.Entry = snapshot.Price
	decision.StopLoss = plan.StopLoss
	decision.TakeProfit = plan.TakeProfit
	decision.RiskPips = plan.RiskPips

	e.markSignalled(snapshot.Timestamp)

	return decision, nil
}

// markSignalled records the provided instant as the last signal time. The
// recorded time never moves backwards.
func (e *Engine) markSignalled(timestamp time.Time) {
	last := e.lastSignal.Load()
	if last != nil && timestamp.Before(*last) {
		e.cfg.Logger.Warn().Msgf("ignoring out of order signal time %s, last signal at %s",
			timestamp, *last)
		return
	}

	e.lastSignal.Store(&timestamp)
}

// LastSignalTime returns the time of the last long decision, the flag is
// false when no long decision has been produced yet.
func (e *Engine) LastSignalTime() (time.Time, bool) {
	last := e.lastSignal.Load()
	if last == nil {
		return time.Time{}, false
	}

	return *last, true
}
