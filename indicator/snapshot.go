package indicator

import (
	"errors"
	"fmt"
	"time"

	"github.com/dnldd/signal/shared"
)

// EngineConfig represents the configuration for the indicator engine.
type EngineConfig struct {
	// EMAFastPeriod is the fast exponential moving average period.
	EMAFastPeriod int
	// EMASlowPeriod is the slow exponential moving average period.
	EMASlowPeriod int
	// RSIPeriod is the relative strength index period.
	RSIPeriod int
	// ATRPeriod is the average true range period.
	ATRPeriod int
	// VWAPPeriod is the lookback window for the rolling vwap.
	VWAPPeriod int
	// MinBars is the minimum bar count required before any indicator is valid.
	MinBars int
}

// Validate asserts the config has sane inputs.
func (cfg *EngineConfig) Validate() error {
	var errs error

	if cfg.EMAFastPeriod <= 0 {
		errs = errors.Join(errs, fmt.Errorf("fast ema period must be positive, got %d", cfg.EMAFastPeriod))
	}
	if cfg.EMASlowPeriod <= 0 {
		errs = errors.Join(errs, fmt.Errorf("slow ema period must be positive, got %d", cfg.EMASlowPeriod))
	}
	if cfg.EMAFastPeriod >= cfg.EMASlowPeriod {
		errs = errors.Join(errs, fmt.Errorf("fast ema period (%d) must be below slow ema period (%d)",
			cfg.EMAFastPeriod, cfg.EMASlowPeriod))
	}
	if cfg.RSIPeriod <= 0 {
		errs = errors.Join(errs, fmt.Errorf("rsi period must be positive, got %d", cfg.RSIPeriod))
	}
	if cfg.ATRPeriod <= 0 {
		errs = errors.Join(errs, fmt.Errorf("atr period must be positive, got %d", cfg.ATRPeriod))
	}
	if cfg.VWAPPeriod <= 0 {
		errs = errors.Join(errs, fmt.Errorf("vwap period must be positive, got %d", cfg.VWAPPeriod))
	}
	if cfg.MinBars <= cfg.EMASlowPeriod || cfg.MinBars <= cfg.VWAPPeriod {
		errs = errors.Join(errs, fmt.Errorf("minimum bar count (%d) must exceed the largest indicator period",
			cfg.MinBars))
	}

	return errs
}

// Snapshot represents the indicator values at the latest bar, plus the high
// and low series retained for market structure analysis.
type Snapshot struct {
	EMAFast   float64
	EMASlow   float64
	RSI       float64
	ATR       float64
	VWAP      float64
	Price     float64
	Timestamp time.Time

	High []float64
	Low  []float64
}

// Engine computes indicator snapshots from candlestick series.
type Engine struct {
	cfg *EngineConfig
}

// NewEngine initializes a new indicator engine.
func NewEngine(cfg *EngineConfig) (*Engine, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating indicator engine config: %w", err)
	}

	return &Engine{cfg: cfg}, nil
}

// Snapshot computes the indicator snapshot at the latest bar of the provided
// series. The series must hold at least the configured minimum bar count.
func (e *Engine) Snapshot(candles []shared.Candlestick) (*Snapshot, error) {
	err := shared.ValidateSeries(candles, e.cfg.MinBars)
	if err != nil {
		return nil, err
	}

	high := make([]float64, len(candles))
	low := make([]float64, len(candles))
	close := make([]float64, len(candles))
	volume := make([]float64, len(candles))
	for idx := range candles {
		high[idx] = candles[idx].High
		low[idx] = candles[idx].Low
		close[idx] = candles[idx].Close
		volume[idx] = candles[idx].Volume
	}

	emaFast, err := EMA(close, e.cfg.EMAFastPeriod)
	if err != nil {
		return nil, fmt.Errorf("computing fast ema: %w", err)
	}

	emaSlow, err := EMA(close, e.cfg.EMASlowPeriod)
	if err != nil {
		return nil, fmt.Errorf("computing slow ema: %w", err)
	}

	rsi, err := RSI(close, e.cfg.RSIPeriod)
	if err != nil {
		return nil, fmt.Errorf("computing rsi: %w", err)
	}

	atr, err := ATR(high, low, close, e.cfg.ATRPeriod)
	if err != nil {
		return nil, fmt.Errorf("computing atr: %w", err)
	}

	vwap, err := VWAP(high, low, close, volume, e.cfg.VWAPPeriod)
	if err != nil {
		return nil, fmt.Errorf("computing vwap: %w", err)
	}

	last := len(candles) - 1
	snapshot := &Snapshot{
		EMAFast:   emaFast[last],
		EMASlow:   emaSlow[last],
		RSI:       rsi[last],
		ATR:       atr[last],
		VWAP:      vwap[last],
		Price:     close[last],
		Timestamp: candles[last].Date,
		High:      high,
		Low:       low,
	}

	return snapshot, nil
}
