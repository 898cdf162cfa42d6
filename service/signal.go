package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dnldd/signal/engine"
	"github.com/dnldd/signal/indicator"
	"github.com/dnldd/signal/journal"
	"github.com/dnldd/signal/shared"
	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
)

// SignalConfig represents the configuration struct for the signal service.
type SignalConfig struct {
	// Symbol is the tracked market.
	Symbol string
	// Timeframe is the evaluated bar timeframe.
	Timeframe shared.Timeframe
	// MinBars is the number of bars fetched per evaluation cycle.
	MinBars int
	// Fetcher fetches bars and market context from the terminal bridge.
	Fetcher shared.MarketFetcher
	// IndicatorEngine computes indicator snapshots from bar series.
	IndicatorEngine *indicator.Engine
	// Evaluator runs the decision gate waterfall.
	Evaluator *engine.Engine
	// Journal is the append only csv decision journal.
	Journal *journal.CSV
	// Store persists long decisions durably, nil disables persistence.
	Store shared.DecisionStorer
	// JobScheduler schedules evaluation cycles.
	JobScheduler *gocron.Scheduler
	// Output receives decision reports, defaults to stdout.
	Output io.Writer
	// Cancel is the context cancellation function.
	Cancel context.CancelFunc
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config has sane inputs.
func (cfg *SignalConfig) Validate() error {
	var errs error

	if cfg.Symbol == "" {
		errs = errors.Join(errs, fmt.Errorf("symbol cannot be an empty string"))
	}
	if cfg.MinBars <= 0 {
		errs = errors.Join(errs, fmt.Errorf("minimum bar count must be positive, got %d", cfg.MinBars))
	}
	if cfg.Fetcher == nil {
		errs = errors.Join(errs, fmt.Errorf("market fetcher cannot be nil"))
	}
	if cfg.IndicatorEngine == nil {
		errs = errors.Join(errs, fmt.Errorf("indicator engine cannot be nil"))
	}
	if cfg.Evaluator == nil {
		errs = errors.Join(errs, fmt.Errorf("evaluator cannot be nil"))
	}
	if cfg.Journal == nil {
		errs = errors.Join(errs, fmt.Errorf("journal cannot be nil"))
	}
	if cfg.JobScheduler == nil {
		errs = errors.Join(errs, fmt.Errorf("job scheduler cannot be nil"))
	}
	if cfg.Cancel == nil {
		errs = errors.Join(errs, fmt.Errorf("context cancellation function cannot be nil"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("logger cannot be nil"))
	}

	return errs
}

// Signal represents the manual trading signal service.
type Signal struct {
	cfg *SignalConfig
	mtx sync.Mutex
}

// NewSignal initializes a new signal service.
func NewSignal(cfg *SignalConfig) (*Signal, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating signal service config: %w", err)
	}

	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	return &Signal{cfg: cfg}, nil
}

// EvaluateOnce runs a single evaluation cycle: fetch bars and market context,
// compute the indicator snapshot, run the gate waterfall and dispatch the
// decision to the configured sinks. Errors abort the cycle entirely, no
// partial decision is produced.
func (s *Signal) EvaluateOnce(ctx context.Context) (*shared.Decision, error) {
	// Evaluation cycles are serialized, at most one is in flight at a time.
	s.mtx.Lock()
	defer s.mtx.Unlock()

	candles, err := s.cfg.Fetcher.FetchBars(ctx, s.cfg.Symbol, s.cfg.Timeframe, s.cfg.MinBars)
	if err != nil {
		return nil, fmt.Errorf("fetching bars: %w", err)
	}

	mktCtx, err := s.cfg.Fetcher.FetchMarketContext(ctx, s.cfg.Symbol)
	if err != nil {
		return nil, fmt.Errorf("fetching market context: %w", err)
	}

	snapshot, err := s.cfg.IndicatorEngine.Snapshot(candles)
	if err != nil {
		return nil, fmt.Errorf("computing indicator snapshot: %w", err)
	}

	decision, err := s.cfg.Evaluator.Evaluate(snapshot, mktCtx)
	if err != nil {
		return nil, fmt.Errorf("evaluating signal: %w", err)
	}

	err = WriteReport(s.cfg.Output, decision, snapshot, s.cfg.Timeframe)
	if err != nil {
		s.cfg.Logger.Error().Msgf("writing decision report: %v", err)
	}

	if decision.Kind == shared.Long {
		err = s.cfg.Journal.Append(decision)
		if err != nil {
			s.cfg.Logger.Error().Msgf("journaling decision: %v", err)
		}

		if s.cfg.Store != nil {
			err = s.cfg.Store.PersistDecision(ctx, decision)
			if err != nil {
				s.cfg.Logger.Error().Msgf("persisting decision: %v", err)
			}
		}
	}

	return decision, nil
}

// Run handles the lifecycle processes of the signal service.
func (s *Signal) Run(ctx context.Context) error {
	_, err := s.cfg.JobScheduler.Every(s.cfg.Timeframe.Duration()).Do(func() {
		_, err := s.EvaluateOnce(ctx)
		if err != nil {
			s.cfg.Logger.Error().Msgf("evaluation cycle for %s: %v", s.cfg.Symbol, err)
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling evaluation cycles: %w", err)
	}

	s.cfg.JobScheduler.StartAsync()
	defer s.cfg.JobScheduler.Stop()

	<-ctx.Done()

	return nil
}
