package service

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/dnldd/signal/engine"
	"github.com/dnldd/signal/indicator"
	"github.com/dnldd/signal/journal"
	"github.com/dnldd/signal/risk"
	"github.com/dnldd/signal/shared"
	"github.com/go-co-op/gocron"
	"github.com/peterldowns/testy/assert"
	"github.com/rs/zerolog/log"
)

type fetcherMock struct {
	candles    []shared.Candlestick
	candlesErr error
	mktCtx     *shared.MarketContext
	mktCtxErr  error
}

func (m *fetcherMock) FetchBars(ctx context.Context, market string, timeframe shared.Timeframe, count int) ([]shared.Candlestick, error) {
	return m.candles, m.candlesErr
}

func (m *fetcherMock) FetchMarketContext(ctx context.Context, market string) (*shared.MarketContext, error) {
	return m.mktCtx, m.mktCtxErr
}

// generateCandles builds an ascending series of gently trending candles.
func generateCandles(count int, start time.Time) []shared.Candlestick {
	candles := make([]shared.Candlestick, count)
	for idx := range candles {
		price := 1.1 + 0.0001*float64(idx) + 0.00005*math.Sin(float64(idx))
		candles[idx] = shared.Candlestick{
			Open:      price - 0.00005,
			High:      price + 0.0002,
			Low:       price - 0.0002,
			Close:     price,
			Volume:    100 + float64(idx%10),
			Date:      start.Add(time.Duration(idx) * time.Minute * 5),
			Market:    "EURUSD",
			Timeframe: shared.FiveMinute,
		}
	}

	return candles
}

func setupService(t *testing.T, fetcher shared.MarketFetcher, output *bytes.Buffer) *Signal {
	indicatorEngine, err := indicator.NewEngine(&indicator.EngineConfig{
		EMAFastPeriod: 20,
		EMASlowPeriod: 50,
		RSIPeriod:     14,
		ATRPeriod:     14,
		VWAPPeriod:    100,
		MinBars:       200,
	})
	assert.NoError(t, err)

	clock, err := shared.NewSessionClock(shared.DefaultSessionWindows())
	assert.NoError(t, err)

	model, err := risk.NewModel(&risk.ModelConfig{
		ATRStopMultiplier: 1.0,
		RiskRewardRatio:   2.0,
		PointSize:         0.0001,
	})
	assert.NoError(t, err)

	evaluatorLogger := log.With().Str("component", "engine").Logger()
	evaluator, err := engine.NewEngine(&engine.EngineConfig{
		Symbol:        "EURUSD",
		RSILower:      50,
		RSIUpper:      70,
		MinATR:        0.0001,
		MaxSpreadPips: 2.0,
		Cooldown:      time.Minute * 30,
		SwingLookback: 20,
		SessionClock:  clock,
		RiskModel:     model,
		Logger:        &evaluatorLogger,
	})
	assert.NoError(t, err)

	journalLogger := log.With().Str("component", "journal").Logger()
	csvJournal, err := journal.NewCSV(&journal.CSVConfig{
		Path:   t.TempDir() + "/signals.csv",
		Logger: &journalLogger,
	})
	assert.NoError(t, err)

	svcLogger := log.With().Str("component", "signalservice").Logger()
	svc, err := NewSignal(&SignalConfig{
		Symbol:          "EURUSD",
		Timeframe:       shared.FiveMinute,
		MinBars:         200,
		Fetcher:         fetcher,
		IndicatorEngine: indicatorEngine,
		Evaluator:       evaluator,
		Journal:         csvJournal,
		JobScheduler:    gocron.NewScheduler(time.UTC),
		Output:          output,
		Cancel:          func() {},
		Logger:          &svcLogger,
	})
	assert.NoError(t, err)

	return svc
}

func TestSignalConfigValidate(t *testing.T) {
	var output bytes.Buffer
	svc := setupService(t, &fetcherMock{}, &output)

	tests := []struct {
		name   string
		modify func(cfg *SignalConfig)
	}{
		{
			name:   "missing symbol",
			modify: func(cfg *SignalConfig) { cfg.Symbol = "" },
		},
		{
			name:   "non-positive minimum bars",
			modify: func(cfg *SignalConfig) { cfg.MinBars = 0 },
		},
		{
			name:   "missing fetcher",
			modify: func(cfg *SignalConfig) { cfg.Fetcher = nil },
		},
		{
			name:   "missing indicator engine",
			modify: func(cfg *SignalConfig) { cfg.IndicatorEngine = nil },
		},
		{
			name:   "missing evaluator",
			modify: func(cfg *SignalConfig) { cfg.Evaluator = nil },
		},
		{
			name:   "missing journal",
			modify: func(cfg *SignalConfig) { cfg.Journal = nil },
		},
		{
			name:   "missing job scheduler",
			modify: func(cfg *SignalConfig) { cfg.JobScheduler = nil },
		},
		{
			name:   "missing cancel",
			modify: func(cfg *SignalConfig) { cfg.Cancel = nil },
		},
		{
			name:   "missing logger",
			modify: func(cfg *SignalConfig) { cfg.Logger = nil },
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := *svc.cfg
			test.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestEvaluateOnce(t *testing.T) {
	start := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)
	fetcher := &fetcherMock{
		candles: generateCandles(200, start),
		mktCtx: &shared.MarketContext{
			Bid:       1.1010,
			Ask:       1.1012,
			PointSize: 0.0001,
			Digits:    5,
		},
	}

	var output bytes.Buffer
	svc := setupService(t, fetcher, &output)

	decision, err := svc.EvaluateOnce(context.Background())
	assert.NoError(t, err)
	assert.NotEqual(t, decision, nil)

	// A report was written for the decision whatever its verdict.
	report := output.String()
	assert.True(t, strings.Contains(report, "EURUSD"))
	assert.True(t, strings.Contains(report, decision.Kind.String()))
	assert.True(t, strings.Contains(report, "INDICATOR VALUES:"))
}

func TestEvaluateOnceInsufficientData(t *testing.T) {
	start := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)
	fetcher := &fetcherMock{
		candles: generateCandles(120, start),
		mktCtx: &shared.MarketContext{
			Bid:       1.1010,
			Ask:       1.1012,
			PointSize: 0.0001,
			Digits:    5,
		},
	}

	var output bytes.Buffer
	svc := setupService(t, fetcher, &output)

	// A short series aborts the cycle entirely, no report is written.
	_, err := svc.EvaluateOnce(context.Background())
	assert.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInsufficientData))
	assert.Equal(t, output.String(), "")
}

func TestEvaluateOnceFetchFailure(t *testing.T) {
	fetcher := &fetcherMock{
		candlesErr: errors.New("bridge unreachable"),
	}

	var output bytes.Buffer
	svc := setupService(t, fetcher, &output)

	_, err := svc.EvaluateOnce(context.Background())
	assert.Error(t, err)
}
