package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/dnldd/signal/database"
	"github.com/dnldd/signal/engine"
	"github.com/dnldd/signal/fetch"
	"github.com/dnldd/signal/indicator"
	"github.com/dnldd/signal/journal"
	"github.com/dnldd/signal/risk"
	"github.com/dnldd/signal/service"
	"github.com/dnldd/signal/shared"
	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// handleTermination processes context cancellation signals or interrupt signals from the OS.
func handleTermination(ctx context.Context, cancel context.CancelFunc) {
	// Listen for interrupt signals.
	signals := []os.Signal{os.Interrupt}
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, signals...)

	// Wait for the context to be cancelled or an interrupt signal.
	for {
		select {
		case <-ctx.Done():
			return

		case <-interrupt:
			cancel()
		}
	}
}

func main() {
	var cfg Config
	err := loadConfig(&cfg, "")
	if err != nil {
		log.Printf("loading config: %v", err)
		return
	}

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	logger := log.With().Str("service", "signal").Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleTermination(ctx, cancel)

	timeframe, err := shared.ParseTimeframe(cfg.Timeframe)
	if err != nil {
		logger.Error().Msgf("parsing timeframe: %v", err)
		return
	}

	windows, err := shared.ParseSessionWindows(cfg.SessionWindows)
	if err != nil {
		logger.Error().Msgf("parsing session windows: %v", err)
		return
	}

	sessionClock, err := shared.NewSessionClock(windows)
	if err != nil {
		logger.Error().Msgf("creating session clock: %v", err)
		return
	}

	bridgeLogger := logger.With().Str("component", "bridge").Logger()
	bridge, err := fetch.NewBridgeClient(&fetch.BridgeConfig{
		BaseURL: cfg.BridgeURL,
		Logger:  &bridgeLogger,
	})
	if err != nil {
		logger.Error().Msgf("creating bridge client: %v", err)
		return
	}

	// Validate connectivity and fetch the symbol metadata needed to size risk.
	mktCtx, err := bridge.FetchMarketContext(ctx, cfg.Symbol)
	if err != nil {
		logger.Error().Msgf("validating symbol %s: %v", cfg.Symbol, err)
		return
	}
	logger.Info().Msgf("symbol %s validated, point size %v, digits %d",
		cfg.Symbol, mktCtx.PointSize, mktCtx.Digits)

	indicatorEngine, err := indicator.NewEngine(&indicator.EngineConfig{
		EMAFastPeriod: cfg.EMAFast,
		EMASlowPeriod: cfg.EMASlow,
		RSIPeriod:     cfg.RSIPeriod,
		ATRPeriod:     cfg.ATRPeriod,
		VWAPPeriod:    cfg.VWAPPeriod,
		MinBars:       cfg.MinBars,
	})
	if err != nil {
		logger.Error().Msgf("creating indicator engine: %v", err)
		return
	}

	riskModel, err := risk.NewModel(&risk.ModelConfig{
		ATRStopMultiplier: cfg.ATRStopMultiplier,
		RiskRewardRatio:   cfg.RiskReward,
		PointSize:         mktCtx.PointSize,
	})
	if err != nil {
		logger.Error().Msgf("creating risk model: %v", err)
		return
	}

	evaluatorLogger := logger.With().Str("component", "engine").Logger()
	evaluator, err := engine.NewEngine(&engine.EngineConfig{
		Symbol:            cfg.Symbol,
		RSILower:          cfg.RSILower,
		RSIUpper:          cfg.RSIUpper,
		MinATR:            cfg.MinATR,
		MaxSpreadPips:     cfg.MaxSpreadPips,
		Cooldown:          time.Duration(cfg.CooldownMinutes) * time.Minute,
		SwingLookback:     cfg.SwingLookback,
		NewsFilterEnabled: cfg.NewsFilter,
		SessionClock:      sessionClock,
		RiskModel:         riskModel,
		Logger:            &evaluatorLogger,
	})
	if err != nil {
		logger.Error().Msgf("creating signal engine: %v", err)
		return
	}

	journalLogger := logger.With().Str("component", "journal").Logger()
	csvJournal, err := journal.NewCSV(&journal.CSVConfig{
		Path:   cfg.JournalPath,
		Logger: &journalLogger,
	})
	if err != nil {
		logger.Error().Msgf("creating decision journal: %v", err)
		return
	}

	var store shared.DecisionStorer
	if cfg.DBEndpoint != "" {
		dbLogger := logger.With().Str("component", "database").Logger()
		db, err := database.NewDatabase(ctx, &database.DatabaseConfig{
			Endpoint: cfg.DBEndpoint,
			User:     cfg.DBUser,
			Pass:     cfg.DBPass,
			Logger:   &dbLogger,
		})
		if err != nil {
			logger.Error().Msgf("creating decision store: %v", err)
			return
		}
		store = db
	}

	svcLogger := logger.With().Str("component", "signalservice").Logger()
	svc, err := service.NewSignal(&service.SignalConfig{
		Symbol:          cfg.Symbol,
		Timeframe:       timeframe,
		MinBars:         cfg.MinBars,
		Fetcher:         bridge,
		IndicatorEngine: indicatorEngine,
		Evaluator:       evaluator,
		Journal:         csvJournal,
		Store:           store,
		JobScheduler:    gocron.NewScheduler(time.UTC),
		Cancel:          cancel,
		Logger:          &svcLogger,
	})
	if err != nil {
		logger.Error().Msgf("creating signal service: %v", err)
		return
	}

	err = svc.Run(ctx)
	if err != nil {
		logger.Error().Msgf("running signal service: %v", err)
	}
}
