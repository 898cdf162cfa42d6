package main

import (
	"testing"

	"github.com/peterldowns/testy/assert"
)

func testConfig() *Config {
	return &Config{
		Symbol:            "EURUSD",
		Timeframe:         "M5",
		EMAFast:           20,
		EMASlow:           50,
		RSIPeriod:         14,
		ATRPeriod:         14,
		VWAPPeriod:        100,
		RSILower:          50,
		RSIUpper:          70,
		MinATR:            0.0001,
		RiskReward:        2.0,
		ATRStopMultiplier: 1.0,
		CooldownMinutes:   30,
		MaxSpreadPips:     2.0,
		SwingLookback:     20,
		MinBars:           200,
		NewsFilter:        true,
		BridgeURL:         "http://127.0.0.1:8222",
		JournalPath:       "signals.csv",
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(cfg *Config)
		wantErr bool
	}{
		{
			name:    "valid config returns nil",
			modify:  func(cfg *Config) {},
			wantErr: false,
		},
		{
			name:    "missing symbol",
			modify:  func(cfg *Config) { cfg.Symbol = "" },
			wantErr: true,
		},
		{
			name:    "missing bridge url",
			modify:  func(cfg *Config) { cfg.BridgeURL = "" },
			wantErr: true,
		},
		{
			name:    "missing journal path",
			modify:  func(cfg *Config) { cfg.JournalPath = "" },
			wantErr: true,
		},
		{
			name:    "unknown timeframe",
			modify:  func(cfg *Config) { cfg.Timeframe = "M7" },
			wantErr: true,
		},
		{
			name:    "non-positive minimum bars",
			modify:  func(cfg *Config) { cfg.MinBars = 0 },
			wantErr: true,
		},
		{
			name:    "negative cooldown",
			modify:  func(cfg *Config) { cfg.CooldownMinutes = -5 },
			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := testConfig()
			test.modify(cfg)

			err := cfg.Validate()
			if test.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRegisterFlagRejectsBadValues(t *testing.T) {
	cfg := testConfig()

	// Values must be non-nil pointers of a supported kind.
	assert.Error(t, cfg.registerFlag("badvalue", nil, "", "unset"))
	assert.Error(t, cfg.registerFlag("badkind", &struct{}{}, "", "unsupported"))

	// Reregistration is a no-op rather than a flag redefinition panic.
	var symbol string
	assert.NoError(t, cfg.registerFlag("symboltest", &symbol, "EURUSD", "the tracked market"))
	assert.NoError(t, cfg.registerFlag("symboltest", &symbol, "EURUSD", "the tracked market"))
}
