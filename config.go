package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"reflect"
	"strconv"

	"github.com/dnldd/signal/shared"
	"github.com/joho/godotenv"
)

// Config is the configuration struct for the service.
type Config struct {
	// Symbol is the tracked market.
	Symbol string
	// Timeframe is the evaluated bar timeframe.
	Timeframe string
	// EMAFast is the fast exponential moving average period.
	EMAFast int
	// EMASlow is the slow exponential moving average period.
	EMASlow int
	// RSIPeriod is the relative strength index period.
	RSIPeriod int
	// ATRPeriod is the average true range period.
	ATRPeriod int
	// VWAPPeriod is the rolling vwap lookback.
	VWAPPeriod int
	// RSILower is the exclusive lower bound for acceptable momentum.
	RSILower float64
	// RSIUpper is the exclusive upper bound for acceptable momentum.
	RSIUpper float64
	// MinATR is the volatility floor below which no entries are suggested.
	MinATR float64
	// RiskReward is the risk to reward ratio.
	RiskReward float64
	// ATRStopMultiplier scales the atr to derive the volatility stop candidate.
	ATRStopMultiplier float64
	// SessionWindows is the configured session window set, NAME=open-close
	// entries separated by commas. Empty selects the default major sessions.
	SessionWindows string
	// CooldownMinutes is the minimum interval between long decisions.
	CooldownMinutes int
	// MaxSpreadPips is the maximum acceptable spread in pips.
	MaxSpreadPips float64
	// SwingLookback is the trailing bar window scanned for swing lows.
	SwingLookback int
	// MinBars is the minimum historical bar count required per evaluation.
	MinBars int
	// NewsFilter appends a news reminder to long decision reasoning.
	NewsFilter bool
	// BridgeURL is the terminal bridge endpoint.
	BridgeURL string
	// JournalPath is the filepath of the csv decision journal.
	JournalPath string
	// DBEndpoint is the decision store endpoint, empty disables persistence.
	DBEndpoint string
	// DBUser is the decision store user.
	DBUser string
	// DBPass is the decision store user pass.
	DBPass string

	registeredFlags map[string]bool
}

// Validate asserts the config sane inputs. Parameter combinations for the
// pipeline components are validated again at their construction.
func (cfg *Config) Validate() error {
	var errs error

	if cfg.Symbol == "" {
		errs = errors.Join(errs, fmt.Errorf("symbol cannot be an empty string"))
	}
	if cfg.BridgeURL == "" {
		errs = errors.Join(errs, fmt.Errorf("bridge url cannot be an empty string"))
	}
	if cfg.JournalPath == "" {
		errs = errors.Join(errs, fmt.Errorf("journal path cannot be an empty string"))
	}
	if _, err := shared.ParseTimeframe(cfg.Timeframe); err != nil {
		errs = errors.Join(errs, err)
	}
	if cfg.MinBars <= 0 {
		errs = errors.Join(errs, fmt.Errorf("minimum bar count must be positive, got %d", cfg.MinBars))
	}
	if cfg.CooldownMinutes < 0 {
		errs = errors.Join(errs, fmt.Errorf("cooldown minutes cannot be negative, got %d", cfg.CooldownMinutes))
	}

	return errs
}

// registerFlag registers command line arguments of any type and tracks them to
// avoid reregistration. Environment variables override the provided fallback
// default, flags override both.
func (cfg *Config) registerFlag(name string, value interface{}, fallback string, usage string) error {
	if cfg.registeredFlags == nil {
		cfg.registeredFlags = make(map[string]bool)
	}

	if cfg.registeredFlags[name] {
		return nil
	}

	cfg.registeredFlags[name] = true

	defValue := os.Getenv(name)
	if defValue == "" {
		defValue = fallback
	}

	val := reflect.ValueOf(value)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("%s: value must be a non-nil pointer", name)
	}

	switch val.Elem().Kind() {
	case reflect.String:
		flag.StringVar(value.(*string), name, defValue, usage)
	case reflect.Bool:
		var def bool
		if defValue != "" {
			def, _ = strconv.ParseBool(defValue)
		}
		flag.BoolVar(value.(*bool), name, def, usage)
	case reflect.Int:
		var def int
		if defValue != "" {
			def, _ = strconv.Atoi(defValue)
		}
		flag.IntVar(value.(*int), name, def, usage)
	case reflect.Float64:
		var def float64
		if defValue != "" {
			def, _ = strconv.ParseFloat(defValue, 64)
		}
		flag.Float64Var(value.(*float64), name, def, usage)
	default:
		return fmt.Errorf("%s: unsupported type", name)
	}

	return nil
}

// loadConfig loads the configuration from environment variables and command
// line flags.
func loadConfig(cfg *Config, path string) error {
	if path == "" {
		path = ".env"
	}

	// Check if the expected .env file exists before loading it.
	_, err := os.Stat(path)
	if err == nil {
		err := godotenv.Load(path)
		if err != nil {
			return fmt.Errorf("loading .env file: %w", err)
		}
	}

	// Register command line arguments using loaded environment variables as defaults.
	flags := []struct {
		name     string
		value    interface{}
		fallback string
		usage    string
	}{
		{"symbol", &cfg.Symbol, "EURUSD", "the tracked market"},
		{"timeframe", &cfg.Timeframe, "M5", "the evaluated bar timeframe"},
		{"emafast", &cfg.EMAFast, "20", "the fast ema period"},
		{"emaslow", &cfg.EMASlow, "50", "the slow ema period"},
		{"rsiperiod", &cfg.RSIPeriod, "14", "the rsi period"},
		{"atrperiod", &cfg.ATRPeriod, "14", "the atr period"},
		{"vwapperiod", &cfg.VWAPPeriod, "100", "the rolling vwap lookback"},
		{"rsilower", &cfg.RSILower, "50", "the exclusive rsi lower bound"},
		{"rsiupper", &cfg.RSIUpper, "70", "the exclusive rsi upper bound"},
		{"minatr", &cfg.MinATR, "0.0001", "the minimum atr to trade"},
		{"riskreward", &cfg.RiskReward, "2.0", "the risk to reward ratio"},
		{"atrstopmultiplier", &cfg.ATRStopMultiplier, "1.0", "the atr stop multiplier"},
		{"sessionwindows", &cfg.SessionWindows, "", "the session windows as NAME=open-close entries"},
		{"cooldownminutes", &cfg.CooldownMinutes, "30", "the minimum minutes between signals"},
		{"maxspreadpips", &cfg.MaxSpreadPips, "2.0", "the maximum acceptable spread in pips"},
		{"swinglookback", &cfg.SwingLookback, "20", "the swing low lookback window"},
		{"minbars", &cfg.MinBars, "200", "the minimum historical bars required"},
		{"newsfilter", &cfg.NewsFilter, "true", "the news filter reminder flag"},
		{"bridgeurl", &cfg.BridgeURL, "", "the terminal bridge endpoint"},
		{"journalpath", &cfg.JournalPath, "signals.csv", "the csv journal filepath"},
		{"dbendpoint", &cfg.DBEndpoint, "", "the decision store endpoint"},
		{"dbuser", &cfg.DBUser, "", "the decision store user"},
		{"dbpass", &cfg.DBPass, "", "the decision store pass"},
	}

	for _, f := range flags {
		err = cfg.registerFlag(f.name, f.value, f.fallback, f.usage)
		if err != nil {
			return err
		}
	}

	// Parse command-line flags.
	flag.Parse()

	return cfg.Validate()
}
