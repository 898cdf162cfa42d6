package journal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"

	"github.com/dnldd/signal/shared"
	"github.com/rs/zerolog"
)

// CSVConfig represents the configuration for the csv decision journal.
type CSVConfig struct {
	// Path is the filepath of the journal.
	Path string
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config has sane inputs.
func (cfg *CSVConfig) Validate() error {
	var errs error

	if cfg.Path == "" {
		errs = errors.Join(errs, fmt.Errorf("journal path cannot be an empty string"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("logger cannot be nil"))
	}

	return errs
}

// CSV is the append only decision journal. Only long decisions are journaled,
// no-trade verdicts are for live display only.
type CSV struct {
	cfg *CSVConfig
}

// NewCSV initializes a new csv decision journal.
func NewCSV(cfg *CSVConfig) (*CSV, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating journal config: %w", err)
	}

	return &CSV{cfg: cfg}, nil
}

// Append appends the provided decision to the journal, writing the header
// first on a fresh journal.
func (j *CSV) Append(decision *shared.Decision) error {
	if decision.Kind != shared.Long {
		return nil
	}

	_, err := os.Stat(j.cfg.Path)
	fresh := os.IsNotExist(err)

	f, err := os.OpenFile(j.cfg.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening journal at %s: %w", j.cfg.Path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if fresh {
		err = w.Write(shared.CSVHeader())
		if err != nil {
			return fmt.Errorf("writing journal header: %w", err)
		}
	}

	err = w.Write(decision.CSVRecord())
	if err != nil {
		return fmt.Errorf("writing journal record: %w", err)
	}

	w.Flush()
	err = w.Error()
	if err != nil {
		return fmt.Errorf("flushing journal: %w", err)
	}

	j.cfg.Logger.Info().Msgf("journaled %s decision for %s at %s",
		decision.Kind.String(), decision.Symbol, decision.Timestamp)

	return nil
}
