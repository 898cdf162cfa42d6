package shared

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DecisionKind represents the verdict of an evaluation.
type DecisionKind int

const (
	// None is the explicit no-trade verdict. It is a normal decision, never an error.
	None DecisionKind = iota
	// Long is a long entry suggestion.
	Long
)

// String stringifies the provided decision kind.
func (k DecisionKind) String() string {
	switch k {
	case None:
		return "NONE"
	case Long:
		return "LONG"
	default:
		return "unknown"
	}
}

// Decision represents a single auditable evaluation verdict for a market.
// A decision is immutable once produced.
type Decision struct {
	ID         string
	Symbol     string
	Timestamp  time.Time
	Kind       DecisionKind
	Entry      float64
	StopLoss   float64
	TakeProfit float64
	RiskPips   float64
	Session    string
	// Reasoning holds one human readable line per passed gate for a long verdict.
	Reasoning []string
	// FailedConditions holds exactly the first failing gate's reason for a
	// no-trade verdict.
	FailedConditions []string
}

// NewDecision initializes a no-trade decision for the provided market and instant.
func NewDecision(symbol string, timestamp time.Time) *Decision {
	return &Decision{
		ID:        uuid.NewString(),
		Symbol:    symbol,
		Timestamp: timestamp,
		Kind:      None,
	}
}

// ReasoningText joins the decision's reasoning trail for journaling.
func (d *Decision) ReasoningText() string {
	if len(d.Reasoning) == 0 {
		return "N/A"
	}

	return strings.Join(d.Reasoning, "; ")
}

// CSVHeader returns the journal header for decision records.
func CSVHeader() []string {
	return []string{"Timestamp", "Symbol", "Signal", "Entry", "StopLoss",
		"TakeProfit", "RiskPips", "Session", "Reasoning"}
}

// CSVRecord returns the decision as a journal record.
func (d *Decision) CSVRecord() []string {
	return []string{
		d.Timestamp.UTC().Format(DateLayout),
		d.Symbol,
		d.Kind.String(),
		fmt.Sprintf("%.5f", d.Entry),
		fmt.Sprintf("%.5f", d.StopLoss),
		fmt.Sprintf("%.5f", d.TakeProfit),
		fmt.Sprintf("%.1f", d.RiskPips),
		d.Session,
		d.ReasoningText(),
	}
}
