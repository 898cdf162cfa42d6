package shared

import (
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
)

func TestDecision(t *testing.T) {
	timestamp := time.Date(2024, 3, 5, 13, 0, 0, 0, time.UTC)
	decision := NewDecision("EURUSD", timestamp)

	// A fresh decision is an explicit no-trade verdict.
	assert.Equal(t, decision.Kind, None)
	assert.NotEqual(t, decision.ID, "")
	assert.Equal(t, decision.ReasoningText(), "N/A")

	decision.Kind = Long
	decision.Entry = 1.1010
	decision.StopLoss = 1.1005
	decision.TakeProfit = 1.1020
	decision.RiskPips = 0.5
	decision.Session = "LONDON"
	decision.Reasoning = []string{"cooldown clear", "price above vwap (institutional support)"}

	assert.Equal(t, decision.ReasoningText(), "cooldown clear; price above vwap (institutional support)")

	record := decision.CSVRecord()
	assert.Equal(t, len(record), len(CSVHeader()))
	assert.Equal(t, record[0], "2024-03-05 13:00:00")
	assert.Equal(t, record[1], "EURUSD")
	assert.Equal(t, record[2], "LONG")
	assert.Equal(t, record[3], "1.10100")
	assert.Equal(t, record[7], "LONDON")
}
