package service

import (
	"fmt"
	"io"
	"strings"

	"github.com/dnldd/signal/indicator"
	"github.com/dnldd/signal/shared"
)

const reportWidth = 80

// WriteReport writes a human readable decision report to the provided writer.
// The report mirrors the journal schema plus the indicator values backing the
// verdict.
func WriteReport(w io.Writer, decision *shared.Decision, snapshot *indicator.Snapshot, timeframe shared.Timeframe) error {
	rule := strings.Repeat("=", reportWidth)
	thinRule := strings.Repeat("-", reportWidth)

	session := decision.Session
	if session == "" {
		session = "N/A"
	}

	var b strings.Builder
	b.WriteString(rule + "\n")
	b.WriteString("MANUAL TRADING SIGNAL\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "SYMBOL:          %s\n", decision.Symbol)
	fmt.Fprintf(&b, "TIMEFRAME:       %s\n", timeframe.String())
	fmt.Fprintf(&b, "TIMESTAMP:       %s\n", decision.Timestamp.UTC().Format(shared.DateLayout))
	fmt.Fprintf(&b, "SESSION:         %s\n", session)
	b.WriteString(thinRule + "\n")
	fmt.Fprintf(&b, "SIGNAL:          %s\n", decision.Kind.String())
	fmt.Fprintf(&b, "ENTRY:           %.5f\n", decision.Entry)
	fmt.Fprintf(&b, "STOP LOSS:       %.5f\n", decision.StopLoss)
	fmt.Fprintf(&b, "TAKE PROFIT:     %.5f\n", decision.TakeProfit)
	fmt.Fprintf(&b, "RISK (pips):     %.1f\n", decision.RiskPips)
	b.WriteString(thinRule + "\n")
	b.WriteString("INDICATOR VALUES:\n")
	fmt.Fprintf(&b, "  EMA FAST:      %.5f\n", snapshot.EMAFast)
	fmt.Fprintf(&b, "  EMA SLOW:      %.5f\n", snapshot.EMASlow)
	fmt.Fprintf(&b, "  RSI:           %.1f\n", snapshot.RSI)
	fmt.Fprintf(&b, "  ATR:           %.5f\n", snapshot.ATR)
	fmt.Fprintf(&b, "  VWAP:          %.5f\n", snapshot.VWAP)
	fmt.Fprintf(&b, "  PRICE:         %.5f\n", snapshot.Price)
	b.WriteString(thinRule + "\n")

	switch decision.Kind {
	case shared.Long:
		b.WriteString("REASONING:\n")
		for _, reason := range decision.Reasoning {
			fmt.Fprintf(&b, "  + %s\n", reason)
		}
	default:
		b.WriteString("FAILED CONDITIONS:\n")
		for _, condition := range decision.FailedConditions {
			fmt.Fprintf(&b, "  x %s\n", condition)
		}
	}

	b.WriteString(rule + "\n")
	b.WriteString("Signals only, execute trades at your own discretion and risk.\n")

	_, err := io.WriteString(w, b.String())
	return err
}
