package shared

import (
	"context"
)

// MarketFetcher defines the requirements for fetching market data from the
// terminal bridge.
type MarketFetcher interface {
	// FetchBars fetches the most recent count bars for the provided market,
	// ordered by ascending timestamp.
	FetchBars(ctx context.Context, market string, timeframe Timeframe, count int) ([]Candlestick, error)
	// FetchMarketContext fetches the current quote and symbol metadata for the
	// provided market.
	FetchMarketContext(ctx context.Context, market string) (*MarketContext, error)
}

// DecisionStorer defines the requirements for persisting decisions.
type DecisionStorer interface {
	// PersistDecision stores the provided decision to the database.
	PersistDecision(ctx context.Context, decision *Decision) error
}
