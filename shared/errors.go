package shared

import "errors"

var (
	// ErrInsufficientData indicates the fetched bar series is too short for the
	// evaluation cycle. The cycle is aborted, the caller decides whether to retry
	// on the next bar.
	ErrInsufficientData = errors.New("insufficient market data")

	// ErrMarketContextUnavailable indicates tick or symbol metadata could not be
	// obtained from the terminal bridge.
	ErrMarketContextUnavailable = errors.New("market context unavailable")
)
