package priceaction

const (
	// DefaultSwingLookback is the default number of trailing bars scanned for
	// swing lows.
	DefaultSwingLookback = 20

	// swingMargin is the number of extra bars required on top of the lookback
	// before swing analysis is meaningful.
	swingMargin = 5
)

// FindSwingLow finds the most recent confirmed higher low over the trailing
// lookback bars for stop placement.
//
// A swing low is a low strictly below its two neighbors on each side. A higher
// low structure is confirmed only when at least two swing lows exist and the
// most recent one is strictly above the previous one. The returned flag is
// false when no structure is confirmed.
func FindSwingLow(high []float64, low []float64, lookback int) (float64, bool) {
	if lookback <= 0 {
		return 0, false
	}
	if len(low) < lookback+swingMargin {
		return 0, false
	}

	recent := low[len(low)-lookback:]

	swings := []float64{}
	for idx := 2; idx < len(recent)-2; idx++ {
		if recent[idx] < recent[idx-1] && recent[idx] < recent[idx-2] &&
			recent[idx] < recent[idx+1] && recent[idx] < recent[idx+2] {
			swings = append(swings, recent[idx])
		}
	}

	if len(swings) < 2 {
		return 0, false
	}

	if swings[len(swings)-1] > swings[len(swings)-2] {
		return swings[len(swings)-1], true
	}

	return 0, false
}

// IsUptrend verifies uptrend conditions, the fast average must lead the slow
// one and price must lead both averages.
func IsUptrend(emaFast float64, emaSlow float64, price float64) bool {
	return emaFast > emaSlow && price > emaFast && price > emaSlow
}
