package indicator

import (
	"fmt"
	"math"
)

// EMA computes the exponential moving average of the provided series.
//
// The value at index period-1 is seeded with the arithmetic mean of the first
// period values, later indices follow the standard recurrence. Indices before
// period-1 are warm-up values and must not be read.
func EMA(series []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, fmt.Errorf("ema period must be positive, got %d", period)
	}
	if len(series) < period {
		return nil, fmt.Errorf("ema needs at least %d values, got %d", period, len(series))
	}

	ema := make([]float64, len(series))
	multiplier := 2.0 / float64(period+1)

	var sum float64
	for idx := 0; idx < period; idx++ {
		sum += series[idx]
	}
	ema[period-1] = sum / float64(period)

	for idx := period; idx < len(series); idx++ {
		ema[idx] = (series[idx]-ema[idx-1])*multiplier + ema[idx-1]
	}

	return ema, nil
}

// RSI computes the relative strength index of the provided series using Wilder
// smoothing.
//
// Average gains and losses are seeded at index period with the means of the
// first period gains and losses. A zero average loss defines the index as 100,
// no momentum losses were observed over the window.
func RSI(series []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, fmt.Errorf("rsi period must be positive, got %d", period)
	}
	if len(series) < period+1 {
		return nil, fmt.Errorf("rsi needs at least %d values, got %d", period+1, len(series))
	}

	gains := make([]float64, len(series)-1)
	losses := make([]float64, len(series)-1)
	for idx := 1; idx < len(series); idx++ {
		delta := series[idx] - series[idx-1]
		switch {
		case delta > 0:
			gains[idx-1] = delta
		case delta < 0:
			losses[idx-1] = -delta
		}
	}

	avgGain := make([]float64, len(series))
	avgLoss := make([]float64, len(series))

	var gainSum, lossSum float64
	for idx := 0; idx < period; idx++ {
		gainSum += gains[idx]
		lossSum += losses[idx]
	}
	avgGain[period] = gainSum / float64(period)
	avgLoss[period] = lossSum / float64(period)

	for idx := period + 1; idx < len(series); idx++ {
		avgGain[idx] = (avgGain[idx-1]*float64(period-1) + gains[idx-1]) / float64(period)
		avgLoss[idx] = (avgLoss[idx-1]*float64(period-1) + losses[idx-1]) / float64(period)
	}

	rsi := make([]float64, len(series))
	for idx := period; idx < len(series); idx++ {
		if avgLoss[idx] == 0 {
			rsi[idx] = 100
			continue
		}

		rs := avgGain[idx] / avgLoss[idx]
		rsi[idx] = 100 - (100 / (1 + rs))
	}

	return rsi, nil
}

// ATR computes the average true range from the provided high, low and close
// series using Wilder smoothing.
//
// The true range at index zero is undefined, the value at index period is
// seeded with the mean true range over indices 1 through period.
func ATR(high []float64, low []float64, close []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, fmt.Errorf("atr period must be positive, got %d", period)
	}
	if len(high) != len(low) || len(low) != len(close) {
		return nil, fmt.Errorf("atr input lengths differ: high %d, low %d, close %d",
			len(high), len(low), len(close))
	}
	if len(close) < period+1 {
		return nil, fmt.Errorf("atr needs at least %d values, got %d", period+1, len(close))
	}

	tr := make([]float64, len(close))
	for idx := 1; idx < len(close); idx++ {
		tr[idx] = math.Max(high[idx]-low[idx],
			math.Max(math.Abs(high[idx]-close[idx-1]), math.Abs(low[idx]-close[idx-1])))
	}

	atr := make([]float64, len(close))

	var sum float64
	for idx := 1; idx <= period; idx++ {
		sum += tr[idx]
	}
	atr[period] = sum / float64(period)

	for idx := period + 1; idx < len(close); idx++ {
		atr[idx] = (atr[idx-1]*float64(period-1) + tr[idx]) / float64(period)
	}

	return atr, nil
}

// VWAP computes the rolling volume weighted average price over a trailing
// window of the provided period.
//
// When the trailing volume sum is zero the bar's own close stands in for the
// volume weighted value, a zero vwap would be misleading.
func VWAP(high []float64, low []float64, close []float64, volume []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, fmt.Errorf("vwap period must be positive, got %d", period)
	}
	if len(high) != len(low) || len(low) != len(close) || len(close) != len(volume) {
		return nil, fmt.Errorf("vwap input lengths differ: high %d, low %d, close %d, volume %d",
			len(high), len(low), len(close), len(volume))
	}
	if len(close) < period {
		return nil, fmt.Errorf("vwap needs at least %d values, got %d", period, len(close))
	}

	typical := make([]float64, len(close))
	for idx := range close {
		typical[idx] = (high[idx] + low[idx] + close[idx]) / 3
	}

	vwap := make([]float64, len(close))
	for idx := period - 1; idx < len(close); idx++ {
		start := idx - period + 1

		var weighted, volumeSum float64
		for j := start; j <= idx; j++ {
			weighted += typical[j] * volume[j]
			volumeSum += volume[j]
		}

		if volumeSum == 0 {
			vwap[idx] = close[idx]
			continue
		}

		vwap[idx] = weighted / volumeSum
	}

	return vwap, nil
}
