package shared

import (
	"fmt"
	"time"

	"github.com/tidwall/gjson"
)

// Candlestick represents a unit candlestick for a market.
type Candlestick struct {
	Open   float64
	Low    float64
	High   float64
	Close  float64
	Volume float64
	Date   time.Time

	// Metadata fields.
	Market    string
	Timeframe Timeframe
}

// FetchSentiment returns the provided candlestick's sentiment.
func (c *Candlestick) FetchSentiment() string {
	sentiment := c.Close - c.Open
	switch {
	case sentiment < 0:
		return "bearish"
	case sentiment > 0:
		return "bullish"
	default:
		return "neutral"
	}
}

// ParseCandlesticks parses candlesticks from the provided json data.
func ParseCandlesticks(data []gjson.Result, market string, timeframe Timeframe) ([]Candlestick, error) {
	candles := make([]Candlestick, len(data))

	for idx := range data {
		var candle Candlestick

		candle.Open = data[idx].Get("open").Float()
		candle.Low = data[idx].Get("low").Float()
		candle.High = data[idx].Get("high").Float()
		candle.Close = data[idx].Get("close").Float()
		candle.Volume = data[idx].Get("tick_volume").Float()

		candle.Market = market
		candle.Timeframe = timeframe

		ts := data[idx].Get("time")
		if !ts.Exists() {
			return nil, fmt.Errorf("parsing candlestick date: missing time field at index %d", idx)
		}
		candle.Date = time.Unix(ts.Int(), 0).UTC()

		candles[idx] = candle
	}

	return candles, nil
}

// ValidateSeries asserts the provided candlestick series is long enough and has
// strictly ascending timestamps. A short series is a data error for the cycle,
// not a no-trade verdict.
func ValidateSeries(candles []Candlestick, minBars int) error {
	if len(candles) < minBars {
		return fmt.Errorf("%w: got %d bars, need %d", ErrInsufficientData, len(candles), minBars)
	}

	for idx := 1; idx < len(candles); idx++ {
		if !candles[idx].Date.After(candles[idx-1].Date) {
			return fmt.Errorf("candlestick series out of order at index %d: %s does not follow %s",
				idx, candles[idx].Date, candles[idx-1].Date)
		}
	}

	return nil
}
