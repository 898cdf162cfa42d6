package priceaction

import (
	"testing"

	"github.com/peterldowns/testy/assert"
)

// buildLows embeds the provided trailing lows behind a flat prefix so the
// series satisfies the lookback margin.
func buildLows(recent []float64) []float64 {
	prefix := make([]float64, swingMargin)
	for idx := range prefix {
		prefix[idx] = 1.1
	}

	return append(prefix, recent...)
}

func TestFindSwingLow(t *testing.T) {
	// Two swing lows with the later one higher confirm the structure and
	// anchor the stop at the most recent swing price.
	higherLow := buildLows([]float64{
		1.0990, 1.0980, 1.0950, 1.0985, 1.0990,
		1.0992, 1.0988, 1.0960, 1.0983, 1.0990,
		1.0995, 1.0995, 1.0995, 1.0995, 1.0995,
		1.0995, 1.0995, 1.0995, 1.0995, 1.0995,
	})

	price, ok := FindSwingLow(nil, higherLow, DefaultSwingLookback)
	assert.True(t, ok)
	assert.Equal(t, price, 1.0960)

	// A later swing below the earlier one is a lower low, no structure.
	lowerLow := buildLows([]float64{
		1.0990, 1.0980, 1.0960, 1.0985, 1.0990,
		1.0992, 1.0988, 1.0950, 1.0983, 1.0990,
		1.0995, 1.0995, 1.0995, 1.0995, 1.0995,
		1.0995, 1.0995, 1.0995, 1.0995, 1.0995,
	})

	_, ok = FindSwingLow(nil, lowerLow, DefaultSwingLookback)
	assert.False(t, ok)

	// A single swing low is not enough to confirm structure.
	singleSwing := buildLows([]float64{
		1.0990, 1.0980, 1.0950, 1.0985, 1.0990,
		1.0995, 1.0995, 1.0995, 1.0995, 1.0995,
		1.0995, 1.0995, 1.0995, 1.0995, 1.0995,
		1.0995, 1.0995, 1.0995, 1.0995, 1.0995,
	})

	_, ok = FindSwingLow(nil, singleSwing, DefaultSwingLookback)
	assert.False(t, ok)

	// Flat lows produce no swings at all.
	flat := buildLows(make([]float64, DefaultSwingLookback))
	_, ok = FindSwingLow(nil, flat, DefaultSwingLookback)
	assert.False(t, ok)

	// A series shorter than lookback plus the margin reports not found.
	short := higherLow[:DefaultSwingLookback+swingMargin-1]
	_, ok = FindSwingLow(nil, short, DefaultSwingLookback)
	assert.False(t, ok)

	// A non-positive lookback reports not found.
	_, ok = FindSwingLow(nil, higherLow, 0)
	assert.False(t, ok)
}

func TestIsUptrend(t *testing.T) {
	tests := []struct {
		name    string
		emaFast float64
		emaSlow float64
		price   float64
		want    bool
	}{
		{
			name:    "price leading both averages is an uptrend",
			emaFast: 1.1005,
			emaSlow: 1.0990,
			price:   1.1010,
			want:    true,
		},
		{
			name:    "fast average below slow is not an uptrend",
			emaFast: 1.0990,
			emaSlow: 1.1005,
			price:   1.1010,
			want:    false,
		},
		{
			name:    "price below the fast average is not an uptrend",
			emaFast: 1.1005,
			emaSlow: 1.0990,
			price:   1.1000,
			want:    false,
		},
		{
			name:    "price between the averages is not an uptrend",
			emaFast: 1.1005,
			emaSlow: 1.0990,
			price:   1.0995,
			want:    false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := IsUptrend(test.emaFast, test.emaSlow, test.price)
			assert.Equal(t, got, test.want)
		})
	}
}
