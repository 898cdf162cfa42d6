package risk

import (
	"math"
	"testing"

	"github.com/peterldowns/testy/assert"
)

// approx checks float equality within a tolerance appropriate for price math.
func approx(a float64, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func testModelConfig() *ModelConfig {
	return &ModelConfig{
		ATRStopMultiplier: 1.0,
		RiskRewardRatio:   2.0,
		PointSize:         0.0001,
	}
}

func TestModelConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(cfg *ModelConfig)
		wantErr bool
	}{
		{
			name:    "valid config returns nil",
			modify:  func(cfg *ModelConfig) {},
			wantErr: false,
		},
		{
			name:    "atr stop multiplier must be positive",
			modify:  func(cfg *ModelConfig) { cfg.ATRStopMultiplier = 0 },
			wantErr: true,
		},
		{
			name:    "risk reward ratio must be positive",
			modify:  func(cfg *ModelConfig) { cfg.RiskRewardRatio = -1 },
			wantErr: true,
		},
		{
			name:    "point size must be positive",
			modify:  func(cfg *ModelConfig) { cfg.PointSize = 0 },
			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := testModelConfig()
			test.modify(cfg)

			err := cfg.Validate()
			if test.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestModelPlan(t *testing.T) {
	model, err := NewModel(testModelConfig())
	assert.NoError(t, err)

	// The volatility stop is tighter than the structural anchor here, so it
	// wins and the target sits at twice the risk distance.
	plan, err := model.Plan(1.1010, 0.0005, 1.0950)
	assert.NoError(t, err)
	assert.True(t, approx(plan.StopLoss, 1.1005))
	assert.True(t, approx(plan.TakeProfit, 1.1020))
	assert.True(t, plan.RiskPips > 0)

	// Ensure the long invariants hold.
	assert.True(t, plan.StopLoss < 1.1010)
	assert.True(t, plan.TakeProfit > 1.1010)

	// A structural anchor above the volatility stop wins instead.
	plan, err = model.Plan(1.1010, 0.0100, 1.0990)
	assert.NoError(t, err)
	assert.True(t, approx(plan.StopLoss, 1.0990))

	// A stop at or above entry is a data error, not a plan.
	_, err = model.Plan(1.1010, 0.0005, 1.1010)
	assert.Error(t, err)
}
