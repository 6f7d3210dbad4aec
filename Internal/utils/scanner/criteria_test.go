package scanner

import (
	"strings"
	"testing"

	"github.com/bajutae/Findupbitjewel/Internal/types"
)

func floatPtr(v float64) *float64 { return &v }

func passingMetrics() types.AssetMetrics {
	return types.AssetMetrics{
		Symbol:          "TEST/USD",
		TradedValue24h:  5_000_000,
		DeclineFromHigh: 45,
		Volatility:      60,
		CCI:             -50,
		RSI:             40,
		MAPosition:      5,
		MarketCap:       floatPtr(50_000_000),
		VolumeGrowth:    floatPtr(80),
	}
}

func hasReason(reasons []string, prefix string) bool {
	for _, r := range reasons {
		if strings.HasPrefix(r, prefix) {
			return true
		}
	}
	return false
}

func TestEvaluateCriteria_Admitted(t *testing.T) {
	admitted, reasons := EvaluateCriteria(passingMetrics(), types.DefaultScreenerCriteria())
	if !admitted {
		t.Errorf("Expected admission, got reasons %v", reasons)
	}
	if len(reasons) != 0 {
		t.Errorf("Expected no reasons for an admitted asset, got %v", reasons)
	}
}

func TestEvaluateCriteria_RSIOutOfRange(t *testing.T) {
	m := passingMetrics()
	m.RSI = 85

	admitted, reasons := EvaluateCriteria(m, types.DefaultScreenerCriteria())
	if admitted {
		t.Error("Expected rejection for overbought RSI")
	}
	if !hasReason(reasons, "rsi_out_of_range") {
		t.Errorf("Expected rsi_out_of_range, got %v", reasons)
	}
}

func TestEvaluateCriteria_CollectsAllReasons(t *testing.T) {
	m := passingMetrics()
	m.TradedValue24h = 100
	m.DeclineFromHigh = 5
	m.RSI = 95

	admitted, reasons := EvaluateCriteria(m, types.DefaultScreenerCriteria())
	if admitted {
		t.Fatal("Expected rejection")
	}
	for _, prefix := range []string{"volume_below_min", "decline_below_min", "rsi_out_of_range"} {
		if !hasReason(reasons, prefix) {
			t.Errorf("Expected reason %q in %v", prefix, reasons)
		}
	}
	if len(reasons) < 3 {
		t.Errorf("Expected every failed check reported, got %v", reasons)
	}
}

func TestEvaluateCriteria_UnknownMarketCap(t *testing.T) {
	c := types.DefaultScreenerCriteria()
	m := passingMetrics()
	m.MarketCap = nil

	// Optional by default: unknown skips the range check.
	admitted, reasons := EvaluateCriteria(m, c)
	if !admitted {
		t.Errorf("Expected admission with optional market cap, got %v", reasons)
	}

	c.MarketCapRequired = true
	admitted, reasons = EvaluateCriteria(m, c)
	if admitted {
		t.Error("Expected rejection when the market cap is mandatory")
	}
	if !hasReason(reasons, "metric_unavailable") {
		t.Errorf("Expected metric_unavailable reason, got %v", reasons)
	}
}

func TestEvaluateCriteria_MarketCapRange(t *testing.T) {
	m := passingMetrics()
	m.MarketCap = floatPtr(900_000_000)

	admitted, reasons := EvaluateCriteria(m, types.DefaultScreenerCriteria())
	if admitted {
		t.Error("Expected rejection for oversized market cap")
	}
	if !hasReason(reasons, "market_cap_out_of_range") {
		t.Errorf("Expected market_cap_out_of_range, got %v", reasons)
	}
}

func TestEvaluateCriteria_UnknownVolumeGrowthSkipped(t *testing.T) {
	m := passingMetrics()
	m.VolumeGrowth = nil

	admitted, reasons := EvaluateCriteria(m, types.DefaultScreenerCriteria())
	if !admitted {
		t.Errorf("Expected unknown growth to be skipped, got %v", reasons)
	}
}

func TestEvaluateCriteria_ConsecutiveDecline(t *testing.T) {
	c := types.DefaultScreenerCriteria()
	m := passingMetrics()
	m.ConsecutiveDeclineDays = 5

	admitted, reasons := EvaluateCriteria(m, c)
	if admitted {
		t.Error("Expected rejection at the consecutive-decline cap")
	}
	if !hasReason(reasons, "consecutive_decline") {
		t.Errorf("Expected consecutive_decline, got %v", reasons)
	}

	c.MaxConsecutiveDecline = 0 // disabled
	if admitted, reasons := EvaluateCriteria(m, c); !admitted {
		t.Errorf("Expected disabled check to be skipped, got %v", reasons)
	}
}

func TestEvaluateCriteria_RecentSpike(t *testing.T) {
	c := types.DefaultScreenerCriteria()
	m := passingMetrics()
	m.RecentSpikeMax = -45 // crash days disqualify just like pumps

	admitted, reasons := EvaluateCriteria(m, c)
	if admitted {
		t.Error("Expected rejection for a recent spike")
	}
	if !hasReason(reasons, "recent_spike") {
		t.Errorf("Expected recent_spike, got %v", reasons)
	}

	c.MaxRecentSpike = 0 // disabled
	if admitted, reasons := EvaluateCriteria(m, c); !admitted {
		t.Errorf("Expected disabled check to be skipped, got %v", reasons)
	}
}

func TestEvaluateCriteria_BelowMovingAverage(t *testing.T) {
	c := types.DefaultScreenerCriteria()
	m := passingMetrics()
	m.MAPosition = -3

	admitted, reasons := EvaluateCriteria(m, c)
	if admitted {
		t.Error("Expected rejection below the moving average")
	}
	if !hasReason(reasons, "below_moving_average") {
		t.Errorf("Expected below_moving_average, got %v", reasons)
	}

	c.RequireAboveMA = false
	if admitted, reasons := EvaluateCriteria(m, c); !admitted {
		t.Errorf("Expected the check to be optional, got %v", reasons)
	}
}

func TestEvaluateCriteria_BoundariesAreInclusive(t *testing.T) {
	c := types.DefaultScreenerCriteria()
	m := passingMetrics()
	m.RSI = c.RSIMin
	m.CCI = c.CCIMax
	m.Volatility = c.VolatilityMax
	m.DeclineFromHigh = c.MinDeclineFromHigh
	m.TradedValue24h = c.MinDailyVolume

	admitted, reasons := EvaluateCriteria(m, c)
	if !admitted {
		t.Errorf("Expected boundary values to pass, got %v", reasons)
	}
}
