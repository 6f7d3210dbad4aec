package scoring

import (
	"math"
	"strings"
	"testing"

	"github.com/bajutae/Findupbitjewel/Internal/types"
)

func floatPtr(v float64) *float64 { return &v }

// perfectMetrics maxes out every sub-score against the default criteria.
func perfectMetrics() types.AssetMetrics {
	c := types.DefaultScreenerCriteria()
	return types.AssetMetrics{
		Symbol:          "TEST/USD",
		TradedValue24h:  c.MinDailyVolume * 2,
		DeclineFromHigh: 100,
		Volatility:      (c.VolatilityMin + c.VolatilityMax) / 2,
		CCI:             0,
		RSI:             50,
		MarketCap:       floatPtr(100_000_000),
		VolumeGrowth:    floatPtr(100),
	}
}

func TestBuildScore_PerfectMetrics(t *testing.T) {
	c := types.DefaultScreenerCriteria()
	score := BuildScore(perfectMetrics(), c, 0)
	if math.Abs(score-100) > 1e-9 {
		t.Errorf("Expected 100 for maxed sub-scores, got %f", score)
	}
}

func TestBuildScore_BonusCanExceed100(t *testing.T) {
	c := types.DefaultScreenerCriteria()
	score := BuildScore(perfectMetrics(), c, 15)
	if score <= 100 {
		t.Errorf("Expected pattern bonus to push past 100, got %f", score)
	}
}

func TestBuildScore_UnknownMetricsRenormalize(t *testing.T) {
	c := types.DefaultScreenerCriteria()
	m := perfectMetrics()
	m.MarketCap = nil
	m.VolumeGrowth = nil

	// Unknown metrics drop out of the denominator; a perfect asset still scores 100.
	score := BuildScore(m, c, 0)
	if math.Abs(score-100) > 1e-9 {
		t.Errorf("Expected renormalized 100 with unknown metrics, got %f", score)
	}
}

func TestBuildScore_BonusRanksHigher(t *testing.T) {
	c := types.DefaultScreenerCriteria()
	m := perfectMetrics()
	m.RSI = 35
	m.Volatility = 120

	plain := BuildScore(m, c, 0)
	boosted := BuildScore(m, c, 8)
	if boosted <= plain {
		t.Errorf("Expected bonus to raise the score: %f vs %f", boosted, plain)
	}
	if math.Abs(boosted-plain-8) > 1e-9 {
		t.Errorf("Expected additive bonus of 8, got delta %f", boosted-plain)
	}
}

func TestBuildScore_NeverNegative(t *testing.T) {
	c := types.DefaultScreenerCriteria()
	m := types.AssetMetrics{
		Symbol:          "TEST/USD",
		TradedValue24h:  0,
		DeclineFromHigh: 0,
		Volatility:      500,
		CCI:             400,
		RSI:             95,
	}
	if score := BuildScore(m, c, 0); score < 0 {
		t.Errorf("Expected non-negative score, got %f", score)
	}
}

func TestRecommendation_Tiers(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{95, "Strong Buy"},
		{80, "Strong Buy"},
		{79.9, "Buy"},
		{60, "Buy"},
		{59.9, "Watch"},
		{40, "Watch"},
		{39.9, "Pass"},
		{0, "Pass"},
	}
	for _, tc := range cases {
		if got := Recommendation(tc.score); got != tc.want {
			t.Errorf("Recommendation(%f) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestBuildReason_CapsAtThreePhrases(t *testing.T) {
	c := types.DefaultScreenerCriteria()
	reason := BuildReason(perfectMetrics(), c)
	if reason == "" {
		t.Fatal("Expected a non-empty reason")
	}
	if n := len(strings.Split(reason, ", ")); n > 3 {
		t.Errorf("Expected at most 3 phrases, got %d: %q", n, reason)
	}
}

func TestBuildReason_Fallback(t *testing.T) {
	c := types.DefaultScreenerCriteria()
	m := types.AssetMetrics{
		Symbol:          "TEST/USD",
		TradedValue24h:  0,
		DeclineFromHigh: 10,
		RSI:             80,
		Volatility:      80,
		MACDHistogram:   -1,
	}
	if got := BuildReason(m, c); got != "meets baseline criteria" {
		t.Errorf("Expected fallback reason, got %q", got)
	}
}
