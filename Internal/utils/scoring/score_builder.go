package scoring

import (
	"fmt"
	"strings"

	"github.com/bajutae/Findupbitjewel/Internal/types"
	"github.com/bajutae/Findupbitjewel/Internal/utils"
)

// Component weights of the composite score. Each sub-score is normalized to its
// weight before summing; the total available weight is 100 when every metric is
// known. Unknown metrics drop out of the denominator instead of scoring zero.
const (
	weightVolume       = 15.0
	weightDecline      = 15.0
	weightVolatility   = 15.0
	weightCCI          = 15.0
	weightRSI          = 15.0
	weightMarketCap    = 15.0
	weightVolumeGrowth = 10.0

	rsiOptimal       = 50.0
	marketCapOptimal = 100_000_000.0
)

// BuildScore combines the base metrics and the pattern bonus into a single
// ranking key. The base is 0-100; the bonus may push it above 100.
func BuildScore(m types.AssetMetrics, criteria types.ScreenerCriteria, patternBonus float64) float64 {
	total := 0.0
	available := 0.0

	// Volume adequacy: scales with turnover relative to the admission floor.
	if criteria.MinDailyVolume > 0 {
		total += utils.Clamp(m.TradedValue24h/criteria.MinDailyVolume*weightVolume/2, 0, weightVolume)
	} else if m.TradedValue24h > 0 {
		total += weightVolume
	}
	available += weightVolume

	// Decline depth: deeper discounts from the reference high score higher.
	total += utils.Clamp(m.DeclineFromHigh/100*weightDecline, 0, weightDecline)
	available += weightDecline

	// Volatility favorability peaks at the middle of the admitted band.
	volatilityMid := (criteria.VolatilityMin + criteria.VolatilityMax) / 2
	total += utils.Max(0, weightVolatility-utils.Abs(m.Volatility-volatilityMid)*0.3)
	available += weightVolatility

	// CCI favorability peaks at zero deviation.
	total += utils.Max(0, weightCCI-utils.Abs(m.CCI)*0.3)
	available += weightCCI

	// RSI favorability peaks at the neutral midpoint and tapers toward extremes.
	total += utils.Max(0, weightRSI-utils.Abs(m.RSI-rsiOptimal)*0.3)
	available += weightRSI

	if m.MarketCap != nil {
		total += utils.Max(0, weightMarketCap-utils.Abs(*m.MarketCap-marketCapOptimal)/marketCapOptimal*10)
		available += weightMarketCap
	}

	if m.VolumeGrowth != nil {
		total += utils.Clamp(*m.VolumeGrowth/100*weightVolumeGrowth, 0, weightVolumeGrowth)
		available += weightVolumeGrowth
	}

	score := total / available * 100
	score += patternBonus
	if score < 0 {
		score = 0
	}
	return score
}

// Recommendation maps a composite score to its tier. The core is the single
// source of truth for tiers; presenters only display the string.
func Recommendation(score float64) string {
	switch {
	case score >= 80:
		return "Strong Buy"
	case score >= 60:
		return "Buy"
	case score >= 40:
		return "Watch"
	default:
		return "Pass"
	}
}

// BuildReason summarizes, in at most three phrases, why an asset stood out.
func BuildReason(m types.AssetMetrics, criteria types.ScreenerCriteria) string {
	reasons := []string{}

	if criteria.MinDailyVolume > 0 && m.TradedValue24h > criteria.MinDailyVolume*2 {
		reasons = append(reasons, "very high turnover")
	} else if m.TradedValue24h > criteria.MinDailyVolume {
		reasons = append(reasons, "sufficient turnover")
	}

	if m.DeclineFromHigh > 50 {
		reasons = append(reasons, "large upside room")
	} else if m.DeclineFromHigh > 30 {
		reasons = append(reasons, "upside room")
	}

	if m.RSI >= 30 && m.RSI <= 70 {
		reasons = append(reasons, fmt.Sprintf("stable RSI (%.0f)", m.RSI))
	} else if m.RSI < 30 {
		reasons = append(reasons, "oversold zone")
	}

	if m.Volatility < 50 {
		reasons = append(reasons, "moderate volatility")
	} else if m.Volatility > 100 {
		reasons = append(reasons, "high volatility")
	}

	if m.MACDHistogram > 0 {
		reasons = append(reasons, "momentum turning up")
	}

	if m.VolumeGrowth != nil {
		if *m.VolumeGrowth > 50 {
			reasons = append(reasons, "surging volume")
		} else if *m.VolumeGrowth > 20 {
			reasons = append(reasons, "rising volume")
		}
	}

	if len(reasons) > 3 {
		reasons = reasons[:3]
	}
	if len(reasons) == 0 {
		return "meets baseline criteria"
	}
	return strings.Join(reasons, ", ")
}
