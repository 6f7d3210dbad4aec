package scanner

import (
	"fmt"

	"github.com/bajutae/Findupbitjewel/Internal/types"
	"github.com/bajutae/Findupbitjewel/Internal/utils"
)

// EvaluateCriteria applies every threshold check independently and collects all
// failing reasons, not just the first, so rejections stay diagnosable. An asset
// with zero failed checks is admitted.
func EvaluateCriteria(m types.AssetMetrics, c types.ScreenerCriteria) (bool, []string) {
	var reasons []string

	if m.TradedValue24h < c.MinDailyVolume {
		reasons = append(reasons, fmt.Sprintf("volume_below_min: %.0f < %.0f", m.TradedValue24h, c.MinDailyVolume))
	}

	if m.DeclineFromHigh < c.MinDeclineFromHigh {
		reasons = append(reasons, fmt.Sprintf("decline_below_min: %.1f%% < %.1f%%", m.DeclineFromHigh, c.MinDeclineFromHigh))
	}

	if m.Volatility < c.VolatilityMin || m.Volatility > c.VolatilityMax {
		reasons = append(reasons, fmt.Sprintf("volatility_out_of_range: %.1f%% not in [%.1f, %.1f]", m.Volatility, c.VolatilityMin, c.VolatilityMax))
	}

	if m.CCI < c.CCIMin || m.CCI > c.CCIMax {
		reasons = append(reasons, fmt.Sprintf("cci_out_of_range: %.1f not in [%.1f, %.1f]", m.CCI, c.CCIMin, c.CCIMax))
	}

	if m.RSI < c.RSIMin || m.RSI > c.RSIMax {
		reasons = append(reasons, fmt.Sprintf("rsi_out_of_range: %.1f not in [%.1f, %.1f]", m.RSI, c.RSIMin, c.RSIMax))
	}

	// Market cap is a tri-state check: unknown skips the range comparison unless
	// the criteria mark the metric mandatory.
	if m.MarketCap == nil {
		if c.MarketCapRequired {
			reasons = append(reasons, "metric_unavailable: market_cap")
		}
	} else if *m.MarketCap < c.MarketCapMin || *m.MarketCap > c.MarketCapMax {
		reasons = append(reasons, fmt.Sprintf("market_cap_out_of_range: %.0f not in [%.0f, %.0f]", *m.MarketCap, c.MarketCapMin, c.MarketCapMax))
	}

	if m.VolumeGrowth != nil && *m.VolumeGrowth < c.VolumeGrowthMin {
		reasons = append(reasons, fmt.Sprintf("volume_growth_below_min: %.1f%% < %.1f%%", *m.VolumeGrowth, c.VolumeGrowthMin))
	}

	if c.MaxConsecutiveDecline > 0 && m.ConsecutiveDeclineDays >= c.MaxConsecutiveDecline {
		reasons = append(reasons, fmt.Sprintf("consecutive_decline: %d straight down days, cap %d", m.ConsecutiveDeclineDays, c.MaxConsecutiveDecline))
	}

	if c.MaxRecentSpike > 0 && utils.Abs(m.RecentSpikeMax) > c.MaxRecentSpike {
		reasons = append(reasons, fmt.Sprintf("recent_spike: %.1f%% single-day move exceeds %.1f%%", m.RecentSpikeMax, c.MaxRecentSpike))
	}

	if c.RequireAboveMA && m.MAPosition < 0 {
		reasons = append(reasons, fmt.Sprintf("below_moving_average: %.1f%% under the trailing average", m.MAPosition))
	}

	return len(reasons) == 0, reasons
}
