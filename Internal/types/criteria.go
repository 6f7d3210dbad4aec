package types

import "fmt"

// DefaultScreenerCriteria mirrors the daily screening profile: liquid markets,
// meaningfully off their highs, with momentum and volatility inside sane bands.
func DefaultScreenerCriteria() ScreenerCriteria {
	return ScreenerCriteria{
		MinDailyVolume:        1_000_000,
		MinDeclineFromHigh:    30.0,
		VolatilityMin:         10.0,
		VolatilityMax:         150.0,
		CCIMin:                -200.0,
		CCIMax:                200.0,
		RSIMin:                20.0,
		RSIMax:                80.0,
		MarketCapMin:          10_000_000,
		MarketCapMax:          500_000_000,
		MarketCapRequired:     false,
		VolumeGrowthMin:       50.0,
		MaxConsecutiveDecline: 5,
		MaxRecentSpike:        30.0,
		RequireAboveMA:        true,
		HighLookback:          200,
		TopN:                  10,
		MinScore:              0,
	}
}

// Validate rejects malformed criteria before any asset is processed. All
// violations wrap ErrInvalidCriteria.
func (c ScreenerCriteria) Validate() error {
	if c.TopN <= 0 {
		return fmt.Errorf("%w: top_n must be positive, got %d", ErrInvalidCriteria, c.TopN)
	}
	if c.MinDailyVolume < 0 {
		return fmt.Errorf("%w: min_daily_volume must be non-negative, got %.0f", ErrInvalidCriteria, c.MinDailyVolume)
	}
	if c.MinDeclineFromHigh < 0 || c.MinDeclineFromHigh > 100 {
		return fmt.Errorf("%w: min_decline_from_high %.1f outside [0, 100]", ErrInvalidCriteria, c.MinDeclineFromHigh)
	}
	if c.VolatilityMin > c.VolatilityMax {
		return fmt.Errorf("%w: volatility_min %.1f > volatility_max %.1f", ErrInvalidCriteria, c.VolatilityMin, c.VolatilityMax)
	}
	if c.CCIMin > c.CCIMax {
		return fmt.Errorf("%w: cci_min %.1f > cci_max %.1f", ErrInvalidCriteria, c.CCIMin, c.CCIMax)
	}
	if c.RSIMin > c.RSIMax {
		return fmt.Errorf("%w: rsi_min %.1f > rsi_max %.1f", ErrInvalidCriteria, c.RSIMin, c.RSIMax)
	}
	if c.RSIMin < 0 || c.RSIMax > 100 {
		return fmt.Errorf("%w: rsi range [%.1f, %.1f] outside [0, 100]", ErrInvalidCriteria, c.RSIMin, c.RSIMax)
	}
	if c.MarketCapMin > c.MarketCapMax {
		return fmt.Errorf("%w: market_cap_min %.0f > market_cap_max %.0f", ErrInvalidCriteria, c.MarketCapMin, c.MarketCapMax)
	}
	if c.MaxConsecutiveDecline < 0 {
		return fmt.Errorf("%w: max_consecutive_decline must be non-negative, got %d", ErrInvalidCriteria, c.MaxConsecutiveDecline)
	}
	if c.MaxRecentSpike < 0 {
		return fmt.Errorf("%w: max_recent_spike must be non-negative, got %.1f", ErrInvalidCriteria, c.MaxRecentSpike)
	}
	if c.HighLookback < 0 {
		return fmt.Errorf("%w: high_lookback must be non-negative, got %d", ErrInvalidCriteria, c.HighLookback)
	}
	if c.MinScore < 0 {
		return fmt.Errorf("%w: min_score must be non-negative, got %.1f", ErrInvalidCriteria, c.MinScore)
	}
	return nil
}
