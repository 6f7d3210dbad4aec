package types

import (
	"errors"
	"time"
)

// Error taxonomy shared across the screening pipeline.
var (
	// ErrInsufficientData marks a candle series too short for the configured
	// indicators. Per-asset and recoverable: the asset is excluded, the run continues.
	ErrInsufficientData = errors.New("insufficient candle data")

	// ErrMetricUnavailable marks a single metric (e.g. circulating supply) that
	// could not be obtained. Checks depending on it are skipped, not failed.
	ErrMetricUnavailable = errors.New("metric unavailable")

	// ErrInvalidCriteria marks malformed screener criteria. Run-level and fatal:
	// the run aborts before any asset is processed.
	ErrInvalidCriteria = errors.New("invalid screener criteria")
)

type Candle struct {
	Timestamp string  `json:"t"`
	Open      float64 `json:"o"`
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Close     float64 `json:"c"`
	Volume    float64 `json:"v"` // Crypto returns volume as float
}

// TradedValue is the quote-currency turnover of the candle.
func (c Candle) TradedValue() float64 {
	return c.Close * c.Volume
}

// Ticker is the current snapshot for one market at evaluation time.
type Ticker struct {
	Symbol         string  `json:"symbol"`
	Price          float64 `json:"price"`
	TradedValue24h float64 `json:"traded_value_24h"`
	Timestamp      string  `json:"timestamp"`
}

// AssetMetrics is the derived, read-only metric set for one asset, computed once
// per screening pass. Pointer fields are nil when the metric is unknown, never
// defaulted to zero.
type AssetMetrics struct {
	Symbol                 string   `json:"symbol"`
	Price                  float64  `json:"price"`
	TradedValue24h         float64  `json:"traded_value_24h"`
	RSI                    float64  `json:"rsi"`
	MACD                   float64  `json:"macd"`
	MACDSignal             float64  `json:"macd_signal"`
	MACDHistogram          float64  `json:"macd_histogram"`
	BBPosition             float64  `json:"bb_position"` // 0-1 within the Bollinger band
	CCI                    float64  `json:"cci"`
	Volatility             float64  `json:"volatility"` // annualized, percent
	HighReference          float64  `json:"high_reference"`
	DeclineFromHigh        float64  `json:"decline_from_high"` // percent, latest close vs windowed high
	ConsecutiveDeclineDays int      `json:"consecutive_decline_days"`
	RecentSpikeMax         float64  `json:"recent_spike_max"` // largest single-day move in the spike window, signed percent
	MAPosition             float64  `json:"ma_position"`      // latest close vs trailing moving average, percent
	MarketCap              *float64 `json:"market_cap,omitempty"`
	VolumeRatio            *float64 `json:"volume_ratio,omitempty"`  // latest vs trailing avg turnover
	VolumeGrowth           *float64 `json:"volume_growth,omitempty"` // percent, recent vs prior window
}

// ScreenerCriteria holds every tunable threshold of one screening run. Immutable
// once validated; both the CLI and the API build it through the same config path.
type ScreenerCriteria struct {
	MinDailyVolume        float64 `json:"min_daily_volume"`
	MinDeclineFromHigh    float64 `json:"min_decline_from_high"`
	VolatilityMin         float64 `json:"volatility_min"`
	VolatilityMax         float64 `json:"volatility_max"`
	CCIMin                float64 `json:"cci_min"`
	CCIMax                float64 `json:"cci_max"`
	RSIMin                float64 `json:"rsi_min"`
	RSIMax                float64 `json:"rsi_max"`
	MarketCapMin          float64 `json:"market_cap_min"`
	MarketCapMax          float64 `json:"market_cap_max"`
	MarketCapRequired     bool    `json:"market_cap_required"`
	VolumeGrowthMin       float64 `json:"volume_growth_min"`
	MaxConsecutiveDecline int     `json:"max_consecutive_decline"` // reject at this many straight down closes; 0 disables
	MaxRecentSpike        float64 `json:"max_recent_spike"`        // reject single-day moves beyond this percent; 0 disables
	RequireAboveMA        bool    `json:"require_above_ma"`        // latest close must sit above the trailing moving average
	HighLookback          int     `json:"high_lookback"`           // candles; 0 = all supplied history
	TopN                  int     `json:"top_n"`
	MinScore              float64 `json:"min_score"`
}

type ScoredCandidate struct {
	Symbol         string       `json:"symbol"`
	Metrics        AssetMetrics `json:"metrics"`
	Score          float64      `json:"score"`
	Signals        []string     `json:"signals"`
	Recommendation string       `json:"recommendation"`
	Reason         string       `json:"reason"`
}

// ScreenReport is the full outcome of one screening run: the ranked candidates
// plus an accounting of every exclusion. Recomputed from scratch each run.
type ScreenReport struct {
	Candidates       []ScoredCandidate   `json:"candidates"`
	Evaluated        int                 `json:"evaluated"`
	Admitted         int                 `json:"admitted"`
	InsufficientData int                 `json:"insufficient_data"`
	CriteriaRejected int                 `json:"criteria_rejected"`
	Rejections       map[string][]string `json:"rejections,omitempty"`
	Errors           map[string]string   `json:"errors,omitempty"`
	Duration         time.Duration       `json:"duration"`
}
