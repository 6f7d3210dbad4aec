package metrics

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/bajutae/Findupbitjewel/Internal/strategy/indicators"
	"github.com/bajutae/Findupbitjewel/Internal/types"
)

// CalcParams fixes every indicator lookback used during one screening run so
// results stay comparable across assets.
type CalcParams struct {
	RSIPeriod          int
	CCIPeriod          int
	BBPeriod           int
	BBStdDev           float64
	MACDFast           int
	MACDSlow           int
	MACDSignal         int
	VolatilityWindow   int
	HighLookback       int // candles; 0 = all supplied history
	VolumeAvgPeriod    int
	VolumeGrowthWindow int
	MAPeriod           int
	SpikeWindow        int // trailing days inspected for single-day spikes
}

func DefaultCalcParams() CalcParams {
	return CalcParams{
		RSIPeriod:          14,
		CCIPeriod:          20,
		BBPeriod:           20,
		BBStdDev:           2.0,
		MACDFast:           12,
		MACDSlow:           26,
		MACDSignal:         9,
		VolatilityWindow:   30,
		HighLookback:       200,
		VolumeAvgPeriod:    20,
		VolumeGrowthWindow: 7,
		MAPeriod:           20,
		SpikeWindow:        3,
	}
}

// RequiredCandles is the minimum series length the mandatory indicators need.
// Volume ratio and growth have their own shorter windows and degrade to
// unknown instead of failing the asset.
func (p CalcParams) RequiredCandles() int {
	required := p.MACDSlow
	for _, n := range []int{p.BBPeriod, p.CCIPeriod, p.RSIPeriod + 1, p.VolatilityWindow, p.MAPeriod} {
		if n > required {
			required = n
		}
	}
	return required
}

// BuildAssetMetrics derives the full metric set for one asset from its candle
// series and ticker snapshot. The series must be ascending by timestamp with
// positive prices. circulatingSupply may be nil; the market cap is then
// reported unknown rather than estimated.
func BuildAssetMetrics(symbol string, candles []types.Candle, ticker types.Ticker, circulatingSupply *decimal.Decimal, p CalcParams) (types.AssetMetrics, error) {
	required := p.RequiredCandles()
	if len(candles) < required {
		return types.AssetMetrics{}, fmt.Errorf("%w: %s has %d candles, need %d", types.ErrInsufficientData, symbol, len(candles), required)
	}
	if err := validateSeries(symbol, candles); err != nil {
		return types.AssetMetrics{}, err
	}

	closes := make([]float64, len(candles))
	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
		highs[i] = c.High
		lows[i] = c.Low
	}

	rsi, err := indicators.RSI(closes, p.RSIPeriod)
	if err != nil {
		return types.AssetMetrics{}, fmt.Errorf("%s: %w", symbol, err)
	}
	macd, macdSignal, histogram, err := indicators.MACD(closes, p.MACDFast, p.MACDSlow, p.MACDSignal)
	if err != nil {
		return types.AssetMetrics{}, fmt.Errorf("%s: %w", symbol, err)
	}
	bbPos, err := indicators.BollingerPosition(closes, p.BBPeriod, p.BBStdDev)
	if err != nil {
		return types.AssetMetrics{}, fmt.Errorf("%s: %w", symbol, err)
	}
	cci, err := indicators.CCI(highs, lows, closes, p.CCIPeriod)
	if err != nil {
		return types.AssetMetrics{}, fmt.Errorf("%s: %w", symbol, err)
	}
	volatility, err := indicators.Volatility(closes, p.VolatilityWindow)
	if err != nil {
		return types.AssetMetrics{}, fmt.Errorf("%s: %w", symbol, err)
	}

	lastClose := closes[len(closes)-1]
	highRef := indicators.HighReference(closes, p.HighLookback)
	decline := 0.0
	if highRef > 0 {
		decline = (highRef - lastClose) / highRef * 100
	}
	if decline < 0 {
		decline = 0
	}

	ma, err := indicators.SMA(closes, p.MAPeriod)
	if err != nil {
		return types.AssetMetrics{}, fmt.Errorf("%s: %w", symbol, err)
	}

	m := types.AssetMetrics{
		Symbol:                 symbol,
		Price:                  ticker.Price,
		TradedValue24h:         ticker.TradedValue24h,
		RSI:                    rsi,
		MACD:                   macd,
		MACDSignal:             macdSignal,
		MACDHistogram:          histogram,
		BBPosition:             bbPos,
		CCI:                    cci,
		Volatility:             volatility,
		HighReference:          highRef,
		DeclineFromHigh:        decline,
		ConsecutiveDeclineDays: consecutiveDeclines(closes),
		RecentSpikeMax:         largestDailyMove(closes, p.SpikeWindow),
		MAPosition:             (lastClose - ma) / ma * 100,
		VolumeRatio:            volumeRatio(candles, p.VolumeAvgPeriod),
		VolumeGrowth:           volumeGrowth(candles, p.VolumeGrowthWindow),
	}

	if circulatingSupply != nil {
		mcap := circulatingSupply.Mul(decimal.NewFromFloat(ticker.Price)).InexactFloat64()
		m.MarketCap = &mcap
	}

	return m, nil
}

func validateSeries(symbol string, candles []types.Candle) error {
	for i, c := range candles {
		if c.Open <= 0 || c.High <= 0 || c.Low <= 0 || c.Close <= 0 {
			return fmt.Errorf("candle series for %s has non-positive price at index %d", symbol, i)
		}
		if c.Volume < 0 {
			return fmt.Errorf("candle series for %s has negative volume at index %d", symbol, i)
		}
		if i > 0 && candles[i].Timestamp <= candles[i-1].Timestamp {
			return fmt.Errorf("candle series for %s not ascending at index %d", symbol, i)
		}
	}
	return nil
}

// consecutiveDeclines counts straight down closes walking back from the latest.
func consecutiveDeclines(closes []float64) int {
	count := 0
	for i := len(closes) - 1; i > 0; i-- {
		if closes[i] >= closes[i-1] {
			break
		}
		count++
	}
	return count
}

// largestDailyMove returns the single close-to-close change with the largest
// magnitude over the trailing window, signed percent.
func largestDailyMove(closes []float64, window int) float64 {
	if window <= 0 {
		return 0
	}
	if window > len(closes)-1 {
		window = len(closes) - 1
	}
	biggest := 0.0
	for i := len(closes) - window; i < len(closes); i++ {
		change := (closes[i]/closes[i-1] - 1) * 100
		if math.Abs(change) > math.Abs(biggest) {
			biggest = change
		}
	}
	return biggest
}

// volumeRatio compares the latest candle's turnover against the average of the
// preceding period candles. Unknown (nil) when the history is too short or the
// trailing average is zero.
func volumeRatio(candles []types.Candle, period int) *float64 {
	if period <= 0 || len(candles) < period+1 {
		return nil
	}
	total := 0.0
	for i := len(candles) - period - 1; i < len(candles)-1; i++ {
		total += candles[i].TradedValue()
	}
	avg := total / float64(period)
	if avg == 0 {
		return nil
	}
	ratio := candles[len(candles)-1].TradedValue() / avg
	return &ratio
}

// volumeGrowth compares average turnover of the most recent window candles
// against the window before it, in percent.
func volumeGrowth(candles []types.Candle, window int) *float64 {
	if window <= 0 || len(candles) < 2*window {
		return nil
	}
	recent := 0.0
	previous := 0.0
	for i := len(candles) - window; i < len(candles); i++ {
		recent += candles[i].TradedValue()
	}
	for i := len(candles) - 2*window; i < len(candles)-window; i++ {
		previous += candles[i].TradedValue()
	}
	if previous == 0 {
		return nil
	}
	growth := (recent - previous) / previous * 100
	return &growth
}
