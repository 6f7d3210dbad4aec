package indicators

import (
	"fmt"
	"math"
)

// SMA returns the simple moving average of the last period values.
func SMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("sma: period must be positive, got %d", period)
	}
	if len(values) < period {
		return 0, fmt.Errorf("sma: need %d values, got %d", period, len(values))
	}
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period), nil
}

// EMASeries computes an exponential moving average seeded with the SMA of the
// first period values. Entries before index period-1 are not meaningful.
func EMASeries(values []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, fmt.Errorf("ema: period must be positive, got %d", period)
	}
	if len(values) < period {
		return nil, fmt.Errorf("ema: need %d values, got %d", period, len(values))
	}

	out := make([]float64, len(values))
	seed, err := SMA(values[:period], period)
	if err != nil {
		return nil, err
	}
	out[period-1] = seed

	k := 2.0 / (float64(period) + 1.0)
	for i := period; i < len(values); i++ {
		out[i] = (values[i]-out[i-1])*k + out[i-1]
	}
	return out, nil
}

// RSI computes the Relative Strength Index with Wilder smoothing, bounded [0,100].
func RSI(closes []float64, period int) (float64, error) {
	if len(closes) < period+1 {
		return 0, fmt.Errorf("rsi: need %d closes, got %d", period+1, len(closes))
	}

	avgGain := 0.0
	avgLoss := 0.0
	for i := 1; i <= period; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss -= delta
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		if avgGain == 0 {
			return 50, nil // flat series
		}
		return 100, nil
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs)), nil
}

// MACD returns the MACD line, signal line and histogram for the latest close.
// The signal line is an EMA seeded from the first MACD value, so only the slow
// period of closes is required.
func MACD(closes []float64, fast, slow, signalPeriod int) (macd, signal, histogram float64, err error) {
	if len(closes) < slow {
		return 0, 0, 0, fmt.Errorf("macd: need %d closes, got %d", slow, len(closes))
	}

	emaFast, err := EMASeries(closes, fast)
	if err != nil {
		return 0, 0, 0, err
	}
	emaSlow, err := EMASeries(closes, slow)
	if err != nil {
		return 0, 0, 0, err
	}

	macdSeries := make([]float64, 0, len(closes)-slow+1)
	for i := slow - 1; i < len(closes); i++ {
		macdSeries = append(macdSeries, emaFast[i]-emaSlow[i])
	}

	k := 2.0 / (float64(signalPeriod) + 1.0)
	signal = macdSeries[0]
	for _, v := range macdSeries[1:] {
		signal = (v-signal)*k + signal
	}

	macd = macdSeries[len(macdSeries)-1]
	return macd, signal, macd - signal, nil
}

// BollingerPosition returns where the latest close sits within the Bollinger
// band as a 0-1 fraction, clamped when price is outside the band. A zero-width
// band (flat prices) reports the midpoint.
func BollingerPosition(closes []float64, period int, stdDev float64) (float64, error) {
	if len(closes) < period {
		return 0, fmt.Errorf("bollinger: need %d closes, got %d", period, len(closes))
	}

	window := closes[len(closes)-period:]
	mean := 0.0
	for _, v := range window {
		mean += v
	}
	mean /= float64(period)

	sd := sampleStdDev(window, mean)
	upper := mean + stdDev*sd
	lower := mean - stdDev*sd
	if upper == lower {
		return 0.5, nil
	}

	pos := (closes[len(closes)-1] - lower) / (upper - lower)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}

// CCI computes the Commodity Channel Index over the last period candles.
func CCI(highs, lows, closes []float64, period int) (float64, error) {
	if len(closes) < period {
		return 0, fmt.Errorf("cci: need %d candles, got %d", period, len(closes))
	}
	if len(highs) != len(closes) || len(lows) != len(closes) {
		return 0, fmt.Errorf("cci: mismatched series lengths")
	}

	typical := make([]float64, period)
	offset := len(closes) - period
	for i := 0; i < period; i++ {
		typical[i] = (highs[offset+i] + lows[offset+i] + closes[offset+i]) / 3
	}

	sma := 0.0
	for _, tp := range typical {
		sma += tp
	}
	sma /= float64(period)

	meanDev := 0.0
	for _, tp := range typical {
		meanDev += math.Abs(tp - sma)
	}
	meanDev /= float64(period)

	if meanDev == 0 {
		return 0, nil
	}
	return (typical[period-1] - sma) / (0.015 * meanDev), nil
}

// Volatility is the sample standard deviation of daily close-to-close returns
// over the trailing window candles (window-1 returns), annualized (sqrt 252)
// and expressed in percent.
func Volatility(closes []float64, window int) (float64, error) {
	if window < 2 {
		return 0, fmt.Errorf("volatility: window must be at least 2, got %d", window)
	}
	if len(closes) < window {
		return 0, fmt.Errorf("volatility: need %d closes, got %d", window, len(closes))
	}

	returns := make([]float64, window-1)
	offset := len(closes) - window
	for i := 0; i < window-1; i++ {
		prev := closes[offset+i]
		returns[i] = closes[offset+i+1]/prev - 1
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	return sampleStdDev(returns, mean) * math.Sqrt(252) * 100, nil
}

// HighReference returns the maximum close over the trailing lookback candles.
// A lookback of 0 (or one longer than the series) covers all supplied history.
func HighReference(closes []float64, lookback int) float64 {
	if len(closes) == 0 {
		return 0
	}
	if lookback <= 0 || lookback > len(closes) {
		lookback = len(closes)
	}
	window := closes[len(closes)-lookback:]
	high := window[0]
	for _, c := range window[1:] {
		if c > high {
			high = c
		}
	}
	return high
}

func sampleStdDev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}
