package scanner

import (
	"context"
	"errors"
	"log"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bajutae/Findupbitjewel/Internal/strategy/detection"
	"github.com/bajutae/Findupbitjewel/Internal/strategy/metrics"
	"github.com/bajutae/Findupbitjewel/Internal/types"
	"github.com/bajutae/Findupbitjewel/Internal/utils/scoring"
)

// AssetData is everything the core needs for one asset: a fully materialized
// ascending candle series, the current ticker, and an optional supply estimate.
// The data collector owns fetching, caching and retries.
type AssetData struct {
	Candles           []types.Candle
	Ticker            types.Ticker
	CirculatingSupply *decimal.Decimal
}

// Screener runs the full per-asset pipeline (metrics -> criteria -> patterns ->
// score) and assembles the ranked result. Each run is a pure function of its
// input snapshot; nothing is retained between runs.
type Screener struct {
	Criteria types.ScreenerCriteria
	Detector *detection.Detector
	Params   metrics.CalcParams
	Workers  int
}

// NewScreener validates the criteria up front; malformed thresholds abort the
// run before any asset is processed.
func NewScreener(criteria types.ScreenerCriteria) (*Screener, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}
	params := metrics.DefaultCalcParams()
	params.HighLookback = criteria.HighLookback
	return &Screener{
		Criteria: criteria,
		Detector: detection.NewDetector(),
		Params:   params,
		Workers:  runtime.NumCPU(),
	}, nil
}

type assetResult struct {
	symbol    string
	candidate *types.ScoredCandidate
	reasons   []string
	err       error
}

// Screen evaluates every asset independently, discards the ones that fail the
// data requirements or the criteria, and returns the Top-N candidates sorted by
// score with deterministic tie-breaks. A cancelled context returns ctx.Err()
// and no partial results.
func (s *Screener) Screen(ctx context.Context, assets map[string]AssetData) (*types.ScreenReport, error) {
	if err := s.Criteria.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()

	symbols := make([]string, 0, len(assets))
	for symbol := range assets {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	workers := s.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(symbols) {
		workers = len(symbols)
	}

	jobs := make(chan string)
	results := make(chan assetResult, len(symbols))
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				results <- s.evaluate(symbol, assets[symbol])
			}
		}()
	}

	submitted := 0
submit:
	for _, symbol := range symbols {
		select {
		case <-ctx.Done():
			break submit
		case jobs <- symbol:
			submitted++
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	if ctx.Err() != nil {
		// A cancelled run produced nothing authoritative.
		return nil, ctx.Err()
	}

	report := &types.ScreenReport{
		Candidates: []types.ScoredCandidate{},
		Evaluated:  submitted,
		Rejections: map[string][]string{},
		Errors:     map[string]string{},
	}

	for r := range results {
		switch {
		case r.err != nil:
			if errors.Is(r.err, types.ErrInsufficientData) {
				report.InsufficientData++
			}
			report.Errors[r.symbol] = r.err.Error()
			log.Printf("Excluding %s: %v", r.symbol, r.err)
		case r.candidate == nil:
			report.CriteriaRejected++
			report.Rejections[r.symbol] = r.reasons
		default:
			report.Candidates = append(report.Candidates, *r.candidate)
		}
	}

	sort.Slice(report.Candidates, func(i, j int) bool {
		a, b := report.Candidates[i], report.Candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Metrics.TradedValue24h != b.Metrics.TradedValue24h {
			return a.Metrics.TradedValue24h > b.Metrics.TradedValue24h
		}
		return a.Symbol < b.Symbol
	})

	report.Admitted = len(report.Candidates)
	if len(report.Candidates) > s.Criteria.TopN {
		report.Candidates = report.Candidates[:s.Criteria.TopN]
	}
	report.Duration = time.Since(start)

	log.Printf("Screening done: %d evaluated, %d admitted, %d short on data, %d rejected by criteria (%.2fs)",
		report.Evaluated, report.Admitted, report.InsufficientData, report.CriteriaRejected, report.Duration.Seconds())

	return report, nil
}

func (s *Screener) evaluate(symbol string, data AssetData) assetResult {
	m, err := metrics.BuildAssetMetrics(symbol, data.Candles, data.Ticker, data.CirculatingSupply, s.Params)
	if err != nil {
		return assetResult{symbol: symbol, err: err}
	}

	admitted, reasons := EvaluateCriteria(m, s.Criteria)
	if !admitted {
		return assetResult{symbol: symbol, reasons: reasons}
	}

	signals, bonus := s.Detector.Detect(m)
	score := scoring.BuildScore(m, s.Criteria, bonus)
	if score < s.Criteria.MinScore {
		return assetResult{symbol: symbol, reasons: []string{
			"score_below_min: composite score under threshold",
		}}
	}

	return assetResult{symbol: symbol, candidate: &types.ScoredCandidate{
		Symbol:         symbol,
		Metrics:        m,
		Score:          score,
		Signals:        detection.SignalNames(signals),
		Recommendation: scoring.Recommendation(score),
		Reason:         scoring.BuildReason(m, s.Criteria),
	}}
}
