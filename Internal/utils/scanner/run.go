package scanner

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	datafeed "github.com/bajutae/Findupbitjewel/Internal/database"
	"github.com/bajutae/Findupbitjewel/Internal/types"
	"github.com/bajutae/Findupbitjewel/Internal/utils/config"
)

// PerformScan is the end-to-end run behind both the CLI and the API: resolve
// the profile, assemble the universe, collect candles and tickers, then screen.
// Collection failures exclude a symbol with a log line; they never abort the run.
func PerformScan(ctx context.Context, profileName string, cfg *config.Config) (*types.ScreenReport, error) {
	criteria, err := cfg.BuildCriteria(profileName)
	if err != nil {
		return nil, err
	}

	screener, err := NewScreener(criteria)
	if err != nil {
		return nil, err
	}
	screener.Detector = cfg.BuildDetector(profileName)

	symbols, err := buildUniverse(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Printf("Scanning %d markets with profile %q", len(symbols), profileName)

	assets := make(map[string]AssetData, len(symbols))
	for _, symbol := range symbols {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		candles, err := datafeed.GetCryptoBars(ctx, symbol, cfg.Global.Timeframe, cfg.Global.CandleLimit)
		if err != nil {
			log.Printf("Skipping %s: candle fetch failed: %v", symbol, err)
			continue
		}
		ticker, err := datafeed.GetCryptoTicker(ctx, symbol)
		if err != nil {
			log.Printf("Skipping %s: snapshot fetch failed: %v", symbol, err)
			continue
		}

		assets[symbol] = AssetData{
			Candles:           candles,
			Ticker:            ticker,
			CirculatingSupply: lookupSupply(ctx, symbol),
		}
	}

	report, err := screener.Screen(ctx, assets)
	if err != nil {
		return nil, err
	}

	if datafeed.DB != nil {
		if err := datafeed.LogScanRun(ctx, profileName, report); err != nil {
			log.Printf("Failed to persist scan summary: %v", err)
		}
	}
	return report, nil
}

// lookupSupply reads the circulating supply estimate for one symbol. Without a
// database, or when the symbol has no stored estimate, the supply stays unknown
// and the market cap is carried as unavailable.
func lookupSupply(ctx context.Context, symbol string) *decimal.Decimal {
	if datafeed.DB == nil {
		return nil
	}
	supply, err := datafeed.GetCirculatingSupply(ctx, symbol)
	if err != nil {
		if !errors.Is(err, types.ErrMetricUnavailable) {
			log.Printf("Supply lookup failed for %s: %v", symbol, err)
		}
		return nil
	}
	return &supply
}

// buildUniverse prefers the database market list; an empty markets table gets
// seeded from the exchange asset list first so later runs (and out-of-band
// supply updates) have rows to work against. Without a database the exchange
// list is used directly. Symbols on the exclusion list are dropped either way.
func buildUniverse(ctx context.Context, cfg *config.Config) ([]string, error) {
	excluded := make(map[string]bool, len(cfg.ExcludeSymbols))
	for _, s := range cfg.ExcludeSymbols {
		excluded[s] = true
	}

	filter := func(all []string) []string {
		var symbols []string
		for _, s := range all {
			if !excluded[s] {
				symbols = append(symbols, s)
			}
		}
		return symbols
	}

	if datafeed.DB != nil {
		stored, err := datafeed.GetActiveMarkets(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load market universe: %w", err)
		}
		if len(stored) > 0 {
			return filter(stored), nil
		}

		log.Printf("Market table is empty, seeding it from the exchange asset list")
		all, err := datafeed.GetTradableCryptoAssets()
		if err != nil {
			return nil, err
		}
		seeded := 0
		for _, symbol := range all {
			if err := datafeed.UpsertMarket(ctx, symbol, symbol); err != nil {
				log.Printf("Failed to seed market %s: %v", symbol, err)
				continue
			}
			seeded++
		}
		log.Printf("Seeded %d markets", seeded)
		return filter(all), nil
	}

	all, err := datafeed.GetTradableCryptoAssets()
	if err != nil {
		return nil, err
	}
	return filter(all), nil
}
