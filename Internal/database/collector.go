package datafeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sort"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"

	"github.com/bajutae/Findupbitjewel/Internal/types"
	"github.com/bajutae/Findupbitjewel/Internal/utils"
)

// GetCryptoBars fetches up to limit daily (or other timeframe) candles for one
// crypto pair from the v1beta3 market data endpoint. Bars come back oldest
// first, which is what the indicator code expects.
func GetCryptoBars(ctx context.Context, symbol string, timeframe string, limit int) ([]types.Candle, error) {
	if cached, ok := getCachedBars(ctx, symbol, timeframe, limit); ok {
		return cached, nil
	}

	apiKey := os.Getenv("ALPACA_API_KEY")
	secretKey := os.Getenv("ALPACA_API_SECRET")

	timeframeToDur := func(tf string) time.Duration {
		switch tf {
		case "1Min":
			return time.Minute
		case "5Min":
			return 5 * time.Minute
		case "15Min":
			return 15 * time.Minute
		case "1Hour":
			return time.Hour
		case "4Hour":
			return 4 * time.Hour
		case "1Day":
			return 24 * time.Hour
		case "1Week":
			return 7 * 24 * time.Hour
		default:
			return 24 * time.Hour
		}
	}

	now := time.Now().UTC()
	start := now.Add(-timeframeToDur(timeframe) * time.Duration(limit+2))

	apiURL := fmt.Sprintf(
		"https://data.alpaca.markets/v1beta3/crypto/us/bars?symbols=%s&timeframe=%s&limit=%d&start=%s",
		url.QueryEscape(symbol), timeframe, limit, start.Format(time.RFC3339),
	)

	var candles []types.Candle
	retryConfig := utils.DefaultRetryConfig()

	err := utils.RetryWithBackoff(func() error {
		req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
		if err != nil {
			return err
		}
		req.Header.Set("APCA-API-KEY-ID", apiKey)
		req.Header.Set("APCA-API-SECRET-KEY", secretKey)

		client := &http.Client{}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("bars API returned status %d for %s", resp.StatusCode, symbol)
		}

		type cryptoResponse struct {
			Bars map[string][]types.Candle `json:"bars"`
		}
		var r cryptoResponse
		if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
			return err
		}
		for _, barSlice := range r.Bars {
			candles = barSlice
			break
		}
		return nil
	}, retryConfig)

	if err != nil {
		return nil, err
	}

	// The API usually returns ascending order already; sort to be sure since
	// everything downstream assumes it.
	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Timestamp < candles[j].Timestamp
	})

	setCachedBars(ctx, symbol, timeframe, limit, candles)
	return candles, nil
}

// GetCryptoTicker derives the current snapshot for one pair from the latest
// daily bar of the snapshot endpoint.
func GetCryptoTicker(ctx context.Context, symbol string) (types.Ticker, error) {
	apiKey := os.Getenv("ALPACA_API_KEY")
	secretKey := os.Getenv("ALPACA_API_SECRET")

	apiURL := fmt.Sprintf(
		"https://data.alpaca.markets/v1beta3/crypto/us/snapshots?symbols=%s",
		url.QueryEscape(symbol),
	)

	var ticker types.Ticker
	retryConfig := utils.DefaultRetryConfig()

	err := utils.RetryWithBackoff(func() error {
		req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
		if err != nil {
			return err
		}
		req.Header.Set("APCA-API-KEY-ID", apiKey)
		req.Header.Set("APCA-API-SECRET-KEY", secretKey)

		client := &http.Client{}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("snapshot API returned status %d for %s", resp.StatusCode, symbol)
		}

		type snapshot struct {
			DailyBar    types.Candle `json:"dailyBar"`
			LatestTrade struct {
				Price float64 `json:"p"`
			} `json:"latestTrade"`
		}
		type snapshotResponse struct {
			Snapshots map[string]snapshot `json:"snapshots"`
		}
		var r snapshotResponse
		if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
			return err
		}

		s, ok := r.Snapshots[symbol]
		if !ok {
			return fmt.Errorf("no snapshot returned for %s", symbol)
		}

		price := s.LatestTrade.Price
		if price == 0 {
			price = s.DailyBar.Close
		}
		ticker = types.Ticker{
			Symbol:         symbol,
			Price:          price,
			TradedValue24h: s.DailyBar.TradedValue(),
			Timestamp:      s.DailyBar.Timestamp,
		}
		return nil
	}, retryConfig)

	return ticker, err
}

var alpacaClient *alpaca.Client

func InitAlpacaClient() error {
	apiKey := os.Getenv("ALPACA_API_KEY")
	secretKey := os.Getenv("ALPACA_API_SECRET")

	if apiKey == "" || secretKey == "" {
		return fmt.Errorf("ALPACA_API_KEY or ALPACA_API_SECRET not set")
	}

	alpacaClient = alpaca.NewClient(alpaca.ClientOpts{
		APIKey:    apiKey,
		APISecret: secretKey,
		BaseURL:   "https://paper-api.alpaca.markets",
	})

	return nil
}

// GetTradableCryptoAssets lists every tradable crypto pair from the trading API,
// used as the screening universe when the database holds no markets yet.
func GetTradableCryptoAssets() ([]string, error) {
	if alpacaClient == nil {
		if err := InitAlpacaClient(); err != nil {
			return nil, err
		}
	}

	assets, err := alpacaClient.GetAssets(alpaca.GetAssetsRequest{
		Status:     "active",
		AssetClass: "crypto",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list crypto assets: %w", err)
	}

	var symbols []string
	for _, a := range assets {
		if a.Tradable {
			symbols = append(symbols, a.Symbol)
		}
	}
	sort.Strings(symbols)
	return symbols, nil
}
