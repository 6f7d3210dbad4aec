package datafeed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/bajutae/Findupbitjewel/Internal/types"
)

// Candle responses are cached briefly so back-to-back profile runs do not
// re-download the same history. The cache is optional: without REDIS_URL every
// lookup is a miss and the collector goes straight to the API.
var (
	cacheClient *redis.Client
	cacheOnce   sync.Once
)

const candleCacheTTL = 5 * time.Minute

func getCacheClient() *redis.Client {
	cacheOnce.Do(func() {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			return
		}
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Printf("Ignoring invalid REDIS_URL: %v", err)
			return
		}
		client := redis.NewClient(opts)
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Printf("Redis unavailable, candle cache disabled: %v", err)
			return
		}
		cacheClient = client
	})
	return cacheClient
}

func candleCacheKey(symbol, timeframe string, limit int) string {
	return fmt.Sprintf("candles:%s:%s:%d", symbol, timeframe, limit)
}

func getCachedBars(ctx context.Context, symbol, timeframe string, limit int) ([]types.Candle, bool) {
	client := getCacheClient()
	if client == nil {
		return nil, false
	}

	data, err := client.Get(ctx, candleCacheKey(symbol, timeframe, limit)).Bytes()
	if err != nil {
		return nil, false
	}

	var candles []types.Candle
	if err := json.Unmarshal(data, &candles); err != nil {
		return nil, false
	}
	return candles, true
}

func setCachedBars(ctx context.Context, symbol, timeframe string, limit int, candles []types.Candle) {
	client := getCacheClient()
	if client == nil || len(candles) == 0 {
		return
	}

	data, err := json.Marshal(candles)
	if err != nil {
		return
	}
	if err := client.Set(ctx, candleCacheKey(symbol, timeframe, limit), data, candleCacheTTL).Err(); err != nil {
		log.Printf("Failed to cache candles for %s: %v", symbol, err)
	}
}
