package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"signal-desk/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const keyPrefix = "signal-desk:candles:"

// Connect opens a client for redisURL and checks it with PING. Both
// redis://host:port/db URLs and bare host:port addresses are accepted.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	var opts *redis.Options
	if strings.Contains(redisURL, "://") {
		parsed, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: redisURL}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	log.Info().Str("addr", opts.Addr).Msg("connected to redis")
	return client, nil
}

// CandleCache stores normalized candle series with a per-entry TTL.
// A nil *CandleCache or one without a client is a valid, always-missing cache.
type CandleCache struct {
	client *redis.Client
}

func NewCandleCache(client *redis.Client) *CandleCache {
	return &CandleCache{client: client}
}

func (c *CandleCache) Enabled() bool {
	return c != nil && c.client != nil
}

// Key identifies a series by provider and normalized params.
func Key(source string, p domain.FetchParams) string {
	p = p.WithDefaults()
	return keyPrefix + strings.Join([]string{
		source,
		string(p.Type),
		strings.ToLower(p.Symbol),
		p.Currency,
		string(p.Timeframe),
		strconv.Itoa(p.Days),
	}, ":")
}

// Get reports ok=false on a miss or when the cache is disabled.
func (c *CandleCache) Get(ctx context.Context, key string) ([]domain.Candle, bool, error) {
	if !c.Enabled() {
		return nil, false, nil
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", key, err)
	}
	var candles []domain.Candle
	if err := json.Unmarshal(raw, &candles); err != nil {
		return nil, false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return candles, true, nil
}

func (c *CandleCache) Set(ctx context.Context, key string, candles []domain.Candle, ttl time.Duration) error {
	if !c.Enabled() || ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(candles)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}
