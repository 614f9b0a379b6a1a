package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"agent-backtest-lab/internal/domain"
)

// RedisPriceCache shares immutable historical price windows across runs.
// Errors degrade to cache misses; the cache never fails a lookup path.
type RedisPriceCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	log       zerolog.Logger

	hits   int
	misses int
}

// RedisOptions configures a RedisPriceCache.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	Logger   zerolog.Logger
}

// NewRedisPriceCache connects to Redis and returns a price cache.
func NewRedisPriceCache(ctx context.Context, opts RedisOptions) (*RedisPriceCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &RedisPriceCache{
		client:    client,
		keyPrefix: "bars:",
		ttl:       ttl,
		log:       opts.Logger,
	}, nil
}

// Get returns the cached window. Redis errors count as misses.
func (c *RedisPriceCache) Get(ticker string, start, end time.Time) ([]domain.Bar, bool) {
	key := c.keyPrefix + PriceWindowKey(ticker, start, end)

	data, err := c.client.Get(context.Background(), key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("key", key).Msg("redis get failed")
		}
		c.misses++
		return nil, false
	}

	var bars []domain.Bar
	if err := json.Unmarshal(data, &bars); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("corrupt cache entry")
		c.misses++
		return nil, false
	}

	c.hits++
	return bars, true
}

// Put stores a window with the configured TTL. Errors are logged only.
func (c *RedisPriceCache) Put(ticker string, start, end time.Time, bars []domain.Bar) {
	key := c.keyPrefix + PriceWindowKey(ticker, start, end)

	data, err := json.Marshal(bars)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("marshal cache entry failed")
		return
	}
	if err := c.client.Set(context.Background(), key, data, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("redis set failed")
	}
}

// HitRate returns hits / (hits + misses), 0 when no lookups occurred.
func (c *RedisPriceCache) HitRate() float64 {
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total)
}

// Close releases the underlying client.
func (c *RedisPriceCache) Close() error {
	return c.client.Close()
}

var _ MarketDataCache = (*RedisPriceCache)(nil)
