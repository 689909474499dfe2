// Package cache keeps finished transcripts in redis, keyed by the SHA-256 of
// the audio file. A hit skips the provider call entirely; any redis failure
// degrades to a miss so transcription keeps working without the cache.
package cache

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"rapidscribe/internal/logger"
)

const (
	keyPrefix  = "rapidscribe:transcript:"
	DefaultTTL = 24 * time.Hour

	opTimeout = 2 * time.Second
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rapidscribe_cache_hits_total",
		Help: "Transcript cache hits.",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rapidscribe_cache_misses_total",
		Help: "Transcript cache misses, including redis errors.",
	})
)

// TranscriptCache is a TTL-backed transcript store. The nil cache is valid
// and always misses, which is how a deployment without redis runs.
type TranscriptCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewFromEnv builds the cache from REDIS_ADDR / REDIS_PASSWORD / REDIS_DB /
// REDIS_TTL_HOURS. Returns nil when REDIS_ADDR is unset.
func NewFromEnv() *TranscriptCache {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil
	}

	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			db = parsed
		}
	}

	ttl := DefaultTTL
	if v := os.Getenv("REDIS_TTL_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			ttl = time.Duration(hours) * time.Hour
		}
	}

	return New(addr, os.Getenv("REDIS_PASSWORD"), db, ttl)
}

func New(addr, password string, db int, ttl time.Duration) *TranscriptCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TranscriptCache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl: ttl,
		log: logger.MustNew("cache"),
	}
}

// Get returns the cached transcript for fileHash. The second return reports
// whether there was a hit.
func (c *TranscriptCache) Get(ctx context.Context, fileHash string) (string, bool) {
	if c == nil || fileHash == "" {
		return "", false
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	text, err := c.client.Get(ctx, keyPrefix+fileHash).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("cache read failed", zap.String("hash", fileHash), zap.Error(err))
		}
		cacheMisses.Inc()
		return "", false
	}
	cacheHits.Inc()
	return text, true
}

// Set stores a transcript. Failures are logged and swallowed.
func (c *TranscriptCache) Set(ctx context.Context, fileHash, text string) {
	if c == nil || fileHash == "" || text == "" {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := c.client.Set(ctx, keyPrefix+fileHash, text, c.ttl).Err(); err != nil {
		c.log.Warn("cache write failed", zap.String("hash", fileHash), zap.Error(err))
	}
}

// Ping reports whether redis is reachable.
func (c *TranscriptCache) Ping(ctx context.Context) error {
	if c == nil {
		return errors.New("cache disabled")
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return c.client.Ping(ctx).Err()
}

func (c *TranscriptCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
