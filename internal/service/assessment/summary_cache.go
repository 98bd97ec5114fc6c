package assessment

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// SummaryCache memoizes severity summaries per day range.
type SummaryCache interface {
	Get(ctx context.Context, days int) (*SeveritySummary, bool)
	Set(ctx context.Context, days int, summary *SeveritySummary)
	// Invalidate drops every cached range.
	Invalidate(ctx context.Context)
}

type redisSummaryCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisSummaryCache caches summaries in Redis. Cache failures are logged
// and behave as misses.
func NewRedisSummaryCache(rdb *redis.Client, ttl time.Duration) SummaryCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &redisSummaryCache{rdb: rdb, ttl: ttl}
}

const summaryKeyPrefix = "eunoia:severity-summary:"

func summaryKey(days int) string {
	return summaryKeyPrefix + strconv.Itoa(days)
}

func (c *redisSummaryCache) Get(ctx context.Context, days int) (*SeveritySummary, bool) {
	raw, err := c.rdb.Get(ctx, summaryKey(days)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.DebugContext(ctx, "severity summary cache read failed", "error", err)
		}
		return nil, false
	}

	var out SeveritySummary
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return &out, true
}

func (c *redisSummaryCache) Set(ctx context.Context, days int, summary *SeveritySummary) {
	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, summaryKey(days), raw, c.ttl).Err(); err != nil {
		slog.DebugContext(ctx, "severity summary cache write failed", "error", err)
	}
}

func (c *redisSummaryCache) Invalidate(ctx context.Context) {
	iter := c.rdb.Scan(ctx, 0, summaryKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		slog.WarnContext(ctx, "severity summary cache scan failed", "error", err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		slog.WarnContext(ctx, "severity summary cache invalidation failed", "error", err)
	}
}
