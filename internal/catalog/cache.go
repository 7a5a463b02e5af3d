package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
	"github.com/xela07ax/shield-console/internal/domain"
	"github.com/xela07ax/shield-console/internal/infra"
	"github.com/xela07ax/shield-console/internal/metrics"
	"go.uber.org/zap"
)

const l1Key = "catalog"

// Fetcher источник каталога (клиент AI-движка)
type Fetcher interface {
	Catalog(ctx context.Context) ([]domain.CatalogEntry, error)
}

// Cache: двухуровневый кэш каталога: L1 (RAM, expirable LRU) и L2 (Redis, общий для инстансов).
// Ошибки Redis не фатальны: кэш деградирует до L1 + движок.
type Cache struct {
	fetcher Fetcher
	l1      *expirable.LRU[string, []domain.CatalogEntry]
	rdb     *redis.Client // nil: без L2
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  *zap.Logger

	instance         string // источник сигналов Pub/Sub
	resubscribeDelay time.Duration
}

func NewCache(fetcher Fetcher, rdb *redis.Client, cfg infra.CacheConfig, m *metrics.Metrics, logger *zap.Logger) *Cache {
	ttl := cfg.CatalogTTL
	if ttl <= 0 {
		ttl = 300 * time.Second
	}
	size := cfg.CatalogSize
	if size <= 0 {
		size = 16
	}
	if m == nil {
		m = metrics.NewMetrics(nil)
	}
	return &Cache{
		fetcher: fetcher,
		l1:      expirable.NewLRU[string, []domain.CatalogEntry](size, nil, ttl),
		rdb:     rdb,
		ttl:     ttl,
		metrics: m,
		logger:  logger.With(zap.String("mod", "catalog-cache")),

		instance:         uuid.NewString(),
		resubscribeDelay: 5 * time.Second,
	}
}

// Get отдает каталог из кэша или запрашивает движок. Ошибка движка отдается как есть.
func (c *Cache) Get(ctx context.Context) ([]domain.CatalogEntry, error) {
	if entries, ok := c.l1.Get(l1Key); ok {
		c.metrics.CatalogCache.WithLabelValues("l1").Inc()
		return entries, nil
	}

	if entries, ok := c.readL2(ctx); ok {
		c.metrics.CatalogCache.WithLabelValues("l2").Inc()
		c.l1.Add(l1Key, entries)
		return entries, nil
	}

	c.metrics.CatalogCache.WithLabelValues("miss").Inc()
	entries, err := c.fetcher.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.CatalogEntry{}
	}

	c.l1.Add(l1Key, entries)
	c.writeL2(ctx, entries)
	return entries, nil
}

// Invalidate сбрасывает оба уровня
func (c *Cache) Invalidate(ctx context.Context) error {
	c.l1.Remove(l1Key)
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, infra.RedisKeyCatalog).Err()
}

func (c *Cache) readL2(ctx context.Context) ([]domain.CatalogEntry, bool) {
	if c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, infra.RedisKeyCatalog).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("catalog L2 read failed", zap.Error(err))
		}
		return nil, false
	}
	var entries []domain.CatalogEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		c.logger.Warn("catalog L2 payload corrupted", zap.Error(err))
		return nil, false
	}
	return entries, true
}

func (c *Cache) writeL2(ctx context.Context, entries []domain.CatalogEntry) {
	if c.rdb == nil {
		return
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, infra.RedisKeyCatalog, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("catalog L2 write failed", zap.Error(err))
	}
}
