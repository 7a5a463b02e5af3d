package service

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
	"github.com/xela07ax/shield-console/internal/infra"
	"golang.org/x/time/rate"
)

// Limiter ограничивает частоту заявок с одного клиента
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter: фиксированное окно в Redis (INCR + TTL в одной транзакции, EXPIRE для ключа без TTL), общее для всех инстансов.
type RedisLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

func NewRedisLimiter(rdb *redis.Client, limit int, window time.Duration) *RedisLimiter {
	if limit <= 0 {
		limit = 1
	}
	return &RedisLimiter{rdb: rdb, limit: limit, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := infra.WaitlistLimitKey(key)

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	ttl := pipe.TTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	// Ключ без TTL: первый запрос окна или прошлый EXPIRE не дошел.
	// Иначе счетчик живет вечно и клиент получает 429 навсегда.
	if ttl.Val() < 0 {
		if err := l.rdb.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, err
		}
	}
	return incr.Val() <= int64(l.limit), nil
}

// maxLocalKeys предел числа клиентов, которых LocalLimiter помнит одновременно
const maxLocalKeys = 10_000

// LocalLimiter: token bucket на процесс, когда Redis не сконфигурирован.
// Бакеты живут в expirable LRU: через окно или при вытеснении клиент начинает с полного бакета.
type LocalLimiter struct {
	mu       sync.Mutex
	limiters *expirable.LRU[string, *rate.Limiter]
	every    rate.Limit
	burst    int
}

func NewLocalLimiter(limit int, window time.Duration) *LocalLimiter {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &LocalLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](maxLocalKeys, nil, window),
		every:    rate.Every(window / time.Duration(limit)),
		burst:    limit,
	}
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	lim, ok := l.limiters.Get(key)
	if !ok {
		lim = rate.NewLimiter(l.every, l.burst)
		l.limiters.Add(key, lim)
	}
	l.mu.Unlock()
	return lim.Allow(), nil
}
