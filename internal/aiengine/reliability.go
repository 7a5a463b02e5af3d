package aiengine

import (
	"context"
	"errors"

	"github.com/sony/gobreaker"
	"github.com/xela07ax/shield-console/internal/domain"
	"github.com/xela07ax/shield-console/internal/infra"
	"github.com/xela07ax/shield-console/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// guard: предохранитель и лимитер перед каждым вызовом движка.
// Ретраев нет: резолвер сам уходит на следующий уровень.
type guard struct {
	cb      *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

func newGuard(cfg infra.EngineConfig, m *metrics.Metrics, logger *zap.Logger) *guard {
	failures := cfg.CBFailures
	if failures == 0 {
		failures = 3
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ai-engine",
		MaxRequests: cfg.CBMaxRequests,
		Interval:    cfg.CBInterval,
		Timeout:     cfg.CBTimeout, // Время, через которое CB попробует "закрыться"
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// Отмена со стороны клиента консоли: не вина движка
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			m.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
			logger.Warn("engine circuit breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	limit := rate.Limit(cfg.RateLimit)
	if cfg.RateLimit <= 0 {
		limit = rate.Inf
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}

	return &guard{
		cb:      cb,
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (g *guard) do(ctx context.Context, op string, fn func() error) error {
	// Wait сразу отказывает, если очередь не успевает до дедлайна ctx
	if err := g.limiter.Wait(ctx); err != nil {
		return &domain.FetchFailure{Op: op, Kind: domain.FailTimeout, Err: err}
	}

	_, err := g.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &domain.FetchFailure{Op: op, Kind: domain.FailCircuitOpen, Err: err}
	}
	return err
}

func (g *guard) open() bool {
	return g.cb.State() == gobreaker.StateOpen
}
