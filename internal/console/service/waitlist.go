package service

import (
	"context"
	"strings"

	"github.com/xela07ax/shield-console/internal/audit"
	"github.com/xela07ax/shield-console/internal/domain"
	"github.com/xela07ax/shield-console/internal/metrics"
	"go.uber.org/zap"
)

// Subscriber: внешний сервис рассылок (Kit)
type Subscriber interface {
	Configured() bool
	Subscribe(ctx context.Context, email string) error
}

// WaitlistStore локальная копия заявок (опционально)
type WaitlistStore interface {
	AddWaitlistEntry(ctx context.Context, e domain.WaitlistEntry) error
}

type WaitlistService struct {
	subscriber Subscriber
	store      WaitlistStore // nil без БД
	limiter    Limiter       // nil: без ограничений
	auditor    audit.Auditor
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

func NewWaitlistService(sub Subscriber, store WaitlistStore, limiter Limiter, auditor audit.Auditor, m *metrics.Metrics, logger *zap.Logger) *WaitlistService {
	if m == nil {
		m = metrics.NewMetrics(nil)
	}
	return &WaitlistService{
		subscriber: sub,
		store:      store,
		limiter:    limiter,
		auditor:    auditor,
		metrics:    m,
		logger:     logger.Named("waitlist"),
	}
}

// ValidEmail: поверхностная проверка, как на лендинге: непустая строка с '@'.
func ValidEmail(email string) bool {
	return email != "" && strings.Contains(email, "@")
}

// Join порядок важен: валидация -> лимит -> конфиг Kit -> Kit -> локальная копия.
// Невалидный email никогда не доходит до Kit.
func (s *WaitlistService) Join(ctx context.Context, email, clientIP string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !ValidEmail(email) {
		s.metrics.WaitlistSignups.WithLabelValues("invalid").Inc()
		return domain.ErrInvalidEmail
	}

	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx, clientIP)
		if err != nil {
			// Сбой лимитера не должен ронять форму подписки
			s.logger.Warn("rate limiter unavailable", zap.Error(err))
		} else if !ok {
			s.metrics.WaitlistSignups.WithLabelValues("rate_limited").Inc()
			return domain.ErrRateLimited
		}
	}

	if !s.subscriber.Configured() {
		s.logger.Error("KIT_API_KEY or KIT_FORM_ID is not set")
		s.metrics.WaitlistSignups.WithLabelValues("misconfigured").Inc()
		return domain.ErrMailingNotConfig
	}

	if err := s.subscriber.Subscribe(ctx, email); err != nil {
		s.metrics.WaitlistSignups.WithLabelValues("upstream_error").Inc()
		s.auditor.Log(audit.Event{
			Actor: email, Action: audit.ActionWaitlistJoin, Status: "FAILED",
			Details: map[string]interface{}{"error": err.Error()}, ClientIP: clientIP,
		})
		return err
	}

	if s.store != nil {
		if err := s.store.AddWaitlistEntry(ctx, domain.WaitlistEntry{Email: email, Source: "landing"}); err != nil {
			s.logger.Warn("waitlist entry not persisted", zap.Error(err))
		}
	}

	s.metrics.WaitlistSignups.WithLabelValues("ok").Inc()
	s.auditor.Log(audit.Event{
		Actor: email, Action: audit.ActionWaitlistJoin, Status: "SUCCESS", ClientIP: clientIP,
	})
	return nil
}
