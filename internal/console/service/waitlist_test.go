package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xela07ax/shield-console/internal/domain"
	"github.com/xela07ax/shield-console/internal/mailing"
	"github.com/xela07ax/shield-console/internal/metrics"
	"go.uber.org/zap/zaptest"
)

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("person@example.com"))
	assert.True(t, ValidEmail("a@b"))
	assert.False(t, ValidEmail(""))
	assert.False(t, ValidEmail("person.example.com"))
}

func TestWaitlist_InvalidEmailNeverReachesKit(t *testing.T) {
	sub := &fakeSubscriber{configured: true}
	svc := NewWaitlistService(sub, nil, nil, &recordingAuditor{}, nil, zaptest.NewLogger(t))

	err := svc.Join(context.Background(), "not-an-email", "1.2.3.4")
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
	assert.Empty(t, sub.calls)
}

func TestWaitlist_KitNotConfigured(t *testing.T) {
	sub := &fakeSubscriber{configured: false}
	svc := NewWaitlistService(sub, nil, nil, &recordingAuditor{}, nil, zaptest.NewLogger(t))

	err := svc.Join(context.Background(), "person@example.com", "1.2.3.4")
	assert.ErrorIs(t, err, domain.ErrMailingNotConfig)
	assert.Empty(t, sub.calls)
}

func TestWaitlist_SuccessPersistsAndAudits(t *testing.T) {
	m := metrics.NewMetrics(nil)
	sub := &fakeSubscriber{configured: true}
	store := &fakeWaitlistStore{}
	aud := &recordingAuditor{}
	svc := NewWaitlistService(sub, store, nil, aud, m, zaptest.NewLogger(t))

	require.NoError(t, svc.Join(context.Background(), "  Person@Example.com ", "1.2.3.4"))

	assert.Equal(t, []string{"person@example.com"}, sub.calls)
	require.Len(t, store.entries, 1)
	assert.Equal(t, "person@example.com", store.entries[0].Email)
	assert.Equal(t, []string{"waitlist.join:SUCCESS"}, aud.actions())
	assert.Equal(t, float64(1), counterValue(t, m.WaitlistSignups.WithLabelValues("ok")))
}

func TestWaitlist_StoreFailureIsNotFatal(t *testing.T) {
	sub := &fakeSubscriber{configured: true}
	store := &fakeWaitlistStore{err: errors.New("db down")}
	svc := NewWaitlistService(sub, store, nil, &recordingAuditor{}, nil, zaptest.NewLogger(t))

	assert.NoError(t, svc.Join(context.Background(), "person@example.com", "1.2.3.4"))
}

func TestWaitlist_UpstreamErrorPassedThrough(t *testing.T) {
	upstream := &mailing.UpstreamError{Status: 422, Message: "Email address is invalid"}
	sub := &fakeSubscriber{configured: true, err: upstream}
	store := &fakeWaitlistStore{}
	aud := &recordingAuditor{}
	svc := NewWaitlistService(sub, store, nil, aud, nil, zaptest.NewLogger(t))

	err := svc.Join(context.Background(), "person@example.com", "1.2.3.4")
	var got *mailing.UpstreamError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, 422, got.Status)
	assert.Empty(t, store.entries)
	assert.Equal(t, []string{"waitlist.join:FAILED"}, aud.actions())
}

func TestWaitlist_RateLimit(t *testing.T) {
	sub := &fakeSubscriber{configured: true}

	limited := NewWaitlistService(sub, nil, staticLimiter{allow: false}, &recordingAuditor{}, nil, zaptest.NewLogger(t))
	assert.ErrorIs(t, limited.Join(context.Background(), "person@example.com", "1.2.3.4"), domain.ErrRateLimited)
	assert.Empty(t, sub.calls)

	// Сбой лимитера пропускает заявку
	broken := NewWaitlistService(sub, nil, staticLimiter{err: errors.New("redis down")}, &recordingAuditor{}, nil, zaptest.NewLogger(t))
	assert.NoError(t, broken.Join(context.Background(), "person@example.com", "1.2.3.4"))
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}
