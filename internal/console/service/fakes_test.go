package service

import (
	"context"
	"sync"

	"github.com/xela07ax/shield-console/internal/audit"
	"github.com/xela07ax/shield-console/internal/domain"
)

type recordingAuditor struct {
	mu     sync.Mutex
	events []audit.Event
}

func (a *recordingAuditor) Log(e audit.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *recordingAuditor) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e.Action+":"+e.Status)
	}
	return out
}

type fakeSubscriber struct {
	configured bool
	err        error
	calls      []string
}

func (f *fakeSubscriber) Configured() bool { return f.configured }

func (f *fakeSubscriber) Subscribe(_ context.Context, email string) error {
	f.calls = append(f.calls, email)
	return f.err
}

type fakeWaitlistStore struct {
	entries []domain.WaitlistEntry
	err     error
}

func (f *fakeWaitlistStore) AddWaitlistEntry(_ context.Context, e domain.WaitlistEntry) error {
	f.entries = append(f.entries, e)
	return f.err
}

type staticLimiter struct {
	allow bool
	err   error
}

func (l staticLimiter) Allow(context.Context, string) (bool, error) { return l.allow, l.err }
