package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xela07ax/shield-console/internal/domain"
	"go.uber.org/zap/zaptest"
)

type fakeEngineAPI struct {
	healthErr error
	statusErr error
	scanErr   error
	scanned   []string
}

func (f *fakeEngineAPI) Health(context.Context) (*domain.EngineHealth, error) {
	if f.healthErr != nil {
		return nil, f.healthErr
	}
	return &domain.EngineHealth{Status: "ok", Version: "1.2.0"}, nil
}

func (f *fakeEngineAPI) Status(context.Context) (*domain.EngineStatus, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return &domain.EngineStatus{ActiveScans: 2}, nil
}

func (f *fakeEngineAPI) Scan(_ context.Context, target string) (*domain.EngineScanResult, error) {
	f.scanned = append(f.scanned, target)
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	return &domain.EngineScanResult{ScanID: "scn-1", Target: target, Status: "queued"}, nil
}

type fakeCatalog struct {
	entries   []domain.CatalogEntry
	err       error
	refreshed int
}

func (f *fakeCatalog) Get(context.Context) ([]domain.CatalogEntry, error) { return f.entries, f.err }

func (f *fakeCatalog) Refresh(context.Context) error {
	f.refreshed++
	return nil
}

type fakeScanStore struct {
	scans []domain.Scan
}

func (f *fakeScanStore) CreateScan(_ context.Context, s domain.Scan) error {
	f.scans = append(f.scans, s)
	return nil
}

var engineDown = &domain.FetchFailure{Op: "health", Kind: domain.FailUnavailable}

func TestEngineService_State(t *testing.T) {
	svc := NewEngineService(&fakeEngineAPI{}, &fakeCatalog{}, nil, &recordingAuditor{}, zaptest.NewLogger(t))
	st := svc.State(context.Background())
	assert.True(t, st.Online)
	require.NotNil(t, st.Health)
	require.NotNil(t, st.Status)
	assert.Equal(t, 2, st.Status.ActiveScans)

	offline := NewEngineService(&fakeEngineAPI{healthErr: engineDown}, &fakeCatalog{}, nil, &recordingAuditor{}, zaptest.NewLogger(t))
	st = offline.State(context.Background())
	assert.False(t, st.Online)
	assert.Nil(t, st.Health)
	assert.Nil(t, st.Status)
	assert.False(t, st.Timestamp.IsZero())

	// Живой health без статуса: online, status пустой
	partial := NewEngineService(&fakeEngineAPI{statusErr: engineDown}, &fakeCatalog{}, nil, &recordingAuditor{}, zaptest.NewLogger(t))
	st = partial.State(context.Background())
	assert.True(t, st.Online)
	assert.Nil(t, st.Status)
}

func TestEngineService_Catalog(t *testing.T) {
	svc := NewEngineService(&fakeEngineAPI{}, &fakeCatalog{err: engineDown}, nil, &recordingAuditor{}, zaptest.NewLogger(t))
	_, err := svc.Catalog(context.Background())
	assert.ErrorIs(t, err, ErrEngineOffline)

	svc = NewEngineService(&fakeEngineAPI{}, &fakeCatalog{}, nil, &recordingAuditor{}, zaptest.NewLogger(t))
	entries, err := svc.Catalog(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestEngineService_ScanRecordsAndAudits(t *testing.T) {
	eng := &fakeEngineAPI{}
	scans := &fakeScanStore{}
	aud := &recordingAuditor{}
	svc := NewEngineService(eng, &fakeCatalog{}, scans, aud, zaptest.NewLogger(t))

	res, err := svc.Scan(context.Background(), " 0xabc ", "admin@shield.local", "req-1", "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "scn-1", res.ScanID)
	assert.Equal(t, []string{"0xabc"}, eng.scanned)

	require.Len(t, scans.scans, 1)
	assert.Equal(t, "scn-1", scans.scans[0].EngineScan)
	assert.Equal(t, "admin@shield.local", scans.scans[0].RequestedBy)
	assert.NotEmpty(t, scans.scans[0].ID)
	assert.Equal(t, []string{"engine.scan:SUCCESS"}, aud.actions())
}

func TestEngineService_ScanErrors(t *testing.T) {
	eng := &fakeEngineAPI{scanErr: engineDown}
	aud := &recordingAuditor{}
	svc := NewEngineService(eng, &fakeCatalog{}, nil, aud, zaptest.NewLogger(t))

	_, err := svc.Scan(context.Background(), "   ", "", "", "")
	assert.ErrorIs(t, err, ErrEmptyTarget)
	assert.Empty(t, eng.scanned)

	_, err = svc.Scan(context.Background(), "0xabc", "", "", "")
	assert.ErrorIs(t, err, ErrEngineOffline)
	assert.Len(t, eng.scanned, 1, "no retries")
	assert.Equal(t, []string{"engine.scan:FAILED"}, aud.actions())
}

func TestEngineService_RefreshCatalogAdminOnly(t *testing.T) {
	cat := &fakeCatalog{}
	svc := NewEngineService(&fakeEngineAPI{}, cat, nil, &recordingAuditor{}, zaptest.NewLogger(t))
	ctx := context.Background()

	err := svc.RefreshCatalog(ctx, &domain.SessionClaims{Role: "analyst"}, "", "")
	assert.True(t, errors.Is(err, ErrForbidden))
	assert.ErrorIs(t, svc.RefreshCatalog(ctx, nil, "", ""), ErrForbidden)
	assert.Zero(t, cat.refreshed)

	require.NoError(t, svc.RefreshCatalog(ctx, &domain.SessionClaims{Role: "admin", Email: "admin@shield.local"}, "", ""))
	assert.Equal(t, 1, cat.refreshed)
}
