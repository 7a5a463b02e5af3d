package seed

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xela07ax/shield-console/internal/audit"
	"github.com/xela07ax/shield-console/internal/domain"
	"github.com/xela07ax/shield-console/internal/mockdata"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

// memStore повторяет уникальные ключи схемы: повторная запись по ключу заменяет строку
type memStore struct {
	users     map[string]domain.User         // email
	threats   map[string]domain.Threat       // id
	geo       map[string]domain.GeoAttack    // code+period
	detectors map[string]domain.Detector     // name
	activity  map[string]domain.ActivityHour // hour+date
	insights  map[string]domain.NetworkInsight
	auditLogs map[string]audit.Event
	waitlist  map[string]domain.WaitlistEntry
	snapshots []domain.MetricsSnapshot
	failOn    string
}

func newMemStore() *memStore {
	return &memStore{
		users:     map[string]domain.User{},
		threats:   map[string]domain.Threat{},
		geo:       map[string]domain.GeoAttack{},
		detectors: map[string]domain.Detector{},
		activity:  map[string]domain.ActivityHour{},
		insights:  map[string]domain.NetworkInsight{},
		auditLogs: map[string]audit.Event{},
		waitlist:  map[string]domain.WaitlistEntry{},
	}
}

func (m *memStore) UpsertUser(_ context.Context, u domain.User) error {
	if m.failOn == "users" {
		return errors.New("boom")
	}
	m.users[u.Email] = u
	return nil
}

func (m *memStore) UpsertThreat(_ context.Context, t domain.Threat) error {
	m.threats[t.ID] = t
	return nil
}

func (m *memStore) UpsertGeoAttack(_ context.Context, g domain.GeoAttack, period string) error {
	m.geo[g.Code+"/"+period] = g
	return nil
}

func (m *memStore) UpsertDetector(_ context.Context, d domain.Detector) error {
	m.detectors[d.Name] = d
	return nil
}

func (m *memStore) InsertMetricsSnapshot(_ context.Context, s domain.MetricsSnapshot) error {
	m.snapshots = append(m.snapshots, s)
	return nil
}

func (m *memStore) UpsertActivityHour(_ context.Context, a domain.ActivityHour) error {
	m.activity[fmt.Sprintf("%d/%s", a.Hour, a.Date.Format(time.DateOnly))] = a
	return nil
}

func (m *memStore) UpsertInsight(_ context.Context, in domain.NetworkInsight) error {
	m.insights[in.ID] = in
	return nil
}

func (m *memStore) WriteBatch(_ context.Context, events []audit.Event) error {
	for _, e := range events {
		if _, ok := m.auditLogs[e.ID]; !ok {
			m.auditLogs[e.ID] = e
		}
	}
	return nil
}

func (m *memStore) AddWaitlistEntry(_ context.Context, e domain.WaitlistEntry) error {
	if _, ok := m.waitlist[e.Email]; !ok {
		m.waitlist[e.Email] = e
	}
	return nil
}

var seedNow = time.Date(2026, 4, 2, 15, 0, 0, 0, time.UTC)

func dataset() Dataset {
	return BuildDataset(mockdata.NewSeeded(3, func() time.Time { return seedNow }), seedNow, "admin@shield.local")
}

func TestSeeder_IdempotentByNaturalKeys(t *testing.T) {
	store := newMemStore()
	s := NewSeeder(store, "initial-pass", bcrypt.MinCost, zaptest.NewLogger(t))
	ctx := context.Background()

	first, err := s.Run(ctx, dataset())
	require.NoError(t, err)

	counts := func() []int {
		return []int{len(store.users), len(store.threats), len(store.geo), len(store.detectors),
			len(store.activity), len(store.insights), len(store.auditLogs), len(store.waitlist)}
	}
	before := counts()

	second, err := s.Run(ctx, dataset())
	require.NoError(t, err)

	assert.Equal(t, before, counts(), "second run must not add rows with natural keys")
	assert.Equal(t, first, second)
	assert.Equal(t, 24, len(store.activity))
	assert.Equal(t, 8, len(store.detectors))
	assert.Len(t, store.geo, 8)
}

func TestSeeder_AdminPasswordHashed(t *testing.T) {
	store := newMemStore()
	_, err := NewSeeder(store, "initial-pass", bcrypt.MinCost, zaptest.NewLogger(t)).Run(context.Background(), dataset())
	require.NoError(t, err)

	admin := store.users["admin@shield.local"]
	assert.Equal(t, "admin", admin.Role)
	assert.NotEqual(t, "initial-pass", admin.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("initial-pass")))

	// Демо-аналитик без пароля
	assert.Empty(t, store.users["analyst@shield.local"].PasswordHash)
}

func TestSeeder_SkipsAdminWithoutPassword(t *testing.T) {
	store := newMemStore()
	rep, err := NewSeeder(store, "", bcrypt.MinCost, zaptest.NewLogger(t)).Run(context.Background(), dataset())
	require.NoError(t, err)

	_, ok := store.users["admin@shield.local"]
	assert.False(t, ok)
	assert.Equal(t, 1, rep["users"])
	assert.NotEmpty(t, store.threats, "the rest of the data is still seeded")
}

func TestSeeder_StopsOnFirstError(t *testing.T) {
	store := newMemStore()
	store.failOn = "users"
	_, err := NewSeeder(store, "pass", bcrypt.MinCost, zaptest.NewLogger(t)).Run(context.Background(), dataset())
	require.Error(t, err)
	assert.Empty(t, store.threats)
}

func TestBuildDataset_ActivityForToday(t *testing.T) {
	ds := dataset()
	require.Len(t, ds.Activity, 24)
	for h, a := range ds.Activity {
		assert.Equal(t, h, a.Hour)
		assert.Equal(t, "2026-04-02", a.Date.Format(time.DateOnly))
	}
	assert.Equal(t, "admin@shield.local", ds.Users[0].Email)
}

func TestBuildDataset_ActivityDateIsUTC(t *testing.T) {
	// Локальное время уже 2 апреля, в UTC еще 1 апреля
	now := time.Date(2026, 4, 2, 1, 0, 0, 0, time.FixedZone("UTC+5", 5*60*60))
	ds := BuildDataset(mockdata.NewSeeded(3, func() time.Time { return now }), now, "admin@shield.local")

	require.NotEmpty(t, ds.Activity)
	for _, a := range ds.Activity {
		assert.Equal(t, domain.ActivityDay(now), a.Date)
		assert.Equal(t, "2026-04-01", a.Date.Format(time.DateOnly))
	}
}

func TestSeeder_AdminFoundByRoleNotPosition(t *testing.T) {
	ds := dataset()
	ds.Users[0], ds.Users[1] = ds.Users[1], ds.Users[0]
	require.Equal(t, "analyst", ds.Users[0].Role)

	store := newMemStore()
	_, err := NewSeeder(store, "initial-pass", bcrypt.MinCost, zaptest.NewLogger(t)).Run(context.Background(), ds)
	require.NoError(t, err)

	assert.Empty(t, store.users["analyst@shield.local"].PasswordHash, "password must not land on the analyst")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(store.users["admin@shield.local"].PasswordHash), []byte("initial-pass")))
}
