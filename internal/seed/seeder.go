// Package seed наполняет PostgreSQL демо-данными. Каждая сущность с естественным
// ключом пишется upsert-ом, повторный прогон не создает дублей.
package seed

import (
	"context"
	"fmt"

	"github.com/xela07ax/shield-console/internal/audit"
	"github.com/xela07ax/shield-console/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Store: upsert-операции хранилища (реализует postgres.Repo)
type Store interface {
	UpsertUser(ctx context.Context, u domain.User) error
	UpsertThreat(ctx context.Context, t domain.Threat) error
	UpsertGeoAttack(ctx context.Context, g domain.GeoAttack, period string) error
	UpsertDetector(ctx context.Context, d domain.Detector) error
	InsertMetricsSnapshot(ctx context.Context, m domain.MetricsSnapshot) error
	UpsertActivityHour(ctx context.Context, a domain.ActivityHour) error
	UpsertInsight(ctx context.Context, in domain.NetworkInsight) error
	WriteBatch(ctx context.Context, events []audit.Event) error
	AddWaitlistEntry(ctx context.Context, e domain.WaitlistEntry) error
}

const adminRole = "admin"

type Seeder struct {
	store         Store
	adminPassword string
	bcryptCost    int
	logger        *zap.Logger
}

func NewSeeder(store Store, adminPassword string, bcryptCost int, logger *zap.Logger) *Seeder {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Seeder{
		store:         store,
		adminPassword: adminPassword,
		bcryptCost:    bcryptCost,
		logger:        logger.Named("seed"),
	}
}

// Report сколько строк каждого вида записано
type Report map[string]int

// Run пишет набор по сущностям. Первая ошибка прерывает прогон:
// частично записанные данные исправит следующий прогон.
func (s *Seeder) Run(ctx context.Context, ds Dataset) (Report, error) {
	rep := Report{}

	for _, u := range ds.Users {
		if u.Role == adminRole {
			// Без ADMIN_INITIAL_PASSWORD администратор не создается: пароль по умолчанию недопустим
			if s.adminPassword == "" {
				s.logger.Warn("ADMIN_INITIAL_PASSWORD is not set, admin user skipped", zap.String("email", u.Email))
				continue
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(s.adminPassword), s.bcryptCost)
			if err != nil {
				return rep, fmt.Errorf("seed: hash admin password: %w", err)
			}
			u.PasswordHash = string(hash)
		}
		if err := s.store.UpsertUser(ctx, u); err != nil {
			return rep, err
		}
		rep["users"]++
	}

	for _, t := range ds.Threats {
		if err := s.store.UpsertThreat(ctx, t); err != nil {
			return rep, err
		}
		rep["threats"]++
	}

	for _, g := range ds.Geo {
		if err := s.store.UpsertGeoAttack(ctx, g, GeoPeriod); err != nil {
			return rep, err
		}
		rep["geo_attacks"]++
	}

	for _, d := range ds.Detectors {
		if err := s.store.UpsertDetector(ctx, d); err != nil {
			return rep, err
		}
		rep["detectors"]++
	}

	if err := s.store.InsertMetricsSnapshot(ctx, ds.Metrics); err != nil {
		return rep, err
	}
	rep["metric_snapshots"]++

	for _, a := range ds.Activity {
		if err := s.store.UpsertActivityHour(ctx, a); err != nil {
			return rep, err
		}
		rep["activity_hours"]++
	}

	for _, in := range ds.Insights {
		if err := s.store.UpsertInsight(ctx, in); err != nil {
			return rep, err
		}
		rep["network_insights"]++
	}

	if err := s.store.WriteBatch(ctx, ds.AuditLogs); err != nil {
		return rep, err
	}
	rep["audit_logs"] += len(ds.AuditLogs)

	for _, e := range ds.Waitlist {
		if err := s.store.AddWaitlistEntry(ctx, e); err != nil {
			return rep, err
		}
		rep["waitlist_entries"]++
	}

	for table, n := range rep {
		s.logger.Info("seeded", zap.String("table", table), zap.Int("rows", n))
	}
	return rep, nil
}
