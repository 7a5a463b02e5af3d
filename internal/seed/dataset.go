package seed

import (
	"time"

	"github.com/xela07ax/shield-console/internal/audit"
	"github.com/xela07ax/shield-console/internal/domain"
	"github.com/xela07ax/shield-console/internal/mockdata"
)

// GeoPeriod период, под которым сохраняется гео-статистика (его же читает резолвер)
const GeoPeriod = "24h"

// Dataset демо-данные одного прогона
type Dataset struct {
	Users     []domain.User // роль admin получает пароль из ADMIN_INITIAL_PASSWORD
	Threats   []domain.Threat
	Geo       []domain.GeoAttack
	Detectors []domain.Detector
	Metrics   domain.MetricsSnapshot
	Activity  []domain.ActivityHour
	Insights  []domain.NetworkInsight
	AuditLogs []audit.Event
	Waitlist  []domain.WaitlistEntry
}

// BuildDataset собирает строки из тех же литералов, что и mock-уровень,
// поэтому БД и mock показывают согласованную картину.
// Пароли здесь не хешируются: это делает Seeder.
func BuildDataset(gen *mockdata.Generator, now time.Time, adminEmail string) Dataset {
	today := domain.ActivityDay(now)

	points := gen.Activity()
	activity := make([]domain.ActivityHour, 0, len(points))
	for h, p := range points {
		activity = append(activity, domain.ActivityHour{Hour: h, Date: today, Threats: p.Threats, Scans: p.Scans})
	}

	return Dataset{
		Users: []domain.User{
			{ID: "usr-admin", Email: adminEmail, Name: "Shield Admin", Role: "admin"},
			// Демо-аналитик без пароля: войти под ним нельзя
			{ID: "usr-analyst", Email: "analyst@shield.local", Name: "SOC Analyst", Role: "analyst"},
		},
		Threats:   gen.Threats(),
		Geo:       gen.GeoAttacks(),
		Detectors: gen.Detectors(),
		Metrics:   gen.Metrics(),
		Activity:  activity,
		Insights:  gen.Insights(),
		AuditLogs: []audit.Event{
			{ID: "seed-audit-001", Actor: adminEmail, Action: audit.ActionLogin, Status: "SUCCESS", ClientIP: "127.0.0.1", Timestamp: now.Add(-3 * time.Hour)},
			{ID: "seed-audit-002", Actor: adminEmail, Action: audit.ActionScan, Target: "0x7a25...4f1c", Status: "SUCCESS", ClientIP: "127.0.0.1", Timestamp: now.Add(-2 * time.Hour)},
			{ID: "seed-audit-003", Actor: "unknown@evil.test", Action: audit.ActionLoginFailed, Status: "REJECTED", Details: map[string]interface{}{"reason": "unknown_user"}, ClientIP: "45.155.205.233", Timestamp: now.Add(-1 * time.Hour)},
		},
		Waitlist: []domain.WaitlistEntry{
			{Email: "early@adopter.io", Source: "seed"},
			{Email: "ciso@fintech.example", Source: "seed"},
			{Email: "web3@builder.dev", Source: "seed"},
		},
	}
}
