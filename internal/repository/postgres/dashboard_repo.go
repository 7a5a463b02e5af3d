package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/xela07ax/shield-console/internal/domain"
)

// LatestMetrics последний сохраненный снимок метрик. nil, если таблица пуста.
func (r *Repo) LatestMetrics(ctx context.Context) (*domain.MetricsSnapshot, error) {
	query := `
		SELECT trust_score, threats_blocked, scans_completed, active_alerts,
		       zk_proofs_generated, onchain_verifications
		FROM metric_snapshots
		ORDER BY created_at DESC
		LIMIT 1`

	m := &domain.MetricsSnapshot{}
	err := r.pool.QueryRow(ctx, query).Scan(
		&m.TrustScore, &m.ThreatsBlocked, &m.ScansCompleted,
		&m.ActiveAlerts, &m.ZKProofsGenerated, &m.OnChainVerifications,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres: latest metrics: %w", err)
	}
	return m, nil
}

func (r *Repo) Detectors(ctx context.Context) ([]domain.Detector, error) {
	rows, err := r.pool.Query(ctx, `SELECT name, status, detected, category FROM detectors ORDER BY detected DESC`)
	if err != nil {
		return nil, fmt.Errorf("postgres: query detectors: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Detector, error) {
		var d domain.Detector
		err := row.Scan(&d.Name, &d.Status, &d.Detected, &d.Category)
		return d, err
	})
}

// RecentThreats последние угрозы, новые сверху. Колонку Time заполняет вызывающий.
func (r *Repo) RecentThreats(ctx context.Context, limit int) ([]domain.Threat, error) {
	query := `
		SELECT id, type, severity, source, status, confidence, ai_insight, mitre, created_at
		FROM threats
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: query threats: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Threat, error) {
		var t domain.Threat
		err := row.Scan(&t.ID, &t.Type, &t.Severity, &t.Source, &t.Status,
			&t.Confidence, &t.AIInsight, &t.Mitre, &t.CreatedAt)
		return t, err
	})
}

// ThreatTypeCounts агрегат угроз по типу. Цвета назначает слой резолвера.
func (r *Repo) ThreatTypeCounts(ctx context.Context) ([]domain.ThreatCategoryCount, error) {
	query := `SELECT type, COUNT(*) FROM threats GROUP BY type ORDER BY COUNT(*) DESC, type`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: query threat categories: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ThreatCategoryCount, error) {
		var c domain.ThreatCategoryCount
		err := row.Scan(&c.Name, &c.Count)
		return c, err
	})
}

func (r *Repo) GeoAttacks(ctx context.Context, period string) ([]domain.GeoAttack, error) {
	query := `
		SELECT country, code, attacks, lat, lng, intensity
		FROM geo_attacks
		WHERE period = $1
		ORDER BY attacks DESC`

	rows, err := r.pool.Query(ctx, query, period)
	if err != nil {
		return nil, fmt.Errorf("postgres: query geo attacks: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.GeoAttack, error) {
		var g domain.GeoAttack
		err := row.Scan(&g.Country, &g.Code, &g.Attacks, &g.Lat, &g.Lng, &g.Intensity)
		return g, err
	})
}

// ActivityOn почасовая активность за сутки day (см. domain.ActivityDay).
// Дата передается из Go: CURRENT_DATE зависит от TimeZone сессии БД.
func (r *Repo) ActivityOn(ctx context.Context, day time.Time) ([]domain.ActivityPoint, error) {
	query := `
		SELECT hour, threats, scans
		FROM activity_hours
		WHERE date = $1
		ORDER BY hour`

	rows, err := r.pool.Query(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("postgres: query activity: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ActivityPoint, error) {
		var (
			p    domain.ActivityPoint
			hour int
		)
		err := row.Scan(&hour, &p.Threats, &p.Scans)
		p.Hour = fmt.Sprintf("%02d:00", hour)
		return p, err
	})
}

func (r *Repo) Insights(ctx context.Context) ([]domain.NetworkInsight, error) {
	query := `
		SELECT id, title, severity, confidence, summary, recommendation, affected_systems, mitre
		FROM network_insights
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: query insights: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.NetworkInsight, error) {
		var n domain.NetworkInsight
		err := row.Scan(&n.ID, &n.Title, &n.Severity, &n.Confidence,
			&n.Summary, &n.Recommendation, &n.AffectedSystems, &n.Mitre)
		return n, err
	})
}
