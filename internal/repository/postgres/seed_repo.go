package postgres

import (
	"context"
	"fmt"

	"github.com/xela07ax/shield-console/internal/domain"
)

// Upsert-ы для cmd/seed. Ключ конфликта: естественный ключ таблицы,
// повторный прогон обновляет строки на месте.

func (r *Repo) UpsertUser(ctx context.Context, u domain.User) error {
	query := `
		INSERT INTO users (id, email, name, password_hash, role, wallet_address)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (email) DO UPDATE SET
			name = EXCLUDED.name,
			password_hash = EXCLUDED.password_hash,
			role = EXCLUDED.role,
			wallet_address = EXCLUDED.wallet_address,
			updated_at = NOW()`

	if _, err := r.pool.Exec(ctx, query, u.ID, u.Email, u.Name, u.PasswordHash, u.Role, u.WalletAddress); err != nil {
		return fmt.Errorf("postgres: upsert user %s: %w", u.Email, err)
	}
	return nil
}

func (r *Repo) UpsertThreat(ctx context.Context, t domain.Threat) error {
	query := `
		INSERT INTO threats (id, type, severity, source, status, confidence, ai_insight, mitre, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			type = EXCLUDED.type,
			severity = EXCLUDED.severity,
			source = EXCLUDED.source,
			status = EXCLUDED.status,
			confidence = EXCLUDED.confidence,
			ai_insight = EXCLUDED.ai_insight,
			mitre = EXCLUDED.mitre,
			created_at = EXCLUDED.created_at`

	_, err := r.pool.Exec(ctx, query,
		t.ID, t.Type, t.Severity, t.Source, t.Status, t.Confidence, t.AIInsight, t.Mitre, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("postgres: upsert threat %s: %w", t.ID, err)
	}
	return nil
}

func (r *Repo) UpsertGeoAttack(ctx context.Context, g domain.GeoAttack, period string) error {
	query := `
		INSERT INTO geo_attacks (country, code, attacks, lat, lng, intensity, period)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (code, period) DO UPDATE SET
			country = EXCLUDED.country,
			attacks = EXCLUDED.attacks,
			lat = EXCLUDED.lat,
			lng = EXCLUDED.lng,
			intensity = EXCLUDED.intensity,
			updated_at = NOW()`

	if _, err := r.pool.Exec(ctx, query, g.Country, g.Code, g.Attacks, g.Lat, g.Lng, g.Intensity, period); err != nil {
		return fmt.Errorf("postgres: upsert geo %s/%s: %w", g.Code, period, err)
	}
	return nil
}

func (r *Repo) UpsertDetector(ctx context.Context, d domain.Detector) error {
	query := `
		INSERT INTO detectors (name, status, detected, category)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE SET
			status = EXCLUDED.status,
			detected = EXCLUDED.detected,
			category = EXCLUDED.category,
			updated_at = NOW()`

	if _, err := r.pool.Exec(ctx, query, d.Name, d.Status, d.Detected, d.Category); err != nil {
		return fmt.Errorf("postgres: upsert detector %s: %w", d.Name, err)
	}
	return nil
}

// InsertMetricsSnapshot снимки: временной ряд без естественного ключа, только вставка.
func (r *Repo) InsertMetricsSnapshot(ctx context.Context, m domain.MetricsSnapshot) error {
	query := `
		INSERT INTO metric_snapshots (trust_score, threats_blocked, scans_completed, active_alerts,
		                              zk_proofs_generated, onchain_verifications)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query, m.TrustScore, m.ThreatsBlocked, m.ScansCompleted,
		m.ActiveAlerts, m.ZKProofsGenerated, m.OnChainVerifications)
	if err != nil {
		return fmt.Errorf("postgres: insert metrics snapshot: %w", err)
	}
	return nil
}

func (r *Repo) UpsertActivityHour(ctx context.Context, a domain.ActivityHour) error {
	query := `
		INSERT INTO activity_hours (hour, date, threats, scans)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (hour, date) DO UPDATE SET
			threats = EXCLUDED.threats,
			scans = EXCLUDED.scans`

	if _, err := r.pool.Exec(ctx, query, a.Hour, a.Date, a.Threats, a.Scans); err != nil {
		return fmt.Errorf("postgres: upsert activity hour %d: %w", a.Hour, err)
	}
	return nil
}

func (r *Repo) UpsertInsight(ctx context.Context, in domain.NetworkInsight) error {
	query := `
		INSERT INTO network_insights (id, title, severity, confidence, summary, recommendation, affected_systems, mitre)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			severity = EXCLUDED.severity,
			confidence = EXCLUDED.confidence,
			summary = EXCLUDED.summary,
			recommendation = EXCLUDED.recommendation,
			affected_systems = EXCLUDED.affected_systems,
			mitre = EXCLUDED.mitre`

	affected := in.AffectedSystems
	if affected == nil {
		affected = []string{}
	}
	_, err := r.pool.Exec(ctx, query, in.ID, in.Title, in.Severity, in.Confidence,
		in.Summary, in.Recommendation, affected, in.Mitre)
	if err != nil {
		return fmt.Errorf("postgres: upsert insight %s: %w", in.ID, err)
	}
	return nil
}
