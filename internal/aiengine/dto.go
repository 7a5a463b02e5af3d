package aiengine

import (
	"fmt"
	"time"

	"github.com/xela07ax/shield-console/internal/domain"
)

// Формат ответов движка (Python-сервис, snake_case).
// Каждая сущность приводится к domain явным адаптером, а не структурной совместимостью.

type metricsDTO struct {
	TrustScore           int `json:"trust_score"`
	ThreatsBlocked       int `json:"threats_blocked"`
	ScansCompleted       int `json:"scans_completed"`
	ActiveAlerts         int `json:"active_alerts"`
	ZKProofsGenerated    int `json:"zk_proofs_generated"`
	OnChainVerifications int `json:"onchain_verifications"`
}

func (d metricsDTO) toDomain() domain.MetricsSnapshot {
	return domain.MetricsSnapshot{
		TrustScore:           d.TrustScore,
		ThreatsBlocked:       d.ThreatsBlocked,
		ScansCompleted:       d.ScansCompleted,
		ActiveAlerts:         d.ActiveAlerts,
		ZKProofsGenerated:    d.ZKProofsGenerated,
		OnChainVerifications: d.OnChainVerifications,
	}
}

type detectorDTO struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	Detections int    `json:"detections"`
	Category   string `json:"category"`
}

func (d detectorDTO) toDomain() domain.Detector {
	return domain.Detector{
		Name:     d.Name,
		Status:   domain.DetectorStatus(d.Status),
		Detected: d.Detections,
		Category: d.Category,
	}
}

type threatDTO struct {
	ID         string    `json:"id"`
	ThreatType string    `json:"threat_type"`
	Severity   string    `json:"severity"`
	SourceIP   string    `json:"source_ip"`
	DetectedAt time.Time `json:"detected_at"`
	Status     string    `json:"status"`
	Confidence int       `json:"confidence"`
	AIInsight  string    `json:"ai_insight"`
	Mitre      string    `json:"mitre_technique"`
}

func (d threatDTO) toDomain(now time.Time) domain.Threat {
	return domain.Threat{
		ID:         d.ID,
		Type:       d.ThreatType,
		Severity:   domain.Severity(d.Severity),
		Source:     d.SourceIP,
		Time:       domain.Ago(now, d.DetectedAt),
		CreatedAt:  d.DetectedAt,
		Status:     d.Status,
		Confidence: d.Confidence,
		AIInsight:  d.AIInsight,
		Mitre:      d.Mitre,
	}
}

type categoryDTO struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Color string `json:"color"`
	Bg    string `json:"bg"`
}

func (d categoryDTO) toDomain() domain.ThreatCategoryCount {
	return domain.ThreatCategoryCount{Name: d.Name, Count: d.Count, Color: d.Color, Bg: d.Bg}
}

type geoDTO struct {
	Country   string  `json:"country"`
	Code      string  `json:"country_code"`
	Attacks   int     `json:"attacks"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Intensity string  `json:"intensity"`
}

func (d geoDTO) toDomain() domain.GeoAttack {
	return domain.GeoAttack{
		Country:   d.Country,
		Code:      d.Code,
		Attacks:   d.Attacks,
		Lat:       d.Lat,
		Lng:       d.Lng,
		Intensity: domain.Severity(d.Intensity),
	}
}

type activityDTO struct {
	Hour    int `json:"hour"` // 0..23
	Threats int `json:"threats"`
	Scans   int `json:"scans"`
}

func (d activityDTO) toDomain() domain.ActivityPoint {
	return domain.ActivityPoint{
		Hour:    fmt.Sprintf("%02d:00", d.Hour),
		Threats: d.Threats,
		Scans:   d.Scans,
	}
}

type insightDTO struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Severity        string   `json:"severity"`
	Confidence      int      `json:"confidence"`
	Summary         string   `json:"summary"`
	Recommendation  string   `json:"recommendation"`
	AffectedSystems []string `json:"affected_systems"`
	Mitre           string   `json:"mitre_technique"`
}

func (d insightDTO) toDomain() domain.NetworkInsight {
	affected := d.AffectedSystems
	if affected == nil {
		affected = []string{}
	}
	return domain.NetworkInsight{
		ID:              d.ID,
		Title:           d.Title,
		Severity:        domain.Severity(d.Severity),
		Confidence:      d.Confidence,
		Summary:         d.Summary,
		Recommendation:  d.Recommendation,
		AffectedSystems: affected,
		Mitre:           d.Mitre,
	}
}

func mapSlice[T any, R any](in []T, fn func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}
