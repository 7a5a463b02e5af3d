// Package mockdata: последний уровень резолвера: статичные и слегка рандомизированные
// значения, которые есть всегда.
package mockdata

import (
	"fmt"
	"math/rand/v2" // Используем v2 для Go 1.25
	"sync"
	"time"

	"github.com/xela07ax/shield-console/internal/domain"
)

type Generator struct {
	mu  sync.Mutex // *rand.Rand не потокобезопасен, а агрегат зовет генератор из горутин
	rnd *rand.Rand
	now func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{
		rnd: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now: time.Now,
	}
}

// NewSeeded детерминированный генератор для тестов.
func NewSeeded(seed uint64, now func() time.Time) *Generator {
	return &Generator{
		rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now: now,
	}
}

func (g *Generator) intN(lo, hi int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return lo + g.rnd.IntN(hi-lo+1)
}

// Metrics свежие случайные значения на каждый вызов: «видимость» живых данных.
func (g *Generator) Metrics() domain.MetricsSnapshot {
	return domain.MetricsSnapshot{
		TrustScore:           g.intN(92, 99),
		ThreatsBlocked:       g.intN(12400, 12900),
		ScansCompleted:       g.intN(48000, 49500),
		ActiveAlerts:         g.intN(2, 9),
		ZKProofsGenerated:    g.intN(3100, 3300),
		OnChainVerifications: g.intN(1500, 1650),
	}
}

// Activity почасовая гистограмма за последние 24 часа.
func (g *Generator) Activity() []domain.ActivityPoint {
	points := make([]domain.ActivityPoint, 0, 24)
	for h := 0; h < 24; h++ {
		points = append(points, domain.ActivityPoint{
			Hour:    fmt.Sprintf("%02d:00", h),
			Threats: g.intN(5, 45),
			Scans:   g.intN(80, 220),
		})
	}
	return points
}

// Threats лента угроз; относительное время пересчитывается от текущего момента.
func (g *Generator) Threats() []domain.Threat {
	now := g.now()
	out := make([]domain.Threat, 0, len(threatTemplates))
	for _, t := range threatTemplates {
		th := t.threat
		th.CreatedAt = now.Add(-t.age)
		th.Time = domain.Ago(now, th.CreatedAt)
		out = append(out, th)
	}
	return out
}

func (g *Generator) Detectors() []domain.Detector {
	return clone(detectors)
}

func (g *Generator) ThreatCategories() []domain.ThreatCategoryCount {
	return clone(categories)
}

func (g *Generator) GeoAttacks() []domain.GeoAttack {
	return clone(geoAttacks)
}

func (g *Generator) Insights() []domain.NetworkInsight {
	out := make([]domain.NetworkInsight, 0, len(insights))
	for _, in := range insights {
		in.AffectedSystems = append([]string(nil), in.AffectedSystems...)
		out = append(out, in)
	}
	return out
}

func clone[T any](in []T) []T {
	return append(make([]T, 0, len(in)), in...)
}
