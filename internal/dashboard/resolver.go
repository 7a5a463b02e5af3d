// Package dashboard собирает данные дашборда из трех уровней:
// удаленный AI-движок -> PostgreSQL -> mock. Первый непустой ответ выигрывает,
// слияния между уровнями нет.
package dashboard

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/xela07ax/shield-console/internal/domain"
	"github.com/xela07ax/shield-console/internal/metrics"
	"github.com/xela07ax/shield-console/internal/mockdata"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Имена наборов данных (лейбл dataset в метриках и ключи Sources)
const (
	SetMetrics    = "metrics"
	SetDetectors  = "detectors"
	SetThreats    = "threats"
	SetCategories = "threatCategories"
	SetGeo        = "geoData"
	SetActivity   = "activityData"
	SetInsights   = "networkInsights"
)

// EngineSource: что резолверу нужно от клиента AI-движка
type EngineSource interface {
	Health(ctx context.Context) (*domain.EngineHealth, error)
	Metrics(ctx context.Context) (*domain.MetricsSnapshot, error)
	Detectors(ctx context.Context) ([]domain.Detector, error)
	Threats(ctx context.Context) ([]domain.Threat, error)
	ThreatCategories(ctx context.Context) ([]domain.ThreatCategoryCount, error)
	GeoAttacks(ctx context.Context) ([]domain.GeoAttack, error)
	Activity(ctx context.Context) ([]domain.ActivityPoint, error)
	Insights(ctx context.Context) ([]domain.NetworkInsight, error)
}

// StoreSource: чтение из реляционного хранилища
type StoreSource interface {
	LatestMetrics(ctx context.Context) (*domain.MetricsSnapshot, error)
	Detectors(ctx context.Context) ([]domain.Detector, error)
	RecentThreats(ctx context.Context, limit int) ([]domain.Threat, error)
	ThreatTypeCounts(ctx context.Context) ([]domain.ThreatCategoryCount, error)
	GeoAttacks(ctx context.Context, period string) ([]domain.GeoAttack, error)
	ActivityOn(ctx context.Context, day time.Time) ([]domain.ActivityPoint, error)
	Insights(ctx context.Context) ([]domain.NetworkInsight, error)
}

type Resolver struct {
	engine  EngineSource
	store   StoreSource // nil, если DATABASE_URL не задан
	mock    *mockdata.Generator
	metrics *metrics.Metrics
	logger  *zap.Logger

	threatLimit int
	geoPeriod   string
	now         func() time.Time

	rndMu sync.Mutex
	rnd   *rand.Rand // дрейф метрик из БД
}

type Option func(*Resolver)

// WithStore подключает уровень БД. Без него резолвер идет engine -> mock.
func WithStore(s StoreSource) Option {
	return func(r *Resolver) { r.store = s }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

func WithRand(rnd *rand.Rand) Option {
	return func(r *Resolver) { r.rnd = rnd }
}

func WithThreatLimit(n int) Option {
	return func(r *Resolver) { r.threatLimit = n }
}

func NewResolver(engine EngineSource, mock *mockdata.Generator, logger *zap.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		engine:      engine,
		mock:        mock,
		logger:      logger.Named("resolver"),
		threatLimit: 20,
		geoPeriod:   "24h",
		now:         time.Now,
		rnd:         rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, o := range opts {
		o(r)
	}
	if r.metrics == nil {
		r.metrics = metrics.NewMetrics(nil)
	}
	return r
}

// Probe: единственная проверка живости движка на запрос.
func (r *Resolver) Probe(ctx context.Context) bool {
	_, err := r.engine.Health(ctx)
	if err != nil {
		r.logger.Debug("engine probe failed", zap.String("kind", string(domain.KindOf(err))))
		return false
	}
	return true
}

// GetDashboardData агрегат: одна проба движка, затем все наборы параллельно.
// Каждый набор внутри идет по уровням последовательно.
//
// DataSource: ярлык по итогам пробы, а не происхождение каждого поля:
// при живом движке отдельный набор мог приехать из БД или mock.
// Фактический уровень каждого набора лежит в Sources.
func (r *Resolver) GetDashboardData(ctx context.Context) *domain.DashboardData {
	online := r.Probe(ctx)

	d := &domain.DashboardData{
		Timestamp:    r.now().UTC(),
		EngineOnline: online,
		DataSource:   r.label(online),
	}

	var (
		g   errgroup.Group
		src [7]domain.DataSource
	)
	g.Go(func() error { d.Metrics, src[0] = r.metricsTiered(ctx, online); return nil })
	g.Go(func() error { d.Detectors, src[1] = r.detectorsTiered(ctx, online); return nil })
	g.Go(func() error { d.Threats, src[2] = r.threatsTiered(ctx, online); return nil })
	g.Go(func() error { d.ThreatCategories, src[3] = r.categoriesTiered(ctx, online); return nil })
	g.Go(func() error { d.GeoAttacks, src[4] = r.geoTiered(ctx, online); return nil })
	g.Go(func() error { d.Activity, src[5] = r.activityTiered(ctx, online); return nil })
	g.Go(func() error { d.Insights, src[6] = r.insightsTiered(ctx, online); return nil })
	_ = g.Wait() // резолверы не возвращают ошибок: mock всегда отвечает

	d.Sources = map[string]domain.DataSource{
		SetMetrics:    src[0],
		SetDetectors:  src[1],
		SetThreats:    src[2],
		SetCategories: src[3],
		SetGeo:        src[4],
		SetActivity:   src[5],
		SetInsights:   src[6],
	}
	return d
}

func (r *Resolver) label(online bool) domain.DataSource {
	switch {
	case online:
		return domain.SourceEngine
	case r.store != nil:
		return domain.SourceDatabase
	default:
		return domain.SourceMock
	}
}

// Одиночные наборы для легких роутов (/api/dashboard/metrics и т.д.). Каждый делает свою пробу.

func (r *Resolver) Metrics(ctx context.Context) (domain.MetricsSnapshot, domain.DataSource) {
	return r.metricsTiered(ctx, r.Probe(ctx))
}

func (r *Resolver) Detectors(ctx context.Context) ([]domain.Detector, domain.DataSource) {
	return r.detectorsTiered(ctx, r.Probe(ctx))
}

func (r *Resolver) Threats(ctx context.Context) ([]domain.Threat, domain.DataSource) {
	return r.threatsTiered(ctx, r.Probe(ctx))
}

func (r *Resolver) ThreatCategories(ctx context.Context) ([]domain.ThreatCategoryCount, domain.DataSource) {
	return r.categoriesTiered(ctx, r.Probe(ctx))
}

func (r *Resolver) GeoAttacks(ctx context.Context) ([]domain.GeoAttack, domain.DataSource) {
	return r.geoTiered(ctx, r.Probe(ctx))
}

func (r *Resolver) Activity(ctx context.Context) ([]domain.ActivityPoint, domain.DataSource) {
	return r.activityTiered(ctx, r.Probe(ctx))
}

func (r *Resolver) Insights(ctx context.Context) ([]domain.NetworkInsight, domain.DataSource) {
	return r.insightsTiered(ctx, r.Probe(ctx))
}
