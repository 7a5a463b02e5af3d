package dashboard

import (
	"context"

	"github.com/xela07ax/shield-console/internal/domain"
	"go.uber.org/zap"
)

type fetchFunc[T any] func(ctx context.Context) (T, error)

// walk обходит уровни engine -> database и возвращает первый непустой результат.
// Любая ошибка уровня трактуется как «нет данных»; если никто не ответил: fallback (mock).
func walk[T any](
	ctx context.Context,
	r *Resolver,
	dataset string,
	online bool,
	empty func(T) bool,
	fromEngine fetchFunc[T],
	fromStore fetchFunc[T],
	fallback func() T,
) (T, domain.DataSource) {
	tiers := []struct {
		source domain.DataSource
		fetch  fetchFunc[T]
		skip   bool
	}{
		{domain.SourceEngine, fromEngine, !online},
		{domain.SourceDatabase, fromStore, r.store == nil},
	}

	for _, t := range tiers {
		var (
			v   T
			err error
		)
		switch {
		case t.skip:
			err = domain.Skipped(dataset)
		default:
			v, err = t.fetch(ctx)
			if err == nil && empty(v) {
				err = domain.Empty(dataset)
			}
		}

		if err == nil {
			r.record(dataset, t.source, "hit")
			return v, t.source
		}

		kind := domain.KindOf(err)
		r.record(dataset, t.source, string(kind))
		if kind != domain.FailSkipped {
			r.logger.Debug("tier miss",
				zap.String("dataset", dataset),
				zap.String("tier", string(t.source)),
				zap.String("kind", string(kind)),
				zap.Error(err))
		}
	}

	r.record(dataset, domain.SourceMock, "hit")
	return fallback(), domain.SourceMock
}

func (r *Resolver) record(dataset string, tier domain.DataSource, outcome string) {
	r.metrics.TierResolutions.WithLabelValues(dataset, string(tier), outcome).Inc()
}

// storeErr ошибки драйвера БД помечаются как FailQuery
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &domain.FetchFailure{Op: op, Kind: domain.FailQuery, Err: err}
}

func isEmpty[T any](v []T) bool { return len(v) == 0 }

func (r *Resolver) metricsTiered(ctx context.Context, online bool) (domain.MetricsSnapshot, domain.DataSource) {
	m, src := walk(ctx, r, SetMetrics, online,
		func(m *domain.MetricsSnapshot) bool { return m == nil },
		func(ctx context.Context) (*domain.MetricsSnapshot, error) {
			return r.engine.Metrics(ctx)
		},
		func(ctx context.Context) (*domain.MetricsSnapshot, error) {
			stored, err := r.store.LatestMetrics(ctx)
			if err != nil || stored == nil {
				return nil, storeErr("metrics", err)
			}
			drifted := r.drift(*stored)
			return &drifted, nil
		},
		func() *domain.MetricsSnapshot {
			m := r.mock.Metrics()
			return &m
		},
	)
	return *m, src
}

func (r *Resolver) detectorsTiered(ctx context.Context, online bool) ([]domain.Detector, domain.DataSource) {
	return walk(ctx, r, SetDetectors, online, isEmpty[domain.Detector],
		r.engine.Detectors,
		func(ctx context.Context) ([]domain.Detector, error) {
			d, err := r.store.Detectors(ctx)
			return d, storeErr("detectors", err)
		},
		r.mock.Detectors,
	)
}

func (r *Resolver) threatsTiered(ctx context.Context, online bool) ([]domain.Threat, domain.DataSource) {
	return walk(ctx, r, SetThreats, online, isEmpty[domain.Threat],
		r.engine.Threats,
		func(ctx context.Context) ([]domain.Threat, error) {
			threats, err := r.store.RecentThreats(ctx, r.threatLimit)
			if err != nil {
				return nil, storeErr("threats", err)
			}
			now := r.now()
			for i := range threats {
				threats[i].Time = domain.Ago(now, threats[i].CreatedAt)
			}
			return threats, nil
		},
		r.mock.Threats,
	)
}

func (r *Resolver) categoriesTiered(ctx context.Context, online bool) ([]domain.ThreatCategoryCount, domain.DataSource) {
	return walk(ctx, r, SetCategories, online, isEmpty[domain.ThreatCategoryCount],
		r.engine.ThreatCategories,
		func(ctx context.Context) ([]domain.ThreatCategoryCount, error) {
			counts, err := r.store.ThreatTypeCounts(ctx)
			if err != nil {
				return nil, storeErr("categories", err)
			}
			return colorize(counts), nil
		},
		r.mock.ThreatCategories,
	)
}

func (r *Resolver) geoTiered(ctx context.Context, online bool) ([]domain.GeoAttack, domain.DataSource) {
	return walk(ctx, r, SetGeo, online, isEmpty[domain.GeoAttack],
		r.engine.GeoAttacks,
		func(ctx context.Context) ([]domain.GeoAttack, error) {
			g, err := r.store.GeoAttacks(ctx, r.geoPeriod)
			return g, storeErr("geo", err)
		},
		r.mock.GeoAttacks,
	)
}

func (r *Resolver) activityTiered(ctx context.Context, online bool) ([]domain.ActivityPoint, domain.DataSource) {
	return walk(ctx, r, SetActivity, online, isEmpty[domain.ActivityPoint],
		r.engine.Activity,
		func(ctx context.Context) ([]domain.ActivityPoint, error) {
			a, err := r.store.ActivityOn(ctx, domain.ActivityDay(r.now()))
			return a, storeErr("activity", err)
		},
		r.mock.Activity,
	)
}

func (r *Resolver) insightsTiered(ctx context.Context, online bool) ([]domain.NetworkInsight, domain.DataSource) {
	return walk(ctx, r, SetInsights, online, isEmpty[domain.NetworkInsight],
		r.engine.Insights,
		func(ctx context.Context) ([]domain.NetworkInsight, error) {
			in, err := r.store.Insights(ctx)
			return in, storeErr("insights", err)
		},
		r.mock.Insights,
	)
}
