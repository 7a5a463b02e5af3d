package aiengine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/xela07ax/shield-console/internal/domain"
	"github.com/xela07ax/shield-console/internal/infra"
	"github.com/xela07ax/shield-console/internal/metrics"
	"go.uber.org/zap"
)

const maxBodyBytes = 4 << 20

// Client: типизированный HTTP-клиент удаленного AI-движка.
// Любой сбой (сеть, таймаут, статус, битый JSON) возвращается как *domain.FetchFailure.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	guard   *guard
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

func NewClient(cfg infra.EngineConfig, m *metrics.Metrics, logger *zap.Logger) *Client {
	if m == nil {
		m = metrics.NewMetrics(nil)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	lg := logger.Named("ai-engine")

	return &Client{
		baseURL: cfg.URL,
		timeout: timeout,
		http:    &http.Client{},
		guard:   newGuard(cfg, m, lg),
		metrics: m,
		logger:  lg,
		now:     time.Now,
	}
}

// CircuitOpen true, если предохранитель отсекает вызовы движка.
func (c *Client) CircuitOpen() bool {
	return c.guard.open()
}

func (c *Client) Health(ctx context.Context) (*domain.EngineHealth, error) {
	var h domain.EngineHealth
	if err := c.call(ctx, "health", http.MethodGet, "/health", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *Client) Status(ctx context.Context) (*domain.EngineStatus, error) {
	var s domain.EngineStatus
	if err := c.call(ctx, "status", http.MethodGet, "/api/v1/status", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) Metrics(ctx context.Context) (*domain.MetricsSnapshot, error) {
	var dto metricsDTO
	if err := c.call(ctx, "metrics", http.MethodGet, "/api/v1/metrics", nil, &dto); err != nil {
		return nil, err
	}
	m := dto.toDomain()
	return &m, nil
}

func (c *Client) Detectors(ctx context.Context) ([]domain.Detector, error) {
	var dto []detectorDTO
	if err := c.call(ctx, "detectors", http.MethodGet, "/api/v1/detectors", nil, &dto); err != nil {
		return nil, err
	}
	return mapSlice(dto, detectorDTO.toDomain), nil
}

func (c *Client) Threats(ctx context.Context) ([]domain.Threat, error) {
	var dto []threatDTO
	if err := c.call(ctx, "threats", http.MethodGet, "/api/v1/threats", nil, &dto); err != nil {
		return nil, err
	}
	now := c.now()
	return mapSlice(dto, func(d threatDTO) domain.Threat { return d.toDomain(now) }), nil
}

func (c *Client) ThreatCategories(ctx context.Context) ([]domain.ThreatCategoryCount, error) {
	var dto []categoryDTO
	if err := c.call(ctx, "categories", http.MethodGet, "/api/v1/threats/categories", nil, &dto); err != nil {
		return nil, err
	}
	return mapSlice(dto, categoryDTO.toDomain), nil
}

func (c *Client) GeoAttacks(ctx context.Context) ([]domain.GeoAttack, error) {
	var dto []geoDTO
	if err := c.call(ctx, "geo", http.MethodGet, "/api/v1/geo", nil, &dto); err != nil {
		return nil, err
	}
	return mapSlice(dto, geoDTO.toDomain), nil
}

func (c *Client) Activity(ctx context.Context) ([]domain.ActivityPoint, error) {
	var dto []activityDTO
	if err := c.call(ctx, "activity", http.MethodGet, "/api/v1/activity", nil, &dto); err != nil {
		return nil, err
	}
	return mapSlice(dto, activityDTO.toDomain), nil
}

func (c *Client) Insights(ctx context.Context) ([]domain.NetworkInsight, error) {
	var dto []insightDTO
	if err := c.call(ctx, "insights", http.MethodGet, "/api/v1/insights", nil, &dto); err != nil {
		return nil, err
	}
	return mapSlice(dto, insightDTO.toDomain), nil
}

func (c *Client) Catalog(ctx context.Context) ([]domain.CatalogEntry, error) {
	var entries []domain.CatalogEntry
	if err := c.call(ctx, "catalog", http.MethodGet, "/api/v1/catalog", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Scan запускает скан на стороне движка. Единственный вызов, меняющий удаленное состояние:
// без ретраев, без опроса завершения.
func (c *Client) Scan(ctx context.Context, target string) (*domain.EngineScanResult, error) {
	var res domain.EngineScanResult
	body := domain.ScanRequest{Target: target}
	if err := c.call(ctx, "scan", http.MethodPost, "/api/v1/scan", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) call(ctx context.Context, op, method, path string, in, out any) error {
	start := time.Now()

	// Один бюджет на ожидание лимитера и сам запрос: уровень движка обязан
	// завершиться за timeout, иначе резолвер не уйдет на следующий уровень.
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.guard.do(callCtx, op, func() error {
		return c.roundTrip(callCtx, op, method, path, in, out)
	})

	outcome := "ok"
	if err != nil {
		outcome = string(domain.KindOf(err))
		c.logger.Debug("engine call failed",
			zap.String("op", op),
			zap.String("kind", outcome),
			zap.Error(err))
	}
	c.metrics.EngineRequestDuration.WithLabelValues(op, outcome).Observe(time.Since(start).Seconds())
	return err
}

// roundTrip ctx уже ограничен timeout из call
func (c *Client) roundTrip(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return &domain.FetchFailure{Op: op, Kind: domain.FailDecode, Err: err}
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &domain.FetchFailure{Op: op, Kind: domain.FailUnavailable, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.FetchFailure{Op: op, Kind: classifyTransport(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return &domain.FetchFailure{Op: op, Kind: domain.FailStatus, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		// Таймаут может сработать посреди чтения тела
		if kind := classifyTransport(err); kind == domain.FailTimeout {
			return &domain.FetchFailure{Op: op, Kind: kind, Err: err}
		}
		return &domain.FetchFailure{Op: op, Kind: domain.FailDecode, Err: fmt.Errorf("decode %s: %w", path, err)}
	}
	return nil
}

func classifyTransport(err error) domain.FailureKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.FailTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.FailTimeout
	}
	return domain.FailUnavailable
}
