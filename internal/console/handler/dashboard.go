package handler

import (
	"context"
	"net/http"

	"github.com/xela07ax/shield-console/internal/domain"
)

// DashboardService Описываем, что нам нужно от резолвера
type DashboardService interface {
	GetDashboardData(ctx context.Context) *domain.DashboardData
	Metrics(ctx context.Context) (domain.MetricsSnapshot, domain.DataSource)
	Threats(ctx context.Context) ([]domain.Threat, domain.DataSource)
	GeoAttacks(ctx context.Context) ([]domain.GeoAttack, domain.DataSource)
	Detectors(ctx context.Context) ([]domain.Detector, domain.DataSource)
	ThreatCategories(ctx context.Context) ([]domain.ThreatCategoryCount, domain.DataSource)
	Activity(ctx context.Context) ([]domain.ActivityPoint, domain.DataSource)
	Insights(ctx context.Context) ([]domain.NetworkInsight, domain.DataSource)
}

type DashboardHandler struct {
	service DashboardService
}

func NewDashboardHandler(s DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetDashboard агрегат. Резолвер не падает: худший случай: mock.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, cacheNoStore, h.service.GetDashboardData(r.Context()))
}

// Одиночные наборы отдаются «голыми» (объект или массив), уровень-источник: в заголовке.
const headerDataSource = "X-Data-Source"

func writeDataset(w http.ResponseWriter, src domain.DataSource, v any) {
	w.Header().Set(headerDataSource, string(src))
	writeJSON(w, http.StatusOK, cacheNoStore, v)
}

func (h *DashboardHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	m, src := h.service.Metrics(r.Context())
	writeDataset(w, src, m)
}

func (h *DashboardHandler) GetThreats(w http.ResponseWriter, r *http.Request) {
	threats, src := h.service.Threats(r.Context())
	writeDataset(w, src, threats)
}

func (h *DashboardHandler) GetGeo(w http.ResponseWriter, r *http.Request) {
	geo, src := h.service.GeoAttacks(r.Context())
	writeDataset(w, src, geo)
}

func (h *DashboardHandler) GetDetectors(w http.ResponseWriter, r *http.Request) {
	d, src := h.service.Detectors(r.Context())
	writeDataset(w, src, d)
}

func (h *DashboardHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	c, src := h.service.ThreatCategories(r.Context())
	writeDataset(w, src, c)
}

func (h *DashboardHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	a, src := h.service.Activity(r.Context())
	writeDataset(w, src, a)
}

func (h *DashboardHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	in, src := h.service.Insights(r.Context())
	writeDataset(w, src, in)
}
