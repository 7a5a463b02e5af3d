package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/xela07ax/shield-console/internal/console/service"
	"github.com/xela07ax/shield-console/internal/domain"
	"github.com/xela07ax/shield-console/internal/infra/auth"
	"go.uber.org/zap"
)

type EngineService interface {
	State(ctx context.Context) domain.EngineState
	Catalog(ctx context.Context) ([]domain.CatalogEntry, error)
	Scan(ctx context.Context, target, actor, requestID, clientIP string) (*domain.EngineScanResult, error)
	RefreshCatalog(ctx context.Context, claims *domain.SessionClaims, requestID, clientIP string) error
}

type EngineHandler struct {
	service EngineService
	logger  *zap.Logger
}

func NewEngineHandler(s EngineService, logger *zap.Logger) *EngineHandler {
	return &EngineHandler{service: s, logger: logger.Named("engine-handler")}
}

// GetStatus всегда 200: офлайн: это состояние, а не ошибка роута.
func (h *EngineHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, cacheNoStore, h.service.State(r.Context()))
}

func (h *EngineHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.Catalog(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cachePublic5, entries)
}

func (h *EngineHandler) PostScan(w http.ResponseWriter, r *http.Request) {
	var req domain.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	actor := ""
	if c, ok := auth.ClaimsFromContext(r.Context()); ok {
		actor = c.Email
	}

	res, err := h.service.Scan(r.Context(), req.Target, actor, middleware.GetReqID(r.Context()), clientIP(r))
	switch {
	case errors.Is(err, service.ErrEmptyTarget):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cacheNoStore, res)
}

func (h *EngineHandler) PostCatalogRefresh(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	err := h.service.RefreshCatalog(r.Context(), claims, middleware.GetReqID(r.Context()), clientIP(r))
	switch {
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "Forbidden")
	case err != nil:
		h.logger.Error("catalog refresh failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}
