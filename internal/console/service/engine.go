package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xela07ax/shield-console/internal/audit"
	"github.com/xela07ax/shield-console/internal/domain"
	"go.uber.org/zap"
)

var (
	ErrEngineOffline = errors.New("AI engine is offline")
	ErrEmptyTarget   = errors.New("target is required")
	ErrForbidden     = errors.New("forbidden")
)

// EngineAPI: часть клиента движка, нужная прокси-роутам /api/engine
type EngineAPI interface {
	Health(ctx context.Context) (*domain.EngineHealth, error)
	Status(ctx context.Context) (*domain.EngineStatus, error)
	Scan(ctx context.Context, target string) (*domain.EngineScanResult, error)
}

type CatalogSource interface {
	Get(ctx context.Context) ([]domain.CatalogEntry, error)
	Refresh(ctx context.Context) error
}

type ScanStore interface {
	CreateScan(ctx context.Context, s domain.Scan) error
}

type EngineService struct {
	engine  EngineAPI
	catalog CatalogSource
	scans   ScanStore // nil без БД
	auditor audit.Auditor
	logger  *zap.Logger
	now     func() time.Time
}

func NewEngineService(engine EngineAPI, catalog CatalogSource, scans ScanStore, auditor audit.Auditor, logger *zap.Logger) *EngineService {
	return &EngineService{
		engine:  engine,
		catalog: catalog,
		scans:   scans,
		auditor: auditor,
		logger:  logger.Named("engine-service"),
		now:     time.Now,
	}
}

// State online = ответ health. Статус запрашивается только у живого движка.
func (s *EngineService) State(ctx context.Context) domain.EngineState {
	st := domain.EngineState{Timestamp: s.now().UTC()}

	health, err := s.engine.Health(ctx)
	if err != nil {
		return st
	}
	st.Online = true
	st.Health = health

	if status, err := s.engine.Status(ctx); err == nil {
		st.Status = status
	}
	return st
}

// Catalog отдает каталог через кэш. Отступление от "503, если движок офлайн":
// пока запись жива в кэше (TTL совпадает с public, max-age=300), она отдается и при
// упавшем движке. ErrEngineOffline (503) только при промахе кэша и ошибке движка.
func (s *EngineService) Catalog(ctx context.Context) ([]domain.CatalogEntry, error) {
	entries, err := s.catalog.Get(ctx)
	if err != nil {
		s.logger.Debug("catalog unavailable", zap.String("kind", string(domain.KindOf(err))))
		return nil, ErrEngineOffline
	}
	if entries == nil {
		entries = []domain.CatalogEntry{}
	}
	return entries, nil
}

// Scan fire-and-forget: без ретраев и без ожидания результата скана.
func (s *EngineService) Scan(ctx context.Context, target, actor, requestID, clientIP string) (*domain.EngineScanResult, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, ErrEmptyTarget
	}

	res, err := s.engine.Scan(ctx, target)
	if err != nil {
		s.auditor.Log(audit.Event{
			RequestID: requestID, Actor: actor, Action: audit.ActionScan, Target: target,
			Status: "FAILED", Details: map[string]interface{}{"kind": string(domain.KindOf(err))},
			ClientIP: clientIP,
		})
		return nil, ErrEngineOffline
	}

	if s.scans != nil {
		rec := domain.Scan{
			ID:          uuid.NewString(),
			EngineScan:  res.ScanID,
			Target:      target,
			Status:      res.Status,
			RequestedBy: actor,
			CreatedAt:   s.now().UTC(),
		}
		if err := s.scans.CreateScan(ctx, rec); err != nil {
			s.logger.Warn("scan not recorded", zap.String("scan_id", res.ScanID), zap.Error(err))
		}
	}

	s.auditor.Log(audit.Event{
		RequestID: requestID, Actor: actor, Action: audit.ActionScan, Target: target,
		Status: "SUCCESS", Details: map[string]interface{}{"scan_id": res.ScanID},
		ClientIP: clientIP,
	})
	return res, nil
}

// RefreshCatalog сброс кэша каталога во всех инстансах. Только для admin.
func (s *EngineService) RefreshCatalog(ctx context.Context, claims *domain.SessionClaims, requestID, clientIP string) error {
	if claims == nil || claims.Role != "admin" {
		return ErrForbidden
	}
	if err := s.catalog.Refresh(ctx); err != nil {
		s.logger.Warn("catalog refresh failed", zap.Error(err))
		return err
	}
	s.auditor.Log(audit.Event{
		RequestID: requestID, Actor: claims.Email, Action: audit.ActionCatalogReset,
		Status: "SUCCESS", ClientIP: clientIP,
	})
	return nil
}
