package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xela07ax/shield-console/internal/aiengine"
	"github.com/xela07ax/shield-console/internal/audit"
	"github.com/xela07ax/shield-console/internal/catalog"
	"github.com/xela07ax/shield-console/internal/console/handler"
	"github.com/xela07ax/shield-console/internal/console/server"
	"github.com/xela07ax/shield-console/internal/console/service"
	"github.com/xela07ax/shield-console/internal/dashboard"
	"github.com/xela07ax/shield-console/internal/infra"
	"github.com/xela07ax/shield-console/internal/infra/auth"
	"github.com/xela07ax/shield-console/internal/mailing"
	"github.com/xela07ax/shield-console/internal/metrics"
	"github.com/xela07ax/shield-console/internal/mockdata"
	"github.com/xela07ax/shield-console/internal/repository/postgres"
)

func main() {
	cfg, err := infra.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := infra.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Контекст для управления жизненным циклом фоновых горутин
	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 1. Метрики
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	// 2. Инфраструктура: БД и Redis опциональны
	var repo *postgres.Repo
	if cfg.Database.Enabled() {
		pool, err := infra.OpenPool(appCtx, cfg.Database, logger)
		if err != nil {
			// Без БД консоль работает на движке и mock
			logger.Error("database unavailable, store tier disabled", zap.Error(err))
		} else {
			defer pool.Close()
			repo = postgres.NewRepo(pool)
		}
	} else {
		logger.Info("DATABASE_URL is not set, store tier disabled")
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		if err := rdb.Ping(appCtx).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		}
	}

	// 3. Аудит: без БД события некуда писать
	var auditor audit.Auditor = audit.Nop{}
	if repo != nil {
		trail := audit.NewTrail(repo, audit.Options{
			BufferSize:    cfg.Audit.BufferSize,
			BatchSize:     cfg.Audit.BatchSize,
			FlushInterval: cfg.Audit.FlushInterval,
		}, m, logger)
		trail.Start()
		defer trail.Stop()
		auditor = trail
	}

	// 4. Сессии
	sessions, err := auth.NewSessions(cfg.Auth.Secret, cfg.Auth.SessionTTL)
	if err != nil {
		logger.Fatal("session signer", zap.Error(err))
	}

	// 5. Сборка сервисов (Dependency Injection)
	engine := aiengine.NewClient(cfg.Engine, m, logger)

	resolverOpts := []dashboard.Option{dashboard.WithMetrics(m)}
	var (
		users    service.UserProvider
		waitlist service.WaitlistStore
		scans    service.ScanStore
	)
	// Типизированный nil в интерфейсе не равен nil: присваиваем только живой repo
	if repo != nil {
		resolverOpts = append(resolverOpts, dashboard.WithStore(repo))
		users, waitlist, scans = repo, repo, repo
	}
	resolver := dashboard.NewResolver(engine, mockdata.NewGenerator(), logger, resolverOpts...)

	var limiter service.Limiter = service.NewLocalLimiter(cfg.Waitlist.Limit, cfg.Waitlist.Window)
	if rdb != nil {
		limiter = service.NewRedisLimiter(rdb, cfg.Waitlist.Limit, cfg.Waitlist.Window)
	}

	authSvc := service.NewAuthService(users, sessions, auditor, logger)
	waitlistSvc := service.NewWaitlistService(mailing.NewKitClient(cfg.Mailing, logger), waitlist, limiter, auditor, m, logger)
	catalogCache := catalog.NewCache(engine, rdb, cfg.Cache, m, logger)
	go catalogCache.Listen(appCtx) // без Redis сразу возвращается
	engineSvc := service.NewEngineService(engine, catalogCache, scans, auditor, logger)

	proxies, err := server.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		logger.Fatal("server.trusted_proxies", zap.Error(err))
	}

	console := server.NewConsoleServer(logger, sessions, cfg.Auth.CookieName, proxies, server.Handlers{
		Auth:      handler.NewAuthHandler(authSvc, sessions, cfg.Auth.CookieName, cfg.Auth.SecureCookie, logger),
		Dashboard: handler.NewDashboardHandler(resolver),
		Engine:    handler.NewEngineHandler(engineSvc, logger),
		Waitlist:  handler.NewWaitlistHandler(waitlistSvc, logger),
		Public:    handler.PublicConfig{WalletConnectProjectID: cfg.Wallet.ProjectID},
	})

	// Экспортируем метрики для Prometheus на отдельном порту
	metricsSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", zap.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      console,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 6. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("console started",
			zap.String("addr", srv.Addr),
			zap.String("engine", cfg.Engine.URL),
			zap.Bool("store", repo != nil),
			zap.Bool("redis", rdb != nil))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	<-stop // Ждем сигнал
	logger.Info("console stopping...")

	// Даем 5 секунд на завершение запросов
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	_ = metricsSrv.Shutdown(shutdownCtx)
	cancel()
	logger.Info("console exited properly")
}
