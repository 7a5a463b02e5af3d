package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/xela07ax/shield-console/internal/console/handler"
	"github.com/xela07ax/shield-console/internal/infra/auth"
	"go.uber.org/zap"
)

// Handlers обработчики бизнес-доменов консоли
type Handlers struct {
	Auth      *handler.AuthHandler      // /api/auth/*
	Dashboard *handler.DashboardHandler // /api/dashboard/*
	Engine    *handler.EngineHandler    // /api/engine/*
	Waitlist  *handler.WaitlistHandler  // /api/waitlist
	Public    handler.PublicConfig      // /api/config/public
}

type ConsoleServer struct {
	router *chi.Mux
	logger *zap.Logger

	// Проверка сессий (HS256). Реализуется auth.Sessions
	authValidator auth.TokenValidator
	cookieName    string
	proxies       TrustedProxies

	h Handlers
}

// NewConsoleServer инициализирует сервер консоли со всеми зависимостями
// proxies: сети балансировщиков; nil означает не доверять заголовкам X-Forwarded-For.
func NewConsoleServer(logger *zap.Logger, validator auth.TokenValidator, cookieName string, proxies TrustedProxies, h Handlers) *ConsoleServer {
	s := &ConsoleServer{
		router:        chi.NewRouter(),
		logger:        logger.Named("console-api"),
		authValidator: validator,
		cookieName:    cookieName,
		proxies:       proxies,
		h:             h,
	}

	s.routes()
	return s
}

func (s *ConsoleServer) routes() {
	r := s.router

	// --- 1. Глобальные инфраструктурные Middleware (для всех) ---
	r.Use(middleware.RequestID)
	r.Use(realIP(s.proxies))
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	// --- 2. ПУБЛИЧНЫЕ РОУТЫ (Открыты для всех) ---
	r.Group(func(r chi.Router) {
		r.Get("/health", handler.Health)
		r.Get("/api/config/public", handler.PublicConfigHandler(s.h.Public))

		// Лендинг: форма waitlist без сессии
		r.Post("/api/waitlist", s.h.Waitlist.Join)

		// Логин должен быть доступен без токена
		r.Post("/api/auth/login", s.h.Auth.Login)
		r.Post("/api/auth/logout", s.h.Auth.Logout)
		r.Get("/login", handler.LoginPage())
	})

	// --- 3. ЗАЩИЩЕННЫЕ API (401 JSON, без редиректов) ---
	r.Group(func(r chi.Router) {
		r.Use(auth.NewAPIMiddleware(s.authValidator, s.cookieName, s.logger))

		r.Get("/api/auth/session", s.h.Auth.Session)

		r.Route("/api/dashboard", func(r chi.Router) {
			r.Get("/", s.h.Dashboard.GetDashboard)
			r.Get("/metrics", s.h.Dashboard.GetMetrics)
			r.Get("/threats", s.h.Dashboard.GetThreats)
			r.Get("/geo", s.h.Dashboard.GetGeo)
			r.Get("/insights", s.h.Dashboard.GetInsights)
			r.Get("/detectors", s.h.Dashboard.GetDetectors)
			r.Get("/categories", s.h.Dashboard.GetCategories)
			r.Get("/activity", s.h.Dashboard.GetActivity)
		})

		r.Route("/api/engine", func(r chi.Router) {
			r.Get("/", s.h.Engine.GetStatus)
			r.Get("/catalog", s.h.Engine.GetCatalog)
			r.Post("/catalog/refresh", s.h.Engine.PostCatalogRefresh) // только admin
			r.Post("/scan", s.h.Engine.PostScan)
		})
	})

	// --- 4. СТРАНИЦЫ ДАШБОРДА (редирект на /login) ---
	r.Group(func(r chi.Router) {
		r.Use(auth.NewPageMiddleware(s.authValidator, s.cookieName, s.logger))

		r.Get("/dashboard", handler.DashboardPage())
		r.Get("/dashboard/*", handler.DashboardPage())
	})
}

// ServeHTTP позволяет использовать ConsoleServer как стандартный http.Handler
func (s *ConsoleServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
