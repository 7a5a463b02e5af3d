package auth

import (
	"context"
	"net/http"
	"net/url"

	"github.com/xela07ax/shield-console/internal/domain"
	"go.uber.org/zap"
)

type ctxKey string

const claimsKey ctxKey = "session_claims"

// ClaimsFromContext достает сессию, положенную guard-ом
func ClaimsFromContext(ctx context.Context) (*domain.SessionClaims, bool) {
	c, ok := ctx.Value(claimsKey).(*domain.SessionClaims)
	return c, ok
}

func WithClaims(ctx context.Context, c *domain.SessionClaims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// tokenFromRequest: сначала сессионная cookie, затем заголовок Authorization
func tokenFromRequest(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return r.Header.Get("Authorization")
}

// NewAPIMiddleware: guard для API: без валидной сессии 401 JSON, без редиректов.
func NewAPIMiddleware(v TokenValidator, cookieName string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := v.VerifyToken(tokenFromRequest(r, cookieName))
			if err != nil {
				logger.Debug("api auth failure", zap.String("path", r.URL.Path), zap.Error(err))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"Unauthorized"}` + "\n"))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// NewPageMiddleware: guard для страниц /dashboard/*: редирект на /login?redirect=<исходный путь>.
func NewPageMiddleware(v TokenValidator, cookieName string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := v.VerifyToken(tokenFromRequest(r, cookieName))
			if err != nil {
				logger.Debug("page auth failure", zap.String("path", r.URL.Path), zap.Error(err))
				http.Redirect(w, r, LoginRedirectURL(r.URL.Path), http.StatusFound)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func LoginRedirectURL(path string) string {
	q := url.Values{}
	q.Set("redirect", path)
	return "/login?" + q.Encode()
}
