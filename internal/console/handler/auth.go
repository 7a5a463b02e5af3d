package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/xela07ax/shield-console/internal/console/service"
	"github.com/xela07ax/shield-console/internal/domain"
	"github.com/xela07ax/shield-console/internal/infra/auth"
	"go.uber.org/zap"
)

type AuthService interface {
	Login(ctx context.Context, email, password, clientIP string) (*service.LoginResult, error)
}

type AuthHandler struct {
	service    AuthService
	validator  auth.TokenValidator
	cookieName string
	secure     bool
	logger     *zap.Logger
}

func NewAuthHandler(s AuthService, v auth.TokenValidator, cookieName string, secure bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service:    s,
		validator:  v,
		cookieName: cookieName,
		secure:     secure,
		logger:     logger.Named("auth-handler"),
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.service.Login(r.Context(), req.Email, req.Password, clientIP(r))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			// не уточняем, что именно неверно (логин или пароль) для защиты от перебора
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    res.Token,
		Path:     "/",
		Expires:  res.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, cacheNoStore, domain.SessionResponse{
		User: domain.SessionUser{
			ID:    res.User.ID,
			Email: res.User.Email,
			Name:  res.User.Name,
			Role:  res.User.Role,
		},
		ExpiresAt: res.ExpiresAt,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, cacheNoStore, map[string]bool{"success": true})
}

// Session стоит за API guard-ом: claims уже в контексте
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	c, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var expires time.Time
	if c.ExpiresAt != nil {
		expires = c.ExpiresAt.Time
	}
	writeJSON(w, http.StatusOK, cacheNoStore, domain.SessionResponse{
		User:      domain.SessionUser{ID: c.UserID, Email: c.Email, Name: c.Name, Role: c.Role},
		ExpiresAt: expires,
	})
}
