package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xela07ax/shield-console/internal/domain"
	"github.com/xela07ax/shield-console/internal/mailing"
	"go.uber.org/zap"
)

type WaitlistService interface {
	Join(ctx context.Context, email, clientIP string) error
}

type WaitlistHandler struct {
	service WaitlistService
	logger  *zap.Logger
}

func NewWaitlistHandler(s WaitlistService, logger *zap.Logger) *WaitlistHandler {
	return &WaitlistHandler{service: s, logger: logger.Named("waitlist-handler")}
}

func (h *WaitlistHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req domain.WaitlistRequest
	// Битое тело = пустой email, ответ тот же 400
	_ = json.NewDecoder(r.Body).Decode(&req)

	err := h.service.Join(r.Context(), req.Email, clientIP(r))
	var upstream *mailing.UpstreamError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, cacheNoStore, map[string]bool{"success": true})
	case errors.Is(err, domain.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "Invalid email")
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "Too many requests")
	case errors.Is(err, domain.ErrMailingNotConfig):
		writeError(w, http.StatusInternalServerError, "Server configuration error")
	case errors.As(err, &upstream):
		msg := upstream.Message
		if msg == "" {
			msg = "Subscription failed"
		}
		writeError(w, upstream.Status, msg)
	default:
		h.logger.Error("waitlist join failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
