package mailing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xela07ax/shield-console/internal/domain"
	"github.com/xela07ax/shield-console/internal/infra"
	"go.uber.org/zap"
)

// UpstreamError: Kit ответил не-2xx. Статус пробрасывается клиенту консоли как есть.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("kit: upstream %d: %s", e.Status, e.Message)
}

// KitClient подписывает email на форму Kit (API v3).
type KitClient struct {
	baseURL string
	apiKey  string
	formID  string
	http    *http.Client
	logger  *zap.Logger
}

func NewKitClient(cfg infra.MailingConfig, logger *zap.Logger) *KitClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &KitClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		formID:  cfg.FormID,
		http:    &http.Client{Timeout: timeout},
		logger:  logger.Named("kit"),
	}
}

func (k *KitClient) Configured() bool {
	return k.apiKey != "" && k.formID != ""
}

type subscribeRequest struct {
	APIKey string `json:"api_key"`
	Email  string `json:"email"`
}

func (k *KitClient) Subscribe(ctx context.Context, email string) error {
	if !k.Configured() {
		return domain.ErrMailingNotConfig
	}

	raw, err := json.Marshal(subscribeRequest{APIKey: k.apiKey, Email: email})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/forms/%s/subscribe", k.baseURL, k.formID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("kit: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := k.http.Do(req)
	if err != nil {
		return fmt.Errorf("kit: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := upstreamMessage(resp.Body)
		k.logger.Warn("kit subscribe rejected", zap.Int("status", resp.StatusCode), zap.String("message", msg))
		return &UpstreamError{Status: resp.StatusCode, Message: msg}
	}
	return nil
}

// upstreamMessage достает текст ошибки Kit ({"error": "...", "message": "..."})
func upstreamMessage(body io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(body, 64<<10))
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	if s := strings.TrimSpace(string(raw)); s != "" {
		return s
	}
	return "Failed to subscribe"
}
