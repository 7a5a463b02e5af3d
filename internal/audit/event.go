package audit

import "time"

// Действия, которые консоль пишет в аудит
const (
	ActionLogin        = "auth.login"
	ActionLoginFailed  = "auth.login_failed"
	ActionScan         = "engine.scan"
	ActionCatalogReset = "engine.catalog_refresh"
	ActionWaitlistJoin = "waitlist.join"
)

type Event struct {
	ID        string                 `json:"id"`         // UUID события
	RequestID string                 `json:"request_id"` // chi middleware.RequestID
	Actor     string                 `json:"actor"`      // email/ID пользователя или "anonymous"
	Action    string                 `json:"action"`
	Target    string                 `json:"target"`
	Status    string                 `json:"status"` // "SUCCESS", "FAILED", "REJECTED"
	Details   map[string]interface{} `json:"details,omitempty"`
	ClientIP  string                 `json:"client_ip"`
	Timestamp time.Time              `json:"timestamp"`
}
