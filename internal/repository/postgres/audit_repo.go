package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xela07ax/shield-console/internal/audit"
)

// WriteBatch пакетная вставка событий аудита одним запросом.
// ON CONFLICT: seed и повторный flush не создают дублей.
func (r *Repo) WriteBatch(ctx context.Context, events []audit.Event) error {
	if len(events) == 0 {
		return nil
	}

	// Количество колонок в таблице audit_logs
	const numFields = 9
	var sb strings.Builder
	vals := make([]interface{}, 0, len(events)*numFields)

	for i, e := range events {
		p := i * numFields
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			p+1, p+2, p+3, p+4, p+5, p+6, p+7, p+8, p+9)

		var details []byte
		if e.Details != nil {
			details, _ = json.Marshal(e.Details)
		}

		vals = append(vals,
			e.ID, e.RequestID, e.Actor, e.Action, e.Target,
			e.Status, details, e.ClientIP, e.Timestamp,
		)
	}

	query := "INSERT INTO audit_logs (id, request_id, actor, action, target, status, details, client_ip, timestamp) VALUES " +
		sb.String() + " ON CONFLICT (id) DO NOTHING"

	if _, err := r.pool.Exec(ctx, query, vals...); err != nil {
		return fmt.Errorf("postgres: write audit batch: %w", err)
	}
	return nil
}
