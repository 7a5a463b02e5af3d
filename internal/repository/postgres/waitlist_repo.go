package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/xela07ax/shield-console/internal/domain"
)

// AddWaitlistEntry сохраняет email; повторная заявка: не ошибка (email уникален).
func (r *Repo) AddWaitlistEntry(ctx context.Context, e domain.WaitlistEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	query := `
		INSERT INTO waitlist_entries (id, email, source)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO NOTHING`

	if _, err := r.pool.Exec(ctx, query, e.ID, e.Email, e.Source); err != nil {
		return fmt.Errorf("postgres: add waitlist entry: %w", err)
	}
	return nil
}
