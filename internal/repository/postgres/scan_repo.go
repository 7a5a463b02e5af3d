package postgres

import (
	"context"
	"fmt"

	"github.com/xela07ax/shield-console/internal/domain"
)

func (r *Repo) CreateScan(ctx context.Context, s domain.Scan) error {
	query := `
		INSERT INTO scans (id, engine_scan_id, target, status, requested_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query, s.ID, s.EngineScan, s.Target, s.Status, s.RequestedBy, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("postgres: create scan: %w", err)
	}
	return nil
}
