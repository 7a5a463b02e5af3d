package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Repo: единая точка доступа к PostgreSQL.
// Пул создается один раз при старте (infra.OpenPool) и передается явно, без глобалов.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Ping проверяет доступность базы
func (r *Repo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Migrate применяет DDL из migrations/ по порядку имен. Все скрипты идемпотентны (IF NOT EXISTS).
func (r *Repo) Migrate(ctx context.Context) error {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)

	for _, name := range names {
		ddl, err := migrationsFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("postgres: read %s: %w", name, err)
		}
		if _, err := r.pool.Exec(ctx, string(ddl)); err != nil {
			return fmt.Errorf("postgres: apply %s: %w", name, err)
		}
	}
	return nil
}
