package postgres

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Upsert-ы seed опираются на эти уникальные ключи
func TestMigrations_DeclareNaturalKeys(t *testing.T) {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	ddl, err := migrationsFS.ReadFile(names[0])
	require.NoError(t, err)
	schema := string(ddl)

	for _, want := range []string{
		"email          TEXT NOT NULL UNIQUE",
		"UNIQUE (code, period)",
		"name       TEXT NOT NULL UNIQUE",
		"UNIQUE (hour, date)",
		"email      TEXT NOT NULL UNIQUE",
	} {
		assert.Contains(t, schema, want)
	}
	for _, table := range []string{"users", "threats", "geo_attacks", "detectors", "metric_snapshots",
		"activity_hours", "network_insights", "scans", "audit_logs", "waitlist_entries"} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
}
