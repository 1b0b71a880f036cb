package migration

import (
	"io/fs"
	"testing"

	"github.com/smallbiznis/labelworks/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(embeddedMigrations, migrationsDir)
	require.NoError(t, err)

	names := map[string]bool{}
	for _, e := range entries {
		names[e.Name()] = true
	}
	assert.True(t, names["000001_init.up.sql"])
	assert.True(t, names["000001_init.down.sql"])
}

func TestAutoMigrateCreatesEveryTable(t *testing.T) {
	conn := dbtest.New(t)
	require.NoError(t, AutoMigrate(conn))

	for _, table := range []string{
		"customers", "users", "suppliers", "supplier_contacts",
		"materials", "label_specs", "orders", "audit_logs",
	} {
		assert.True(t, conn.Migrator().HasTable(table), table)
	}
}
