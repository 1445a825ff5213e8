package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesTablesAndIndexes(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"nodes", "order_log"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
	}
	for _, idx := range []string{"idx_nodes_parent", "idx_nodes_type_ref", "idx_order_log_parent"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_OrderLogRequestIDColumn(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO order_log (id, parent_context, item_count, applied_at) VALUES ('b1', 'root', 2, '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)
	var reqID string
	require.NoError(t, db.QueryRow(`SELECT request_id FROM order_log WHERE id = 'b1'`).Scan(&reqID))
	assert.Equal(t, "", reqID)
}

func TestMigrate_BackfillsRefIDs(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO nodes (id, text, parent_context, created_at, updated_at) VALUES
		('cc_7', 'Comercial', 'tipo_1', 'x', 'x'),
		('conta_501', 'Produtos', 'sg_1', 'x', 'x'),
		('sgx9', 'Not a prefix', 'root', 'x', 'x')`)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	rows := map[string][2]string{}
	r, err := db.Query(`SELECT id, type, ref_id FROM nodes`)
	require.NoError(t, err)
	defer r.Close()
	for r.Next() {
		var id, typ, ref string
		require.NoError(t, r.Scan(&id, &typ, &ref))
		rows[id] = [2]string{typ, ref}
	}
	require.NoError(t, r.Err())

	assert.Equal(t, [2]string{"cost-center", "7"}, rows["cc_7"])
	assert.Equal(t, [2]string{"account", "501"}, rows["conta_501"])
	assert.Equal(t, [2]string{"", ""}, rows["sgx9"], "underscore in the prefix is literal")
}

func TestMigrate_RejectsUnknownType(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(`INSERT INTO nodes (id, type, ref_id, text, created_at, updated_at) VALUES ('x_1', 'folder', '1', 'x', 'x', 'x')`)
	assert.Error(t, err)
}
