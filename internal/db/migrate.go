package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate creates or upgrades the schema. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN is re-run on every start.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillRefIDs(db); err != nil {
		return fmt.Errorf("backfilling node reference ids: %w", err)
	}
	return nil
}

// migrateBackfillRefIDs derives ref_id and type for rows loaded by external
// tools that only filled the prefixed id.
func migrateBackfillRefIDs(db *sql.DB) error {
	ctx := context.Background()
	for _, p := range prefixes {
		if _, err := db.ExecContext(ctx, `UPDATE nodes
			SET ref_id = substr(id, ?), type = ?
			WHERE ref_id = '' AND id LIKE ? ESCAPE '\'`,
			len(p.prefix)+1, p.nodeType, strings.ReplaceAll(p.prefix, "_", `\_`)+"%",
		); err != nil {
			return fmt.Errorf("backfilling %s: %w", p.nodeType, err)
		}
	}
	return nil
}

// prefixes mirrors the id prefix table of the domain package. The schema must
// not import domain, so the pairs are spelled out.
var prefixes = []struct{ prefix, nodeType string }{
	{"tipo_", "type-group"},
	{"virt_", "virtual-group"},
	{"cc_", "cost-center"},
	{"sg_", "subgroup"},
	{"conta_", "account"},
	{"det_", "account-detail"},
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS nodes (
		id             TEXT PRIMARY KEY,
		type           TEXT NOT NULL DEFAULT ''
		               CHECK(type IN ('', 'type-group','virtual-group','cost-center','subgroup','account','account-detail')),
		ref_id         TEXT NOT NULL DEFAULT '',
		text           TEXT NOT NULL,
		parent_context TEXT NOT NULL DEFAULT 'root',
		rank           INTEGER,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(parent_context, rank)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_nodes_type_ref ON nodes(type, ref_id) WHERE ref_id <> ''`,

	`CREATE TABLE IF NOT EXISTS order_log (
		id             TEXT PRIMARY KEY,
		parent_context TEXT NOT NULL,
		item_count     INTEGER NOT NULL,
		applied_at     TEXT NOT NULL
	)`,
	`ALTER TABLE order_log ADD COLUMN request_id TEXT NOT NULL DEFAULT ''`,
	`CREATE INDEX IF NOT EXISTS idx_order_log_parent ON order_log(parent_context, applied_at)`,
}
