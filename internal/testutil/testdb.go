package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/dretree/internal/db"
)

// NewTestDB opens a migrated in-memory account tree store that is closed with
// the test.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
