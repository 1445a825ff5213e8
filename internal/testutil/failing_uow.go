package testutil

import (
	"context"
	"database/sql"
	"sync/atomic"

	"github.com/alexanderramin/dretree/internal/db"
)

// FailingUoW runs a real SQLite transaction but makes the Nth write inside it
// fail, so tests can show that a reorder batch failing halfway keeps no
// partial ranks. Writes are counted from 1. Reads are never counted.
type FailingUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error

	writes atomic.Int32
}

// Writes reports how many writes the last transaction attempted.
func (u *FailingUoW) Writes() int { return int(u.writes.Load()) }

func (u *FailingUoW) WithinTx(ctx context.Context, fn db.TxFunc) error {
	u.writes.Store(0)
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &countingTx{DBTX: tx, uow: u})
	})
}

type countingTx struct {
	db.DBTX
	uow *FailingUoW
}

func (c *countingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if c.uow.writes.Add(1) == c.uow.FailOn {
		return nil, c.uow.Err
	}
	return c.DBTX.ExecContext(ctx, query, args...)
}
