package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrTxAborted is returned when the caller's context ends before the
// transaction could commit. Nothing written inside it is kept.
var ErrTxAborted = errors.New("transaction aborted")

// UnitOfWork applies a reorder batch, a normalization or a seed as one
// transaction, so a parent context is never left half renumbered.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// SQLiteUnitOfWork implements UnitOfWork on a SQLite handle from OpenDB.
type SQLiteUnitOfWork struct {
	db *sql.DB
}

func NewSQLiteUnitOfWork(db *sql.DB) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{db: db}
}

func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn TxFunc) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	return finishTx(ctx, tx, fn)
}

// finishTx runs fn on tx and commits only when fn succeeded and ctx is still
// live. A panic in fn rolls back and is re-raised.
func finishTx(ctx context.Context, tx *sql.Tx, fn TxFunc) (err error) {
	committed := false
	defer func() {
		if committed {
			return
		}
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
	}()

	if err = fn(ctx, tx); err != nil {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", ErrTxAborted, ctxErr)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	committed = true
	return nil
}
