package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/dretree/internal/db"
	"github.com/alexanderramin/dretree/internal/domain"
)

// SQLiteOrderLogRepo keeps an append-only history of applied batches.
type SQLiteOrderLogRepo struct {
	db db.DBTX
}

func NewSQLiteOrderLogRepo(conn db.DBTX) *SQLiteOrderLogRepo {
	return &SQLiteOrderLogRepo{db: conn}
}

func (r *SQLiteOrderLogRepo) Append(ctx context.Context, e *domain.OrderLogEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO order_log (id, parent_context, item_count, request_id, applied_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.ParentContext, e.ItemCount, e.RequestID, e.AppliedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("appending order log: %w", err)
	}
	return nil
}

func (r *SQLiteOrderLogRepo) ListRecent(ctx context.Context, limit int) ([]*domain.OrderLogEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, parent_context, item_count, request_id, applied_at
		FROM order_log ORDER BY applied_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing order log: %w", err)
	}
	defer rows.Close()

	var out []*domain.OrderLogEntry
	for rows.Next() {
		var e domain.OrderLogEntry
		var appliedAt string
		if err := rows.Scan(&e.ID, &e.ParentContext, &e.ItemCount, &e.RequestID, &appliedAt); err != nil {
			return nil, fmt.Errorf("scanning order log: %w", err)
		}
		t, err := time.Parse(time.RFC3339Nano, appliedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing applied_at: %w", err)
		}
		e.AppliedAt = t
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order log: %w", err)
	}
	return out, nil
}
