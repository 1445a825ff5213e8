package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/dretree/internal/db"
	"github.com/alexanderramin/dretree/internal/domain"
)

// nodeColumns is the canonical SELECT column list for nodes.
const nodeColumns = `id, type, ref_id, text, parent_context, rank, created_at, updated_at`

// nodeOrder sorts siblings: ranked first by rank, then unranked by text.
const nodeOrder = ` ORDER BY rank IS NULL, rank, text, id`

// SQLiteNodeRepo implements NodeRepo on the nodes table.
type SQLiteNodeRepo struct {
	db db.DBTX
}

func NewSQLiteNodeRepo(conn db.DBTX) *SQLiteNodeRepo {
	return &SQLiteNodeRepo{db: conn}
}

func (r *SQLiteNodeRepo) Create(ctx context.Context, n *domain.Record) error {
	query := `INSERT INTO nodes (` + nodeColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		string(n.Type),
		n.RefID,
		n.Text,
		n.ParentContext,
		nullableIntToValue(n.Rank),
		n.CreatedAt.Format(time.RFC3339),
		n.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting node %s: %w", n.ID, err)
	}
	return nil
}

func (r *SQLiteNodeRepo) GetByID(ctx context.Context, id string) (*domain.Record, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+nodeColumns+` FROM nodes WHERE id = ?`, id)
	n, err := scanNode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("node %s: %w", id, ErrNotFound)
	}
	return n, err
}

func (r *SQLiteNodeRepo) ListChildren(ctx context.Context, parentContext string) ([]*domain.Record, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+nodeColumns+` FROM nodes WHERE parent_context = ?`+nodeOrder, parentContext)
	if err != nil {
		return nil, fmt.Errorf("listing children of %s: %w", parentContext, err)
	}
	defer rows.Close()
	return scanNodes(rows)
}

func (r *SQLiteNodeRepo) ListAll(ctx context.Context) ([]*domain.Record, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+nodeColumns+` FROM nodes`+nodeOrder)
	if err != nil {
		return nil, fmt.Errorf("listing nodes: %w", err)
	}
	defer rows.Close()
	return scanNodes(rows)
}

func (r *SQLiteNodeRepo) UpdatePlacement(ctx context.Context, id, parentContext string, rank *int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE nodes SET parent_context = ?, rank = ?, updated_at = ? WHERE id = ?`,
		parentContext, nullableIntToValue(rank), nowUTC(), id)
	if err != nil {
		return fmt.Errorf("updating placement of %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating placement of %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("node %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteNodeRepo) CountRanked(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM nodes WHERE rank IS NOT NULL`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting ranked nodes: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNode(row rowScanner) (*domain.Record, error) {
	var n domain.Record
	var typ, createdAt, updatedAt string
	var rank sql.NullInt64
	if err := row.Scan(&n.ID, &typ, &n.RefID, &n.Text, &n.ParentContext, &rank, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning node: %w", err)
	}
	n.Type = domain.NodeType(typ)
	n.Rank = nullableInt(rank)

	var err error
	if n.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
		return nil, err
	}
	if n.UpdatedAt, err = parseTimestamp("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

func scanNodes(rows *sql.Rows) ([]*domain.Record, error) {
	var out []*domain.Record
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating nodes: %w", err)
	}
	return out, nil
}
