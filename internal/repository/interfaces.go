package repository

import (
	"context"

	"github.com/alexanderramin/dretree/internal/domain"
)

type NodeRepo interface {
	Create(ctx context.Context, r *domain.Record) error
	GetByID(ctx context.Context, id string) (*domain.Record, error)
	// ListChildren returns the children of a parent context, ranked first in
	// rank order, then unranked by text.
	ListChildren(ctx context.Context, parentContext string) ([]*domain.Record, error)
	ListAll(ctx context.Context) ([]*domain.Record, error)
	UpdatePlacement(ctx context.Context, id, parentContext string, rank *int) error
	CountRanked(ctx context.Context) (int, error)
}

type OrderLogRepo interface {
	Append(ctx context.Context, e *domain.OrderLogEntry) error
	ListRecent(ctx context.Context, limit int) ([]*domain.OrderLogEntry, error)
}
