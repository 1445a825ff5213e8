package service

import (
	"context"

	"github.com/alexanderramin/dretree/internal/contract"
	"github.com/alexanderramin/dretree/internal/domain"
)

// OrderService is the backend side of the ordering endpoints.
type OrderService interface {
	// GetOrderedChildren lists the ranked children of a parent context in rank
	// order. It is empty for the root while ordering was never activated.
	GetOrderedChildren(ctx context.Context, parentContext string) ([]*domain.Node, error)
	// GetOrderedTree returns the whole forest with ranks, siblings in rank order.
	GetOrderedTree(ctx context.Context) ([]*domain.Node, error)
	// GetTree returns the whole forest without ranks, siblings by text.
	GetTree(ctx context.Context) ([]*domain.Node, error)
	// ReorderBatch validates and applies a batch atomically and returns the
	// number of nodes placed.
	ReorderBatch(ctx context.Context, batch contract.ReorderBatch, requestID string) (int, error)
	// Normalize renumbers one context, or every context when parentContext is
	// empty, to consecutive multiples of the rank interval.
	Normalize(ctx context.Context, parentContext string) (contract.NormalizeResponse, error)
	OrderingActive(ctx context.Context) (bool, error)
	History(ctx context.Context, limit int) ([]*domain.OrderLogEntry, error)
	// Seed loads the demo statement into an empty store and returns the
	// number of nodes written.
	Seed(ctx context.Context, ranked bool) (int, error)
}
