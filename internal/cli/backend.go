package cli

import (
	"context"

	"github.com/alexanderramin/dretree/internal/contract"
	"github.com/alexanderramin/dretree/internal/domain"
	"github.com/alexanderramin/dretree/internal/service"
	"github.com/google/uuid"
)

// Backend is the ordering backend used by the console. api.Client implements
// it over HTTP; LocalBackend implements it over the local store.
type Backend interface {
	GetOrderedChildren(ctx context.Context, parentContext string) ([]*domain.Node, error)
	GetOrderedTree(ctx context.Context) ([]*domain.Node, error)
	GetTree(ctx context.Context) ([]*domain.Node, error)
	ReorderBatch(ctx context.Context, batch contract.ReorderBatch) error
	Normalize(ctx context.Context, parentContext string) (contract.NormalizeResponse, error)
	OrderingActive(ctx context.Context) (bool, error)
	History(ctx context.Context, limit int) ([]*domain.OrderLogEntry, error)
}

// LocalBackend serves the console straight from an OrderService.
type LocalBackend struct {
	Svc service.OrderService
}

func (b LocalBackend) GetOrderedChildren(ctx context.Context, parentContext string) ([]*domain.Node, error) {
	return b.Svc.GetOrderedChildren(ctx, parentContext)
}

func (b LocalBackend) GetOrderedTree(ctx context.Context) ([]*domain.Node, error) {
	return b.Svc.GetOrderedTree(ctx)
}

func (b LocalBackend) GetTree(ctx context.Context) ([]*domain.Node, error) {
	return b.Svc.GetTree(ctx)
}

func (b LocalBackend) ReorderBatch(ctx context.Context, batch contract.ReorderBatch) error {
	_, err := b.Svc.ReorderBatch(ctx, batch, uuid.New().String())
	return err
}

func (b LocalBackend) Normalize(ctx context.Context, parentContext string) (contract.NormalizeResponse, error) {
	return b.Svc.Normalize(ctx, parentContext)
}

func (b LocalBackend) OrderingActive(ctx context.Context) (bool, error) {
	return b.Svc.OrderingActive(ctx)
}

func (b LocalBackend) History(ctx context.Context, limit int) ([]*domain.OrderLogEntry, error) {
	return b.Svc.History(ctx, limit)
}

// loadForest fetches the tree in the shape the backend currently supports:
// ranked when ordering is active, text order otherwise.
func loadForest(ctx context.Context, b Backend) ([]*domain.Node, bool, error) {
	active, err := b.OrderingActive(ctx)
	if err != nil {
		return nil, false, err
	}
	if active {
		nodes, err := b.GetOrderedTree(ctx)
		return nodes, true, err
	}
	nodes, err := b.GetTree(ctx)
	return nodes, false, err
}
