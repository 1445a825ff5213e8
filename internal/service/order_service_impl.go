package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/dretree/internal/contract"
	"github.com/alexanderramin/dretree/internal/db"
	"github.com/alexanderramin/dretree/internal/domain"
	"github.com/alexanderramin/dretree/internal/hierarchy"
	"github.com/alexanderramin/dretree/internal/repository"
	"github.com/google/uuid"
)

type orderService struct {
	nodes    repository.NodeRepo
	log      repository.OrderLogRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewOrderService(
	nodes repository.NodeRepo,
	log repository.OrderLogRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) OrderService {
	return &orderService{
		nodes:    nodes,
		log:      log,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *orderService) GetOrderedChildren(ctx context.Context, parentContext string) ([]*domain.Node, error) {
	if err := s.requireContext(ctx, s.nodes, parentContext); err != nil {
		return nil, err
	}
	recs, err := s.nodes.ListChildren(ctx, parentContext)
	if err != nil {
		return nil, err
	}
	out := []*domain.Node{}
	for _, r := range recs {
		if r.Rank != nil {
			out = append(out, r.Node())
		}
	}
	return out, nil
}

func (s *orderService) GetOrderedTree(ctx context.Context) ([]*domain.Node, error) {
	recs, err := s.nodes.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return buildForest(recs, true), nil
}

func (s *orderService) GetTree(ctx context.Context) ([]*domain.Node, error) {
	recs, err := s.nodes.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return buildForest(recs, false), nil
}

func (s *orderService) OrderingActive(ctx context.Context) (bool, error) {
	root, err := s.GetOrderedChildren(ctx, domain.RootContext)
	if err != nil {
		return false, err
	}
	return len(root) > 0, nil
}

func (s *orderService) History(ctx context.Context, limit int) ([]*domain.OrderLogEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.log.ListRecent(ctx, limit)
}

func (s *orderService) ReorderBatch(ctx context.Context, batch contract.ReorderBatch, requestID string) (applied int, err error) {
	fields := map[string]any{
		"parent_context": batch.ParentContext,
		"items":          len(batch.OrderedList),
	}
	defer observe(ctx, s.observer, "reorder-batch", fields)(&err)

	if err = batch.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidBatch, err)
	}
	parentType, err := hierarchy.ContextTypeOf(batch.ParentContext)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidBatch, err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txNodes := repository.NewSQLiteNodeRepo(tx)
		txLog := repository.NewSQLiteOrderLogRepo(tx)

		if err := s.requireContext(ctx, txNodes, batch.ParentContext); err != nil {
			return err
		}
		ancestors, err := ancestorsOf(ctx, txNodes, batch.ParentContext)
		if err != nil {
			return err
		}

		for i, e := range batch.Entries() {
			id := e.NodeID()
			if _, err := txNodes.GetByID(ctx, id); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("%w: item %d: node %s does not exist", ErrInvalidBatch, i, id)
				}
				return err
			}
			if e.Rank%domain.RankInterval != 0 {
				return fmt.Errorf("%w: item %d: rank %d is not a multiple of %d", ErrInvalidBatch, i, e.Rank, domain.RankInterval)
			}
			if !hierarchy.CanSitUnder(e.Type, parentType) {
				return fmt.Errorf("%w: item %d: %s cannot sit under %s", ErrInvalidBatch, i, e.Type.Label(), contextLabel(parentType))
			}
			if ancestors[id] {
				return fmt.Errorf("%w: item %d: %s would become its own ancestor", ErrInvalidBatch, i, id)
			}
			rank := e.Rank
			if err := txNodes.UpdatePlacement(ctx, id, batch.ParentContext, &rank); err != nil {
				return err
			}
		}

		return txLog.Append(ctx, &domain.OrderLogEntry{
			ID:            uuid.New().String(),
			ParentContext: batch.ParentContext,
			ItemCount:     len(batch.OrderedList),
			RequestID:     requestID,
			AppliedAt:     time.Now().UTC(),
		})
	})
	if err != nil {
		return 0, err
	}
	return len(batch.OrderedList), nil
}

func (s *orderService) Normalize(ctx context.Context, parentContext string) (res contract.NormalizeResponse, err error) {
	fields := map[string]any{"parent_context": parentContext}
	defer observe(ctx, s.observer, "normalize", fields)(&err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txNodes := repository.NewSQLiteNodeRepo(tx)

		groups := map[string][]*domain.Record{}
		var contexts []string
		if parentContext != "" {
			if err := s.requireContext(ctx, txNodes, parentContext); err != nil {
				return err
			}
			recs, err := txNodes.ListChildren(ctx, parentContext)
			if err != nil {
				return err
			}
			groups[parentContext] = recs
			contexts = append(contexts, parentContext)
		} else {
			all, err := txNodes.ListAll(ctx)
			if err != nil {
				return err
			}
			for _, r := range all {
				if _, ok := groups[r.ParentContext]; !ok {
					contexts = append(contexts, r.ParentContext)
				}
				groups[r.ParentContext] = append(groups[r.ParentContext], r)
			}
		}

		for _, pc := range contexts {
			recs := groups[pc]
			siblingOrder(recs)
			changed := false
			for i, r := range recs {
				rank := domain.RankAt(i)
				if r.Rank != nil && *r.Rank == rank {
					continue
				}
				if err := txNodes.UpdatePlacement(ctx, r.ID, pc, &rank); err != nil {
					return err
				}
				res.Nodes++
				changed = true
			}
			if changed {
				res.Contexts++
			}
		}
		return nil
	})
	fields["contexts"] = res.Contexts
	fields["nodes"] = res.Nodes
	if err != nil {
		return contract.NormalizeResponse{}, err
	}
	return res, nil
}

// requireContext fails with ErrNotFound unless parentContext is the root or an
// existing node.
func (s *orderService) requireContext(ctx context.Context, nodes repository.NodeRepo, parentContext string) error {
	if _, err := hierarchy.ContextTypeOf(parentContext); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidContext, err)
	}
	if parentContext == domain.RootContext {
		return nil
	}
	if _, err := nodes.GetByID(ctx, parentContext); err != nil {
		return fmt.Errorf("parent context: %w", err)
	}
	return nil
}

// ancestorsOf returns parentContext and every node above it.
func ancestorsOf(ctx context.Context, nodes repository.NodeRepo, parentContext string) (map[string]bool, error) {
	seen := map[string]bool{}
	for id := parentContext; id != domain.RootContext && !seen[id]; {
		seen[id] = true
		r, err := nodes.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				break
			}
			return nil, err
		}
		id = r.ParentContext
	}
	return seen, nil
}

func contextLabel(t domain.NodeType) string {
	if t == hierarchy.Root {
		return "the root"
	}
	return "a " + t.Label()
}
