package reorder

import (
	"strings"

	"github.com/alexanderramin/dretree/internal/contract"
	"github.com/alexanderramin/dretree/internal/domain"
)

// Committer receives the order of a parent context after a successful drop or
// move. Implementations persist it asynchronously; the document has already
// changed and is not rolled back if persisting fails.
type Committer interface {
	Commit(batch contract.ReorderBatch)
}

// CommitFunc adapts a function to Committer.
type CommitFunc func(batch contract.ReorderBatch)

func (f CommitFunc) Commit(batch contract.ReorderBatch) { f(batch) }

// ParentContext returns the persisted context id for children of parent.
func ParentContext(parent *Element) string {
	if parent == nil || parent.IsRoot() {
		return domain.RootContext
	}
	return parent.ID
}

// BuildBatch lists parent's children in document order with fresh ranks
// spaced by domain.RankInterval, starting at one interval.
func BuildBatch(parent *Element) contract.ReorderBatch {
	batch := contract.ReorderBatch{
		ParentContext: ParentContext(parent),
		OrderedList:   []contract.OrderItem{},
	}
	i := 0
	for _, c := range parent.children {
		if c.placeholder || c.Node == nil {
			continue
		}
		t := c.Type()
		batch.OrderedList = append(batch.OrderedList, contract.OrderItem{
			Type:        t,
			ReferenceID: strings.TrimPrefix(c.ID, t.Prefix()),
			Rank:        domain.RankAt(i),
		})
		i++
	}
	return batch
}

// applyRanks copies the batch ranks onto the nodes so rank badges follow the
// new order before the backend confirms it.
func applyRanks(parent *Element, batch contract.ReorderBatch) {
	ranks := make(map[string]int, len(batch.OrderedList))
	for _, it := range batch.OrderedList {
		ranks[it.NodeID()] = it.Rank
	}
	for _, c := range parent.children {
		if r, ok := ranks[c.ID]; ok && c.Node != nil {
			rank := r
			c.Node.Order = &rank
		}
	}
}
