package service

import (
	"sort"

	"github.com/alexanderramin/dretree/internal/domain"
)

// buildForest assembles records into a forest rooted at the root context.
// Records are expected in repository order: ranked first by rank, then by
// text. Unordered output drops ranks and sorts siblings by text. Records whose
// parent is missing are attached at the root so nothing disappears.
func buildForest(records []*domain.Record, ordered bool) []*domain.Node {
	nodes := make(map[string]*domain.Node, len(records))
	for _, r := range records {
		n := r.Node()
		if !ordered {
			n.Order = nil
		}
		nodes[r.ID] = n
	}

	var roots []*domain.Node
	for _, r := range records {
		n := nodes[r.ID]
		parent, ok := nodes[r.ParentContext]
		if r.ParentContext == domain.RootContext || !ok || parent == n {
			roots = append(roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
	}

	if !ordered {
		sortByText(roots)
		domain.Walk(roots, func(n, _ *domain.Node) { sortByText(n.Children) })
	}
	return roots
}

func sortByText(nodes []*domain.Node) {
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].Text < nodes[j].Text })
}

// siblingOrder orders records the way the repository does.
func siblingOrder(recs []*domain.Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		switch {
		case a.Rank != nil && b.Rank != nil:
			if *a.Rank != *b.Rank {
				return *a.Rank < *b.Rank
			}
		case a.Rank != nil:
			return true
		case b.Rank != nil:
			return false
		}
		if a.Text != b.Text {
			return a.Text < b.Text
		}
		return a.ID < b.ID
	})
}
