package domain

import "fmt"

// RootContext is the parent context of top-level nodes.
const RootContext = "root"

// RankInterval is the gap between consecutive sibling ranks.
const RankInterval = 10

// Position classifies a drop relative to its target row.
type Position string

const (
	Above  Position = "above"
	Below  Position = "below"
	Inside Position = "inside"
)

// RankAt returns the rank assigned to the sibling at a zero-based index.
func RankAt(index int) int {
	return (index + 1) * RankInterval
}

// OrderEntry is one sibling in a persisted order.
type OrderEntry struct {
	Type        NodeType
	ReferenceID string
	Rank        int
}

// NodeID returns the prefixed id of the entry's node.
func (e OrderEntry) NodeID() string {
	return NodeID(e.Type, e.ReferenceID)
}

// ContextType resolves a parent context string to the type of the containing
// node. ok is false for the root context.
func ContextType(parentContext string) (t NodeType, ok bool, err error) {
	if parentContext == RootContext {
		return "", false, nil
	}
	t, _, err = ParseNodeID(parentContext)
	if err != nil {
		return "", false, fmt.Errorf("parent context: %w", err)
	}
	return t, true, nil
}
