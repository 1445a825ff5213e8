package contract

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/dretree/internal/domain"
)

// OrderItem is one sibling in a reorder batch.
type OrderItem struct {
	Type        domain.NodeType `json:"type"`
	ReferenceID string          `json:"referenceId"`
	Rank        int             `json:"rank"`
}

// NodeID returns the prefixed node id the item refers to.
func (i OrderItem) NodeID() string {
	return domain.NodeID(i.Type, i.ReferenceID)
}

// ReorderBatch persists the full sibling order of one parent context.
type ReorderBatch struct {
	ParentContext string      `json:"parentContext"`
	OrderedList   []OrderItem `json:"orderedList"`
}

// ErrEmptyParentContext is returned for a batch without a parent context.
var ErrEmptyParentContext = errors.New("missing parent context")

// Validate checks the shape of the batch. Hierarchy rules are checked by the
// service that applies it.
func (b ReorderBatch) Validate() error {
	if b.ParentContext == "" {
		return ErrEmptyParentContext
	}
	if _, _, err := domain.ContextType(b.ParentContext); err != nil {
		return err
	}
	seen := make(map[string]bool, len(b.OrderedList))
	prev := 0
	for i, it := range b.OrderedList {
		if !it.Type.Valid() {
			return fmt.Errorf("item %d: invalid type %q", i, it.Type)
		}
		if it.ReferenceID == "" {
			return fmt.Errorf("item %d: missing reference id", i)
		}
		id := it.NodeID()
		if seen[id] {
			return fmt.Errorf("item %d: duplicate node %s", i, id)
		}
		seen[id] = true
		if it.Rank <= prev {
			return fmt.Errorf("item %d: rank %d is not greater than %d", i, it.Rank, prev)
		}
		prev = it.Rank
	}
	return nil
}

// Entries converts the wire items into domain order entries.
func (b ReorderBatch) Entries() []domain.OrderEntry {
	out := make([]domain.OrderEntry, len(b.OrderedList))
	for i, it := range b.OrderedList {
		out[i] = domain.OrderEntry{Type: it.Type, ReferenceID: it.ReferenceID, Rank: it.Rank}
	}
	return out
}

// ChildrenResponse is returned by GET /api/order/children.
type ChildrenResponse struct {
	ParentContext string         `json:"parentContext"`
	Nodes         []*domain.Node `json:"nodes"`
}

// TreeResponse is returned by the tree endpoints.
type TreeResponse struct {
	Ordered bool           `json:"ordered"`
	Nodes   []*domain.Node `json:"nodes"`
}

// NormalizeRequest renumbers ranks. An empty parent context normalizes every
// context in the tree.
type NormalizeRequest struct {
	ParentContext string `json:"parentContext,omitempty"`
}

// NormalizeResponse reports how many contexts and nodes were renumbered.
type NormalizeResponse struct {
	Contexts int `json:"contexts"`
	Nodes    int `json:"nodes"`
}

// ReorderResponse acknowledges an applied batch.
type ReorderResponse struct {
	ParentContext string `json:"parentContext"`
	Applied       int    `json:"applied"`
}

// ErrorResponse is the JSON body of every non-2xx API response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HistoryResponse is returned by GET /api/order/history, newest first.
type HistoryResponse struct {
	Entries []*domain.OrderLogEntry `json:"entries"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status         string `json:"status"`
	OrderingActive bool   `json:"orderingActive"`
}

// Error codes carried by ErrorResponse.
const (
	CodeBadRequest     = "BAD_REQUEST"
	CodeInvalidBatch   = "INVALID_BATCH"
	CodeInvalidContext = "INVALID_CONTEXT"
	CodeNotFound       = "NOT_FOUND"
	CodeInternal       = "INTERNAL"
)

// RequestIDHeader correlates a client call with the server log line.
const RequestIDHeader = "X-Request-ID"
