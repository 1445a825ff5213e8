package domain

import "time"

// Record is a node as the backend stores it.
type Record struct {
	ID            string
	Type          NodeType
	RefID         string
	Text          string
	ParentContext string
	Rank          *int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewRecord builds a record for id under parentContext. The type and
// reference id are derived from the id prefix.
func NewRecord(id, text, parentContext string) (*Record, error) {
	t, ref, err := ParseNodeID(id)
	if err != nil {
		return nil, err
	}
	if parentContext == "" {
		parentContext = RootContext
	}
	now := time.Now().UTC()
	return &Record{
		ID:            id,
		Type:          t,
		RefID:         ref,
		Text:          text,
		ParentContext: parentContext,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Node converts the record into a tree node without children.
func (r *Record) Node() *Node {
	n := &Node{ID: r.ID, Type: r.Type, Text: r.Text}
	if r.Rank != nil {
		rank := *r.Rank
		n.Order = &rank
	}
	return n
}

// OrderLogEntry records one applied reorder batch.
type OrderLogEntry struct {
	ID            string    `json:"id"`
	ParentContext string    `json:"parentContext"`
	ItemCount     int       `json:"itemCount"`
	RequestID     string    `json:"requestId,omitempty"`
	AppliedAt     time.Time `json:"appliedAt"`
}
