package domain

import (
	"errors"
	"fmt"
	"strings"
)

// NodeType identifies the kind of a DRE tree node.
type NodeType string

const (
	TypeGroup     NodeType = "type-group"
	VirtualGroup  NodeType = "virtual-group"
	CostCenter    NodeType = "cost-center"
	Subgroup      NodeType = "subgroup"
	Account       NodeType = "account"
	AccountDetail NodeType = "account-detail"
)

// NodeTypes lists every node type in display order.
var NodeTypes = []NodeType{TypeGroup, VirtualGroup, CostCenter, Subgroup, Account, AccountDetail}

// nodePrefixes maps each type to the id prefix that encodes it. The prefix is
// the only source of a node's type.
var nodePrefixes = map[NodeType]string{
	TypeGroup:     "tipo_",
	VirtualGroup:  "virt_",
	CostCenter:    "cc_",
	Subgroup:      "sg_",
	Account:       "conta_",
	AccountDetail: "det_",
}

// ErrUnknownPrefix is returned when a node id does not start with a known type prefix.
var ErrUnknownPrefix = errors.New("unknown node id prefix")

// Prefix returns the id prefix for t, or "" for an unknown type.
func (t NodeType) Prefix() string {
	return nodePrefixes[t]
}

// Valid reports whether t is one of the known node types.
func (t NodeType) Valid() bool {
	_, ok := nodePrefixes[t]
	return ok
}

// Label returns a short human label for the type.
func (t NodeType) Label() string {
	switch t {
	case TypeGroup:
		return "type group"
	case VirtualGroup:
		return "virtual group"
	case CostCenter:
		return "cost center"
	case Subgroup:
		return "subgroup"
	case Account:
		return "account"
	case AccountDetail:
		return "account detail"
	default:
		return string(t)
	}
}

// ParseNodeType converts a wire string into a NodeType.
func ParseNodeType(s string) (NodeType, error) {
	t := NodeType(strings.TrimSpace(s))
	if !t.Valid() {
		return "", fmt.Errorf("invalid node type %q", s)
	}
	return t, nil
}

// ParseNodeID splits a prefixed node id into its type and reference id.
func ParseNodeID(id string) (NodeType, string, error) {
	for _, t := range NodeTypes {
		p := nodePrefixes[t]
		if strings.HasPrefix(id, p) {
			ref := id[len(p):]
			if ref == "" {
				return "", "", fmt.Errorf("node id %q: empty reference id", id)
			}
			return t, ref, nil
		}
	}
	return "", "", fmt.Errorf("node id %q: %w", id, ErrUnknownPrefix)
}

// NodeID builds the prefixed id for a type and reference id.
func NodeID(t NodeType, refID string) string {
	return t.Prefix() + refID
}

// Node is a single element of the DRE tree.
type Node struct {
	ID       string   `json:"id"`
	Type     NodeType `json:"type"`
	Text     string   `json:"text"`
	Order    *int     `json:"order,omitempty"`
	Children []*Node  `json:"children,omitempty"`
}

// RefID returns the reference id encoded in the node id.
func (n *Node) RefID() string {
	_, ref, err := ParseNodeID(n.ID)
	if err != nil {
		return ""
	}
	return ref
}

// NewNode builds a node whose type is derived from its id.
func NewNode(id, text string) (*Node, error) {
	t, _, err := ParseNodeID(id)
	if err != nil {
		return nil, err
	}
	return &Node{ID: id, Type: t, Text: text}, nil
}

// Walk visits every node of the forest depth-first in sibling order.
// The parent is nil for top-level nodes.
func Walk(forest []*Node, fn func(n, parent *Node)) {
	var visit func(nodes []*Node, parent *Node)
	visit = func(nodes []*Node, parent *Node) {
		for _, n := range nodes {
			fn(n, parent)
			visit(n.Children, n)
		}
	}
	visit(forest, nil)
}
