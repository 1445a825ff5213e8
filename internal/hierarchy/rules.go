// Package hierarchy holds the static placement rules of the DRE tree.
//
// Two tables drive every decision. Containment lists which child types a
// container accepts when something is dropped inside it. Adjacency lists the
// parent contexts a node type may sit directly under, which is what matters
// when a node is dropped above or below a sibling.
package hierarchy

import "github.com/alexanderramin/dretree/internal/domain"

// Root is the parent-context type of top-level nodes.
const Root domain.NodeType = "root"

type typeSet map[domain.NodeType]bool

func setOf(types ...domain.NodeType) typeSet {
	s := make(typeSet, len(types))
	for _, t := range types {
		s[t] = true
	}
	return s
}

// containment: container type -> child types accepted by an inside drop.
var containment = map[domain.NodeType]typeSet{
	domain.TypeGroup:    setOf(domain.CostCenter),
	domain.VirtualGroup: setOf(domain.Subgroup, domain.AccountDetail),
	domain.CostCenter:   setOf(domain.Subgroup),
}

// adjacency: node type -> parent-context types it may sit directly under.
var adjacency = map[domain.NodeType]typeSet{
	domain.TypeGroup:     setOf(Root),
	domain.VirtualGroup:  setOf(Root),
	domain.CostCenter:    setOf(domain.TypeGroup),
	domain.Subgroup:      setOf(domain.CostCenter, domain.VirtualGroup, domain.Subgroup, Root),
	domain.Account:       setOf(domain.Subgroup),
	domain.AccountDetail: setOf(domain.Subgroup, domain.VirtualGroup),
}

// AcceptsChild reports whether a container of type container accepts child
// when it is dropped inside it. Unknown containers accept nothing.
func AcceptsChild(container, child domain.NodeType) bool {
	return containment[container][child]
}

// CanSitUnder reports whether t may be a direct child of the given parent
// context type (Root for top level).
func CanSitUnder(t, parentContext domain.NodeType) bool {
	return adjacency[t][parentContext]
}

// IsValidPlacement validates dropping dragged relative to target. For an
// inside drop the target is the new container; otherwise dragged becomes a
// sibling of target under parentContext.
func IsValidPlacement(dragged, target, parentContext domain.NodeType, pos domain.Position) bool {
	switch pos {
	case domain.Inside:
		return AcceptsChild(target, dragged)
	case domain.Above, domain.Below:
		return CanSitUnder(dragged, parentContext)
	default:
		return false
	}
}

// ContextTypeOf maps a parent context string ("root" or a node id) to the
// parent-context type used by the rule table.
func ContextTypeOf(parentContext string) (domain.NodeType, error) {
	t, ok, err := domain.ContextType(parentContext)
	if err != nil {
		return "", err
	}
	if !ok {
		return Root, nil
	}
	return t, nil
}

// AllowedParents lists the parent-context types t may sit under, in
// canonical order with Root first.
func AllowedParents(t domain.NodeType) []domain.NodeType {
	var out []domain.NodeType
	if adjacency[t][Root] {
		out = append(out, Root)
	}
	for _, p := range domain.NodeTypes {
		if adjacency[t][p] {
			out = append(out, p)
		}
	}
	return out
}

// AcceptedChildren lists the types a container accepts by an inside drop.
func AcceptedChildren(container domain.NodeType) []domain.NodeType {
	var out []domain.NodeType
	for _, c := range domain.NodeTypes {
		if containment[container][c] {
			out = append(out, c)
		}
	}
	return out
}

// StructuralChildren lists every type that may appear as a direct child of
// parent in a stored tree. It is the inverse of the adjacency table.
func StructuralChildren(parent domain.NodeType) []domain.NodeType {
	var out []domain.NodeType
	for _, c := range domain.NodeTypes {
		if adjacency[c][parent] {
			out = append(out, c)
		}
	}
	return out
}
