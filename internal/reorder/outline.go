package reorder

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/dretree/internal/domain"
	"github.com/charmbracelet/x/ansi"
)

// RootElementID identifies the top-level container of the outline.
const RootElementID = "dre-tree"

// Element is one entry of the outline document: the root container, a node
// row or the drop placeholder.
type Element struct {
	ID   string
	Node *domain.Node

	// Expanded controls whether children are rendered.
	Expanded bool
	// Suppressed marks the row being dragged; it stays in place until the drop.
	Suppressed bool
	// Highlight is set on the current drop target, empty otherwise.
	Highlight domain.Position

	parent      *Element
	children    []*Element
	placeholder bool
	handles     int
}

// Parent returns the containing element, nil for the root or a detached element.
func (e *Element) Parent() *Element { return e.parent }

// Children returns the child elements in document order.
func (e *Element) Children() []*Element { return e.children }

// IsRoot reports whether e is the outline's top-level container.
func (e *Element) IsRoot() bool { return e.ID == RootElementID }

// IsPlaceholder reports whether e is the drop placeholder.
func (e *Element) IsPlaceholder() bool { return e.placeholder }

// HandleCount returns how many drag handles are bound to the row.
func (e *Element) HandleCount() int { return e.handles }

// Type returns the node type, or "" for the root and the placeholder.
func (e *Element) Type() domain.NodeType {
	if e.Node == nil {
		return ""
	}
	return e.Node.Type
}

// Index returns the position of e among its siblings, or -1 when detached.
func (e *Element) Index() int {
	if e.parent == nil {
		return -1
	}
	for i, c := range e.parent.children {
		if c == e {
			return i
		}
	}
	return -1
}

// Attached reports whether e is currently part of a document.
func (e *Element) Attached() bool {
	return e.parent != nil
}

// Contains reports whether other is e or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	for x := other; x != nil; x = x.parent {
		if x == e {
			return true
		}
	}
	return false
}

// Label returns the text drawn for the row after the handle.
func (e *Element) Label(ordered bool) string {
	switch {
	case e.placeholder:
		return "drop here"
	case e.Node == nil:
		return ""
	case ordered && e.Node.Order != nil:
		return e.Node.Text + "  #" + strconv.Itoa(*e.Node.Order)
	default:
		return e.Node.Text
	}
}

// Row is a rendered element with its layout box.
type Row struct {
	El    *Element
	Depth int
	Rect  Rect
}

// Outline is the in-memory document the reorder engine works on: an ordered
// forest of node elements under a single root container, with expansion and
// scroll state.
type Outline struct {
	root      *Element
	byID      map[string]*Element
	geom      Geometry
	ordered   bool
	scrollY   float64
	viewportH float64
}

// NewOutline builds a document from a node forest. All containers start
// expanded. ordered controls whether rank badges are part of row labels.
func NewOutline(nodes []*domain.Node, geom Geometry, ordered bool) (*Outline, error) {
	o := &Outline{
		root:    &Element{ID: RootElementID, Expanded: true},
		byID:    make(map[string]*Element),
		geom:    geom,
		ordered: ordered,
	}
	if err := o.build(o.root, nodes); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Outline) build(parent *Element, nodes []*domain.Node) error {
	for _, n := range nodes {
		if _, dup := o.byID[n.ID]; dup {
			return fmt.Errorf("duplicate node id %s", n.ID)
		}
		t, _, err := domain.ParseNodeID(n.ID)
		if err != nil {
			return err
		}
		if n.Type == "" {
			n.Type = t
		} else if n.Type != t {
			return fmt.Errorf("node %s: type %s does not match id prefix", n.ID, n.Type)
		}
		el := &Element{ID: n.ID, Node: n, Expanded: true, parent: parent}
		parent.children = append(parent.children, el)
		o.byID[n.ID] = el
		if err := o.build(el, n.Children); err != nil {
			return err
		}
	}
	return nil
}

// Root returns the top-level container.
func (o *Outline) Root() *Element { return o.root }

// Geometry returns the layout parameters.
func (o *Outline) Geometry() Geometry { return o.geom }

// Ordered reports whether manual ordering is active for this tree.
func (o *Outline) Ordered() bool { return o.ordered }

// Element looks up a node element by id.
func (o *Outline) Element(id string) (*Element, bool) {
	el, ok := o.byID[id]
	return el, ok
}

// Len returns the number of node elements.
func (o *Outline) Len() int { return len(o.byID) }

// Rows lays out the visible elements in document order. Y coordinates are
// relative to the viewport top, so scrolled-away rows have negative Y.
func (o *Outline) Rows() []Row {
	var rows []Row
	y := -o.scrollY
	var walk func(parent *Element, depth int)
	walk = func(parent *Element, depth int) {
		for _, el := range parent.children {
			x := float64(depth) * o.geom.Indent
			w := o.geom.HandleWidth + o.geom.CharWidth*float64(ansi.StringWidth(el.Label(o.ordered)))
			rows = append(rows, Row{El: el, Depth: depth, Rect: Rect{X: x, Y: y, W: w, H: o.geom.RowHeight}})
			y += o.geom.RowHeight
			if el.Expanded {
				walk(el, depth+1)
			}
		}
	}
	walk(o.root, 0)
	return rows
}

// RowOf returns the layout row of el when it is visible.
func (o *Outline) RowOf(el *Element) (Row, bool) {
	for _, r := range o.Rows() {
		if r.El == el {
			return r, true
		}
	}
	return Row{}, false
}

// ContentHeight is the total height of all visible rows.
func (o *Outline) ContentHeight() float64 {
	n := 0
	var count func(parent *Element)
	count = func(parent *Element) {
		for _, el := range parent.children {
			n++
			if el.Expanded {
				count(el)
			}
		}
	}
	count(o.root)
	return float64(n) * o.geom.RowHeight
}

// SetViewportHeight sets the visible height and re-clamps the scroll offset.
func (o *Outline) SetViewportHeight(h float64) {
	o.viewportH = h
	o.ScrollBy(0)
}

// Viewport returns the visible area in layout units.
func (o *Outline) Viewport() Rect {
	return Rect{H: o.viewportH}
}

// ScrollY returns the current scroll offset.
func (o *Outline) ScrollY() float64 { return o.scrollY }

func (o *Outline) maxScroll() float64 {
	m := o.ContentHeight() - o.viewportH
	if m < 0 || o.viewportH <= 0 {
		return 0
	}
	return m
}

// ScrollBy moves the scroll offset by dy, clamped to the content, and returns
// the distance actually scrolled.
func (o *Outline) ScrollBy(dy float64) float64 {
	prev := o.scrollY
	next := prev + dy
	if m := o.maxScroll(); next > m {
		next = m
	}
	if next < 0 {
		next = 0
	}
	o.scrollY = next
	return next - prev
}

// CanScroll reports whether scrolling in the direction of dir would move.
func (o *Outline) CanScroll(dir float64) bool {
	switch {
	case dir < 0:
		return o.scrollY > 0
	case dir > 0:
		return o.scrollY < o.maxScroll()
	default:
		return false
	}
}

// Toggle flips the expansion of a node element and reports the new state.
func (o *Outline) Toggle(id string) (bool, error) {
	el, ok := o.byID[id]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownRow, id)
	}
	el.Expanded = !el.Expanded
	o.ScrollBy(0)
	return el.Expanded, nil
}

// Expansion returns the ids of collapsed elements, so a reloaded outline can
// keep the user's view.
func (o *Outline) Expansion() map[string]bool {
	out := make(map[string]bool)
	for id, el := range o.byID {
		if !el.Expanded {
			out[id] = false
		}
	}
	return out
}

// ApplyExpansion restores a state captured with Expansion.
func (o *Outline) ApplyExpansion(state map[string]bool) {
	for id, expanded := range state {
		if el, ok := o.byID[id]; ok {
			el.Expanded = expanded
		}
	}
	o.ScrollBy(0)
}

// SiblingIDs returns the ids of parent's children in document order,
// placeholder excluded.
func SiblingIDs(parent *Element) []string {
	var ids []string
	for _, c := range parent.children {
		if c.placeholder {
			continue
		}
		ids = append(ids, c.ID)
	}
	return ids
}

// Nodes returns the node forest in current document order with Children
// rebuilt from the document.
func (o *Outline) Nodes() []*domain.Node {
	var collect func(parent *Element) []*domain.Node
	collect = func(parent *Element) []*domain.Node {
		var out []*domain.Node
		for _, c := range parent.children {
			if c.placeholder {
				continue
			}
			c.Node.Children = collect(c)
			out = append(out, c.Node)
		}
		return out
	}
	return collect(o.root)
}

func newPlaceholder() *Element {
	return &Element{placeholder: true}
}

// insert attaches a detached element under parent at index.
func (o *Outline) insert(parent *Element, index int, el *Element) {
	if index < 0 {
		index = 0
	}
	if index > len(parent.children) {
		index = len(parent.children)
	}
	parent.children = append(parent.children, nil)
	copy(parent.children[index+1:], parent.children[index:])
	parent.children[index] = el
	el.parent = parent
}

// detach removes el from its parent. It is a no-op for detached elements.
func (o *Outline) detach(el *Element) {
	p := el.parent
	if p == nil {
		return
	}
	i := el.Index()
	p.children = append(p.children[:i], p.children[i+1:]...)
	el.parent = nil
}

// replace puts el where slot is and detaches slot. el is detached from its
// current parent first, so its final index is the slot's index among the
// siblings that remain once el is gone.
func (o *Outline) replace(slot, el *Element) {
	o.detach(el)
	p := slot.parent
	i := slot.Index()
	p.children[i] = el
	el.parent = p
	slot.parent = nil
}

// move re-parents el to parent at index (computed after el is detached).
func (o *Outline) move(el, parent *Element, index int) {
	o.detach(el)
	o.insert(parent, index, el)
}
