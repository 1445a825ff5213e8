package reorder

import (
	"fmt"
	"log/slog"

	"github.com/alexanderramin/dretree/internal/contract"
	"github.com/alexanderramin/dretree/internal/domain"
	"github.com/alexanderramin/dretree/internal/hierarchy"
)

// Session is the state of one drag gesture. It exists from BeginDrag until
// EndDrag and is owned by the Controller.
type Session struct {
	Source     *Element
	OrigParent *Element
	OrigIndex  int

	// Offset is the pointer position relative to the source row origin.
	Offset Point
	// Proxy is the top-left corner of the floating copy of the source row.
	Proxy   Point
	Pointer Point

	Placeholder *Element
	// Decision is the last validated drop, nil until the pointer has been
	// over a valid target.
	Decision *Decision
}

// Outcome describes how a gesture or move ended.
type Outcome struct {
	SourceID string
	Moved    bool
	Batch    *contract.ReorderBatch
}

// Controller runs drag sessions against an outline. It is not safe for
// concurrent use; callers drive it from a single event loop.
type Controller struct {
	outline   *Outline
	committer Committer
	timer     Timer
	opts      Options
	log       *slog.Logger

	session  *Session
	enabled  bool
	scroll   autoScroll
	timerSeq uint64
}

// NewController creates a controller for the outline. A nil timer disables
// auto-scroll.
func NewController(o *Outline, committer Committer, timer Timer, opts Options) *Controller {
	if timer == nil {
		timer = noopTimer{}
	}
	if committer == nil {
		committer = CommitFunc(func(contract.ReorderBatch) {})
	}
	return &Controller{
		outline:   o,
		committer: committer,
		timer:     timer,
		opts:      opts,
		log:       opts.logger(),
	}
}

// Outline returns the document the controller works on.
func (c *Controller) Outline() *Outline { return c.outline }

// SetOutline swaps the document after a reload. An active gesture is rolled
// back first.
func (c *Controller) SetOutline(o *Outline) {
	if c.session != nil {
		c.teardown(false)
	}
	c.outline = o
	c.enabled = false
}

// Active reports whether a drag session is in progress.
func (c *Controller) Active() bool { return c.session != nil }

// Session returns the active session, nil when idle.
func (c *Controller) Session() *Session { return c.session }

// EnableDragDrop scans the rendered rows and binds one drag handle to every
// draggable row that has none. It is safe to call after every re-render and
// returns the number of rows carrying a handle. During a session the triggers
// stay disabled and nothing is bound.
func (c *Controller) EnableDragDrop() int {
	if c.session != nil || !c.outline.Ordered() {
		return 0
	}
	bound := 0
	for _, r := range c.outline.Rows() {
		el := r.El
		if el.placeholder {
			continue
		}
		if !c.opts.draggable(el.Type()) {
			el.handles = 0
			continue
		}
		if el.handles == 0 {
			el.handles = 1
		}
		bound++
	}
	c.enabled = true
	return bound
}

// HandleAt returns the row whose drag handle lies under p.
func (c *Controller) HandleAt(p Point) (*Element, bool) {
	if !c.enabled || c.session != nil {
		return nil, false
	}
	hw := c.outline.Geometry().HandleWidth
	for _, r := range c.outline.Rows() {
		if r.El.handles == 0 {
			continue
		}
		box := Rect{X: r.Rect.X, Y: r.Rect.Y, W: hw, H: r.Rect.H}
		if box.Contains(p) {
			return r.El, true
		}
	}
	return nil, false
}

// RowAt returns the row under p, ignoring horizontal position.
func (c *Controller) RowAt(p Point) (Row, bool) {
	for _, r := range c.outline.Rows() {
		if p.Y >= r.Rect.Y && p.Y < r.Rect.Bottom() {
			return r, true
		}
	}
	return Row{}, false
}

// BeginDrag starts a gesture on the row id with the pointer at p.
func (c *Controller) BeginDrag(id string, p Point) error {
	if c.session != nil {
		return ErrSessionActive
	}
	el, ok := c.outline.Element(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRow, id)
	}
	if !c.enabled || el.handles == 0 {
		return fmt.Errorf("%w: %s", ErrNotDraggable, id)
	}
	row, ok := c.outline.RowOf(el)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotRendered, id)
	}

	s := &Session{
		Source:      el,
		OrigParent:  el.parent,
		OrigIndex:   el.Index(),
		Offset:      p.Sub(row.Rect.Origin()),
		Proxy:       row.Rect.Origin(),
		Pointer:     p,
		Placeholder: newPlaceholder(),
	}
	c.outline.insert(el.parent, s.OrigIndex+1, s.Placeholder)
	el.Suppressed = true
	c.enabled = false
	c.session = s

	c.log.Debug("drag_begin", "source", id, "parent", ParentContext(s.OrigParent), "index", s.OrigIndex)
	return nil
}

// PointerMove follows the pointer during a gesture: it moves the proxy,
// re-evaluates auto-scroll and recomputes the drop target. It does nothing
// when idle.
func (c *Controller) PointerMove(p Point) {
	s := c.session
	if s == nil {
		return
	}
	s.Pointer = p
	s.Proxy = p.Sub(s.Offset)
	c.stopAutoScroll()
	c.evaluateAutoScroll(p)
	c.resolve(p)
}

// resolve recomputes the drop decision and applies it to the document.
func (c *Controller) resolve(p Point) {
	s := c.session
	c.clearHighlight()
	d, found := Resolve(c.outline.Rows(), s.Source, p, c.opts)
	if !found || !d.Valid {
		return
	}
	d.Target.Highlight = d.Position
	c.placePlaceholder(d)
	s.Decision = &d
}

func (c *Controller) clearHighlight() {
	if s := c.session; s != nil && s.Decision != nil {
		s.Decision.Target.Highlight = ""
	}
	for _, r := range c.outline.Rows() {
		r.El.Highlight = ""
	}
}

func (c *Controller) placePlaceholder(d Decision) {
	ph := c.session.Placeholder
	c.outline.detach(ph)
	switch d.Position {
	case domain.Inside:
		d.Target.Expanded = true
		c.outline.insert(d.Target, 0, ph)
	case domain.Above:
		c.outline.insert(d.Target.parent, d.Target.Index(), ph)
	case domain.Below:
		c.outline.insert(d.Target.parent, d.Target.Index()+1, ph)
	}
}

// EndDrag finishes the gesture. With a validated drop pending the source
// takes the placeholder's slot and the new sibling order is handed to the
// committer; otherwise the document is left as it was before BeginDrag.
func (c *Controller) EndDrag(p Point) Outcome {
	if c.session == nil {
		return Outcome{}
	}
	c.session.Pointer = p
	return c.teardown(true)
}

// Cancel ends the gesture without moving anything.
func (c *Controller) Cancel() Outcome {
	if c.session == nil {
		return Outcome{}
	}
	return c.teardown(false)
}

// teardown is the single exit path of a session. It releases the timer, the
// proxy, the highlight and the placeholder on every path.
func (c *Controller) teardown(drop bool) Outcome {
	s := c.session
	c.stopAutoScroll()
	c.clearHighlight()

	out := Outcome{SourceID: s.Source.ID}
	if drop && s.Decision != nil && s.Placeholder.Attached() {
		parent := s.Placeholder.parent
		c.outline.replace(s.Placeholder, s.Source)
		batch := BuildBatch(parent)
		applyRanks(parent, batch)
		out.Moved = true
		out.Batch = &batch
	} else {
		c.outline.detach(s.Placeholder)
	}
	s.Source.Suppressed = false

	c.session = nil
	c.enabled = true

	if out.Batch != nil {
		c.log.Info("drag_drop", "source", out.SourceID, "parent", out.Batch.ParentContext,
			"siblings", len(out.Batch.OrderedList))
		c.committer.Commit(*out.Batch)
	} else {
		c.log.Debug("drag_rollback", "source", out.SourceID)
	}
	return out
}

// Nudge moves a row delta places among its siblings and commits the new
// order. Moving past either end clamps; a move that changes nothing is not
// committed.
func (c *Controller) Nudge(id string, delta int) (Outcome, error) {
	el, err := c.movable(id)
	if err != nil {
		return Outcome{}, err
	}
	parent := el.parent
	from := el.Index()
	to := from + delta
	if to < 0 {
		to = 0
	}
	if last := len(parent.children) - 1; to > last {
		to = last
	}
	if to == from {
		return Outcome{SourceID: id}, nil
	}
	c.outline.move(el, parent, to)
	return c.commitMove(el, parent), nil
}

// MoveTo re-parents a row under the parent context at index and commits the
// new order of that context. The move must satisfy the adjacency rules.
func (c *Controller) MoveTo(id, parentContext string, index int) (Outcome, error) {
	el, err := c.movable(id)
	if err != nil {
		return Outcome{}, err
	}
	parent := c.outline.root
	if parentContext != domain.RootContext {
		p, ok := c.outline.Element(parentContext)
		if !ok {
			return Outcome{}, fmt.Errorf("%w: %s", ErrUnknownRow, parentContext)
		}
		parent = p
	}
	if el.Contains(parent) {
		return Outcome{}, fmt.Errorf("%w: %s cannot move under itself", ErrInvalidPlacement, id)
	}
	if !hierarchy.CanSitUnder(el.Type(), contextTypeOf(parent)) {
		return Outcome{}, fmt.Errorf("%w: %s under %s", ErrInvalidPlacement, el.Type(), ParentContext(parent))
	}
	c.outline.move(el, parent, index)
	return c.commitMove(el, parent), nil
}

func (c *Controller) movable(id string) (*Element, error) {
	if c.session != nil {
		return nil, ErrSessionActive
	}
	el, ok := c.outline.Element(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRow, id)
	}
	if !c.outline.Ordered() || !c.opts.draggable(el.Type()) {
		return nil, fmt.Errorf("%w: %s", ErrNotDraggable, id)
	}
	return el, nil
}

func (c *Controller) commitMove(el, parent *Element) Outcome {
	batch := BuildBatch(parent)
	applyRanks(parent, batch)
	c.log.Info("manual_move", "source", el.ID, "parent", batch.ParentContext, "index", el.Index())
	c.committer.Commit(batch)
	return Outcome{SourceID: el.ID, Moved: true, Batch: &batch}
}
