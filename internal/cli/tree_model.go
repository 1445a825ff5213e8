package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/dretree/internal/cli/formatter"
	"github.com/alexanderramin/dretree/internal/contract"
	"github.com/alexanderramin/dretree/internal/domain"
	"github.com/alexanderramin/dretree/internal/reorder"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// One terminal cell in layout units. The reorder engine thinks in a
// pixel-like space; the console maps cells onto it.
const (
	cellWidth  = 10.0
	cellHeight = 16.0
)

const (
	headerLines = 2 // title + separator
	footerLines = 3 // separator + key hints + toast
	leftMargin  = 2 // cursor marker
	wheelLines  = 3
	toastTTL    = 4 * time.Second
)

// TreeOptions configures the tree console.
type TreeOptions struct {
	// RowLines is the terminal height of one row. Three lines give every row
	// distinct above, inside and below zones.
	RowLines int
	Timeout  time.Duration
	Logger   *slog.Logger
	Reorder  reorder.Options
}

func (o TreeOptions) withDefaults() TreeOptions {
	if o.RowLines <= 0 {
		o.RowLines = 3
	}
	if o.Timeout <= 0 {
		o.Timeout = 5 * time.Second
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if o.Reorder.SnapDistance == 0 {
		o.Reorder = reorder.DefaultOptions()
	}
	o.Reorder.Logger = o.Logger
	return o
}

// geometry lays rows out on the terminal grid.
func (o TreeOptions) geometry() reorder.Geometry {
	return reorder.Geometry{
		RowHeight:   cellHeight * float64(o.RowLines),
		Indent:      2 * cellWidth,
		CharWidth:   cellWidth,
		HandleWidth: 2 * cellWidth,
	}
}

type treeLoadedMsg struct {
	nodes   []*domain.Node
	ordered bool
	err     error
}

type commitResultMsg struct {
	batch contract.ReorderBatch
	err   error
}

type normalizedMsg struct {
	res contract.NormalizeResponse
	err error
}

type historyLoadedMsg struct {
	entries []*domain.OrderLogEntry
	err     error
}

type autoScrollTickMsg struct{ id uint64 }

type toastExpiredMsg struct{ seq int }

type toast struct {
	text  string
	isErr bool
	seq   int
}

// teaTimer adapts reorder.Timer to bubbletea: Start records a pending tick
// that the model turns into a tea.Tick after the current Update.
type teaTimer struct {
	armed   uint64
	every   time.Duration
	pending bool
}

func (t *teaTimer) Start(id uint64, every time.Duration) {
	t.armed, t.every, t.pending = id, every, true
}

func (t *teaTimer) Stop(id uint64) {
	if t.armed == id {
		t.armed, t.pending = 0, false
	}
}

func (t *teaTimer) tick(id uint64) tea.Cmd {
	return tea.Tick(t.every, func(time.Time) tea.Msg { return autoScrollTickMsg{id: id} })
}

func (t *teaTimer) take() tea.Cmd {
	if !t.pending {
		return nil
	}
	t.pending = false
	return t.tick(t.armed)
}

// treeModel is the bubbletea model of the tree console. Mouse gestures drive
// the reorder controller; commits run as commands and report back as toasts.
type treeModel struct {
	backend Backend
	opts    TreeOptions
	log     *slog.Logger

	ctrl    *reorder.Controller
	timer   *teaTimer
	pending []contract.ReorderBatch

	keys    treeKeyMap
	help    help.Model
	history viewport.Model

	width, height int
	cursorID      string
	ordered       bool
	loading       bool
	err           error
	toast         toast
	showHistory   bool
	quitting      bool
}

func newTreeModel(backend Backend, opts TreeOptions) *treeModel {
	opts = opts.withDefaults()
	m := &treeModel{
		backend: backend,
		opts:    opts,
		log:     opts.Logger,
		timer:   &teaTimer{},
		keys:    defaultTreeKeys(),
		help:    help.New(),
		history: viewport.New(80, 19),
		width:   80,
		height:  24,
		loading: true,
	}
	empty, _ := reorder.NewOutline(nil, opts.geometry(), false)
	m.ctrl = reorder.NewController(empty, reorder.CommitFunc(m.enqueueCommit), m.timer, opts.Reorder)
	return m
}

func (m *treeModel) enqueueCommit(batch contract.ReorderBatch) {
	m.pending = append(m.pending, batch)
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m *treeModel) Init() tea.Cmd {
	return m.load()
}

func (m *treeModel) load() tea.Cmd {
	b, timeout := m.backend, m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		nodes, ordered, err := loadForest(ctx, b)
		return treeLoadedMsg{nodes: nodes, ordered: ordered, err: err}
	}
}

func (m *treeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	cmds := []tea.Cmd{cmd, m.timer.take()}
	for _, b := range m.pending {
		cmds = append(cmds, m.commit(b))
	}
	m.pending = nil
	m.ctrl.EnableDragDrop()
	return m, tea.Batch(cmds...)
}

func (m *treeModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.history.Width = msg.Width
		m.history.Height = m.viewportLines()
		m.ctrl.Outline().SetViewportHeight(float64(m.viewportLines()) * cellHeight)
		return nil

	case treeLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return nil
		}
		m.err = nil
		return m.applyTree(msg.nodes, msg.ordered)

	case commitResultMsg:
		if msg.err != nil {
			m.log.Warn("commit_failed", "parent", msg.batch.ParentContext, "error", msg.err)
			return m.notify(fmt.Sprintf("Order of %s not saved: %v", msg.batch.ParentContext, msg.err), true)
		}
		return m.notify(fmt.Sprintf("Saved order of %s (%s)", msg.batch.ParentContext,
			formatter.Plural(len(msg.batch.OrderedList), "item")), false)

	case normalizedMsg:
		if msg.err != nil {
			return m.notify("Normalize failed: "+msg.err.Error(), true)
		}
		m.loading = true
		return tea.Batch(
			m.notify(fmt.Sprintf("Renumbered %s in %s", formatter.Plural(msg.res.Nodes, "node"),
				formatter.Plural(msg.res.Contexts, "context")), false),
			m.load(),
		)

	case historyLoadedMsg:
		if msg.err != nil {
			return m.notify("History unavailable: "+msg.err.Error(), true)
		}
		m.history.SetContent(renderHistory(msg.entries, time.Now()))
		m.history.GotoTop()
		m.showHistory = true
		return nil

	case autoScrollTickMsg:
		if m.ctrl.AutoScrollTick(msg.id) {
			return m.timer.tick(msg.id)
		}
		return nil

	case toastExpiredMsg:
		if msg.seq == m.toast.seq {
			m.toast.text = ""
		}
		return nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return nil
}

// applyTree swaps in a freshly loaded tree, keeping collapsed containers and
// the selection.
func (m *treeModel) applyTree(nodes []*domain.Node, ordered bool) tea.Cmd {
	o, err := reorder.NewOutline(nodes, m.opts.geometry(), ordered)
	if err != nil {
		m.err = err
		return nil
	}
	o.ApplyExpansion(m.ctrl.Outline().Expansion())
	o.SetViewportHeight(float64(m.viewportLines()) * cellHeight)
	m.ctrl.SetOutline(o)
	m.ordered = ordered
	if _, ok := o.Element(m.cursorID); !ok {
		m.cursorID = ""
		if rows := o.Rows(); len(rows) > 0 {
			m.cursorID = rows[0].El.ID
		}
	}
	return nil
}

func (m *treeModel) commit(batch contract.ReorderBatch) tea.Cmd {
	b, timeout := m.backend, m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return commitResultMsg{batch: batch, err: b.ReorderBatch(ctx, batch)}
	}
}

func (m *treeModel) normalize() tea.Cmd {
	b, timeout := m.backend, m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		res, err := b.Normalize(ctx, "")
		return normalizedMsg{res: res, err: err}
	}
}

func (m *treeModel) loadHistory() tea.Cmd {
	b, timeout := m.backend, m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		entries, err := b.History(ctx, 50)
		return historyLoadedMsg{entries: entries, err: err}
	}
}

func (m *treeModel) notify(text string, isErr bool) tea.Cmd {
	m.toast = toast{text: text, isErr: isErr, seq: m.toast.seq + 1}
	seq := m.toast.seq
	return tea.Tick(toastTTL, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} })
}

// ── input ────────────────────────────────────────────────────────────────────

// toPoint maps a terminal cell to the centre of that cell in layout units.
func (m *treeModel) toPoint(x, y int) reorder.Point {
	return reorder.Point{
		X: float64(x-leftMargin)*cellWidth + cellWidth/2,
		Y: float64(y-headerLines)*cellHeight + cellHeight/2,
	}
}

func (m *treeModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.showHistory {
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return cmd
	}
	p := m.toPoint(msg.X, msg.Y)

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.scroll(-wheelLines)
		return nil
	case msg.Button == tea.MouseButtonWheelDown:
		m.scroll(wheelLines)
		return nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		if el, ok := m.ctrl.HandleAt(p); ok {
			if err := m.ctrl.BeginDrag(el.ID, p); err != nil {
				m.log.Debug("drag_refused", "row", el.ID, "error", err)
				return nil
			}
			m.cursorID = el.ID
			return nil
		}
		if row, ok := m.ctrl.RowAt(p); ok && !row.El.IsPlaceholder() {
			m.cursorID = row.El.ID
		}

	case tea.MouseActionMotion:
		m.ctrl.PointerMove(p)

	case tea.MouseActionRelease:
		if !m.ctrl.Active() {
			return nil
		}
		if out := m.ctrl.EndDrag(p); out.Moved {
			m.cursorID = out.SourceID
		}
	}
	return nil
}

// scroll moves the view by lines and re-targets an active drag.
func (m *treeModel) scroll(lines int) {
	m.ctrl.Outline().ScrollBy(float64(lines) * cellHeight)
	if s := m.ctrl.Session(); s != nil {
		m.ctrl.PointerMove(s.Pointer)
	}
}

func (m *treeModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.showHistory {
		switch {
		case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.History), key.Matches(msg, m.keys.Quit):
			m.showHistory = false
			return nil
		}
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.ctrl.Cancel()
		m.quitting = true
		return tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		m.ctrl.Cancel()
		return nil
	}

	if m.ctrl.Active() || m.loading {
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.scroll(-m.viewportLines())
	case key.Matches(msg, m.keys.PageDown):
		m.scroll(m.viewportLines())
	case key.Matches(msg, m.keys.Toggle):
		if m.cursorID != "" {
			_, _ = m.ctrl.Outline().Toggle(m.cursorID)
		}
	case key.Matches(msg, m.keys.NudgeUp):
		return m.nudge(-1)
	case key.Matches(msg, m.keys.NudgeDown):
		return m.nudge(1)
	case key.Matches(msg, m.keys.Normalize):
		return m.normalize()
	case key.Matches(msg, m.keys.Reload):
		m.loading = true
		return m.load()
	case key.Matches(msg, m.keys.History):
		return m.loadHistory()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

func (m *treeModel) nudge(delta int) tea.Cmd {
	if m.cursorID == "" {
		return nil
	}
	if !m.ordered {
		return m.notify("Ordering is not active yet: press n to normalize ranks", true)
	}
	if _, err := m.ctrl.Nudge(m.cursorID, delta); err != nil {
		if errors.Is(err, reorder.ErrNotDraggable) {
			return m.notify("This row cannot be moved", true)
		}
		return m.notify(err.Error(), true)
	}
	m.ensureVisible()
	return nil
}

func (m *treeModel) moveCursor(delta int) {
	rows := m.ctrl.Outline().Rows()
	if len(rows) == 0 {
		return
	}
	idx := 0
	for i, r := range rows {
		if r.El.ID == m.cursorID {
			idx = i
			break
		}
	}
	idx = min(max(idx+delta, 0), len(rows)-1)
	m.cursorID = rows[idx].El.ID
	m.ensureVisible()
}

// ensureVisible scrolls so the selected row is fully inside the viewport.
func (m *treeModel) ensureVisible() {
	o := m.ctrl.Outline()
	el, ok := o.Element(m.cursorID)
	if !ok {
		return
	}
	row, ok := o.RowOf(el)
	if !ok {
		return
	}
	vp := o.Viewport()
	switch {
	case row.Rect.Y < 0:
		o.ScrollBy(row.Rect.Y)
	case row.Rect.Bottom() > vp.H:
		o.ScrollBy(row.Rect.Bottom() - vp.H)
	}
}

func (m *treeModel) viewportLines() int {
	return max(m.height-headerLines-footerLines, 1)
}
