package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/dretree/internal/cli/formatter"
	"github.com/alexanderramin/dretree/internal/domain"
	"github.com/alexanderramin/dretree/internal/reorder"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	cursorMarker    = "▸ "
	dragHandle      = "⠿ "
	noHandle        = "  "
	placeholderText = "┄┄ drop here ┄┄"
)

var (
	styleDropBar    = lipgloss.NewStyle().Foreground(formatter.ColorYellow)
	styleDropInside = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(lipgloss.Color("#504945")).Bold(true)
	styleProxy      = lipgloss.NewStyle().Foreground(formatter.ColorYellow).Bold(true)
	styleHandle     = lipgloss.NewStyle().Foreground(formatter.ColorDim)
)

func (m *treeModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	switch {
	case m.showHistory:
		b.WriteString(m.history.View())
	case m.err != nil:
		b.WriteString(m.padBody(formatter.StyleRed.Render("Could not load tree: "+m.err.Error()) +
			"\n" + formatter.Dim("press r to retry")))
	case m.loading && m.ctrl.Outline().Len() == 0:
		b.WriteString(m.padBody(formatter.Dim("Loading…")))
	default:
		b.WriteString(strings.Join(m.renderRows(), "\n"))
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *treeModel) renderHeader() string {
	title := formatter.StyleHeader.Render("DRE TREE")
	if m.showHistory {
		title = formatter.StyleHeader.Render("ORDER HISTORY")
	}
	badge := formatter.StyleGreen.Render("ordered")
	if !m.ordered {
		badge = formatter.StyleYellow.Render("ordering inactive")
	}
	status := ""
	if s := m.ctrl.Session(); s != nil {
		status = "  " + formatter.Dim("dragging ") + s.Source.Label(false)
		if d := s.Decision; d != nil {
			status += formatter.Dim(fmt.Sprintf(" %s ", d.Position)) + d.Target.Label(false)
		}
	}
	line := title + "  " + badge + status
	return ansi.Truncate(line, m.width, "…") + "\n" + formatter.Dim(strings.Repeat("─", m.width))
}

func (m *treeModel) renderFooter() string {
	var hints string
	if m.showHistory {
		hints = formatter.Dim("↑/↓ scroll • esc close")
	} else {
		hints = m.help.View(m.keys)
	}
	toastLine := ""
	if m.toast.text != "" {
		style := formatter.StyleGreen
		if m.toast.isErr {
			style = formatter.StyleRed
		}
		toastLine = ansi.Truncate(style.Render(m.toast.text), m.width, "…")
	}
	return formatter.Dim(strings.Repeat("─", m.width)) + "\n" + hints + "\n" + toastLine
}

// padBody fills the tree area so the footer stays at the bottom.
func (m *treeModel) padBody(s string) string {
	lines := strings.Split(s, "\n")
	for len(lines) < m.viewportLines() {
		lines = append(lines, "")
	}
	return strings.Join(lines[:m.viewportLines()], "\n")
}

// renderRows draws the visible part of the outline. Every row spans RowLines
// terminal lines: the label sits on the middle line, the first and last lines
// carry the above and below drop bars.
func (m *treeModel) renderRows() []string {
	n := m.viewportLines()
	lines := make([]string, n)
	rowLines := m.opts.RowLines
	mid := rowLines / 2
	ordered := m.ctrl.Outline().Ordered()

	for _, r := range m.ctrl.Outline().Rows() {
		top := int(r.Rect.Y / cellHeight)
		if top+rowLines <= 0 || top >= n {
			continue
		}
		indent := leftMargin + r.Depth*int(m.opts.geometry().Indent/cellWidth)
		for k := 0; k < rowLines; k++ {
			y := top + k
			if y < 0 || y >= n {
				continue
			}
			switch {
			case k == mid:
				lines[y] = m.renderRow(r, ordered)
			case k == 0 && r.El.Highlight == domain.Above,
				k == rowLines-1 && r.El.Highlight == domain.Below:
				lines[y] = strings.Repeat(" ", indent) + styleDropBar.Render(strings.Repeat("━", max(m.width-indent-2, 4)))
			}
		}
	}

	if s := m.ctrl.Session(); s != nil {
		m.overlayProxy(lines, s)
	}
	for i := range lines {
		lines[i] = ansi.Truncate(lines[i], m.width, "")
	}
	return lines
}

func (m *treeModel) renderRow(r reorder.Row, ordered bool) string {
	el := r.El
	var b strings.Builder
	if el.ID == m.cursorID && !m.ctrl.Active() {
		b.WriteString(formatter.StyleHeader.Render(cursorMarker))
	} else {
		b.WriteString("  ")
	}
	b.WriteString(strings.Repeat(" ", r.Depth*int(m.opts.geometry().Indent/cellWidth)))

	if el.IsPlaceholder() {
		b.WriteString(styleDropBar.Render(placeholderText))
		return b.String()
	}

	if el.HandleCount() > 0 {
		b.WriteString(styleHandle.Render(dragHandle))
	} else {
		b.WriteString(noHandle)
	}

	label := el.Label(ordered)
	switch {
	case el.Suppressed:
		b.WriteString(formatter.StyleDim.Render(label))
	case el.Highlight == domain.Inside:
		b.WriteString(styleDropInside.Render(label))
	default:
		b.WriteString(formatter.TypeStyle(el.Type()).Render(label))
	}
	b.WriteString(" ")
	b.WriteString(formatter.TypeBadge(el.Type()))
	if len(el.Children()) > 0 && !el.Expanded {
		b.WriteString(formatter.Dim(fmt.Sprintf(" (+%d)", len(el.Children()))))
	}
	return b.String()
}

// overlayProxy draws the floating copy of the dragged row at the proxy
// position, on top of whatever the rows rendered there.
func (m *treeModel) overlayProxy(lines []string, s *reorder.Session) {
	y := int(s.Proxy.Y/cellHeight) + m.opts.RowLines/2
	if y < 0 || y >= len(lines) {
		return
	}
	x := max(leftMargin+int(s.Proxy.X/cellWidth), 0)
	proxy := styleProxy.Render(dragHandle + s.Source.Label(m.ctrl.Outline().Ordered()))
	w := ansi.StringWidth(proxy)

	line := lines[y]
	if pad := x - ansi.StringWidth(line); pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	left := ansi.Truncate(line, x, "")
	right := ansi.TruncateLeft(line, x+w, "")
	lines[y] = left + proxy + right
}

func renderHistory(entries []*domain.OrderLogEntry, now time.Time) string {
	if len(entries) == 0 {
		return formatter.Dim("No reorders recorded yet.")
	}
	t := formatter.Table{
		Headers:    []string{"WHEN", "CONTEXT", "ITEMS", "REQUEST"},
		RightAlign: map[int]bool{2: true},
	}
	for _, e := range entries {
		t.Rows = append(t.Rows, []string{
			formatter.HumanTimestamp(e.AppliedAt, now),
			e.ParentContext,
			fmt.Sprintf("%d", e.ItemCount),
			formatter.TruncID(e.RequestID),
		})
	}
	return t.Render()
}
