package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/dretree/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// TreeItem represents a single node in a tree display.
type TreeItem struct {
	Title  string
	Type   domain.NodeType
	Rank   *int // nil hides the rank badge
	Level  int
	IsLast bool
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "
)

// TreeItems flattens a node forest into display items in sibling order.
// withRanks controls whether rank badges are shown.
func TreeItems(forest []*domain.Node, withRanks bool) []TreeItem {
	var items []TreeItem
	var walk func(nodes []*domain.Node, level int)
	walk = func(nodes []*domain.Node, level int) {
		for i, n := range nodes {
			item := TreeItem{
				Title:  n.Text,
				Type:   n.Type,
				Level:  level,
				IsLast: i == len(nodes)-1,
				Detail: n.ID,
			}
			if withRanks {
				item.Rank = n.Order
			}
			items = append(items, item)
			walk(n.Children, level+1)
		}
	}
	walk(forest, 0)
	return items
}

// RenderTree renders a list of TreeItems as an indented tree using
// box-drawing characters for connectors. Titles are styled by node type and
// detail badges are right-aligned.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	type lineInfo struct {
		content string
		badge   string
	}

	lines := make([]lineInfo, len(items))
	maxContentWidth := 0

	// open[l] is true while the ancestor at level l still has siblings below.
	var open []bool

	// Pass 1: build each line's content and track max visible width.
	for idx, item := range items {
		if len(open) > item.Level {
			open = open[:item.Level]
		}
		var prefix string
		if item.Level > 0 {
			for i := 1; i < item.Level; i++ {
				if i < len(open) && open[i] {
					prefix += treePipe
				} else {
					prefix += treeBlank
				}
			}
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}
		for len(open) <= item.Level {
			open = append(open, false)
		}
		open[item.Level] = !item.IsLast

		title := TypeStyle(item.Type).Render(item.Title)
		if item.Rank != nil {
			title = RankBadge(item.Rank) + " " + title
		}
		content := prefix + title
		lines[idx].content = content

		if item.Detail != "" {
			lines[idx].badge = StyleBlue.Render(fmt.Sprintf("[ %s ]", item.Detail))
		}

		if w := lipgloss.Width(content); w > maxContentWidth {
			maxContentWidth = w
		}
	}

	// Pass 2: render with right-aligned badges.
	var b strings.Builder
	for _, li := range lines {
		if li.badge != "" {
			pad := max(maxContentWidth-lipgloss.Width(li.content), 0)
			b.WriteString(li.content + strings.Repeat(" ", pad) + "  " + li.badge + "\n")
		} else {
			b.WriteString(li.content + "\n")
		}
	}

	return b.String()
}
