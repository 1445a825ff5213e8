package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/dretree/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)

	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
)

// TypeStyle returns the style used for a node type's label.
func TypeStyle(t domain.NodeType) lipgloss.Style {
	switch t {
	case domain.TypeGroup:
		return StyleHeader
	case domain.VirtualGroup:
		return StylePurple.Bold(true)
	case domain.CostCenter:
		return StyleBlue.Bold(true)
	case domain.Subgroup:
		return StyleYellow
	case domain.Account:
		return StyleFg
	case domain.AccountDetail:
		return StyleDim
	default:
		return StyleFg
	}
}

// TypeBadge returns a short dimmed tag such as "[cc]" for a node type.
func TypeBadge(t domain.NodeType) string {
	tag := strings.TrimSuffix(t.Prefix(), "_")
	if tag == "" {
		tag = "?"
	}
	return StyleDim.Render("[" + tag + "]")
}

// RankBadge renders "#rank", or a dim dash for unranked nodes.
func RankBadge(rank *int) string {
	if rank == nil {
		return StyleDim.Render("-")
	}
	return StyleGreen.Render(fmt.Sprintf("#%d", *rank))
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
