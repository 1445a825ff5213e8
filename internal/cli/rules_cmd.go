package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/dretree/internal/cli/formatter"
	"github.com/alexanderramin/dretree/internal/domain"
	"github.com/alexanderramin/dretree/internal/hierarchy"
	"github.com/spf13/cobra"
)

func newRulesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Show where each node type may be placed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.Header("Placement rules"))
			fmt.Fprint(out, rulesTable())
			return nil
		},
	}
}

func rulesTable() string {
	var rows [][]string
	for _, nt := range domain.NodeTypes {
		rows = append(rows, []string{
			formatter.TypeStyle(nt).Render(nt.Label()),
			nt.Prefix(),
			typeList(hierarchy.AllowedParents(nt)),
			typeList(hierarchy.AcceptedChildren(nt)),
		})
	}
	return formatter.RenderTable([]string{"TYPE", "PREFIX", "SITS UNDER", "ACCEPTS INSIDE"}, rows)
}

func typeList(types []domain.NodeType) string {
	if len(types) == 0 {
		return "-"
	}
	labels := make([]string, len(types))
	for i, t := range types {
		if t == hierarchy.Root {
			labels[i] = "root"
			continue
		}
		labels[i] = t.Label()
	}
	return strings.Join(labels, ", ")
}
