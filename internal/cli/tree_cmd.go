package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/dretree/internal/cli/formatter"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var errNoBackend = errors.New("no ordering backend configured")

func newTreeCmd(app *App) *cobra.Command {
	var static bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Open the tree console",
		Long: `Open the interactive tree console. Drag a row by its handle to reorder
it among its siblings or move it under another container; J/K nudge the
selected row. Without a terminal, or with --static, the tree is printed once.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if static {
				return printTree(cmd, app)
			}
			return runTree(cmd, app)
		},
	}
	cmd.Flags().BoolVar(&static, "static", false, "Print the tree instead of opening the console")
	return cmd
}

func runTree(cmd *cobra.Command, app *App) error {
	if app.Backend == nil {
		return errNoBackend
	}
	if !app.interactive() && app.RunTUI == nil {
		return printTree(cmd, app)
	}

	m := newTreeModel(app.Backend, TreeOptions{
		RowLines: app.Config.RowLines,
		Timeout:  app.Config.APITimeout(),
		Logger:   app.Logger,
	})
	run := app.RunTUI
	if run == nil {
		run = runTeaProgram
	}
	return run(m)
}

func runTeaProgram(m *treeModel) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

// printTree writes the current tree with rank badges when ordering is active.
func printTree(cmd *cobra.Command, app *App) error {
	if app.Backend == nil {
		return errNoBackend
	}
	ctx := commandContext(cmd)
	nodes, ordered, err := loadForest(ctx, app.Backend)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(nodes) == 0 {
		fmt.Fprintln(out, formatter.Dim("The tree is empty."))
		return nil
	}
	if !ordered {
		fmt.Fprintln(out, formatter.RenderBox("", formatter.StyleYellow.Render("Ordering is not active: showing text order.")+
			"\n"+formatter.Dim("Run `dretree order normalize` to assign ranks.")))
	}
	fmt.Fprint(out, formatter.RenderTree(formatter.TreeItems(nodes, ordered)))
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
