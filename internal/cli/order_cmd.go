package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/dretree/internal/cli/formatter"
	"github.com/alexanderramin/dretree/internal/contract"
	"github.com/alexanderramin/dretree/internal/domain"
	"github.com/alexanderramin/dretree/internal/reorder"
	"github.com/spf13/cobra"
)

var errOrderingInactive = errors.New("ordering is not active; run `dretree order normalize` first")

func newOrderCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Inspect and change sibling order",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if p := cmd.Root(); p.PersistentPreRunE != nil {
				if err := p.PersistentPreRunE(cmd, args); err != nil {
					return err
				}
			}
			if app.Backend == nil {
				return errNoBackend
			}
			return nil
		},
	}

	cmd.AddCommand(
		newOrderShowCmd(app),
		newOrderMoveCmd(app),
		newOrderNormalizeCmd(app),
		newOrderHistoryCmd(app),
	)
	return cmd
}

func newOrderShowCmd(app *App) *cobra.Command {
	var parent contextFlag

	cmd := &cobra.Command{
		Use:   "show",
		Short: "List the ranked children of a parent context",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			nodes, err := app.Backend.GetOrderedChildren(commandContext(cmd), string(parent))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(nodes) == 0 {
				fmt.Fprintln(out, formatter.Dim(fmt.Sprintf("No ranked children under %s.", parent)))
				return nil
			}
			fmt.Fprint(out, siblingTable(nodes))
			return nil
		},
	}
	contextVar(cmd.Flags(), &parent, "parent", domain.RootContext, "Parent context (\"root\" or a node id)")
	return cmd
}

func siblingTable(nodes []*domain.Node) string {
	t := formatter.Table{
		Headers:    []string{"RANK", "ID", "TYPE", "TEXT"},
		RightAlign: map[int]bool{0: true},
	}
	for _, n := range nodes {
		t.Rows = append(t.Rows, []string{formatter.RankBadge(n.Order), n.ID, n.Type.Label(), formatter.TypeStyle(n.Type).Render(n.Text)})
	}
	return t.Render()
}

func newOrderMoveCmd(app *App) *cobra.Command {
	var (
		to    contextFlag
		index int
		by    int
	)

	cmd := &cobra.Command{
		Use:   "move <node-id>",
		Short: "Move a node to a position under a parent context",
		Long: `Move a node to --index under --to, or shift it --by places among its
current siblings. The new order of the affected context is sent as one batch.`,
		Example: `  dretree order move conta_502 --to sg_1 --index 0
  dretree order move sg_2 --by -1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			nodes, ordered, err := loadForest(ctx, app.Backend)
			if err != nil {
				return err
			}
			if !ordered {
				return errOrderingInactive
			}
			outline, err := reorder.NewOutline(nodes, reorder.DefaultGeometry(), true)
			if err != nil {
				return err
			}

			var batch *contract.ReorderBatch
			ctrl := reorder.NewController(outline, reorder.CommitFunc(func(b contract.ReorderBatch) {
				batch = &b
			}), nil, reorder.Options{Logger: app.Logger})

			id := args[0]
			if cmd.Flags().Changed("by") {
				_, err = ctrl.Nudge(id, by)
			} else {
				_, err = ctrl.MoveTo(id, string(to), index)
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if batch == nil {
				fmt.Fprintln(out, formatter.Dim("Nothing to change."))
				return nil
			}
			if err := app.Backend.ReorderBatch(ctx, *batch); err != nil {
				return err
			}

			siblings, err := app.Backend.GetOrderedChildren(ctx, batch.ParentContext)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s Saved order of %s\n", formatter.StyleGreen.Render("✔"), formatter.Bold(batch.ParentContext))
			fmt.Fprint(out, siblingTable(siblings))
			return nil
		},
	}
	contextVar(cmd.Flags(), &to, "to", domain.RootContext, "Target parent context (\"root\" or a node id)")
	cmd.Flags().IntVar(&index, "index", 0, "Zero-based position among the target's children")
	cmd.Flags().IntVar(&by, "by", 0, "Shift among current siblings (negative moves up)")
	cmd.MarkFlagsMutuallyExclusive("by", "to")
	cmd.MarkFlagsMutuallyExclusive("by", "index")
	return cmd
}

func newOrderNormalizeCmd(app *App) *cobra.Command {
	var (
		parent contextFlag
		yes    bool
	)

	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Renumber ranks to consecutive multiples of 10",
		Long: `Renumber the ranks of one parent context, or of every context when
--parent is omitted. Running it on a store without ranks activates ordering.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				if !app.interactive() {
					return fmt.Errorf("normalize rewrites stored ranks; pass --yes to confirm")
				}
				scope := "every parent context"
				if parent != "" {
					scope = string(parent)
				}
				confirmed := false
				form := confirmForm("Normalize ranks?", "Renumbers "+scope+" to 10, 20, 30…", &confirmed)
				if err := form.Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Normalizing…")
			}
			res, err := app.Backend.Normalize(commandContext(cmd), string(parent))
			stop()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Renumbered %s in %s\n", formatter.StyleGreen.Render("✔"),
				formatter.Plural(res.Nodes, "node"), formatter.Plural(res.Contexts, "context"))
			return nil
		},
	}
	contextVar(cmd.Flags(), &parent, "parent", "", "Only renumber this parent context")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newOrderHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently applied reorder batches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive, got %d", limit)
			}
			entries, err := app.Backend.History(commandContext(cmd), limit)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderHistory(entries, time.Now()))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of entries to show")
	return cmd
}
