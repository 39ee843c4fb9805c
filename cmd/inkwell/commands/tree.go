package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/inkwell/pkg/blocktree"
	"github.com/Sumatoshi-tech/inkwell/pkg/decorator"
)

func newTreeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tree <doc>",
		Short: "Show decoration tree fingerprints per block",
		Long: `Build the decoration tree of every block with the decorators from the
config file and print its ranges and fingerprint.

Example .inkwell.yaml:
  decorators:
    - name: hashtag
      pattern: '#\w+'
    - name: link
      entity_type: LINK
      wrap_level: 1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cs, err := a.loadContent(args[0])
			if err != nil {
				return err
			}

			dec, err := a.cfg.Decorator()
			if err != nil {
				return err
			}

			cache := blocktree.NewCache(a.cfg.Document.TreeCacheSize, dec)

			tbl := table.NewWriter()
			tbl.SetStyle(table.StyleLight)
			tbl.AppendHeader(table.Row{"Key", "Ranges", "Fingerprint"})

			for level, b := range cs.Walk() {
				tree, _ := cache.Tree(cs, b)

				tbl.AppendRow(table.Row{
					strings.Repeat("  ", level) + b.Key(),
					describeRanges(tree, dec),
					blocktree.Fingerprint(tree),
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), tbl.Render())

			return nil
		},
	}
}

func describeRanges(tree blocktree.Tree, dec *decorator.Composite) string {
	parts := make([]string, 0, len(tree))

	for _, r := range tree {
		label := "text"
		if comp, ok := dec.Component(r.Decorator); r.Decorated && ok {
			label = comp.Name
		}

		parts = append(parts, fmt.Sprintf("%s[%d,%d)", label, r.Start, r.End))
	}

	return strings.Join(parts, " ")
}
