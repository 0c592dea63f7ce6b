package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/Who23/ink/pkg/graph"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "List every commit in the graph and its parents",
		Long: `Print every node in the commit graph alongside its parent edges,
independent of any particular walk order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := findRoot()
			if err != nil {
				return err
			}
			inkRoot := root.InkRoot().String()

			g, err := graph.Load(filepath.Join(inkRoot, graphFileName))
			if err != nil {
				return fmt.Errorf("load graph: %w", err)
			}

			hashes := g.CommitHashes()
			if len(hashes) == 0 {
				fmt.Println(colorYellow("no commits yet"))
				return nil
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Commit", "Parents")
			for _, h := range hashes {
				parents := g.Parents(h)
				parentStrs := make([]string, len(parents))
				for i, p := range parents {
					parentStrs[i] = p.Hex()[:12]
				}
				table.Append(colorYellow(h.Hex()[:12]), fmt.Sprintf("%v", parentStrs))
			}
			table.Render()
			return nil
		},
	}

	return cmd
}
