package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/Who23/ink/pkg/commit"
	"github.com/Who23/ink/pkg/repository"
)

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <prefix>",
		Short: "Show a single commit's entries",
		Long: `Resolve prefix to the single commit digest it identifies and print every
file entry it holds: path, permissions, and content digest.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get current directory: %w", err)
			}

			root, err := findRoot()
			if err != nil {
				return err
			}

			d, err := repository.CommitFromPrefix(cwd, args[0])
			if err != nil {
				return fmt.Errorf("resolve %q: %w", args[0], err)
			}

			c, err := commit.From(root.InkRoot().String(), d)
			if err != nil {
				return fmt.Errorf("read commit: %w", err)
			}

			fmt.Println(renderHeader(fmt.Sprintf(" %s ", d.Hex()[:12])))
			fmt.Printf("timestamp: %d\n\n", c.Timestamp)

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Path", "Mode", "Content")
			for _, e := range c.Entries {
				table.Append(
					e.Path,
					fmt.Sprintf("%o", e.Permissions),
					e.ContentDigest.Hex()[:12],
				)
			}
			table.Render()
			return nil
		},
	}

	return cmd
}
