package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/Who23/ink/pkg/commit"
	"github.com/Who23/ink/pkg/repository"
)

func newDiffCmd() *cobra.Command {
	var stat bool

	cmd := &cobra.Command{
		Use:   "diff <prefix-a> <prefix-b>",
		Short: "Show the structural diff between two commits",
		Long: `Resolve two hex prefixes to the commits they identify and show which
paths were inserted, deleted, or modified between them.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get current directory: %w", err)
			}

			root, err := findRoot()
			if err != nil {
				return err
			}
			inkRoot := root.InkRoot().String()

			da, err := repository.CommitFromPrefix(cwd, args[0])
			if err != nil {
				return fmt.Errorf("resolve %q: %w", args[0], err)
			}
			db, err := repository.CommitFromPrefix(cwd, args[1])
			if err != nil {
				return fmt.Errorf("resolve %q: %w", args[1], err)
			}

			ca, err := commit.From(inkRoot, da)
			if err != nil {
				return fmt.Errorf("read commit %s: %w", args[0], err)
			}
			cb, err := commit.From(inkRoot, db)
			if err != nil {
				return fmt.Errorf("read commit %s: %w", args[1], err)
			}

			diff := ca.Diff(cb)
			if diff.IsEmpty() {
				fmt.Println(colorCyan("no differences"))
				return nil
			}

			if stat {
				displayDiffStat(diff)
				return nil
			}
			displayDiffEdits(diff)
			return nil
		},
	}

	cmd.Flags().BoolVar(&stat, "stat", false, "Show only a per-kind summary count")

	return cmd
}

func displayDiffEdits(diff commit.CommitDiff) {
	for _, e := range diff.Edits {
		switch e.Kind {
		case commit.Insert:
			fmt.Println(formatInsert(e.Path))
		case commit.Delete:
			fmt.Println(formatDelete(e.Path))
		case commit.Modify:
			fmt.Println(formatModify(e.Path))
		}
	}
}

func displayDiffStat(diff commit.CommitDiff) {
	var inserted, deleted, modified int
	for _, e := range diff.Edits {
		switch e.Kind {
		case commit.Insert:
			inserted++
		case commit.Delete:
			deleted++
		case commit.Modify:
			modified++
		}
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Kind", "Count")
	table.Append(colorGreen("inserted"), fmt.Sprintf("%d", inserted))
	table.Append(colorRed("deleted"), fmt.Sprintf("%d", deleted))
	table.Append(colorYellow("modified"), fmt.Sprintf("%d", modified))
	table.Render()
}
