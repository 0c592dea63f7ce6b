package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Who23/ink/pkg/repository"
)

func newGoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "go <prefix>",
		Short: "Check the working tree out to another commit",
		Long: `Resolve prefix to the single commit digest it identifies and check the
working tree out to it. Fails without touching a single file if the
working tree has diverged from the currently checked-out commit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get current directory: %w", err)
			}

			target, err := repository.CommitFromPrefix(cwd, args[0])
			if err != nil {
				return fmt.Errorf("resolve %q: %w", args[0], err)
			}

			if err := repository.Go(cwd, target); err != nil {
				return fmt.Errorf("%s %s", colorRed(IconWarn), err)
			}

			fmt.Printf("%s %s %s\n",
				colorGreen(IconCheck),
				colorGreen("now at"),
				colorYellow(target.Hex()[:12]))
			return nil
		},
	}

	return cmd
}
