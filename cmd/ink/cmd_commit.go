package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Who23/ink/pkg/repository"
)

func newCommitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Snapshot the working tree",
		Long: `Snapshot every file in the working tree into a new commit, link it
into the commit graph as a child of the currently checked-out commit, and
move the cursor to it.

Committing identical content within the same second as the current commit
is a no-op: the two snapshots hash to the same digest.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get current directory: %w", err)
			}

			c, err := repository.Commit(cwd)
			if err != nil {
				return fmt.Errorf("commit: %w", err)
			}

			fmt.Printf("%s %s %s  %s\n",
				colorGreen(IconCheck),
				colorGreen("committed"),
				colorYellow(c.Digest.Hex()[:12]),
				colorCyan(fmt.Sprintf("(%d files)", len(c.Entries))))
			return nil
		},
	}

	return cmd
}
