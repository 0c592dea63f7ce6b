package main

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Who23/ink/pkg/repository"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Initialize a new ink repository",
		Long: `Initialize a new ink repository in the current directory or specified path.
This creates a .ink directory holding the object store, the commit graph,
and the cursor, plus an initial empty commit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}

			if err := repository.Init(absPath); err != nil {
				return fmt.Errorf("initialize repository: %w", err)
			}

			checkMark := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(IconCheck)
			successStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
			pathStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("12")).
				Render(filepath.Join(absPath, ".ink"))

			fmt.Printf("%s %s %s\n", checkMark, successStyle.Render("Initialized empty ink repository in"), pathStyle)
			return nil
		},
	}

	return cmd
}
