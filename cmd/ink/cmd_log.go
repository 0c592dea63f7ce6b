package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/Who23/ink/pkg/commit"
	"github.com/Who23/ink/pkg/cursor"
	"github.com/Who23/ink/pkg/digest"
	"github.com/Who23/ink/pkg/graph"
)

const graphFileName = "graph"

func newLogCmd() *cobra.Command {
	var limit int
	var useTable bool

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the commit history",
		Long: `Walk the commit graph backward from the cursor through parent edges,
newest first, and print each commit along the way.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := findRoot()
			if err != nil {
				return err
			}
			inkRoot := root.InkRoot().String()

			history, err := walkHistory(inkRoot, limit)
			if err != nil {
				return fmt.Errorf("walk history: %w", err)
			}

			if len(history) == 0 {
				fmt.Println(colorYellow("no commits yet"))
				return nil
			}

			if useTable {
				displayCommitsAsTable(history)
			} else {
				displayCommitsDetailed(history)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Limit the number of commits to show")
	cmd.Flags().BoolVarP(&useTable, "table", "t", false, "Display commits in table format")

	return cmd
}

// walkHistory performs a breadth-first walk of the commit graph starting
// at the cursor, returning up to limit commits in the order visited.
func walkHistory(inkRoot string, limit int) ([]commit.Commit, error) {
	g, err := graph.Load(filepath.Join(inkRoot, graphFileName))
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}

	head, err := cursor.Get(inkRoot)
	if err != nil {
		return nil, fmt.Errorf("read cursor: %w", err)
	}

	history := make([]commit.Commit, 0, limit)
	visited := make(map[digest.Digest]bool)
	queue := []digest.Digest{head.Digest}

	for len(queue) > 0 && len(history) < limit {
		d := queue[0]
		queue = queue[1:]

		if visited[d] {
			continue
		}
		visited[d] = true

		c, readErr := commit.From(inkRoot, d)
		if readErr != nil {
			continue
		}
		history = append(history, c)

		for _, parent := range g.Parents(d) {
			if !visited[parent] {
				queue = append(queue, parent)
			}
		}
	}

	return history, nil
}

func displayCommitsDetailed(history []commit.Commit) {
	fmt.Println(renderHeader(" Commit History "))
	fmt.Println()

	commitBoxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#5F5FFF")).
		Padding(1, 2).
		MarginBottom(1)

	digestStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true)
	metaStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Italic(true)

	for i, c := range history {
		var content strings.Builder
		content.WriteString(fmt.Sprintf("%s %s\n", colorYellow(IconCommit), digestStyle.Render(c.Digest.Hex())))
		content.WriteString(metaStyle.Render(fmt.Sprintf("timestamp %d, %d files", c.Timestamp, len(c.Entries))))

		fmt.Println(commitBoxStyle.Render(content.String()))

		if i < len(history)-1 {
			fmt.Println(lipgloss.NewStyle().Foreground(lipgloss.Color("#444444")).Render("  │"))
		}
	}
}

func displayCommitsAsTable(history []commit.Commit) {
	fmt.Println(renderHeader(" Commit History "))
	fmt.Println()

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Commit", "Timestamp", "Files")

	for _, c := range history {
		table.Append(
			colorYellow(c.Digest.Hex()[:12]),
			fmt.Sprintf("%d", c.Timestamp),
			fmt.Sprintf("%d", len(c.Entries)),
		)
	}

	table.Render()
}
