package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/Who23/ink/pkg/config"
	"github.com/Who23/ink/pkg/repository/inkpath"
)

// findRoot locates the project root enclosing the current working
// directory by searching upward for an initialized .ink directory.
func findRoot() (inkpath.ProjectRoot, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get current directory: %w", err)
	}

	root, ok, err := inkpath.Find(cwd)
	if err != nil {
		return "", fmt.Errorf("search for .ink directory: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("not an ink repository (or any parent up to mount point)")
	}
	return root, nil
}

// bestEffortTypedConfig loads the config hierarchy (builtin defaults, user
// ~/.inkconfig.json, and, if the cwd is inside an initialized repository,
// its .ink/config.json) for commands like setupLogging that want ambient
// settings before a command has committed to requiring a repository. A
// cwd outside any repository, or any error along the way, just falls back
// to builtin/user-level defaults instead of failing the command.
func bestEffortTypedConfig() *config.TypedConfig {
	var inkRoot string
	if root, ok, err := func() (inkpath.ProjectRoot, bool, error) {
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			return "", false, cwdErr
		}
		return inkpath.Find(cwd)
	}(); err == nil && ok {
		inkRoot = root.InkRoot().String()
	}

	mgr := config.NewManager(inkRoot)
	_ = mgr.Load(context.Background())
	return config.NewTypedConfig(mgr)
}

// Lipgloss styles for CLI output.
var (
	colorGreenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")).Bold(true)
	colorRedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
	colorYellowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true)
	colorBlueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00BFFF")).Bold(true)
	colorCyanStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FFFF"))

	insertStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")).Bold(true)
	deleteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4444")).Bold(true)
	modifyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")).Bold(true)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#5F5FFF")).
			Padding(0, 1).
			MarginBottom(1)

	infoStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00BFFF")).
			Padding(0, 1)
)

const (
	IconCommit = "⊚"
	IconCheck  = "✓"
	IconWarn   = "⚠"
	IconInsert = "+"
	IconDelete = "-"
	IconModify = "~"
)

func colorGreen(s string) string  { return colorGreenStyle.Render(s) }
func colorRed(s string) string    { return colorRedStyle.Render(s) }
func colorYellow(s string) string { return colorYellowStyle.Render(s) }
func colorBlue(s string) string   { return colorBlueStyle.Render(s) }
func colorCyan(s string) string   { return colorCyanStyle.Render(s) }

func formatInsert(path string) string {
	return fmt.Sprintf("  %s  %s", insertStyle.Render(IconInsert), insertStyle.Render(path))
}

func formatDelete(path string) string {
	return fmt.Sprintf("  %s  %s", deleteStyle.Render(IconDelete), deleteStyle.Render(path))
}

func formatModify(path string) string {
	return fmt.Sprintf("  %s  %s", modifyStyle.Render(IconModify), modifyStyle.Render(path))
}

func renderHeader(text string) string {
	return headerStyle.Render(text)
}

func renderInfo(text string) string {
	return infoStyle.Render(text)
}
