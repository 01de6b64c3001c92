package cmd

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sorttv/showsort/internal/tui"
)

var previewCmd = &cobra.Command{
	Use:   "preview <job-id>",
	Short: "Interactively browse a dry-run job's planned moves",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

func runPreview(c *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := buildJobStore(cfg)

	j, err := store.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewPreview(j), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
