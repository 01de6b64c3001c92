// Package cmd implements showsort's Cobra CLI surface, wiring the config
// loader, catalog clients, and the organizer pipeline behind the
// dry-run/execute/serve subcommands sketched in spec.md §6, grounded on the
// teacher's internal/cmd/root.go shape.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sorttv/showsort/internal/config"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "showsort",
	Short: "Reorganize unsorted TV media into an Emby/Plex-style library",
	Long: `showsort scans a directory of unsorted show folders, resolves each show
against TMDB (with TVDB and OMDb enrichment), renumbers episodes from their
filenames, and relocates everything under
<target>/[<category>/]<Show (Year) {tmdb-<id>}>/Season <N>/...`,
}

// Execute runs the root command. Called once from cmd/showsort/main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config.yaml (default: ~/.showsort/config.yaml)")
}

// loadConfig resolves --config (or the default path) into a *config.Config.
func loadConfig() (*config.Config, error) {
	path := cfgPath
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
