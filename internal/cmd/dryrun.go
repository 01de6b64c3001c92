package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sorttv/showsort/internal/log"
)

var dryRunCmd = &cobra.Command{
	Use:   "dry-run <input-dir> <output-dir>",
	Short: "Preview the organize plan without touching the filesystem",
	Args:  cobra.ExactArgs(2),
	RunE:  runDryRun,
}

func init() {
	rootCmd.AddCommand(dryRunCmd)
}

func runDryRun(c *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	org, err := buildOrganizer(cfg)
	if err != nil {
		return err
	}
	store := buildJobStore(cfg)

	ctx := context.Background()
	jobID := uuid.NewString()
	j, err := store.Create(ctx, jobID, args[0], args[1])
	if err != nil {
		return err
	}

	log.StartSession(jobID, args[0], args[1])
	defer log.EndSession()

	if err := org.StartDryRun(ctx, j); err != nil {
		_ = store.UpdateStatus(ctx, jobID, j.Status, err.Error())
		fmt.Printf("dry run finished with error: %v\n", err)
		return err
	}
	if err := store.UpdateResult(ctx, jobID, j.Stats, j.ProcessedShows, j.UnprocessedShows, j.Status); err != nil {
		return err
	}

	fmt.Printf("job %s: %d shows planned, %d unprocessed\n", j.ID, len(j.ProcessedShows), len(j.UnprocessedShows))
	for _, show := range j.ProcessedShows {
		fmt.Printf("  %s (%s) -- %d season(s)\n", show.Name, show.Category, len(show.Seasons))
	}
	for _, u := range j.UnprocessedShows {
		fmt.Printf("  SKIP %s: %s\n", u.FolderName, u.Reason)
	}
	return nil
}
