package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sorttv/showsort/internal/job"
	"github.com/sorttv/showsort/internal/log"
)

var executeCmd = &cobra.Command{
	Use:   "execute <job-id>",
	Short: "Commit a previously dry-run job's plan to disk",
	Args:  cobra.ExactArgs(1),
	RunE:  runExecute,
}

func init() {
	rootCmd.AddCommand(executeCmd)
}

func runExecute(c *cobra.Command, args []string) error {
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
	jobID := args[0]
	j, err := store.BeginExecute(ctx, jobID)
	if err != nil {
		return err
	}

	log.StartSession(jobID, j.InputDir, j.OutputDir)
	defer log.EndSession()

	if err := org.Execute(ctx, j); err != nil {
		_ = store.UpdateStatus(ctx, jobID, job.StatusFailed, err.Error())
		return err
	}
	if err := store.UpdateResult(ctx, jobID, j.Stats, j.ProcessedShows, j.UnprocessedShows, j.Status); err != nil {
		return err
	}

	fmt.Printf("job %s: moved=%d skipped=%d timed_out=%d errors=%d\n",
		jobID, j.Stats["episodes_moved"], j.Stats["episodes_skipped"], j.Stats["episodes_timed_out"], j.Stats["errors"])
	return nil
}
