package executor

import (
	"os"
	"path/filepath"

	"github.com/sorttv/showsort/internal/log"
	"github.com/sorttv/showsort/internal/media"
	"github.com/sorttv/showsort/internal/planner"
)

// cleanupSeasonFolder removes moves[0]'s source directory when every file
// originally in it was accounted for by a move or error outcome. Pre-
// existing "destination exists" skips do not count toward the removed
// source folder being fully drained, matching spec.md §4.5's cleanup rule.
func (e *Executor) cleanupSeasonFolder(moves []planner.Move, results []Result) bool {
	if len(moves) == 0 {
		return false
	}
	sourceDir := filepath.Dir(moves[0].SourcePath)

	movedOrErrored := 0
	for _, r := range results {
		switch r.Status {
		case StatusMoved, StatusError, StatusTimeout:
			movedOrErrored++
		}
	}

	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return false
	}
	mediaRemaining := 0
	for _, entry := range entries {
		if !entry.IsDir() && media.IsMedia(entry.Name()) {
			mediaRemaining++
		}
	}
	if mediaRemaining > 0 || movedOrErrored < len(moves) {
		return false
	}
	err = os.Remove(sourceDir)
	log.LogRemoveDir(sourceDir, err == nil, err)
	return err == nil
}

// cleanupShowFolder removes the show's original folder once every season
// folder beneath it (for SEASON_SUBFOLDERS) or its entire file set (for
// DIRECT_FILES) has been drained. Failure is silent: the folder is simply
// left in place (spec.md §7, "folder cleanup failure").
func (e *Executor) cleanupShowFolder(plan *planner.ShowPlan, allSeasonsRemoved bool) {
	show := plan.Show
	if show.FolderType == media.SeasonSubfolders {
		if !allSeasonsRemoved {
			return
		}
		err := os.Remove(show.OriginalFolder)
		log.LogRemoveDir(show.OriginalFolder, err == nil, err)
		return
	}

	entries, err := os.ReadDir(show.OriginalFolder)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() && media.IsMedia(entry.Name()) {
			return
		}
	}
	err = os.Remove(show.OriginalFolder)
	log.LogRemoveDir(show.OriginalFolder, err == nil, err)
}
