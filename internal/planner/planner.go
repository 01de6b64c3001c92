// Package planner combines the pattern engine's extracted episode numbers
// with the catalog resolver's metadata into a concrete move plan: one
// (source path, destination path) pair per media file (spec.md §2 step 6).
package planner

import (
	"fmt"
	"path/filepath"

	"github.com/sorttv/showsort/internal/media"
	"github.com/sorttv/showsort/internal/pattern"
)

// Move is one planned filesystem operation: relocate SourcePath to
// DestPath. DestPath is fully qualified, including the target root,
// optional category, show folder, season folder, and generated filename.
type Move struct {
	ShowName   string
	Season     int
	Episode    media.Episode
	SourcePath string
	DestPath   string
}

// ShowPlan is the full set of moves for one show folder.
type ShowPlan struct {
	Show  *media.TVShow
	Moves []Move
}

// Plan builds the move list for show beneath targetRoot. show.Metadata may
// be nil (unresolved catalog match); in that case the destination folder
// omits the year and tmdb id per spec.md §4.5's fallback rule, and episode
// titles are left blank.
func Plan(show *media.TVShow, targetRoot string) *ShowPlan {
	destFolder := destinationFolder(targetRoot, show)

	plan := &ShowPlan{Show: show}
	for _, season := range show.Seasons {
		seasonFolder := filepath.Join(destFolder, fmt.Sprintf("Season %d", season.Number))
		for _, ep := range season.Episodes {
			title := episodeTitle(show.Metadata, ep)
			filename := pattern.GenerateFilename(show.Name, ep.Season, ep.Number, ep.EndNumber, title, ep.Ext)
			plan.Moves = append(plan.Moves, Move{
				ShowName:   show.Name,
				Season:     season.Number,
				Episode:    ep,
				SourcePath: ep.SourcePath,
				DestPath:   filepath.Join(seasonFolder, filename),
			})
		}
	}
	return plan
}

// destinationFolder computes <target>/[<category>/]<Name> (<Year>)
// {tmdb-<Id>}, dropping the year and/or id when unknown (spec.md §4.5 step
// 1).
func destinationFolder(targetRoot string, show *media.TVShow) string {
	name := show.Name
	if show.Metadata != nil {
		name = show.Metadata.Name
	}
	name = pattern.SanitizeFilenameComponent(name)

	label := name
	if show.Metadata != nil {
		hasYear := show.Metadata.FirstAirYear != 0
		hasID := show.Metadata.ID != 0
		switch {
		case hasYear && hasID:
			label = fmt.Sprintf("%s (%d) {tmdb-%d}", name, show.Metadata.FirstAirYear, show.Metadata.ID)
		case hasID:
			label = fmt.Sprintf("%s {tmdb-%d}", name, show.Metadata.ID)
		case hasYear:
			label = fmt.Sprintf("%s (%d)", name, show.Metadata.FirstAirYear)
		}
	}

	if show.Category != "" {
		return filepath.Join(targetRoot, show.Category, label)
	}
	return filepath.Join(targetRoot, label)
}

// episodeTitle matches a planned episode against catalog season data. For
// multi-episode files, only the first and last episode titles are joined
// with "-" (spec.md §4.5 step 2).
func episodeTitle(meta *media.CatalogMetadata, ep media.Episode) string {
	if meta == nil {
		return ""
	}
	first, ok := meta.EpisodeTitle(ep.Season, ep.Number)
	if !ok {
		return ""
	}
	if !ep.IsMultiEpisode() {
		return first
	}
	last, ok := meta.EpisodeTitle(ep.Season, ep.EndNumber)
	if !ok || last == first {
		return first
	}
	return first + "-" + last
}
