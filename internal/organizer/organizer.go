// Package organizer wires the pipeline stages described in spec.md §2 into
// a single entry point: scan, extract, resolve, classify, plan, execute.
// It is the concrete implementation behind the api.Organizer interface and
// the cmd/showsort CLI, grounded on the teacher's internal/core.MetadataEngine
// orchestration shape applied to showsort's show/season/episode domain.
package organizer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sorttv/showsort/internal/catalog"
	"github.com/sorttv/showsort/internal/category"
	"github.com/sorttv/showsort/internal/executor"
	"github.com/sorttv/showsort/internal/extractor"
	"github.com/sorttv/showsort/internal/job"
	"github.com/sorttv/showsort/internal/media"
	"github.com/sorttv/showsort/internal/pattern"
	"github.com/sorttv/showsort/internal/planner"
	"github.com/sorttv/showsort/internal/scanner"
)

// Organizer runs the full identification-and-placement pipeline against one
// job's input/output directories.
type Organizer struct {
	Extractor *extractor.Extractor
	Resolver  *catalog.Resolver
	Rules     []category.Rule
	Executor  *executor.Executor
}

// New constructs an Organizer from its component collaborators.
func New(ex *extractor.Extractor, resolver *catalog.Resolver, rules []category.Rule) *Organizer {
	return &Organizer{Extractor: ex, Resolver: resolver, Rules: rules, Executor: executor.New()}
}

// Plan is the pure planning result of one pipeline run: a ShowPlan per
// resolved show and the list of shows that could not be placed.
type Plan struct {
	Shows        []*planner.ShowPlan
	Unprocessed  []job.UnprocessedShow
}

// BuildPlan implements spec.md §2 steps 1-6: scan the input root's
// immediate show folders, batch their names through the extractor, resolve
// each against the catalog, classify a category, and produce a move plan.
// A show that fails extraction or resolution is recorded in Unprocessed and
// excluded from Shows; no error from one show aborts the others (spec.md §7).
func (o *Organizer) BuildPlan(ctx context.Context, inputDir, outputDir string) (*Plan, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("organizer: read input directory: %w", err)
	}

	var folders []string
	for _, e := range entries {
		if e.IsDir() && len(e.Name()) > 0 && e.Name()[0] != '.' {
			folders = append(folders, filepath.Join(inputDir, e.Name()))
		}
	}
	sort.Strings(folders)

	if len(folders) == 0 {
		return &Plan{}, nil
	}

	names := make([]string, len(folders))
	for i, f := range folders {
		names[i] = filepath.Base(f)
	}
	extracted, err := o.Extractor.Extract(ctx, names)
	if err != nil {
		return nil, err
	}
	byFolder := make(map[string]media.ExtractedName, len(extracted))
	for _, e := range extracted {
		byFolder[e.FolderName] = e
	}

	plan := &Plan{}
	for _, folderPath := range folders {
		select {
		case <-ctx.Done():
			return plan, ctx.Err()
		default:
		}

		show, reason := o.resolveShow(ctx, folderPath, byFolder[filepath.Base(folderPath)])
		if show == nil {
			plan.Unprocessed = append(plan.Unprocessed, job.UnprocessedShow{
				FolderName: filepath.Base(folderPath),
				Reason:     reason,
			})
			continue
		}
		plan.Shows = append(plan.Shows, planner.Plan(show, outputDir))
	}
	return plan, nil
}

// resolveShow builds the TVShow domain value for one folder: classifies its
// layout, extracts season/episode numbers for every media file, resolves
// catalog metadata, and assigns a category. Returns (nil, reason) when the
// show cannot be organized (no catalog match, or only a low-confidence one).
func (o *Organizer) resolveShow(ctx context.Context, folderPath string, name media.ExtractedName) (*media.TVShow, string) {
	structure, err := scanner.Scan(folderPath)
	if err != nil {
		return nil, fmt.Sprintf("scan failed: %v", err)
	}

	folderName := filepath.Base(folderPath)
	seasonHint := pattern.ExtractSeason(folderName, 1, pattern.ModeFolder)

	show := &media.TVShow{
		Name:           folderName,
		FolderType:     structure.Type,
		OriginalFolder: folderPath,
	}

	if structure.Type == media.DirectFiles {
		eps := filesToEpisodes(structure.MediaFiles, seasonHint)
		if len(eps) == 0 {
			return nil, "no media files found"
		}
		show.Seasons = groupBySeasons(eps, folderPath)
	} else {
		for _, seasonDir := range structure.Subdirs {
			sub, err := scanner.Scan(seasonDir)
			if err != nil || len(sub.MediaFiles) == 0 {
				continue
			}
			dirSeasonHint := pattern.ExtractSeason(filepath.Base(seasonDir), seasonHint, pattern.ModeFolder)
			eps := filesToEpisodes(sub.MediaFiles, dirSeasonHint)
			seasons := groupBySeasons(eps, seasonDir)
			show.Seasons = append(show.Seasons, seasons...)
		}
		if len(show.Seasons) == 0 {
			return nil, "no media files found"
		}
	}

	req := catalog.Request{
		FolderName:     folderName,
		CNName:         name.CNName,
		ENName:         name.ENName,
		Year:           name.Year,
		CatalogID:      name.CatalogID,
		FolderType:     structure.Type,
		DetectedSeason: seasonHint,
	}
	meta, err := o.Resolver.Resolve(ctx, req)
	if err != nil {
		return nil, fmt.Sprintf("catalog lookup failed: %v", err)
	}
	if meta == nil {
		return nil, "no TMDB match"
	}
	if meta.Confidence != media.ConfidenceHigh {
		return nil, fmt.Sprintf("low confidence match (%s)", meta.Confidence)
	}

	show.Metadata = meta
	show.Category = category.Classify(o.Rules, meta)
	return show, ""
}

// filesToEpisodes runs the pattern engine's episode extractor over each
// media file in a single source folder, in sorted order, using position in
// that order as the last-resort fallback episode number (spec.md §4.2).
func filesToEpisodes(files []string, seasonHint int) []media.Episode {
	var eps []media.Episode
	for i, f := range files {
		match := pattern.ExtractEpisode(filepath.Base(f), i+1, seasonHint)
		eps = append(eps, media.Episode{
			SourcePath: f,
			Season:     match.Season,
			Number:     match.Start,
			EndNumber:  match.End,
			Ext:        media.Ext(f),
		})
	}
	return eps
}

// groupBySeasons buckets episodes by season number, preserving the input
// (sorted-filename) order within each season, and tags every Season with
// originalFolder per spec.md §3's TVShow invariant.
func groupBySeasons(eps []media.Episode, originalFolder string) []media.Season {
	bySeason := make(map[int][]media.Episode)
	var order []int
	for _, ep := range eps {
		if _, ok := bySeason[ep.Season]; !ok {
			order = append(order, ep.Season)
		}
		bySeason[ep.Season] = append(bySeason[ep.Season], ep)
	}
	sort.Ints(order)

	seasons := make([]media.Season, 0, len(order))
	for _, num := range order {
		seasons = append(seasons, media.Season{
			Number:         num,
			Episodes:       bySeason[num],
			OriginalFolder: originalFolder,
		})
	}
	return seasons
}

// StartDryRun implements the api.Organizer contract: build a plan and
// record it on j without touching the filesystem (spec.md §6 "dry-run").
func (o *Organizer) StartDryRun(ctx context.Context, j *job.Job) error {
	plan, err := o.BuildPlan(ctx, j.InputDir, j.OutputDir)
	if err != nil {
		j.Status = job.StatusFailed
		j.Error = err.Error()
		return err
	}
	j.ProcessedShows = toShowRecords(plan.Shows)
	j.UnprocessedShows = plan.Unprocessed
	j.Status = job.StatusCompleted
	return nil
}

// Execute implements the api.Organizer contract: re-derive the plan from
// j's input directory, filter it by the selection flags recorded on
// j.ProcessedShows, and hand it to the move executor.
func (o *Organizer) Execute(ctx context.Context, j *job.Job) error {
	plan, err := o.BuildPlan(ctx, j.InputDir, j.OutputDir)
	if err != nil {
		j.Status = job.StatusFailed
		j.Error = err.Error()
		return err
	}
	plan.Shows = ApplySelection(plan.Shows, j.ProcessedShows)

	outcomes := o.Executor.Run(ctx, plan.Shows)
	stats := o.Executor.Stats.Snapshot()
	j.Stats = map[string]int{
		"episodes_moved":     stats.EpisodesMoved,
		"episodes_skipped":   stats.EpisodesSkipped,
		"episodes_timed_out": stats.EpisodesTimedOut,
		"errors":             stats.Errors,
	}
	recordCodecs(j.ProcessedShows, outcomes)
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			j.Status = job.StatusFailed
			j.Error = outcome.Err.Error()
			return outcome.Err
		}
	}
	j.Status = job.StatusCompleted
	return nil
}

// recordCodecs copies each successfully-moved episode's ffprobe-derived
// codec fields from the executor's results back onto the matching
// EpisodeSelection, for display in the HTML report.
func recordCodecs(shows []job.ShowRecord, outcomes []executor.ShowOutcome) {
	byShow := make(map[string]int, len(shows))
	for i, s := range shows {
		byShow[s.ID] = i
	}
	for _, outcome := range outcomes {
		if outcome.Plan == nil {
			continue
		}
		showIdx, ok := byShow[outcome.Plan.Show.OriginalFolder]
		if !ok {
			continue
		}
		for _, result := range outcome.Results {
			if result.Status != executor.StatusMoved {
				continue
			}
			for si := range shows[showIdx].Seasons {
				if shows[showIdx].Seasons[si].Number != result.Move.Season {
					continue
				}
				for ei := range shows[showIdx].Seasons[si].Episodes {
					if shows[showIdx].Seasons[si].Episodes[ei].Number != result.Move.Episode.Number {
						continue
					}
					shows[showIdx].Seasons[si].Episodes[ei].VideoCodec = result.VideoCodec
					shows[showIdx].Seasons[si].Episodes[ei].AudioCodec = result.AudioCodec
				}
			}
		}
	}
}

func toShowRecords(plans []*planner.ShowPlan) []job.ShowRecord {
	records := make([]job.ShowRecord, 0, len(plans))
	for _, p := range plans {
		bySeason := make(map[int][]job.EpisodeSelection)
		var order []int
		for _, mv := range p.Moves {
			if _, ok := bySeason[mv.Season]; !ok {
				order = append(order, mv.Season)
			}
			bySeason[mv.Season] = append(bySeason[mv.Season], job.EpisodeSelection{
				Number:    mv.Episode.Number,
				EndNumber: mv.Episode.EndNumber,
				Selected:  true,
			})
		}
		sort.Ints(order)
		seasons := make([]job.SeasonRecord, 0, len(order))
		for _, num := range order {
			seasons = append(seasons, job.SeasonRecord{Number: num, Selected: true, Episodes: bySeason[num]})
		}
		records = append(records, job.ShowRecord{
			ID:       p.Show.OriginalFolder,
			Name:     p.Show.Name,
			Category: p.Show.Category,
			Selected: true,
			Seasons:  seasons,
		})
	}
	return records
}

// ApplySelection filters plans' moves down to what the commit-phase
// selection flags on records still include (spec.md §6 "Selection
// semantics"): a deselected episode drops, a season with no remaining
// episodes drops, a show with no remaining seasons drops.
func ApplySelection(plans []*planner.ShowPlan, records []job.ShowRecord) []*planner.ShowPlan {
	if len(records) == 0 {
		return plans
	}
	byID := make(map[string]job.ShowRecord, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	var filtered []*planner.ShowPlan
	for _, p := range plans {
		rec, ok := byID[p.Show.OriginalFolder]
		if !ok || !rec.Selected {
			continue
		}
		seasonSelected := make(map[int]bool)
		episodeSelected := make(map[[2]int]bool)
		for _, s := range rec.Seasons {
			seasonSelected[s.Number] = s.Selected
			for _, e := range s.Episodes {
				episodeSelected[[2]int{s.Number, e.Number}] = e.Selected
			}
		}

		var moves []planner.Move
		for _, mv := range p.Moves {
			if sel, ok := seasonSelected[mv.Season]; ok && !sel {
				continue
			}
			if sel, ok := episodeSelected[[2]int{mv.Season, mv.Episode.Number}]; ok && !sel {
				continue
			}
			moves = append(moves, mv)
		}
		if len(moves) == 0 {
			continue
		}
		filtered = append(filtered, &planner.ShowPlan{Show: p.Show, Moves: moves})
	}
	return filtered
}
