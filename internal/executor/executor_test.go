package executor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sorttv/showsort/internal/media"
	"github.com/sorttv/showsort/internal/planner"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestExecuteShowMovesDirectFiles(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	f1 := filepath.Join(src, "show.s01e01.mkv")
	f2 := filepath.Join(src, "show.s01e02.mkv")
	writeFile(t, f1)
	writeFile(t, f2)

	show := &media.TVShow{
		Name:           "Show",
		FolderType:     media.DirectFiles,
		OriginalFolder: src,
		Seasons: []media.Season{
			{Number: 1, OriginalFolder: src, Episodes: []media.Episode{
				{SourcePath: f1, Season: 1, Number: 1, Ext: ".mkv"},
				{SourcePath: f2, Season: 1, Number: 2, Ext: ".mkv"},
			}},
		},
	}
	plan := planner.Plan(show, dst)

	e := New()
	results, err := e.ExecuteShow(context.Background(), plan)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Status != StatusMoved {
			t.Errorf("expected moved, got %s (%s)", r.Status, r.Reason)
		}
		if _, err := os.Stat(r.Move.DestPath); err != nil {
			t.Errorf("destination not present: %v", err)
		}
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("expected fully-drained show folder to be removed")
	}
	snap := e.Stats.Snapshot()
	if snap.EpisodesMoved != 2 {
		t.Errorf("stats.episodes_moved = %d, want 2", snap.EpisodesMoved)
	}
}

func TestExecuteShowSkipsExistingDestination(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	f1 := filepath.Join(src, "show.s01e01.mkv")
	writeFile(t, f1)

	show := &media.TVShow{
		Name:           "Show",
		FolderType:     media.DirectFiles,
		OriginalFolder: src,
		Seasons: []media.Season{
			{Number: 1, OriginalFolder: src, Episodes: []media.Episode{
				{SourcePath: f1, Season: 1, Number: 1, Ext: ".mkv"},
			}},
		},
	}
	plan := planner.Plan(show, dst)
	writeFile(t, plan.Moves[0].DestPath) // pre-create the destination

	e := New()
	results, err := e.ExecuteShow(context.Background(), plan)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Status != StatusSkipped {
		t.Errorf("expected skipped, got %s", results[0].Status)
	}
	if _, err := os.Stat(f1); err != nil {
		t.Error("source should be left untouched on skip")
	}
}

func TestExecuteShowSeasonSubfoldersCleanupRequiresAllSeasonsDrained(t *testing.T) {
	root := t.TempDir()
	dst := t.TempDir()
	s1 := filepath.Join(root, "Season 1")
	s2 := filepath.Join(root, "Season 2")
	f1 := filepath.Join(s1, "show.s01e01.mkv")
	f2 := filepath.Join(s2, "show.s02e01.mkv")
	writeFile(t, f1)
	writeFile(t, f2)
	leftover := filepath.Join(s2, "leftover.mkv")
	writeFile(t, leftover)

	show := &media.TVShow{
		Name:           "Show",
		FolderType:     media.SeasonSubfolders,
		OriginalFolder: root,
		Seasons: []media.Season{
			{Number: 1, OriginalFolder: s1, Episodes: []media.Episode{
				{SourcePath: f1, Season: 1, Number: 1, Ext: ".mkv"},
			}},
			{Number: 2, OriginalFolder: s2, Episodes: []media.Episode{
				{SourcePath: f2, Season: 2, Number: 1, Ext: ".mkv"},
			}},
		},
	}
	plan := planner.Plan(show, dst)
	e := New()
	if _, err := e.ExecuteShow(context.Background(), plan); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(s1); !os.IsNotExist(err) {
		t.Error("season 1 folder should be removed: fully drained")
	}
	if _, err := os.Stat(s2); err != nil {
		t.Error("season 2 folder should remain: leftover file present")
	}
	if _, err := os.Stat(root); err != nil {
		t.Error("show folder should remain: not every season was removed")
	}
}

func TestMoveOneWithTinyTimeoutTimesOutOrMoves(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	f := filepath.Join(src, "a.mkv")
	writeFile(t, f)

	e := New()
	e.Timeout = time.Nanosecond
	mv := planner.Move{SourcePath: f, DestPath: filepath.Join(dst, "a.mkv")}
	r := e.moveOne(context.Background(), mv)
	if r.Status != StatusTimeout && r.Status != StatusMoved {
		t.Errorf("got unexpected status %s", r.Status)
	}
}

func TestRunSkipsShowOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := New()
	show := &media.TVShow{Name: "X", OriginalFolder: t.TempDir()}
	plan := planner.Plan(show, t.TempDir())
	outcomes := e.Run(ctx, []*planner.ShowPlan{plan})
	if len(outcomes) != 1 || outcomes[0].Err != ErrCancelled {
		t.Errorf("expected cancellation outcome, got %+v", outcomes)
	}
}
