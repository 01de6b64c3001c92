package planner

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/sorttv/showsort/internal/media"
)

func TestPlanUsesCatalogNameAndYearWhenResolved(t *testing.T) {
	show := &media.TVShow{
		Name: "one piece",
		Metadata: &media.CatalogMetadata{
			ID:           37854,
			Name:         "One Piece",
			FirstAirYear: 1999,
			Seasons: []media.SeasonMeta{
				{Number: 1, Episodes: []media.EpisodeMeta{{Number: 1, Title: "I'm Luffy!"}}},
			},
		},
		Seasons: []media.Season{
			{
				Number: 1,
				Episodes: []media.Episode{
					{SourcePath: "/src/one.piece.s01e01.mkv", Season: 1, Number: 1, Ext: ".mkv"},
				},
			},
		},
	}

	plan := Plan(show, "/library")
	if len(plan.Moves) != 1 {
		t.Fatalf("expected 1 move, got %d", len(plan.Moves))
	}
	want := filepath.Join("/library", "One Piece (1999) {tmdb-37854}", "Season 1", "one piece - S01E01 - I'm Luffy!.mkv")
	if plan.Moves[0].DestPath != want {
		t.Errorf("got %q, want %q", plan.Moves[0].DestPath, want)
	}
}

func TestPlanFallsBackWithoutMetadata(t *testing.T) {
	show := &media.TVShow{
		Name: "Unresolved Show",
		Seasons: []media.Season{
			{Number: 1, Episodes: []media.Episode{
				{SourcePath: "/src/a.mkv", Season: 1, Number: 1, Ext: ".mkv"},
			}},
		},
	}
	plan := Plan(show, "/library")
	dest := plan.Moves[0].DestPath
	if strings.Contains(dest, "(") || strings.Contains(dest, "tmdb") {
		t.Errorf("expected no year/id decoration without metadata, got %q", dest)
	}
	if !strings.HasPrefix(dest, filepath.Join("/library", "Unresolved Show")) {
		t.Errorf("expected show name as folder, got %q", dest)
	}
}

func TestPlanJoinsFirstAndLastTitleForMultiEpisode(t *testing.T) {
	show := &media.TVShow{
		Name: "Show",
		Metadata: &media.CatalogMetadata{
			Name: "Show",
			Seasons: []media.SeasonMeta{
				{Number: 1, Episodes: []media.EpisodeMeta{
					{Number: 1, Title: "Part One"},
					{Number: 2, Title: "Part Two"},
					{Number: 3, Title: "Part Three"},
				}},
			},
		},
		Seasons: []media.Season{
			{Number: 1, Episodes: []media.Episode{
				{SourcePath: "/src/x.mkv", Season: 1, Number: 1, EndNumber: 3, Ext: ".mkv"},
			}},
		},
	}
	plan := Plan(show, "/library")
	dest := plan.Moves[0].DestPath
	if !strings.Contains(dest, "Part One-Part Three") {
		t.Errorf("expected joined first/last title, got %q", dest)
	}
}

func TestPlanUsesCategoryWhenSet(t *testing.T) {
	show := &media.TVShow{
		Name:     "Show",
		Category: "Anime",
		Seasons: []media.Season{
			{Number: 1, Episodes: []media.Episode{
				{SourcePath: "/src/x.mkv", Season: 1, Number: 1, Ext: ".mkv"},
			}},
		},
	}
	plan := Plan(show, "/library")
	want := filepath.Join("/library", "Anime", "Show")
	if !strings.HasPrefix(plan.Moves[0].DestPath, want) {
		t.Errorf("expected category folder prefix %q, got %q", want, plan.Moves[0].DestPath)
	}
}
