package pattern

import (
	"fmt"
	"strings"
	"testing"
)

func TestNormalizeIdempotent(t *testing.T) {
	cases := []string{
		"Breaking.Bad.S01E01.1080p.WEB-DL.H264.AAC5.1-GROUP",
		"一人之下第二季.The.Outcast.S02.2017.1080p.WEB-DL.H265.AAC-HHWEB",
		"Plain Show Name",
	}
	for _, c := range cases {
		once := Normalize(c, false)
		twice := Normalize(once, false)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: once=%q twice=%q", c, once, twice)
		}
	}
}

func TestExtractEpisodeSimpleSxxExx(t *testing.T) {
	cases := []string{
		"Breaking.Bad.S01E02.Pilot.mp4",
		"Some Junk Before S01E02 Some Junk After.mkv",
		"[Group] Show S01E02 [1080p][HEVC].mkv",
	}
	for _, fn := range cases {
		m := ExtractEpisode(fn, 1, 1)
		if m.Season != 1 || m.Start != 2 {
			t.Errorf("ExtractEpisode(%q) = %+v, want season=1 start=2", fn, m)
		}
	}
}

func TestExtractEpisodeYearNotConcatenated(t *testing.T) {
	// Scenario C: year must not be swallowed into the episode number.
	m := ExtractEpisode("Twelve S01E01 2025 1080p DSNP WEB-DL H264 AAC-TGWEB.mkv", 1, 1)
	if m.Season != 1 || m.Start != 1 {
		t.Errorf("got %+v, want season=1 start=1 (not 2025)", m)
	}
}

func TestExtractEpisodeMultiEpisodeRange(t *testing.T) {
	m := ExtractEpisode("Show.S01E01-E03.mkv", 1, 1)
	if m.Season != 1 || m.Start != 1 || m.End != 3 {
		t.Errorf("got %+v, want season=1 start=1 end=3", m)
	}
	if m.End <= m.Start {
		t.Fatal("multi-episode invariant violated: end must exceed start")
	}
}

func TestExtractEpisodeBareConcatRangeDefaultsToSeasonOne(t *testing.T) {
	// A bare ENNENN range carries no season token of its own, so it
	// defaults to season 1 regardless of the season-3 hint from an
	// enclosing subfolder.
	m := ExtractEpisode("E01E02.mkv", 1, 3)
	if m.Season != 1 || m.Start != 1 || m.End != 2 {
		t.Errorf("got %+v, want season=1 start=1 end=2 (season hint ignored)", m)
	}
}

func TestExtractSeasonFallbackOnYearOnly(t *testing.T) {
	n := ExtractSeason("Some Show 1999", 1, ModeFolder)
	if n != 1 {
		t.Errorf("ExtractSeason with only a year present = %d, want fallback 1", n)
	}
}

func TestExtractSeasonChineseNumeral(t *testing.T) {
	n := ExtractSeason("一人之下第二季", 1, ModeFolder)
	if n != 2 {
		t.Errorf("ExtractSeason(第二季) = %d, want 2", n)
	}
}

func TestExtractSeasonStripsEpisodeCountFirst(t *testing.T) {
	// "全12集" is an episode count, not season 12.
	n := ExtractSeason("某剧 全12集", 1, ModeFolder)
	if n == 12 {
		t.Errorf("episode count token was misread as season number: got %d", n)
	}
}

func TestGenerateFilenameNoIllegalChars(t *testing.T) {
	illegal := illegalFilenameChars
	name := GenerateFilename(`Show: Sub/Title*`, 1, 2, 0, `A "Title"?`, ".mkv")
	for _, r := range illegal {
		if strings.ContainsRune(name, r) {
			t.Errorf("GenerateFilename produced illegal char %q in %q", r, name)
		}
	}
}

func TestGenerateFilenameDropsEmptyTitle(t *testing.T) {
	name := GenerateFilename("Show", 1, 2, 0, "", ".mkv")
	want := "Show - S01E02.mkv"
	if name != want {
		t.Errorf("got %q, want %q", name, want)
	}
}

func TestGenerateFilenameMultiEpisode(t *testing.T) {
	name := GenerateFilename("Show", 1, 2, 4, "Double", ".mkv")
	want := "Show - S01E02-E04 - Double.mkv"
	if name != want {
		t.Errorf("got %q, want %q", name, want)
	}
}

func TestParseChineseNumeral(t *testing.T) {
	cases := map[string]int{
		"五":  5,
		"十":  10,
		"十五": 15,
		"二十": 20,
		"二十五": 25,
	}
	for in, want := range cases {
		got, ok := ParseChineseNumeral(in)
		if !ok || got != want {
			t.Errorf("ParseChineseNumeral(%q) = %d,%v want %d", in, got, ok, want)
		}
	}
}

func fuzzNames() []string {
	var names []string
	for s := 1; s <= 3; s++ {
		for e := 1; e <= 3; e++ {
			names = append(names, fmt.Sprintf("Show.S%02dE%02d.Extra.Junk.mkv", s, e))
		}
	}
	return names
}

func TestExtractEpisodeIndependentOfSurroundingMetadata(t *testing.T) {
	for _, fn := range fuzzNames() {
		m := ExtractEpisode(fn, 1, 1)
		if m.Season < 1 || m.Start < 1 {
			t.Errorf("ExtractEpisode(%q) produced invalid result %+v", fn, m)
		}
	}
}
