package category

import (
	"testing"

	"github.com/sorttv/showsort/internal/media"
)

func TestClassifyFirstMatchWins(t *testing.T) {
	rules := []Rule{
		{Name: "anime", OriginCountry: "JP"},
		{Name: "domestic", OriginCountry: "CN,TW,HK"},
		{Name: "other"},
	}
	meta := &media.CatalogMetadata{OriginCountry: []string{"JP"}}
	if got := Classify(rules, meta); got != "anime" {
		t.Errorf("got %q, want anime", got)
	}
}

func TestClassifyFallbackWhenNoRuleMatches(t *testing.T) {
	rules := []Rule{
		{Name: "anime", OriginCountry: "JP"},
		{Name: "misc"},
	}
	meta := &media.CatalogMetadata{OriginCountry: []string{"US"}}
	if got := Classify(rules, meta); got != "misc" {
		t.Errorf("got %q, want misc fallback", got)
	}
}

func TestClassifyInversionExcludes(t *testing.T) {
	rules := []Rule{
		{Name: "non-us", OriginCountry: "!US"},
	}
	us := &media.CatalogMetadata{OriginCountry: []string{"US"}}
	if got := Classify(rules, us); got != "" {
		t.Errorf("expected no match for excluded country, got %q", got)
	}
	jp := &media.CatalogMetadata{OriginCountry: []string{"JP"}}
	if got := Classify(rules, jp); got != "non-us" {
		t.Errorf("got %q, want non-us", got)
	}
}

func TestClassifyReleaseYearRange(t *testing.T) {
	rules := []Rule{
		{Name: "classic", ReleaseYear: "1900-1999"},
		{Name: "modern", ReleaseYear: "2000-2099"},
	}
	meta := &media.CatalogMetadata{FirstAirYear: 2015}
	if got := Classify(rules, meta); got != "modern" {
		t.Errorf("got %q, want modern", got)
	}
}

func TestClassifyGenreIDs(t *testing.T) {
	rules := []Rule{
		{Name: "animation", GenreIDs: "16,10765"},
	}
	meta := &media.CatalogMetadata{GenreIDs: []int{18, 10765}}
	if got := Classify(rules, meta); got != "animation" {
		t.Errorf("got %q, want animation", got)
	}
}
