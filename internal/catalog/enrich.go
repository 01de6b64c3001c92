package catalog

import (
	"github.com/Digital-Shane/omdb"
)

// OMDbClient captures the Digital-Shane/omdb client method used to enrich a
// resolved show with an IMDb rating, mirrored on the teacher's
// internal/provider/omdb usage of SearchByTitle (internal/provider/omdb/fetch.go).
type OMDbClient interface {
	SearchByTitle(query omdb.QueryData) (interface{}, error)
}

// enrichRating looks up name/year in OMDb and returns the IMDb rating as a
// string (e.g. "8.4"), or "" if OMDb has no match or the rating is "N/A".
// Enrichment failures are swallowed: OMDb is supplementary (spec.md's domain
// stack assigns it "enrichment", not resolution), so a miss here must never
// fail catalog resolution.
func enrichRating(client OMDbClient, name, year string) string {
	if client == nil {
		return ""
	}
	result, err := client.SearchByTitle(omdb.QueryData{
		Title:      name,
		Year:       year,
		SearchType: "series",
	})
	if err != nil {
		return ""
	}
	switch series := result.(type) {
	case omdb.SeriesResult:
		return ratingOrEmpty(series.ImdbRating)
	case *omdb.SeriesResult:
		return ratingOrEmpty(series.ImdbRating)
	default:
		return ""
	}
}

func ratingOrEmpty(rating string) string {
	if rating == "N/A" {
		return ""
	}
	return rating
}
