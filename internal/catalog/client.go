package catalog

import (
	"github.com/dashotv/tvdb/openapi/models/operations"
	tvdbapi "github.com/dashotv/tvdb"
	"github.com/ryanbradynd05/go-tmdb"
)

// TMDBClient captures the go-tmdb methods the resolver needs, mirrored on
// the teacher's internal/provider/tmdb.TMDBClient interface and extended
// with the alternative-titles/translations calls spec.md §4.4's candidate
// evaluation step requires.
type TMDBClient interface {
	SearchTv(name string, options map[string]string) (*tmdb.TvSearchResults, error)
	GetTvInfo(id int, options map[string]string) (*tmdb.TV, error)
	GetTvAlternativeTitles(id int, options map[string]string) (*tmdb.TvAlternativeTitles, error)
	GetTvTranslations(id int, options map[string]string) (*tmdb.TvTranslations, error)
	GetTvSeasonInfo(showID, seasonNum int, options map[string]string) (*tmdb.TvSeason, error)
}

// TVDBClient captures the dashotv client methods used as the secondary
// resolver, consulted when TMDB confidence stays low (mirrored on the
// teacher's internal/provider/tvdb.TVDBClient interface).
type TVDBClient interface {
	GetSearchResults(request operations.GetSearchResultsRequest) (*tvdbapi.GetSearchResultsResponse, error)
	GetSeriesExtended(id float64, meta *operations.GetSeriesExtendedQueryParamMeta, short *bool) (*tvdbapi.GetSeriesExtendedResponse, error)
}

