package catalog

import (
	"strconv"
	"strings"

	tvdbapi "github.com/dashotv/tvdb"
	"github.com/dashotv/tvdb/openapi/models/operations"
	"github.com/dashotv/tvdb/openapi/models/shared"
)

// tvdbSearchRequest builds a series-only search request, grounded on the
// teacher's internal/provider/tvdb.Provider.searchSeriesRecord.
func tvdbSearchRequest(query string) operations.GetSearchResultsRequest {
	q := strings.TrimSpace(query)
	typeSeries := "series"
	return operations.GetSearchResultsRequest{Query: &q, Type: &typeSeries}
}

func tvdbResults(resp *tvdbapi.GetSearchResultsResponse) []shared.SearchResult {
	if resp == nil {
		return nil
	}
	return resp.Data
}

func tvdbResultName(r shared.SearchResult) string {
	switch {
	case r.Name != nil:
		return *r.Name
	case r.NameTranslated != nil:
		return *r.NameTranslated
	case r.Title != nil:
		return *r.Title
	default:
		return ""
	}
}

func tvdbResultYear(r shared.SearchResult) *int {
	if r.Year == nil {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(*r.Year))
	if err != nil {
		return nil
	}
	return &n
}
