package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sorttv/showsort/internal/job"
	"github.com/sorttv/showsort/internal/kvcache"
)

func TestHandleSelectSeasonOnlyTogglesTargetedSeason(t *testing.T) {
	store := job.NewStore(kvcache.NewMemory())
	srv := NewServer(store, &fakeOrganizer{})
	ctx := context.Background()

	store.Create(ctx, "job-1", "/in", "/out")
	store.UpdateResult(ctx, "job-1", nil, []job.ShowRecord{
		{
			ID:       "show-1",
			Name:     "Show",
			Selected: true,
			Seasons: []job.SeasonRecord{
				{Number: 1, Selected: true, Episodes: []job.EpisodeSelection{{Number: 1, Selected: true}}},
				{Number: 2, Selected: true, Episodes: []job.EpisodeSelection{{Number: 1, Selected: true}}},
			},
		},
	}, nil, job.StatusCompleted)

	req := httptest.NewRequest(http.MethodPut, "/jobs/job-1/shows/show-1/seasons/1/select",
		strings.NewReader(`{"selected":false}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("got status %d, want 204", rec.Code)
	}

	j, err := store.Get(ctx, "job-1")
	if err != nil {
		t.Fatal(err)
	}
	seasons := j.ProcessedShows[0].Seasons
	if seasons[0].Selected {
		t.Error("expected season 1 to be deselected")
	}
	if !seasons[1].Selected {
		t.Error("expected season 2 to remain selected, but select-season touched every season")
	}
}
