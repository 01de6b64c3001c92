package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sorttv/showsort/internal/job"
)

func TestWriteIncludesJobSummary(t *testing.T) {
	j := &job.Job{
		ID:        "job-1",
		Status:    job.StatusCompleted,
		InputDir:  "/in",
		OutputDir: "/out",
		Stats:     map[string]int{"episodes_moved": 12},
		ProcessedShows: []job.ShowRecord{
			{Name: "One Piece", Category: "Anime", Seasons: []job.SeasonRecord{{Number: 1}}},
		},
		UnprocessedShows: []job.UnprocessedShow{
			{FolderName: "Mystery Show", Reason: "low confidence match"},
		},
	}
	data := Data{Job: j, StartTime: time.Now(), EndTime: time.Now().Add(time.Minute), DryRun: true}

	var buf bytes.Buffer
	if err := Write(&buf, data); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"job-1", "One Piece", "Anime", "Mystery Show", "low confidence match", "episodes_moved"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected report to contain %q", want)
		}
	}
}
