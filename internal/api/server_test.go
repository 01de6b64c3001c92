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

type fakeOrganizer struct {
	dryRunCalled bool
	executeCalled bool
}

func (f *fakeOrganizer) StartDryRun(ctx context.Context, j *job.Job) error {
	f.dryRunCalled = true
	return nil
}

func (f *fakeOrganizer) Execute(ctx context.Context, j *job.Job) error {
	f.executeCalled = true
	return nil
}

func TestHandleDryRunCreatesJob(t *testing.T) {
	store := job.NewStore(kvcache.NewMemory())
	srv := NewServer(store, &fakeOrganizer{})

	req := httptest.NewRequest(http.MethodPost, "/jobs/dry-run", strings.NewReader(`{"input_dir":"/in","output_dir":"/out"}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("got status %d, want 202", rec.Code)
	}
}

func TestHandleGetJobNotFound(t *testing.T) {
	store := job.NewStore(kvcache.NewMemory())
	srv := NewServer(store, &fakeOrganizer{})

	req := httptest.NewRequest(http.MethodGet, "/jobs/does-not-exist", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("got status %d, want 404", rec.Code)
	}
}

func TestHandleExecuteRejectsNonCompletedJob(t *testing.T) {
	store := job.NewStore(kvcache.NewMemory())
	srv := NewServer(store, &fakeOrganizer{})
	ctx := context.Background()
	store.Create(ctx, "job-1", "/in", "/out")

	req := httptest.NewRequest(http.MethodPost, "/jobs/job-1/execute", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("got status %d, want 409", rec.Code)
	}
}
