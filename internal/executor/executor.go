// Package executor implements the move executor (spec.md §4.5): it takes a
// planner.ShowPlan, creates season directories, moves episode files through
// a bounded per-show worker pool under a watchdog timeout, cleans up empty
// source folders, and aggregates statistics. Grounded on the teacher's
// internal/core worker-pool shape (MetadataEngine.runPhase/worker) applied
// to file moves instead of metadata fetches.
package executor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/vansante/go-ffprobe.v2"

	"github.com/sorttv/showsort/internal/log"
	"github.com/sorttv/showsort/internal/planner"
)

// Status is the terminal state of one planned move.
type Status string

const (
	StatusMoved   Status = "moved"
	StatusSkipped Status = "skipped"
	StatusTimeout Status = "timeout"
	StatusError   Status = "error"
)

// Result records the outcome of one planned move. VideoCodec/AudioCodec are
// populated best-effort via ffprobe after a successful move, for display in
// the HTML report; a probe failure never changes Status.
type Result struct {
	Move       planner.Move
	Status     Status
	Reason     string
	VideoCodec string
	AudioCodec string
}

// Stats aggregates move outcomes across one or more shows. Safe for
// concurrent updates via add.
type Stats struct {
	mu            sync.Mutex
	EpisodesMoved   int
	EpisodesSkipped int
	EpisodesTimedOut int
	Errors          int
}

func (s *Stats) add(status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch status {
	case StatusMoved:
		s.EpisodesMoved++
	case StatusSkipped:
		s.EpisodesSkipped++
	case StatusTimeout:
		s.EpisodesTimedOut++
		s.Errors++
	case StatusError:
		s.Errors++
	}
}

// Snapshot returns a copy of the counters, safe to read without racing
// further add calls.
func (s *Stats) Snapshot() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		EpisodesMoved:    s.EpisodesMoved,
		EpisodesSkipped:  s.EpisodesSkipped,
		EpisodesTimedOut: s.EpisodesTimedOut,
		Errors:           s.Errors,
	}
}

// WorkerCount is the bounded intra-show episode-move pool size, chosen for
// cloud-storage thread limits (spec.md §4.5).
const WorkerCount = 2

// DefaultTimeout is the watchdog duration for a single move.
const DefaultTimeout = 60 * time.Second

// Executor performs the per-show move pipeline. Inter-show concurrency is 1
// (serial); an Executor must not be shared across concurrent ExecuteShow
// calls from different goroutines without external serialization, matching
// the spec's "processing is serial across shows" ordering guarantee.
type Executor struct {
	Timeout time.Duration
	Stats   *Stats
}

// New returns an Executor with the default watchdog timeout and a fresh
// Stats aggregator.
func New() *Executor {
	return &Executor{Timeout: DefaultTimeout, Stats: &Stats{}}
}

// ExecuteShow runs one show's plan to completion: per-season directory
// creation, bounded-pool episode moves, and empty-folder cleanup. It
// returns the per-move results in the order produced by workers (not
// input order) plus any error that aborted the show early (a
// season-directory creation failure, or the context's error when it is
// cancelled before a season starts; individual move failures never abort
// the show).
func (e *Executor) ExecuteShow(ctx context.Context, plan *planner.ShowPlan) ([]Result, error) {
	var allResults []Result

	bySeason := make(map[int][]planner.Move)
	var seasonOrder []int
	for _, m := range plan.Moves {
		if _, ok := bySeason[m.Season]; !ok {
			seasonOrder = append(seasonOrder, m.Season)
		}
		bySeason[m.Season] = append(bySeason[m.Season], m)
	}

	seasonFoldersRemoved := true
	for _, seasonNum := range seasonOrder {
		if ctx.Err() != nil {
			return allResults, ctx.Err()
		}
		moves := bySeason[seasonNum]
		destDir := filepath.Dir(moves[0].DestPath)
		err := os.MkdirAll(destDir, 0o755)
		log.LogCreateDir(destDir, err == nil, err)
		if err != nil {
			return allResults, fmt.Errorf("create season directory %s: %w", destDir, err)
		}

		results := e.runPool(ctx, moves)
		allResults = append(allResults, results...)

		removed := e.cleanupSeasonFolder(moves, results)
		if !removed {
			seasonFoldersRemoved = false
		}
	}

	e.cleanupShowFolder(plan, seasonFoldersRemoved)
	return allResults, nil
}

// runPool moves every item in moves across a bounded pool of WorkerCount
// goroutines, mirroring the teacher's channel-fed worker pool.
func (e *Executor) runPool(ctx context.Context, moves []planner.Move) []Result {
	workerCount := WorkerCount
	if len(moves) < workerCount {
		workerCount = len(moves)
	}
	if workerCount == 0 {
		return nil
	}

	workCh := make(chan planner.Move)
	resultCh := make(chan Result)
	var wg sync.WaitGroup

	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for mv := range workCh {
				resultCh <- e.moveOne(ctx, mv)
			}
		}()
	}

	go func() {
		defer close(workCh)
		for _, mv := range moves {
			if ctx.Err() != nil {
				return
			}
			select {
			case workCh <- mv:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	var results []Result
	for r := range resultCh {
		e.Stats.add(r.Status)
		results = append(results, r)
	}
	return results
}

// moveOne runs the per-move protocol (spec.md §4.5): destination pre-check,
// watchdog-bounded rename, status classification.
func (e *Executor) moveOne(ctx context.Context, mv planner.Move) Result {
	if _, err := os.Stat(mv.DestPath); err == nil {
		log.LogSkip(mv.SourcePath, mv.DestPath, "destination exists")
		return Result{Move: mv, Status: StatusSkipped, Reason: "destination exists"}
	}

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	done := make(chan error, 1)
	go func() {
		done <- os.Rename(mv.SourcePath, mv.DestPath)
	}()

	select {
	case err := <-done:
		log.LogMove(mv.SourcePath, mv.DestPath, err == nil, err)
		if err != nil {
			return Result{Move: mv, Status: StatusError, Reason: err.Error()}
		}
		result := Result{Move: mv, Status: StatusMoved}
		result.VideoCodec, result.AudioCodec = probeCodecs(ctx, mv.DestPath)
		return result
	case <-time.After(timeout):
		log.LogMove(mv.SourcePath, mv.DestPath, false, fmt.Errorf("move timed out"))
		return Result{Move: mv, Status: StatusTimeout, Reason: "move timed out"}
	case <-ctx.Done():
		return Result{Move: mv, Status: StatusError, Reason: ctx.Err().Error()}
	}
}

// ErrCancelled is the error Run records for each show it does not start
// because the job's context was already cancelled. A cancellation noticed at
// a season boundary inside ExecuteShow is reported as the context's own
// error instead.
var ErrCancelled = errors.New("executor: job cancelled")

// probeCodecs runs ffprobe against a just-moved file and extracts its
// primary video/audio codec names, the way the teacher's
// internal/provider/ffprobe.Provider does for its own technical-metadata
// fields. A probe error (missing ffprobe binary, unreadable container) is
// swallowed -- this enrichment is cosmetic, never load-bearing.
func probeCodecs(ctx context.Context, path string) (video, audio string) {
	data, err := ffprobe.ProbeURL(ctx, path)
	if err != nil || data == nil {
		return "", ""
	}
	if vs := data.FirstVideoStream(); vs != nil {
		video = vs.CodecName
	}
	if as := data.FirstAudioStream(); as != nil {
		audio = as.CodecName
	}
	return video, audio
}
