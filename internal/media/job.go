package media

import "time"

// JobStatus is the lifecycle stage of an organize job. Transitions are
// pending -> running -> {completed, failed, cancelled}; terminal states
// forbid further transitions (§4.5 "State machine per job").
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
	JobCancelled JobStatus = "cancelled"
)

// Terminal reports whether s is a terminal status that forbids further
// transitions.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobCompleted, JobFailed, JobCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	if s.Terminal() {
		return false
	}
	switch s {
	case JobPending:
		return next == JobRunning || next == JobCancelled
	case JobRunning:
		return next == JobCompleted || next == JobFailed || next == JobCancelled
	default:
		return false
	}
}

// SelectableEpisode pairs a planned Episode with a selection flag. The
// control surface's PUT .../select endpoints toggle job.EpisodeSelection
// records, not this type.
type SelectableEpisode struct {
	Episode  Episode `json:"episode"`
	Selected bool    `json:"selected"`
}

// ProcessedSeason is a season within a processed show's preview tree.
type ProcessedSeason struct {
	Number   int                 `json:"number"`
	Selected bool                `json:"selected"`
	Episodes []SelectableEpisode `json:"episodes"`
}

// ProcessedShow is one resolved show within a job's preview/result tree.
type ProcessedShow struct {
	Name       string            `json:"name"`
	Category   string            `json:"category,omitempty"`
	TMDBID     int               `json:"tmdb_id,omitempty"`
	Year       int               `json:"year,omitempty"`
	FolderType string            `json:"folder_type"`
	Seasons    []ProcessedSeason `json:"seasons"`
	Selected   bool              `json:"selected"`
}

// UnprocessedShow records a show the pipeline declined to organize along
// with the reason (§7 error handling table).
type UnprocessedShow struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Job is the external collaborator contract described in spec.md §3 "Job":
// identity, status, I/O directories, statistics, the processed/unprocessed
// show trees, and timestamps. The key/value job store in internal/job
// persists its own job.Job record, not this type.
type Job struct {
	ID               string            `json:"id"`
	Status           JobStatus         `json:"status"`
	InputDir         string            `json:"input_dir"`
	OutputDir        string            `json:"output_dir"`
	Stats            map[string]int    `json:"stats"`
	ProcessedShows   []ProcessedShow   `json:"processed_shows"`
	UnprocessedShows []UnprocessedShow `json:"unprocessed_shows"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	Error            string            `json:"error,omitempty"`
}

// NewJob constructs a pending job for the given directories.
func NewJob(id, inputDir, outputDir string) *Job {
	now := time.Now()
	return &Job{
		ID:        id,
		Status:    JobPending,
		InputDir:  inputDir,
		OutputDir: outputDir,
		Stats:     map[string]int{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Transition moves the job to next, returning false (and leaving the job
// unchanged) when the transition is illegal.
func (j *Job) Transition(next JobStatus) bool {
	if !j.Status.CanTransitionTo(next) {
		return false
	}
	j.Status = next
	j.UpdatedAt = time.Now()
	return true
}
