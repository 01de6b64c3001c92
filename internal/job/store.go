// Package job implements the Job model and its TTL-scoped store contract
// (spec.md §3 "Job"; SPEC_FULL.md §SUPPLEMENTED FEATURES). The store sits on
// the kvcache.Cache interface, backed by Redis or by the in-memory
// kvcache.Memory, with JSON serialization of the
// Job record the way original_source/backend/app/services/cache_service.py
// backs its job dict with a generic key/value layer.
package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sorttv/showsort/internal/kvcache"
)

// Status is the external per-job state machine (spec.md §4.5, "State
// machine per job").
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether s forbids further transitions.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// EpisodeSelection is the per-episode commit-phase filter flag (spec.md §6
// Selection semantics). VideoCodec/AudioCodec are filled in only after a
// successful execute, from the executor's best-effort ffprobe pass.
type EpisodeSelection struct {
	Number     int    `json:"number"`
	EndNumber  int    `json:"end_number,omitempty"`
	Selected   bool   `json:"selected"`
	VideoCodec string `json:"video_codec,omitempty"`
	AudioCodec string `json:"audio_codec,omitempty"`
}

// SeasonRecord is one season within a processed show, as exposed to the
// control surface.
type SeasonRecord struct {
	Number   int                `json:"number"`
	Selected bool               `json:"selected"`
	Episodes []EpisodeSelection `json:"episodes"`
}

// ShowRecord is one show in the job's processed-show tree.
type ShowRecord struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Category string         `json:"category"`
	Selected bool           `json:"selected"`
	Seasons  []SeasonRecord `json:"seasons"`
}

// UnprocessedShow records a show the resolver or extractor could not place,
// with the reason it was skipped (spec.md §7).
type UnprocessedShow struct {
	FolderName string `json:"folder_name"`
	Reason     string `json:"reason"`
}

// Job is the external collaborator record described in spec.md §3.
type Job struct {
	ID               string             `json:"id"`
	Status           Status             `json:"status"`
	InputDir         string             `json:"input_dir"`
	OutputDir        string             `json:"output_dir"`
	Stats            map[string]int     `json:"stats"`
	ProcessedShows   []ShowRecord       `json:"processed_shows"`
	UnprocessedShows []UnprocessedShow  `json:"unprocessed_shows"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
	Error            string             `json:"error,omitempty"`
}

// TTL is how long a job record survives in the store after its last write.
const TTL = 24 * time.Hour

// Store persists Job records through a kvcache.Cache, JSON-encoding each
// record under a "job:<id>" key.
type Store struct {
	cache kvcache.Cache
}

// NewStore wraps an arbitrary kvcache.Cache as a job Store.
func NewStore(cache kvcache.Cache) *Store {
	return &Store{cache: cache}
}

func jobKey(id string) string { return "job:" + id }

// Create initializes and persists a new pending job.
func (s *Store) Create(ctx context.Context, id, inputDir, outputDir string) (*Job, error) {
	now := time.Now()
	j := &Job{
		ID:        id,
		Status:    StatusPending,
		InputDir:  inputDir,
		OutputDir: outputDir,
		Stats:     map[string]int{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	return j, s.save(ctx, j)
}

// Get loads a job by id.
func (s *Store) Get(ctx context.Context, id string) (*Job, error) {
	raw, ok, err := s.cache.Get(ctx, jobKey(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("job %s not found", id)
	}
	var j Job
	if err := json.Unmarshal([]byte(raw), &j); err != nil {
		return nil, fmt.Errorf("job %s: decode: %w", id, err)
	}
	return &j, nil
}

// UpdateStatus transitions a job's status, rejecting transitions out of a
// terminal state.
func (s *Store) UpdateStatus(ctx context.Context, id string, status Status, errMsg string) error {
	j, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if j.Status.Terminal() {
		return fmt.Errorf("job %s: cannot transition out of terminal status %s", id, j.Status)
	}
	j.Status = status
	j.UpdatedAt = time.Now()
	if errMsg != "" {
		j.Error = errMsg
	}
	return s.save(ctx, j)
}

// BeginExecute transitions a job from completed (a finished dry-run, plan
// cached) to running, starting the commit phase. This is the one documented
// exception to "terminal states forbid further transitions" (spec.md §6:
// execute "requires prior status=completed"): the dry-run's completed state
// marks the planning phase done, not the job as a whole.
func (s *Store) BeginExecute(ctx context.Context, id string) (*Job, error) {
	j, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if j.Status != StatusCompleted {
		return nil, fmt.Errorf("job %s: execute requires status completed, got %s", id, j.Status)
	}
	j.Status = StatusRunning
	j.UpdatedAt = time.Now()
	if err := s.save(ctx, j); err != nil {
		return nil, err
	}
	return j, nil
}

// UpdateResult records dry-run/execute output on a job.
func (s *Store) UpdateResult(ctx context.Context, id string, stats map[string]int, processed []ShowRecord, unprocessed []UnprocessedShow, status Status) error {
	j, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	j.Stats = stats
	j.ProcessedShows = processed
	j.UnprocessedShows = unprocessed
	j.Status = status
	j.UpdatedAt = time.Now()
	return s.save(ctx, j)
}

// SetShowSelection toggles a show's selection flag.
func (s *Store) SetShowSelection(ctx context.Context, id, showID string, selected bool) error {
	j, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	for i := range j.ProcessedShows {
		if j.ProcessedShows[i].ID == showID {
			j.ProcessedShows[i].Selected = selected
			break
		}
	}
	j.UpdatedAt = time.Now()
	return s.save(ctx, j)
}

// SetShowCategory overrides a show's computed category.
func (s *Store) SetShowCategory(ctx context.Context, id, showID, category string) error {
	j, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	for i := range j.ProcessedShows {
		if j.ProcessedShows[i].ID == showID {
			j.ProcessedShows[i].Category = category
			break
		}
	}
	j.UpdatedAt = time.Now()
	return s.save(ctx, j)
}

func (s *Store) save(ctx context.Context, j *Job) error {
	data, err := json.Marshal(j)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, jobKey(j.ID), string(data), TTL)
}

// RedisCache adapts *redis.Client to kvcache.Cache.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache builds a kvcache.Cache backed by a Redis server at addr.
func NewRedisCache(addr, password string, db int) *RedisCache {
	return &RedisCache{client: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
