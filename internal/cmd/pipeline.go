package cmd

import (
	"net/http"

	"github.com/Digital-Shane/omdb"
	tvdbapi "github.com/dashotv/tvdb"
	tmdb "github.com/ryanbradynd05/go-tmdb"

	"github.com/sorttv/showsort/internal/catalog"
	"github.com/sorttv/showsort/internal/config"
	"github.com/sorttv/showsort/internal/extractor"
	"github.com/sorttv/showsort/internal/job"
	"github.com/sorttv/showsort/internal/kvcache"
	"github.com/sorttv/showsort/internal/organizer"
)

const defaultMaxPages = 5

// buildOrganizer wires the extractor and catalog resolver from cfg into a
// ready-to-run organizer.Organizer, grounded on the teacher's
// NewTMDBProvider/omdb/tvdb provider construction (internal/provider/*.go).
func buildOrganizer(cfg *config.Config) (*organizer.Organizer, error) {
	tmdbClient := tmdb.Init(tmdb.Config{APIKey: cfg.TMDB.APIKey})

	var tvdbClient catalog.TVDBClient
	if cfg.TVDB.APIKey != "" {
		c, err := tvdbapi.Login(cfg.TVDB.APIKey)
		if err == nil {
			tvdbClient = c
		}
	}

	var omdbClient catalog.OMDbClient
	if cfg.OMDb.APIKey != "" {
		omdbClient = omdb.NewClient(cfg.OMDb.APIKey, http.DefaultClient)
	}

	resolver := catalog.NewResolver(tmdbClient, tvdbClient, omdbClient, cfg.TMDB.Languages, cfg.TMDB.RateLimit, defaultMaxPages)

	ex := extractor.New(extractor.Config{
		APIKey:        cfg.LLM.APIKey,
		BaseURL:       cfg.LLM.BaseURL,
		Model:         cfg.LLM.Model,
		BatchSize:     cfg.LLM.BatchSize,
		RatePerSecond: cfg.LLM.RateLimit,
	}, nil)

	return organizer.New(ex, resolver, cfg.Category), nil
}

// buildJobStore picks Redis when cfg.Redis.Addr is set, otherwise an
// in-process Memory cache (spec.md §3 "Job ... TTL-scoped in the key/value
// store").
func buildJobStore(cfg *config.Config) *job.Store {
	if cfg.Redis.Addr != "" {
		return job.NewStore(job.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB))
	}
	return job.NewStore(kvcache.NewMemory())
}
