package catalog

import (
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sorttv/showsort/internal/media"
)

// resultCache is the process-wide cache keyed by catalog id (preferred) or
// folder name, grounded on the teacher's internal/provider/tmdb.Provider use
// of patrickmn/go-cache (spec.md §4.4 "Caching"). A cache hit skips every
// resolution step.
type resultCache struct {
	c *cache.Cache
}

func newResultCache() *resultCache {
	return &resultCache{c: cache.New(24*time.Hour, time.Hour)}
}

func cacheKeyForID(id int) string {
	return "id:" + strconv.Itoa(id)
}

func cacheKeyForFolder(folderName string) string {
	return "folder:" + folderName
}

func (rc *resultCache) get(key string) (*media.CatalogMetadata, bool) {
	v, ok := rc.c.Get(key)
	if !ok {
		return nil, false
	}
	meta, ok := v.(*media.CatalogMetadata)
	return meta, ok
}

func (rc *resultCache) put(key string, meta *media.CatalogMetadata) {
	rc.c.Set(key, meta, cache.DefaultExpiration)
}
