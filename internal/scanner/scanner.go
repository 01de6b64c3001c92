// Package scanner implements the folder scanner: enumerating a show's
// immediate children, classifying the folder as direct-files or
// season-subfolders, and caching the resulting structure process-wide
// (spec.md §4.1).
package scanner

import (
	"os"
	"path/filepath"
	"sort"

	csmap "github.com/mhmtszr/concurrent-swiss-map"
	"github.com/sorttv/showsort/internal/media"
)

// globalCache is the process-wide FolderStructure cache keyed by absolute
// path, grounded on the teacher's MetadataEngine use of csmap for concurrent
// lookup (internal/core/metadata_engine.go) and generalized from a metadata
// cache to a folder-structure cache per spec.md §5's "process-global,
// mutex-protected map; unbounded" shared-state requirement.
var globalCache = csmap.Create[string, *media.FolderStructure]()

// Scan classifies the directory at path as DirectFiles or SeasonSubfolders
// and returns its immediate media files and subdirectories. Results are
// cached process-wide by absolute path; a second Scan of the same directory
// returns the cached structure without touching the filesystem again.
//
// On enumeration failure (path does not exist, is not readable, or is not a
// directory) Scan returns an empty FolderStructure and the underlying error;
// callers must treat this as "nothing found here", not a fatal condition
// (spec.md §4.1 failure semantics).
func Scan(path string) (*media.FolderStructure, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	if cached, ok := globalCache.Load(abs); ok {
		return cached, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		empty := &media.FolderStructure{Path: abs, Type: media.DirectFiles}
		globalCache.Store(abs, empty)
		return empty, err
	}

	structure := &media.FolderStructure{Path: abs}

	var mediaFiles []string
	var subdirs []string
	for _, entry := range entries {
		name := entry.Name()
		if name == "" || name[0] == '.' {
			continue
		}
		full := filepath.Join(path, name)
		if entry.IsDir() {
			subdirs = append(subdirs, full)
			continue
		}
		if media.IsMedia(name) {
			mediaFiles = append(mediaFiles, full)
		}
	}
	sort.Strings(mediaFiles)
	sort.Strings(subdirs)

	structure.MediaFiles = mediaFiles
	structure.Subdirs = subdirs

	if len(mediaFiles) == 0 && anySubdirHasMedia(subdirs) {
		structure.Type = media.SeasonSubfolders
	} else {
		structure.Type = media.DirectFiles
	}

	structure.FirstFile = firstFile(structure)

	globalCache.Store(abs, structure)
	return structure, nil
}

// Invalidate drops any cached FolderStructure for path, forcing the next
// Scan to re-read the filesystem. The pipeline itself never calls it, so
// structures cached before an execute run are not refreshed by that run.
func Invalidate(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	globalCache.Delete(abs)
}

// anySubdirHasMedia reports whether at least one of dirs directly contains a
// media file, the degenerate-case check spec.md §4.1 requires before
// classifying a folder SeasonSubfolders: an empty subdirectory or one
// holding only artwork (e.g. "extras/") must not trigger that branch.
func anySubdirHasMedia(dirs []string) bool {
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() && media.IsMedia(entry.Name()) {
				return true
			}
		}
	}
	return false
}

// firstFile returns the path of the first media file reachable from
// structure, searching its own MediaFiles before descending into Subdirs in
// sorted order (depth-first). Returns "" if no media file is found anywhere
// beneath the directory.
func firstFile(structure *media.FolderStructure) string {
	if len(structure.MediaFiles) > 0 {
		return structure.MediaFiles[0]
	}
	for _, dir := range structure.Subdirs {
		sub, err := Scan(dir)
		if err != nil {
			continue
		}
		if sub.FirstFile != "" {
			return sub.FirstFile
		}
	}
	return ""
}
