package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sorttv/showsort/internal/media"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestScanDirectFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Show.S01E01.mkv"))
	writeFile(t, filepath.Join(dir, "Show.S01E02.mkv"))
	writeFile(t, filepath.Join(dir, "readme.txt"))

	s, err := Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	if s.Type != media.DirectFiles {
		t.Errorf("got type %v, want DirectFiles", s.Type)
	}
	if len(s.MediaFiles) != 2 {
		t.Errorf("got %d media files, want 2", len(s.MediaFiles))
	}
}

func TestScanSeasonSubfolders(t *testing.T) {
	dir := t.TempDir()
	s1 := filepath.Join(dir, "Season 01")
	s2 := filepath.Join(dir, "Season 02")
	if err := os.Mkdir(s1, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(s2, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(s1, "Show.S01E01.mkv"))
	writeFile(t, filepath.Join(s2, "Show.S02E01.mkv"))

	s, err := Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	if s.Type != media.SeasonSubfolders {
		t.Errorf("got type %v, want SeasonSubfolders", s.Type)
	}
	if len(s.Subdirs) != 2 {
		t.Errorf("got %d subdirs, want 2", len(s.Subdirs))
	}
	if s.FirstFile == "" {
		t.Error("expected a first file discovered via depth-first descent")
	}
}

func TestScanDegenerateEmptySubdirFallsBackToDirectFiles(t *testing.T) {
	dir := t.TempDir()
	extras := filepath.Join(dir, "extras")
	if err := os.Mkdir(extras, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(extras, "poster.jpg"))

	s, err := Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	if s.Type != media.DirectFiles {
		t.Errorf("got type %v, want DirectFiles for a subdir with no media files", s.Type)
	}
}

func TestScanCachesResult(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Show.S01E01.mkv"))

	first, err := Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "Show.S01E02.mkv"))
	second, err := Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(second.MediaFiles) != len(first.MediaFiles) {
		t.Error("expected cached structure to be returned unchanged despite new file on disk")
	}

	Invalidate(dir)
	third, err := Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(third.MediaFiles) != 2 {
		t.Errorf("after Invalidate, got %d media files, want 2", len(third.MediaFiles))
	}
}

func TestScanNonexistentReturnsEmptyStructure(t *testing.T) {
	s, err := Scan(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Fatal("expected an error for a nonexistent directory")
	}
	if s == nil || len(s.MediaFiles) != 0 || len(s.Subdirs) != 0 {
		t.Errorf("expected an empty FolderStructure, got %+v", s)
	}
}
