package pattern

import (
	"fmt"
	"strings"
)

const illegalFilenameChars = `<>"/\|?*`

// SanitizeFilenameComponent strips characters illegal on common filesystems
// and substitutes a full-width colon for ':' (spec.md §6). It never drops a
// colon outright, matching the output-layout example `S01E01` names that may
// carry a colon in an episode title.
func SanitizeFilenameComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == ':':
			b.WriteRune('：')
		case strings.ContainsRune(illegalFilenameChars, r):
			// drop
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// GenerateFilename builds the canonical "<Show> - S<NN>E<NN>[-E<NN>] - <Title>.<ext>"
// name for an episode. title may be empty, in which case the " - <Title>"
// segment is omitted entirely (spec.md §4.2).
func GenerateFilename(show string, season, episode, endEpisode int, title, ext string) string {
	var b strings.Builder
	b.WriteString(show)
	b.WriteString(fmt.Sprintf(" - S%02dE%02d", season, episode))
	if endEpisode > episode {
		b.WriteString(fmt.Sprintf("-E%02d", endEpisode))
	}
	if strings.TrimSpace(title) != "" {
		b.WriteString(" - ")
		b.WriteString(title)
	}
	b.WriteString(ext)
	return SanitizeFilenameComponent(b.String())
}
