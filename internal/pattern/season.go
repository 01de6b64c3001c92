package pattern

import (
	"regexp"
	"strconv"
)

// Mode selects which extraction ruleset ExtractSeason applies: folder
// names and filenames tolerate different ambiguities.
type Mode int

const (
	ModeFolder Mode = iota
	ModeFile
)

var (
	episodeCountRe = regexp.MustCompile(`(全|共|总)?\d+集`)

	seasonSEre       = regexp.MustCompile(`(?i)S(?:eason)?\s*(\d{1,3})`)
	seasonDiZhiRe    = regexp.MustCompile(`第([0-9〇零一二三四五六七八九十壹贰叁肆伍陆柒捌玖拾两]+)季`)
	seasonBareJiRe   = regexp.MustCompile(`([0-9〇零一二三四五六七八九十壹贰叁肆伍陆柒捌玖拾两]+)季`)
	seasonDanyuanRe  = regexp.MustCompile(`(\d{1,3})单元`)
	seasonFallbackRe = regexp.MustCompile(`(?:^|[^\d])([1-9]\d?)(?:[^\d]|$)`)

	fourDigitYearAroundRe = regexp.MustCompile(`(19|20)\d{2}`)
)

// ExtractSeason extracts a season number from text. In ModeFolder, bare
// episode-count tokens like "全12集" are stripped first so they are never
// mistaken for a season marker (spec.md §4.2). The fallback is returned
// when no pattern matches; season 0 ("Specials") is a valid, returnable
// value from an explicit marker but never from the fallback path.
func ExtractSeason(text string, fallback int, mode Mode) int {
	work := text
	if mode == ModeFolder {
		work = episodeCountRe.ReplaceAllString(work, " ")
	}

	if m := seasonSEre.FindStringSubmatchIndex(work); m != nil {
		if n, ok := acceptSeasonNumber(work, m); ok {
			return n
		}
	}
	if m := seasonDiZhiRe.FindStringSubmatchIndex(work); m != nil {
		if n, ok := acceptChineseSeasonCapture(work, m); ok {
			return n
		}
	}
	if m := seasonBareJiRe.FindStringSubmatchIndex(work); m != nil {
		if n, ok := acceptChineseSeasonCapture(work, m); ok {
			return n
		}
	}
	if m := seasonDanyuanRe.FindStringSubmatchIndex(work); m != nil {
		if n, ok := acceptSeasonNumber(work, m); ok {
			return n
		}
	}
	if n, ok := seasonFallback(work); ok {
		return n
	}

	return fallback
}

// acceptSeasonNumber parses the numeric capture group at m[2]:m[3] in work,
// applying the year/overflow rejection rules common to every numeric
// (non-Chinese) season pattern.
func acceptSeasonNumber(work string, m []int) (int, bool) {
	capture := work[m[2]:m[3]]
	n, err := strconv.Atoi(capture)
	if err != nil {
		return 0, false
	}
	return validateSeasonNumber(n, work, m[2], m[3])
}

func acceptChineseSeasonCapture(work string, m []int) (int, bool) {
	capture := work[m[2]:m[3]]
	n, ok := ParseChineseNumeral(capture)
	if !ok {
		return 0, false
	}
	return validateSeasonNumber(n, work, m[2], m[3])
}

func validateSeasonNumber(n int, work string, start, end int) (int, bool) {
	if n > 100 {
		return 0, false
	}
	if n >= 1900 && n <= 2099 {
		lo := start - 4
		if lo < 0 {
			lo = 0
		}
		hi := end + 4
		if hi > len(work) {
			hi = len(work)
		}
		if fourDigitYearAroundRe.MatchString(work[lo:hi]) {
			return 0, false
		}
	}
	return n, true
}

// seasonFallback handles the bare "standalone 1-99, not abutting other
// digits" rule, plus its own year/overflow rejections (spec.md §4.2,
// bullet "fallback standalone 1-99").
func seasonFallback(work string) (int, bool) {
	m := seasonFallbackRe.FindStringSubmatchIndex(work)
	if m == nil {
		return 0, false
	}
	capture := work[m[2]:m[3]]
	n, err := strconv.Atoi(capture)
	if err != nil {
		return 0, false
	}
	if n > 100 {
		return 0, false
	}
	// Reject when the bare number is actually the tail of a 4-digit year:
	// check a wider window for an adjoining (19|20)dd run that absorbs it.
	lo := m[2] - 4
	if lo < 0 {
		lo = 0
	}
	hi := m[3] + 2
	if hi > len(work) {
		hi = len(work)
	}
	window := work[lo:hi]
	if fourDigitYearAroundRe.MatchString(window) && n >= 1900 && n <= 2099 {
		return 0, false
	}
	return n, true
}
