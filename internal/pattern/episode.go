package pattern

import (
	"regexp"
	"strconv"
)

// EpisodeMatch is the result of ExtractEpisode: a season, a start episode
// number, and (for multi-episode files) an end number strictly greater than
// Start in the same season. End is 0 for single-episode files.
type EpisodeMatch struct {
	Season int
	Start  int
	End    int
}

var (
	protectYearAfterDigitsRe = regexp.MustCompile(`\d+ (19|20)\d{2}`)
	protectEpisodeThenStrayRe = regexp.MustCompile(`(?i)[SE]\d+ \d+`)
	digitSpaceRe              = regexp.MustCompile(`(\d) (\d)`)

	// Multi-episode patterns, tried in order; first match wins.
	multiRangeSxESxERe  = regexp.MustCompile(`(?i)S(\d+)E(?:P)?(\d+)\s*-\s*S(\d+)E(?:P)?(\d+)`)
	multiRangeSEdashERe = regexp.MustCompile(`(?i)S(\d+)E(\d+)\s*-\s*E(\d+)`)
	multiRangeXxXRe     = regexp.MustCompile(`(?i)(\d+)x(\d+)\s*-\s*(\d+)x(\d+)`)
	multiConcatSERe     = regexp.MustCompile(`(?i)S(\d+)E(?:P)?(\d+)E(?:P)?(\d+)`)
	multiConcatERe      = regexp.MustCompile(`(?i)E(\d+)E(\d+)`)

	// Single-episode patterns, tried in order; first match wins.
	singleSERe       = regexp.MustCompile(`(?i)S(\d+)E(?:P)?(\d+)`)
	singleSDotERe    = regexp.MustCompile(`(?i)S(\d+)\.E(\d+)`)
	singleXRe        = regexp.MustCompile(`(?i)(\d+)x(\d+)`)
	singleChineseJiRe = regexp.MustCompile(`第?([0-9〇零一二三四五六七八九十壹贰叁肆伍陆柒捌玖拾两]+)集`)
	singleEPRe       = regexp.MustCompile(`(?i)EP(\d+)`)
	singleERe        = regexp.MustCompile(`(?i)E(?:pisode)?(\d+)`)
	singleDashRe     = regexp.MustCompile(`(\d+)-(\d+)`)
	sMarkerNearRe    = regexp.MustCompile(`(?i)S(EASON)?`)

	codecBeforeRe  = regexp.MustCompile(`(?i)[Hx]$`)
	codecAfterRe   = regexp.MustCompile(`(?i)^(\.x|\[h|\]|\.x26[45])`)
	codecWindowRe  = regexp.MustCompile(`(?i)[hx]26[45]`)

	fallbackDigitsRe = regexp.MustCompile(`\d{1,3}`)
)

var resolutionValues = map[int]bool{1080: true, 720: true, 480: true, 360: true, 240: true, 2160: true, 1440: true}

// ExtractEpisode extracts season/episode (or episode range) information from
// a filename, per spec.md §4.2. position is the file's 1-based position
// within its directory, used as the last-resort fallback episode number.
// seasonHint is the season already known for this file's context (e.g. from
// the enclosing season folder or ExtractSeason on the folder name).
func ExtractEpisode(filename string, position int, seasonHint int) EpisodeMatch {
	normalized := Normalize(filename, false)
	collapsed := collapseDigitSpaces(normalized)

	if m := multiRangeSxESxERe.FindStringSubmatch(collapsed); m != nil {
		s1, e1, s2, e2 := atoi(m[1]), atoi(m[2]), atoi(m[3]), atoi(m[4])
		if s1 == s2 && e2 > e1 {
			return EpisodeMatch{Season: s1, Start: e1, End: e2}
		}
	}
	if m := multiRangeSEdashERe.FindStringSubmatch(collapsed); m != nil {
		season, start, end := atoi(m[1]), atoi(m[2]), atoi(m[3])
		if end > start {
			return EpisodeMatch{Season: season, Start: start, End: end}
		}
	}
	if m := multiRangeXxXRe.FindStringSubmatch(collapsed); m != nil {
		s1, e1, s2, e2 := atoi(m[1]), atoi(m[2]), atoi(m[3]), atoi(m[4])
		if s1 == s2 && e2 > e1 {
			return EpisodeMatch{Season: s1, Start: e1, End: e2}
		}
	}
	if m := multiConcatSERe.FindStringSubmatch(collapsed); m != nil {
		season, start, end := atoi(m[1]), atoi(m[2]), atoi(m[3])
		if end > start {
			return EpisodeMatch{Season: season, Start: start, End: end}
		}
	}
	if m := multiConcatERe.FindStringSubmatch(collapsed); m != nil {
		start, end := atoi(m[1]), atoi(m[2])
		if end > start {
			return EpisodeMatch{Season: 1, Start: start, End: end}
		}
	}

	if m := singleSERe.FindStringSubmatch(collapsed); m != nil {
		return EpisodeMatch{Season: atoi(m[1]), Start: atoi(m[2])}
	}
	if m := singleSDotERe.FindStringSubmatch(collapsed); m != nil {
		return EpisodeMatch{Season: atoi(m[1]), Start: atoi(m[2])}
	}
	if m := singleXRe.FindStringSubmatch(collapsed); m != nil {
		return EpisodeMatch{Season: atoi(m[1]), Start: atoi(m[2])}
	}
	if m := singleChineseJiRe.FindStringSubmatch(collapsed); m != nil {
		if n, ok := ParseChineseNumeral(m[1]); ok {
			return EpisodeMatch{Season: seasonHint, Start: n}
		}
	}
	if m := singleEPRe.FindStringSubmatch(collapsed); m != nil {
		return EpisodeMatch{Season: seasonHint, Start: atoi(m[1])}
	}
	if m := singleERe.FindStringSubmatch(collapsed); m != nil {
		return EpisodeMatch{Season: seasonHint, Start: atoi(m[1])}
	}
	if loc := singleDashRe.FindStringSubmatchIndex(collapsed); loc != nil {
		first := atoi(collapsed[loc[2]:loc[3]])
		second := atoi(collapsed[loc[4]:loc[5]])
		prefixStart := loc[0] - 10
		if prefixStart < 0 {
			prefixStart = 0
		}
		if sMarkerNearRe.MatchString(collapsed[prefixStart:loc[0]]) {
			return EpisodeMatch{Season: first, Start: second}
		}
		return EpisodeMatch{Season: seasonHint, Start: second}
	}

	return fallbackScan(collapsed, position, seasonHint)
}

// collapseDigitSpaces merges "<digit> <digit>" into "<digits>" while
// protecting year-after-digits and episode-then-stray-number contexts from
// being merged (spec.md §4.2 step 2).
func collapseDigitSpaces(s string) string {
	type span struct{ start, end int; text string }
	var protect []span
	for _, loc := range protectYearAfterDigitsRe.FindAllStringIndex(s, -1) {
		protect = append(protect, span{loc[0], loc[1], s[loc[0]:loc[1]]})
	}
	for _, loc := range protectEpisodeThenStrayRe.FindAllStringIndex(s, -1) {
		protect = append(protect, span{loc[0], loc[1], s[loc[0]:loc[1]]})
	}
	if len(protect) == 0 {
		return digitSpaceRe.ReplaceAllString(s, "$1$2")
	}

	const sentinel = "\x00"
	placeholder := make([]byte, 0, len(s))
	last := 0
	var restored []string
	for _, p := range protect {
		if p.start < last {
			continue
		}
		placeholder = append(placeholder, s[last:p.start]...)
		placeholder = append(placeholder, sentinel...)
		restored = append(restored, p.text)
		last = p.end
	}
	placeholder = append(placeholder, s[last:]...)

	collapsed := digitSpaceRe.ReplaceAllString(string(placeholder), "$1$2")

	for _, r := range restored {
		collapsed = replaceFirst(collapsed, sentinel, r)
	}
	return collapsed
}

func replaceFirst(s, old, new string) string {
	idx := indexOf(s, old)
	if idx == -1 {
		return s
	}
	return s[:idx] + new + s[idx+len(old):]
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

// fallbackScan implements spec.md §4.2 step 5: scan for any 1-3 digit run,
// reject codec/resolution/year context, accept only 1-300, and prefer the
// latest-positioned survivor (ties broken by smaller value).
func fallbackScan(text string, position int, seasonHint int) EpisodeMatch {
	explicitSeason, hasExplicit := 0, false
	if m := seasonSEre.FindStringSubmatchIndex(text); m != nil {
		if n, ok := acceptSeasonNumber(text, m); ok {
			explicitSeason, hasExplicit = n, true
		}
	}

	type candidate struct {
		value    int
		position int
	}
	var best *candidate

	for _, loc := range fallbackDigitsRe.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		capture := text[start:end]
		n, err := strconv.Atoi(capture)
		if err != nil {
			continue
		}

		before := ""
		if start > 0 {
			before = text[:start]
		}
		after := text[end:]
		if codecBeforeRe.MatchString(before) || codecAfterRe.MatchString(after) {
			continue
		}
		winLo := start - 5
		if winLo < 0 {
			winLo = 0
		}
		winHi := end + 5
		if winHi > len(text) {
			winHi = len(text)
		}
		if codecWindowRe.MatchString(text[winLo:winHi]) {
			continue
		}
		if resolutionValues[n] {
			continue
		}
		if n >= 1900 && n <= 2099 {
			continue
		}
		if n < 1 || n > 300 {
			continue
		}
		if hasExplicit && n == explicitSeason && explicitSeason != 1 {
			continue
		}

		if best == nil || start > best.position || (start == best.position && n < best.value) {
			best = &candidate{value: n, position: start}
		}
	}

	if best == nil {
		return EpisodeMatch{Season: 1, Start: position}
	}
	season := seasonHint
	if hasExplicit {
		season = explicitSeason
	}
	return EpisodeMatch{Season: season, Start: best.value}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
