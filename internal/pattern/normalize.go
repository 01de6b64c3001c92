// Package pattern implements the filename/folder pattern engine: metadata
// normalization, season and episode number extraction (with Chinese numeral
// support), and canonical filename generation (spec.md §4.2).
package pattern

import (
	"regexp"
	"strings"
)

// Normalization strips release-group metadata tokens so numeric extraction
// isn't confused by resolutions, codecs, source tags, and the like. The
// regexes below are grounded on the teacher's internal/provider/local and
// internal/config encodingTagsRe, generalized to the fuller token list
// spec.md §4.2 calls out.
var (
	resolutionRe = regexp.MustCompile(`(?i)\b(2160p|1080p|720p|480p)\b|\b([248]K)\b(?:[^a-zA-Z0-9]|$)`)

	videoCodecRe = regexp.MustCompile(`(?i)\b(H\.?26[456]|x26[45]|HEVC|AVC|AV1|VP9|VP8|VC-?1|MPEG-?[24]|ProRes|DNxH[DR]|Xvid|DivX)\b`)

	// audioCodecRe consumes the codec token plus an optional channel layout
	// attached directly to it (e.g. "DDP5.1") -- §4.2's "metadata
	// normalizer". Nothing after that is consumed: text following the codec,
	// up to a release-group bracket or the next quality token, stays in place.
	audioCodecRe = regexp.MustCompile(`(?i)\b(AAC|AC3|E-?AC-?3|DTS(?:-HD)?(?:MA)?|DDP?|TrueHD|Atmos|FLAC|MP3|Opus|Vorbis|PCM)(?:\d\.\d)?\b`)

	hdrRe = regexp.MustCompile(`(?i)\b(HDR10\+?|Dolby ?Vision|DV|HDR)\b`)

	sourceTagRe = regexp.MustCompile(`(?i)\b(WEB-?DL|WEBRip|BluRay|BDRip|DVDRip|HDTV|UHDTV|CAM|TS|TC|SCR|DVDScr|UHD|Remux)\b`)

	streamingTagRe = regexp.MustCompile(`(?i)\b(NF|DSNP|AMZN|HMAX|HULU|ATVP|HBO|MAX|PMTP|CR)\b`)

	audioTrackCountRe = regexp.MustCompile(`(?i)\b\d+Audios?\b`)

	frameRateRe = regexp.MustCompile(`(?i)\b\d+(fps|帧)\b`)

	fileSizeRe = regexp.MustCompile(`(?i)\b\d+(\.\d+)?\s?(GB|MB|TB|KB)\b`)

	// yearWithTokenRe matches a year only when immediately preceded by a
	// metadata token (a dot/space/dash separated run of letters), used in
	// preserve-years mode.
	yearWithTokenRe = regexp.MustCompile(`(?i)\b[A-Za-z][A-Za-z0-9]*[\.\s_-](19|20)\d{2}\b`)
	standaloneYearRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)

	multiSpaceRe = regexp.MustCompile(`\s+`)
)

// Normalize strips release-group metadata tokens from s, replacing every
// match with a single space. When preserveYears is true, only years glued to
// an explicit metadata token are stripped; when false, any standalone
// 1900-2099 token is stripped. Idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(s string, preserveYears bool) string {
	out := s
	out = resolutionRe.ReplaceAllString(out, " ")
	out = videoCodecRe.ReplaceAllString(out, " ")
	out = audioCodecRe.ReplaceAllString(out, " ")
	out = hdrRe.ReplaceAllString(out, " ")
	out = sourceTagRe.ReplaceAllString(out, " ")
	out = streamingTagRe.ReplaceAllString(out, " ")
	out = audioTrackCountRe.ReplaceAllString(out, " ")
	out = frameRateRe.ReplaceAllString(out, " ")
	out = fileSizeRe.ReplaceAllString(out, " ")

	if preserveYears {
		out = yearWithTokenRe.ReplaceAllStringFunc(out, func(m string) string {
			// Strip only the year portion, keep the preceding token.
			loc := standaloneYearRe.FindStringIndex(m)
			if loc == nil {
				return m
			}
			return m[:loc[0]] + " "
		})
	} else {
		out = standaloneYearRe.ReplaceAllString(out, " ")
	}

	out = multiSpaceRe.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}
