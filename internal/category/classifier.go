// Package category implements the rule-based category classifier (spec.md
// §4.6): a declaration-ordered rule list matched against resolved catalog
// metadata.
package category

import (
	"strconv"
	"strings"

	"github.com/sorttv/showsort/internal/media"
)

// Rule is one entry in the configured rules map. A Rule with every field
// empty is a fallback rule, used only when no conditioned rule matches.
type Rule struct {
	Name          string `yaml:"name"`
	GenreIDs      string `yaml:"genre_ids"`
	OriginCountry string `yaml:"origin_country"`
	OriginalLang  string `yaml:"original_language"`
	ReleaseYear   string `yaml:"release_year"`
}

func (r Rule) isFallback() bool {
	return r.GenreIDs == "" && r.OriginCountry == "" && r.OriginalLang == "" && r.ReleaseYear == ""
}

// Classify evaluates rules in order against meta and returns the name of the
// first matching rule. If no conditioned rule matches, the first fallback
// rule's name is returned. If there is no fallback either, Classify returns
// "".
func Classify(rules []Rule, meta *media.CatalogMetadata) string {
	var fallback *Rule
	for i := range rules {
		r := rules[i]
		if r.isFallback() {
			if fallback == nil {
				fallback = &r
			}
			continue
		}
		if matches(r, meta) {
			return r.Name
		}
	}
	if fallback != nil {
		return fallback.Name
	}
	return ""
}

func matches(r Rule, meta *media.CatalogMetadata) bool {
	if r.OriginCountry != "" && !matchStringListAny(r.OriginCountry, meta.OriginCountry) {
		return false
	}
	if r.OriginalLang != "" && !matchStringList(r.OriginalLang, meta.OriginalLang) {
		return false
	}
	if r.ReleaseYear != "" && !matchIntList(r.ReleaseYear, releaseYear(meta)) {
		return false
	}
	if r.GenreIDs != "" && !matchGenreIDs(r.GenreIDs, meta.GenreIDs) {
		return false
	}
	return true
}

func releaseYear(meta *media.CatalogMetadata) int {
	if meta.FirstAirYear != 0 {
		return meta.FirstAirYear
	}
	return 0
}

// matchStringList evaluates a comma-separated include/exclude token list
// against a single uppercased value (spec.md §4.6: origin_country and
// original_language compare uppercased codes).
func matchStringList(condition string, value string) bool {
	value = strings.ToUpper(strings.TrimSpace(value))
	includes, excludes := splitTokens(condition)

	for _, tok := range excludes {
		if strings.ToUpper(tok) == value {
			return false
		}
	}
	if len(includes) == 0 {
		return true
	}
	for _, tok := range includes {
		if strings.ToUpper(tok) == value {
			return true
		}
	}
	return false
}

// matchStringListAny is matchStringList generalized to a multi-valued field
// (origin_country can list more than one production country): the rule
// passes if any value in values satisfies the include/exclude token list.
func matchStringListAny(condition string, values []string) bool {
	includes, excludes := splitTokens(condition)

	for _, v := range values {
		v = strings.ToUpper(strings.TrimSpace(v))
		for _, tok := range excludes {
			if strings.ToUpper(tok) == v {
				return false
			}
		}
	}
	if len(includes) == 0 {
		return true
	}
	for _, v := range values {
		v = strings.ToUpper(strings.TrimSpace(v))
		for _, tok := range includes {
			if strings.ToUpper(tok) == v {
				return true
			}
		}
	}
	return false
}

// matchIntList evaluates a comma-separated list of integers or `X-Y` ranges,
// with `!` inversion, against value.
func matchIntList(condition string, value int) bool {
	includes, excludes := splitTokens(condition)

	for _, tok := range excludes {
		if tokenContains(tok, value) {
			return false
		}
	}
	if len(includes) == 0 {
		return true
	}
	for _, tok := range includes {
		if tokenContains(tok, value) {
			return true
		}
	}
	return false
}

// matchGenreIDs evaluates a comma-separated list of stringified genre ids
// against meta's genre id slice (spec.md §4.6: "genre_ids compares
// stringified integers").
func matchGenreIDs(condition string, genreIDs []int) bool {
	includes, excludes := splitTokens(condition)
	have := make(map[string]bool, len(genreIDs))
	for _, g := range genreIDs {
		have[strconv.Itoa(g)] = true
	}

	for _, tok := range excludes {
		if have[tok] {
			return false
		}
	}
	if len(includes) == 0 {
		return true
	}
	for _, tok := range includes {
		if have[tok] {
			return true
		}
	}
	return false
}

// splitTokens splits a comma-separated condition into include and exclude
// (`!`-prefixed) token lists, trimming whitespace from each.
func splitTokens(condition string) (includes, excludes []string) {
	for _, raw := range strings.Split(condition, ",") {
		tok := strings.TrimSpace(raw)
		if tok == "" {
			continue
		}
		if strings.HasPrefix(tok, "!") {
			excludes = append(excludes, strings.TrimPrefix(tok, "!"))
		} else {
			includes = append(includes, tok)
		}
	}
	return includes, excludes
}

// tokenContains reports whether value falls within tok, which is either a
// bare integer or an inclusive `X-Y` range.
func tokenContains(tok string, value int) bool {
	if lo, hi, ok := parseRange(tok); ok {
		return value >= lo && value <= hi
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return false
	}
	return n == value
}

func parseRange(tok string) (lo, hi int, ok bool) {
	parts := strings.SplitN(tok, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	lo, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	hi, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return lo, hi, true
}
