package pattern

import "strings"

// chineseDigits maps individual CJK numeral characters (simplified,
// traditional, and the formal/banking variants) to their decimal value.
var chineseDigits = map[rune]int{
	'零': 0, '〇': 0,
	'一': 1, '壹': 1,
	'二': 2, '贰': 2, '两': 2,
	'三': 3, '叁': 3,
	'四': 4, '肆': 4,
	'五': 5, '伍': 5,
	'六': 6, '陆': 6,
	'七': 7, '柒': 7,
	'八': 8, '捌': 8,
	'九': 9, '玖': 9,
}

var chineseTen = map[rune]bool{'十': true, '拾': true}

// ParseChineseNumeral converts a Chinese numeral string in the 0-99 range to
// its integer value, e.g. "十五" -> 15, "二十" -> 20, "二十五" -> 25, "三" -> 3.
// Returns false if s isn't a recognizable Chinese numeral.
func ParseChineseNumeral(s string) (int, bool) {
	runes := []rune(s)
	if len(runes) == 0 {
		return 0, false
	}

	// Pure Arabic numerals, e.g. "01" embedded in a Chinese pattern.
	if n, ok := parseArabic(s); ok {
		return n, true
	}

	tenIdx := -1
	for i, r := range runes {
		if chineseTen[r] {
			tenIdx = i
			break
		}
	}

	if tenIdx == -1 {
		// No "十": only a single digit character is accepted, e.g. "五" -> 5;
		// a longer run such as "二五" is rejected.
		if len(runes) == 1 {
			if v, ok := chineseDigits[runes[0]]; ok {
				return v, true
			}
		}
		return 0, false
	}

	tensPlace := 1
	if tenIdx > 0 {
		v, ok := chineseDigits[runes[tenIdx-1]]
		if !ok {
			return 0, false
		}
		tensPlace = v
	}

	ones := 0
	if tenIdx+1 < len(runes) {
		v, ok := chineseDigits[runes[tenIdx+1]]
		if !ok {
			return 0, false
		}
		ones = v
	}

	return tensPlace*10 + ones, true
}

func parseArabic(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
