package catalog

import "strings"

// normalizeForMatch lowercases s and folds '.', '_', '-' to spaces so
// "one.piece" and "One Piece" compare equal (spec.md §4.4 "name-in-folder
// check").
func normalizeForMatch(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer(".", " ", "_", " ", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// nameInFolder reports whether name, normalized, is a substring of folder,
// normalized.
func nameInFolder(name, folder string) bool {
	name = normalizeForMatch(name)
	folder = normalizeForMatch(folder)
	if name == "" || folder == "" {
		return false
	}
	return strings.Contains(folder, name)
}

// anyNameInFolder reports whether any of names matches folderName per
// nameInFolder.
func anyNameInFolder(names []string, folderName string) bool {
	for _, n := range names {
		if n != "" && nameInFolder(n, folderName) {
			return true
		}
	}
	return false
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// yearsClose reports whether two known years are within 1 of each other.
// Either year being unknown (nil) is treated as "not disqualifying".
func yearsClose(a, b *int) bool {
	if a == nil || b == nil {
		return true
	}
	return absInt(*a-*b) <= 1
}
