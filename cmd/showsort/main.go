// Command showsort reorganizes a directory of unsorted TV show folders into
// an Emby/Plex-style library (spec.md §1).
package main

import "github.com/sorttv/showsort/internal/cmd"

func main() {
	cmd.Execute()
}
