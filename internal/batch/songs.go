// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// utf8BOM is stripped from the first line; some editors prepend it.
const utf8BOM = "\ufeff"

// ReadSongs loads the song list at path: one title per line, whitespace
// trimmed, blank lines dropped, file order kept.
func ReadSongs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening song list: %w", err)
	}
	defer f.Close()

	var songs []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	first := true
	for sc.Scan() {
		line := sc.Text()
		if first {
			line = strings.TrimPrefix(line, utf8BOM)
			first = false
		}
		if title := strings.TrimSpace(line); title != "" {
			songs = append(songs, title)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading song list %s: %w", path, err)
	}
	return songs, nil
}
