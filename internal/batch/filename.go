// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"path/filepath"
	"strings"
)

// fallbackBaseName is used when a title is made only of forbidden characters.
const fallbackBaseName = "untitled"

// forbiddenChars removes characters that are invalid in file names on at
// least one common filesystem.
var forbiddenChars = strings.NewReplacer(
	"<", "",
	">", "",
	":", "",
	"\"", "",
	"/", "",
	"\\", "",
	"|", "",
	"?", "",
	"*", "",
)

// SanitizeFileName strips <>:"/\|?* from name and trims surrounding whitespace.
func SanitizeFileName(name string) string {
	return strings.TrimSpace(forbiddenChars.Replace(name))
}

// OutputTemplate returns the yt-dlp output template for song inside dir.
// yt-dlp replaces %(ext)s with the extension of the extracted audio.
func OutputTemplate(dir, song string) string {
	base := SanitizeFileName(song)
	if base == "" {
		base = fallbackBaseName
	}
	name := base + ".%(ext)s"
	if dir == "" || dir == "." {
		return name
	}
	return filepath.Join(dir, name)
}
